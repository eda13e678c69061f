package club

// ClubStore defines the interface for players and the payer rotation.
type ClubStore interface {
	CreatePlayer(name string) (*Player, error)
	FindPlayerByName(name string) (*Player, error)
	FindPlayerByID(id int64) (*Player, error)
	GetAllPlayers() ([]Player, error)
	DeletePlayer(id int64) (bool, error)

	// CurrentPayer returns the rotation pointer, or nil when no rotation has
	// been initialized yet.
	CurrentPayer() (*PayerInfo, error)
	// NextPayer returns the current payer, lazily initializing the rotation
	// with the first-registered player when unset.
	NextPayer() (*PayerInfo, error)
	// RotateToNext advances the pointer over the current player ordering.
	RotateToNext() (*PayerInfo, error)

	PayerOrder() []string
}
