package ledger

// MatchLedger defines the interface for recording and reading match outcomes.
type MatchLedger interface {
	// CreateMatch persists the match, writes its stat rows and advances the
	// payer rotation, all in a single transaction. The payer is read from the
	// rotation pointer inside that transaction.
	CreateMatch(params CreateMatchParams) (*Match, error)
	DeleteMatch(id string) (bool, error)
	GetAllMatches() ([]MatchWithNames, error)
	GetMatchByID(id string) (*MatchWithNames, error)
	GetRecentMatches(limit int) ([]MatchWithNames, error)
	ExpensesByTimeframe(timeframe Timeframe) (*ExpenseData, error)
}
