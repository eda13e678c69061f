package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tranmq/bida-club/internal/apperr"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(apperr.Validation("bad input", "name", "")))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(apperr.NotFound("Player", 42)))
	assert.Equal(t, apperr.KindDuplicate, apperr.KindOf(apperr.Duplicate("Player", "name", "Minh")))
	assert.Equal(t, apperr.KindBusinessRule, apperr.KindOf(apperr.BusinessRule("nope")))
	assert.Equal(t, apperr.KindNoPlayers, apperr.KindOf(apperr.NoPlayers()))
	assert.Equal(t, apperr.KindDatabase, apperr.KindOf(apperr.Database("query", errors.New("boom"))))
	assert.Equal(t, apperr.KindUnknown, apperr.KindOf(errors.New("plain error")))
	assert.Equal(t, apperr.KindUnknown, apperr.KindOf(nil))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", apperr.NotFound("Match", "abc"))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.False(t, apperr.Is(err, apperr.KindValidation))
}

func TestDatabaseUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := apperr.Database("create player", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "create player")
	assert.Contains(t, err.Error(), "disk full")
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Player not found with identifier: 42", apperr.NotFound("Player", 42).Error())
	assert.Equal(t, "Player with name 'Minh' already exists", apperr.Duplicate("Player", "name", "Minh").Error())
}
