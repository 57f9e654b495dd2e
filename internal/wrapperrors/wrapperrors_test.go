package wrapperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecline(t *testing.T) {
	err := Decline("shared pdb")
	assert.True(t, IsDecline(err))
	d, ok := AsDecline(err)
	assert.True(t, ok)
	assert.Equal(t, "shared pdb", d.Reason)
}

func TestDeclineWrapped(t *testing.T) {
	err := fmt.Errorf("resolving args: %w", Decline("tool too old"))
	assert.True(t, IsDecline(err))
}

func TestFatalUnwraps(t *testing.T) {
	inner := errors.New("disk full")
	err := Fatal("creating temp dir", inner)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "disk full")
}

func TestIsDeclineFalseForOtherErrors(t *testing.T) {
	assert.False(t, IsDecline(errors.New("boom")))
	assert.False(t, IsDecline(Fatal("x", nil)))
}
