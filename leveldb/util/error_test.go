package util

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestGetErrorNo(t *testing.T) {
	assert.Equal(t, ErrOk, GetErrorNo(nil))
	assert.Equal(t, ErrUnknown, GetErrorNo(errors.New("plain")))

	err := NewLevelDbError(ErrCorruption, "bad entry at %d", 12)
	assert.Equal(t, ErrCorruption, GetErrorNo(err))
	assert.Contains(t, err.Error(), "bad entry at 12")
	assert.Contains(t, err.Error(), "corruption")

	wrapped := errors.Wrap(err, "reading memtable")
	assert.True(t, IsCorruption(wrapped))
	assert.False(t, IsAllocationFailed(wrapped))
}
