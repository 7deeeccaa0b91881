package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	assert.NotEqual(t, ErrMissingDispatcher.Error(), ErrInvalidPorts.Error())
}

func TestErrMissingDispatcher_Message(t *testing.T) {
	assert.Contains(t, ErrMissingDispatcher.Error(), "dispatcher")
}

func TestErrInvalidPorts_Message(t *testing.T) {
	assert.Contains(t, ErrInvalidPorts.Error(), "invalid ports")
}
