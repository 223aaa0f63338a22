package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDisplayContextNonTerminal(t *testing.T) {
	d := NewDisplayContext(&bytes.Buffer{})
	assert.False(t, d.IsTTY)
	assert.Equal(t, DefaultTermWidth, d.TermWidth)
}

func TestAvailableWidth(t *testing.T) {
	d := &DisplayContext{TermWidth: 80}
	assert.Equal(t, 76, d.AvailableWidth(4))
	assert.Equal(t, 0, d.AvailableWidth(120))
}
