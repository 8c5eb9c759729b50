package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigDefaults(t *testing.T) {
	c := newConfig()
	assert.Equal(t, "oxy-gpu", c.title)
	assert.Equal(t, 1280, c.width)
	assert.Equal(t, 720, c.height)
	assert.True(t, c.resizable)
	assert.True(t, c.closeOnEscape)
}

func TestNewConfigOptions(t *testing.T) {
	c := newConfig(
		WithTitle("compute"),
		WithWidth(0),
		WithHeight(480),
		WithResizable(false),
		WithCloseOnEscape(false),
	)
	assert.Equal(t, "compute", c.title)
	assert.Equal(t, 1, c.width)
	assert.Equal(t, 480, c.height)
	assert.False(t, c.resizable)
	assert.False(t, c.closeOnEscape)
}
