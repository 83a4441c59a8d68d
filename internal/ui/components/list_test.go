package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCursor(t *testing.T) {
	c := NewCursor(10)
	assert.Equal(t, 10, c.PageSize)
	assert.Equal(t, 0, c.Index)
	assert.Equal(t, 0, c.Count())
	assert.Equal(t, 1, NewCursor(0).PageSize)
}

func TestCursorMovementScrolls(t *testing.T) {
	c := NewCursor(3)
	c.SetCount(5)

	c.Down()
	c.Down()
	assert.Equal(t, 2, c.Index)
	assert.Equal(t, 0, c.Offset)

	c.Down()
	assert.Equal(t, 3, c.Index)
	assert.Equal(t, 1, c.Offset)

	c.Down()
	c.Down()
	assert.Equal(t, 4, c.Index, "stops at last item")
	assert.Equal(t, 2, c.Offset)

	start, end := c.Visible()
	assert.Equal(t, 2, start)
	assert.Equal(t, 5, end)

	for i := 0; i < 10; i++ {
		c.Up()
	}
	assert.Equal(t, 0, c.Index)
	assert.Equal(t, 0, c.Offset)
}

func TestCursorSetCountClampsAfterRemoval(t *testing.T) {
	c := NewCursor(3)
	c.SetCount(5)
	c.Select(4)
	assert.Equal(t, 4, c.Index)

	c.SetCount(4)
	assert.Equal(t, 3, c.Index)
	assert.Equal(t, 1, c.Offset)

	c.SetCount(0)
	assert.Equal(t, 0, c.Index)
	assert.Equal(t, 0, c.Offset)
	start, end := c.Visible()
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}

func TestCursorSelectOutOfRangeIgnored(t *testing.T) {
	c := NewCursor(3)
	c.SetCount(2)
	c.Select(5)
	assert.Equal(t, 0, c.Index)
	c.Select(-1)
	assert.Equal(t, 0, c.Index)
}
