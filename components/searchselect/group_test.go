package searchselect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupKeepsOneOpen(t *testing.T) {
	a := New(Config{ID: "a"}, Props{Options: fruitOptions()})
	b := New(Config{ID: "b"}, Props{Options: fruitOptions()})
	group := NewGroup()
	group.Add(a, b)

	a.Open()
	a.Type("ch")
	assert.Same(t, a, group.Open())

	b.Open()
	assert.False(t, a.IsOpen())
	assert.Equal(t, "", a.Term())
	assert.Same(t, b, group.Open())

	group.ClickOutside(nil)
	assert.Nil(t, group.Open())
}

func TestGroupRemove(t *testing.T) {
	a := New(Config{ID: "a"}, Props{})
	b := New(Config{ID: "b"}, Props{})
	group := NewGroup()
	group.Add(a, b)
	group.Remove(a)

	a.Open()
	b.Open()
	assert.True(t, a.IsOpen())
	assert.True(t, b.IsOpen())
}
