package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type block int

func (b block) Height() int { return int(b) }

func TestList_ScrollHeightNeverBelowClient(t *testing.T) {
	l := NewList(400)
	assert.Equal(t, 400, l.ScrollHeight())
	l.Append(block(100))
	assert.Equal(t, 400, l.ScrollHeight())
	l.Append(block(500))
	assert.Equal(t, 600, l.ScrollHeight())
}

func TestList_ScrollTopClamped(t *testing.T) {
	l := NewList(400)
	l.Append(block(1000))

	l.SetScrollTop(-10)
	assert.Equal(t, 0, l.ScrollTop())
	l.SetScrollTop(5000)
	assert.Equal(t, 600, l.ScrollTop())

	l.Append(block(50))
	l.ScrollToBottom()
	assert.Equal(t, 650, l.ScrollTop())
}

func TestList_PrependKeepsOrder(t *testing.T) {
	l := NewList(10)
	l.Append(block(3))
	l.Prepend(block(2))
	l.Prepend(block(1))
	assert.Equal(t, []Node{block(1), block(2), block(3)}, l.Nodes())
}

func TestList_Visible(t *testing.T) {
	l := NewList(10)
	for i := 0; i < 5; i++ {
		l.Append(block(5))
	}
	l.SetScrollTop(7)
	assert.Len(t, l.Visible(), 3)
}

func TestList_OnChange(t *testing.T) {
	l := NewList(10)
	calls := 0
	l.OnChange(func() {
		calls++
		_ = l.Len()
	})
	l.Append(block(1))
	l.ScrollToBottom()
	assert.Equal(t, 2, calls)
}

func TestList_Clear(t *testing.T) {
	l := NewList(10)
	l.Append(block(30))
	l.ScrollToBottom()
	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 0, l.ScrollTop())
	assert.Equal(t, 10, l.ScrollHeight())
}
