package observer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubject_PublishInRegistrationOrder(t *testing.T) {
	var s Subject[int]
	var got []string
	s.Subscribe(func(v int) { got = append(got, "a") })
	s.Subscribe(func(v int) { got = append(got, "b") })
	s.Subscribe(func(v int) { got = append(got, "c") })

	s.Publish(1)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestSubject_Cancel(t *testing.T) {
	var s Subject[string]
	calls := 0
	cancel := s.Subscribe(func(string) { calls++ })
	s.Publish("x")
	cancel()
	cancel()
	s.Publish("y")

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, s.Len())
}

func TestSubject_CancelDuringPublish(t *testing.T) {
	var s Subject[int]
	var cancel func()
	calls := 0
	cancel = s.Subscribe(func(int) {
		calls++
		cancel()
	})
	s.Publish(1)
	s.Publish(2)
	assert.Equal(t, 1, calls)
}
