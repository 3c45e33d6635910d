package chat

import (
	"context"
	"sync"
	"time"

	"github.com/hongjun500/chat-client/internal/protocol"
	"github.com/hongjun500/chat-client/internal/render"
	"github.com/hongjun500/chat-client/internal/viewport"
)

type testNode struct {
	id string
	h  int
}

func (n testNode) Height() int { return n.h }

// fixedRenderer 每条消息固定高度；type 为空时不可渲染
type fixedRenderer struct{ h int }

func (r fixedRenderer) Render(m *protocol.ChatMessage) (viewport.Node, error) {
	if m.Type == "" {
		return nil, render.ErrNotRenderable
	}
	return testNode{id: m.ID.String(), h: r.h}, nil
}

// recordingSender failOn 非空时只让该 event 的发送失败
type recordingSender struct {
	mu     sync.Mutex
	sent   []*protocol.Envelope
	err    error
	failOn protocol.EventTag
}

func (s *recordingSender) Send(env *protocol.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil && (s.failOn == "" || s.failOn == env.Event) {
		return s.err
	}
	s.sent = append(s.sent, env)
	return nil
}

func (s *recordingSender) envelopes() []*protocol.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*protocol.Envelope(nil), s.sent...)
}

type notice struct {
	anchor  Control
	message string
	d       time.Duration
}

type recordingNotifier struct {
	mu    sync.Mutex
	shown []notice
}

func (n *recordingNotifier) Show(anchor Control, message string, d time.Duration) {
	n.mu.Lock()
	n.shown = append(n.shown, notice{anchor, message, d})
	n.mu.Unlock()
}

func (n *recordingNotifier) notices() []notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notice(nil), n.shown...)
}

type input struct{ v string }

func (i *input) Value() string     { return i.v }
func (i *input) SetValue(v string) { i.v = v }

type fakeGeo struct {
	c   protocol.Coordinates
	err error
}

func (g fakeGeo) CurrentPosition(context.Context) (protocol.Coordinates, error) {
	return g.c, g.err
}

type fakeRecorder struct {
	started bool
	clip    []byte
	err     error
}

func (r *fakeRecorder) Start(context.Context) error {
	if r.err != nil {
		return r.err
	}
	r.started = true
	return nil
}

func (r *fakeRecorder) Stop() ([]byte, error) {
	r.started = false
	return r.clip, nil
}

func text(env *protocol.Envelope) string {
	s, _ := env.ChatMessage().Text()
	return s
}
