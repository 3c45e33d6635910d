package transport

import (
	"context"

	"github.com/hongjun500/chat-client/internal/protocol"
)

// Transport 会话层对外暴露的统一接口，*Session 是基于 WebSocket 的实现
type Transport interface {
	Connect(ctx context.Context) error
	Send(env *protocol.Envelope) error
	State() State
	OnStateChange(fn func(State)) (cancel func())
	OnMessage(fn func(*protocol.Envelope)) (cancel func())
	Close() error
}

var _ Transport = (*Session)(nil)
