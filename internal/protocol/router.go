package protocol

import (
	"fmt"
	"sync"
)

// MessageHandler 处理信封的函数类型
type MessageHandler func(env *Envelope) error

// MessageRouter 按 event 标识分发信封
type MessageRouter struct {
	mu             sync.RWMutex
	handlers       map[EventTag]MessageHandler
	defaultHandler MessageHandler
}

// NewMessageRouter 创建新的消息路由器
func NewMessageRouter() *MessageRouter {
	return &MessageRouter{
		handlers: make(map[EventTag]MessageHandler),
	}
}

// RegisterHandler 注册事件处理函数，可同时注册多个 tag
func (r *MessageRouter) RegisterHandler(handler MessageHandler, tags ...EventTag) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tags {
		r.handlers[t] = handler
	}
}

// SetDefaultHandler 设置默认处理函数
func (r *MessageRouter) SetDefaultHandler(handler MessageHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultHandler = handler
}

// Dispatch 分发信封到对应处理函数
func (r *MessageRouter) Dispatch(env *Envelope) error {
	r.mu.RLock()
	handler, ok := r.handlers[env.Event]
	defaultHandler := r.defaultHandler
	r.mu.RUnlock()

	if ok {
		return handler(env)
	}
	if defaultHandler != nil {
		return defaultHandler(env)
	}
	return fmt.Errorf("no handler registered for event: %s", env.Event)
}
