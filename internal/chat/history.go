package chat

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hongjun500/chat-client/internal/observe"
	"github.com/hongjun500/chat-client/internal/protocol"
	"github.com/hongjun500/chat-client/pkg/logger"
)

// Paginator 向上翻页加载历史，插入时保持视口内容不跳动。
//
// 它独占 oldestLoadedMessageId（cursor）与在途标记：
// 同一时间最多一个 getHistory 请求在途，重复的滚动到顶事件会被忽略。
type Paginator struct {
	list     MessageList
	renderer Renderer
	sender   Sender
	factory  *protocol.MessageFactory
	timeout  time.Duration
	log      *zap.SugaredLogger

	mu       sync.Mutex
	cursor   protocol.Identifier
	inFlight bool
	gen      uint64
	timer    *time.Timer
}

// NewPaginator timeout<=0 表示在途请求永不过期
func NewPaginator(list MessageList, renderer Renderer, sender Sender, timeout time.Duration) *Paginator {
	return &Paginator{
		list:     list,
		renderer: renderer,
		sender:   sender,
		factory:  protocol.NewMessageFactory(),
		timeout:  timeout,
		log:      logger.Named("history").Sugar(),
	}
}

// Cursor 当前最早已加载消息的 id；尚未加载时为零值
func (p *Paginator) Cursor() protocol.Identifier {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// InFlight 是否有历史请求尚未返回
func (p *Paginator) InFlight() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight
}

// OnScroll 列表滚动后调用；滚到顶部时以 cursor 发起一次历史请求，返回是否真正发出
func (p *Paginator) OnScroll(top int) bool {
	p.mu.Lock()
	if top != 0 || p.inFlight || !p.cursor.Valid() {
		p.mu.Unlock()
		return false
	}
	p.inFlight = true
	p.gen++
	gen := p.gen
	req := p.factory.CreateHistoryRequest(p.cursor)
	if p.timeout > 0 {
		p.timer = time.AfterFunc(p.timeout, func() { p.expire(gen) })
	}
	p.mu.Unlock()

	if err := p.sender.Send(req); err != nil {
		p.log.Warnw("history_request_error", "cursor", req.ID.String(), "err", err)
		p.mu.Lock()
		if p.gen == gen {
			p.clearInFlightLocked()
		}
		p.mu.Unlock()
		return false
	}
	observe.IncHistoryRequest()
	p.log.Debugw("history_request", "cursor", req.ID.String())
	return true
}

// Prepend 处理 getHistory 响应：逐条插入到最早节点之前，每次插入后恢复滚动锚点。
// status 为假或批次为空时不做任何插入；下一次滚到顶部会重新请求。
func (p *Paginator) Prepend(env *protocol.Envelope) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearInFlightLocked()

	if !env.OK() {
		return
	}
	msgs, err := env.Messages()
	if err != nil {
		p.log.Warnw("history_batch_error", "err", err)
		return
	}
	if len(msgs) == 0 {
		return
	}

	anchor := p.list.ScrollHeight() - p.list.ClientHeight()
	for i := range msgs {
		m := &msgs[i]
		if m.ID.Valid() {
			p.cursor = m.ID
		}
		node, err := p.renderer.Render(m)
		if err != nil {
			observe.IncNotRenderable("history")
			p.log.Debugw("history_not_renderable", "id", m.ID.String(), "err", err)
			continue
		}
		p.list.Prepend(node)
		p.list.SetScrollTop(p.list.ScrollHeight() - p.list.ClientHeight() - anchor)
	}
}

// noteLoaded 列表为空后第一条带 id 的消息成为 cursor
func (p *Paginator) noteLoaded(id protocol.Identifier) {
	if !id.Valid() {
		return
	}
	p.mu.Lock()
	if !p.cursor.Valid() {
		p.cursor = id
	}
	p.mu.Unlock()
}

// Reset 断开后丢弃 cursor 与在途标记，重新连接时从最近消息重新推导
func (p *Paginator) Reset() {
	p.mu.Lock()
	p.cursor = protocol.Identifier{}
	p.clearInFlightLocked()
	p.mu.Unlock()
}

func (p *Paginator) expire(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen || !p.inFlight {
		return
	}
	p.inFlight = false
	p.timer = nil
	observe.IncHistoryTimeout()
	p.log.Warnw("history_request_timeout", "timeout", p.timeout)
}

func (p *Paginator) clearInFlightLocked() {
	p.inFlight = false
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}
