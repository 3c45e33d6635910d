package chat

import (
	"time"

	"go.uber.org/zap"

	"github.com/hongjun500/chat-client/internal/observe"
	"github.com/hongjun500/chat-client/internal/protocol"
	"github.com/hongjun500/chat-client/pkg/logger"
)

// Router 按 event 把入站信封分发到三个去处：尾部追加、历史前插、单条替换（上传回执）。
// 只有尾部追加会自动滚动到底部。
type Router struct {
	list     MessageList
	renderer Renderer
	notifier Notifier
	history  *Paginator
	notice   time.Duration
	routes   *protocol.MessageRouter
	log      *zap.SugaredLogger
}

// NewRouter 注册全部事件处理函数
func NewRouter(list MessageList, renderer Renderer, notifier Notifier, history *Paginator, notice time.Duration) *Router {
	if notice <= 0 {
		notice = DefaultNoticeDuration
	}
	r := &Router{
		list:     list,
		renderer: renderer,
		notifier: notifier,
		history:  history,
		notice:   notice,
		routes:   protocol.NewMessageRouter(),
		log:      logger.Named("router").Sugar(),
	}
	r.routes.RegisterHandler(r.handleLive, protocol.EventNewMessage, protocol.EventCommand, protocol.EventGeolocation)
	r.routes.RegisterHandler(r.handleLastMessages, protocol.EventGetLastMessage)
	r.routes.RegisterHandler(r.handleHistory, protocol.EventGetHistory)
	r.routes.RegisterHandler(r.handleUpload, protocol.EventUploadFile)
	r.routes.SetDefaultHandler(r.handleUnrouted)
	return r
}

// Route 处理一个入站信封
func (r *Router) Route(env *protocol.Envelope) {
	if err := r.routes.Dispatch(env); err != nil {
		r.log.Warnw("route_error", "event", env.Event, "err", err)
	}
}

// handleUnrouted 不认识或没有去处的事件只记录日志
func (r *Router) handleUnrouted(env *protocol.Envelope) error {
	known := env.Event.Known()
	observe.IncUnrouted(string(env.Event), known)
	if !known {
		r.log.Warnw("unknown_event", "event", env.Event)
		return nil
	}
	r.log.Debugw("unrouted_event", "event", env.Event)
	return nil
}

func (r *Router) handleLive(env *protocol.Envelope) error {
	msg := env.ChatMessage()
	node, err := r.renderer.Render(msg)
	if err != nil {
		// 实时消息渲染失败不提示用户
		observe.IncNotRenderable("live")
		r.log.Debugw("live_not_renderable", "event", env.Event, "id", msg.ID.String(), "err", err)
		return nil
	}
	r.list.Append(node)
	r.history.noteLoaded(msg.ID)
	r.list.ScrollToBottom()
	return nil
}

func (r *Router) handleLastMessages(env *protocol.Envelope) error {
	if !env.OK() {
		return nil
	}
	msgs, err := env.Messages()
	if err != nil {
		return err
	}
	appended := 0
	for i := range msgs {
		m := &msgs[i]
		r.history.noteLoaded(m.ID)
		node, err := r.renderer.Render(m)
		if err != nil {
			observe.IncNotRenderable("last")
			continue
		}
		r.list.Append(node)
		appended++
	}
	if appended > 0 {
		r.list.ScrollToBottom()
	}
	return nil
}

func (r *Router) handleHistory(env *protocol.Envelope) error {
	r.history.Prepend(env)
	return nil
}

func (r *Router) handleUpload(env *protocol.Envelope) error {
	msg := env.ChatMessage()
	node, err := r.renderer.Render(msg)
	if err != nil {
		observe.IncNotRenderable("upload")
		observe.IncNotice(string(ControlUpload))
		r.notifier.Show(ControlUpload, MsgUnsupportedFormat, r.notice)
		return nil
	}
	r.list.Append(node)
	r.history.noteLoaded(msg.ID)
	r.list.ScrollToBottom()
	return nil
}
