package chat

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hongjun500/chat-client/internal/transport"
	"github.com/hongjun500/chat-client/pkg/logger"
)

// Options 组装客户端所需的协作者与参数
type Options struct {
	Renderer   Renderer
	List       MessageList
	Notifier   Notifier
	Geolocator Geolocator // 可为 nil
	Recorder   Recorder   // 可为 nil

	PullTimeout      time.Duration
	NoticeDuration   time.Duration
	CommandPrefix    string
	LocationKeywords []string
}

// Client 把会话、路由、翻页与出站组装连在一起：
// 输入 → Composer → Transport.Send → 网络 → Transport.OnMessage → Router → 列表
type Client struct {
	transport transport.Transport
	list      MessageList

	Router   *Router
	History  *Paginator
	Composer *Composer

	cancels []func()
	log     *zap.SugaredLogger
}

// NewClient 订阅会话事件；调用 Stop 取消订阅
func NewClient(t transport.Transport, opt Options) *Client {
	history := NewPaginator(opt.List, opt.Renderer, t, opt.PullTimeout)
	c := &Client{
		transport: t,
		list:      opt.List,
		History:   history,
		Router:    NewRouter(opt.List, opt.Renderer, opt.Notifier, history, opt.NoticeDuration),
		Composer: NewComposer(t, opt.Notifier, opt.Geolocator, opt.Recorder, ComposerOptions{
			CommandPrefix:    opt.CommandPrefix,
			LocationKeywords: opt.LocationKeywords,
			NoticeDuration:   opt.NoticeDuration,
		}),
		log: logger.Named("client").Sugar(),
	}
	c.cancels = append(c.cancels,
		t.OnMessage(c.Router.Route),
		t.OnStateChange(c.onState),
	)
	return c
}

// Connect 用户触发的连接；已连接时不做任何事
func (c *Client) Connect(ctx context.Context) error {
	return c.transport.Connect(ctx)
}

// Disconnect 用户触发的断开
func (c *Client) Disconnect() error {
	return c.transport.Close()
}

// State 当前连接状态
func (c *Client) State() transport.State {
	return c.transport.State()
}

// CanConnect 连接入口是否可用
func (c *Client) CanConnect() bool {
	return c.transport.State().CanConnect()
}

// OnStateChange 订阅连接状态变化，供界面显示连接指示
func (c *Client) OnStateChange(fn func(transport.State)) (cancel func()) {
	return c.transport.OnStateChange(fn)
}

// Scrolled 列表滚动后调用，滚到顶部时触发历史加载
func (c *Client) Scrolled() bool {
	return c.History.OnScroll(c.list.ScrollTop())
}

// Stop 取消所有订阅
func (c *Client) Stop() {
	for _, cancel := range c.cancels {
		cancel()
	}
	c.cancels = nil
}

func (c *Client) onState(s transport.State) {
	c.log.Infow("connection_state", "state", s.String())
	switch s {
	case transport.StateConnected:
		// 新连接从最近消息完整重新加载
		c.list.Clear()
	case transport.StateConnecting:
	default:
		c.History.Reset()
	}
}
