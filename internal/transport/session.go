package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hongjun500/chat-client/internal/observe"
	"github.com/hongjun500/chat-client/internal/observer"
	"github.com/hongjun500/chat-client/internal/protocol"
	"github.com/hongjun500/chat-client/pkg/logger"
)

// Session 持有到服务端的唯一一条 WebSocket 连接。
//
// 状态只由 Session 自己修改；入站信封由单个读协程按到达顺序发布给订阅者。
// 断开后不会自动重连，重连只能由调用方再次 Connect。
type Session struct {
	opt     Options
	dialer  *websocket.Dialer
	factory *protocol.MessageFactory
	log     *zap.SugaredLogger

	mu     sync.Mutex
	state  State
	conn   *websocket.Conn
	connID string

	writeMu sync.Mutex

	states   observer.Subject[State]
	messages observer.Subject[*protocol.Envelope]
}

// NewSession 创建未连接的会话
func NewSession(opt Options) *Session {
	o := opt.withDefaults()
	return &Session{
		opt: o,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: o.DialTimeout,
		},
		factory: protocol.NewMessageFactory(),
		log:     logger.Named("transport").Sugar(),
	}
}

// State 当前连接状态
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// OnStateChange 订阅状态变化
func (s *Session) OnStateChange(fn func(State)) (cancel func()) {
	return s.states.Subscribe(fn)
}

// OnMessage 订阅入站信封，回调顺序即到达顺序
func (s *Session) OnMessage(fn func(*protocol.Envelope)) (cancel func()) {
	return s.messages.Subscribe(fn)
}

// Connect 建立连接；已在连接中或已连接时直接返回。
// 连接成功后立即拉取最近的消息。
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	if !s.state.CanConnect() {
		s.mu.Unlock()
		return nil
	}
	connID := uuid.NewString()
	s.connID = connID
	s.state = StateConnecting
	s.mu.Unlock()
	s.publishState(StateConnecting)

	s.log.Infow("ws_connect", "conn_id", connID, "url", s.opt.URL)
	conn, resp, err := s.dialer.DialContext(ctx, s.opt.URL, s.opt.Header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		s.log.Warnw("ws_connect_error", "conn_id", connID, "err", err)
		if s.transition(connID, nil, StateError) {
			return withContext(ErrDialFailed, err.Error())
		}
		return ErrSessionClosed
	}

	s.mu.Lock()
	if s.connID != connID || s.state != StateConnecting {
		// Close 在握手期间被调用
		s.mu.Unlock()
		_ = conn.Close()
		return ErrSessionClosed
	}
	s.conn = conn
	s.state = StateConnected
	s.mu.Unlock()
	s.publishState(StateConnected)
	s.log.Infow("ws_connected", "conn_id", connID)

	go s.readLoop(conn, connID)

	if err := s.Send(s.factory.CreateLastMessageRequest(protocol.Identifier{})); err != nil {
		return fmt.Errorf("request last messages: %w", err)
	}
	return nil
}

// Send 发送一个信封；未连接时快速失败并返回 ErrNotConnected
func (s *Session) Send(env *protocol.Envelope) error {
	s.mu.Lock()
	conn, state := s.conn, s.state
	s.mu.Unlock()
	if state != StateConnected || conn == nil {
		return ErrNotConnected
	}

	data, err := protocol.Marshal(s.opt.Codec, env)
	if err != nil {
		return fmt.Errorf("encode %s: %w", env.Event, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.opt.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(s.opt.WriteTimeout))
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.log.Warnw("ws_write_error", "event", env.Event, "err", err)
		return fmt.Errorf("write %s: %w", env.Event, err)
	}
	observe.IncSent(string(env.Event))
	return nil
}

// Close 由用户主动断开
func (s *Session) Close() error {
	s.mu.Lock()
	conn, prev := s.conn, s.state
	s.conn = nil
	s.connID = ""
	s.state = StateDisconnected
	s.mu.Unlock()

	var err error
	if conn != nil {
		s.writeMu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.writeMu.Unlock()
		err = conn.Close()
	}
	if prev != StateDisconnected {
		s.publishState(StateDisconnected)
	}
	return err
}

func (s *Session) readLoop(conn *websocket.Conn, connID string) {
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			next := StateError
			var ce *websocket.CloseError
			if errors.As(err, &ce) {
				next = StateDisconnected
			}
			s.log.Infow("ws_closed", "conn_id", connID, "state", next.String(), "err", err)
			s.transition(connID, conn, next)
			_ = conn.Close()
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		if s.opt.MaxFrameSize > 0 && len(data) > s.opt.MaxFrameSize {
			s.log.Warnw("envelope_decode_error", "conn_id", connID,
				"err", withContext(ErrFrameTooLarge, fmt.Sprintf("%d bytes", len(data))))
			observe.IncDecodeError()
			continue
		}
		env, err := protocol.Unmarshal(s.opt.Codec, data, s.opt.MaxFrameSize)
		if err != nil {
			s.log.Warnw("envelope_decode_error", "conn_id", connID, "err", err)
			observe.IncDecodeError()
			continue
		}
		observe.IncReceived(string(env.Event))
		s.messages.Publish(env)
	}
}

// transition 仅当 connID（以及 conn）仍是当前连接时切换状态
func (s *Session) transition(connID string, conn *websocket.Conn, next State) bool {
	s.mu.Lock()
	if s.connID != connID || (conn != nil && s.conn != conn) {
		s.mu.Unlock()
		return false
	}
	s.conn = nil
	s.state = next
	s.mu.Unlock()
	s.publishState(next)
	return true
}

func (s *Session) publishState(st State) {
	observe.SetConnectionState(st.String())
	s.states.Publish(st)
}
