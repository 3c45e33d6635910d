package chat

import (
	"context"
	"errors"
	"time"

	"github.com/hongjun500/chat-client/internal/protocol"
	"github.com/hongjun500/chat-client/internal/viewport"
)

// Control 提示信息锚定的界面控件
type Control string

const (
	ControlTextInput   Control = "input"
	ControlSend        Control = "send"
	ControlGeolocation Control = "geolocation"
	ControlUpload      Control = "upload"
	ControlRecord      Control = "record"
)

// 提示文案
const (
	MsgEmptyInput        = "empty message"
	MsgUnsupportedFormat = "unsupported file format"
	MsgNoCoordinates     = "could not get coordinates"
	MsgNoAudioDevice     = "audio capture is not available"
	MsgNotConnected      = "not connected to the server"
)

// DefaultNoticeDuration 提示自动消失的时间
const DefaultNoticeDuration = 2500 * time.Millisecond

// DefaultLocationKeywords 需要附带坐标的命令关键字
var DefaultLocationKeywords = []string{"погода"}

var (
	ErrEmptyInput             = errors.New("empty input")
	ErrUnsupportedFile        = errors.New("unsupported file category")
	ErrGeolocationUnavailable = errors.New("geolocation is not available")
	ErrRecorderUnavailable    = errors.New("audio recorder is not available")
)

// Renderer 把内容描述转换为可视节点；无法渲染时返回错误（通常是 render.ErrNotRenderable）
type Renderer interface {
	Render(m *protocol.ChatMessage) (viewport.Node, error)
}

// MessageList 可滚动的消息列表
type MessageList interface {
	Len() int
	Append(n viewport.Node)
	Prepend(n viewport.Node)
	Clear()
	ScrollHeight() int
	ClientHeight() int
	ScrollTop() int
	SetScrollTop(top int)
	ScrollToBottom()
}

// Notifier 短暂显示、自动消失的提示，每个锚点同一时间只有一条
type Notifier interface {
	Show(anchor Control, message string, d time.Duration)
}

// Geolocator 一次性获取设备坐标
type Geolocator interface {
	CurrentPosition(ctx context.Context) (protocol.Coordinates, error)
}

// Recorder 音频采集；Stop 释放设备并返回本次录制的编码数据
type Recorder interface {
	Start(ctx context.Context) error
	Stop() ([]byte, error)
}

// TextInput 文本输入框
type TextInput interface {
	Value() string
	SetValue(v string)
}

// Sender 出站信封的去处
type Sender interface {
	Send(env *protocol.Envelope) error
}

// File 待上传的文件；Type 为声明的媒体类型，可以为空
type File struct {
	Name string
	Type string
	Data []byte
}
