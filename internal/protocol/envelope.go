package protocol

import (
	"encoding/json"
	"fmt"
)

// EventTag 信封的事件标识，决定信封的形状与处理方式
type EventTag string

const (
	EventNewMessage     EventTag = "newMessage"
	EventCommand        EventTag = "command"
	EventGeolocation    EventTag = "geolocation"
	EventGetLastMessage EventTag = "getLastMessage"
	EventGetHistory     EventTag = "getHistory"
	EventUploadFile     EventTag = "upLoadFile"
)

// ContentKind 消息内容类型
type ContentKind string

const (
	KindText        ContentKind = "text"
	KindGeolocation ContentKind = "geolocation"
	KindFile        ContentKind = "file"
	KindWeather     ContentKind = "weather"
	KindNews        ContentKind = "news"
)

// Envelope 客户端与服务端之间交换的唯一数据单元，双向通用。
//
// 除 Event 外的字段是否出现完全由 Event 决定，见 shapes。
// Message 与嵌套记录保留原始 JSON，通过访问方法按需解码，
// 这样解码后再编码不会补出或丢掉字段。
// Message 可能是文本、坐标，或者 ChatMessage 数组（拉取类响应）。
type Envelope struct {
	Event    EventTag        `json:"event"`
	ID       Identifier      `json:"id,omitzero"`
	Date     string          `json:"date,omitempty"`
	Status   *bool           `json:"status,omitempty"`
	Message  json.RawMessage `json:"message,omitempty"`
	File     string          `json:"file,omitempty"`
	Type     ContentKind     `json:"type,omitempty"`
	Info     json.RawMessage `json:"info,omitempty"`
	Location json.RawMessage `json:"location,omitempty"`
	Weather  json.RawMessage `json:"weather,omitempty"`
	News     json.RawMessage `json:"news,omitempty"`
}

// ChatMessage 服务端分配 id 的一条聊天记录，也是交给渲染器的内容描述
type ChatMessage struct {
	ID      Identifier      `json:"id,omitzero"`
	Date    string          `json:"date,omitempty"`
	Type    ContentKind     `json:"type"`
	Message json.RawMessage `json:"message,omitempty"`
	File    string          `json:"file,omitempty"`
	Info    json.RawMessage `json:"info,omitempty"`
	Weather json.RawMessage `json:"weather,omitempty"`
	News    json.RawMessage `json:"news,omitempty"`
}

// OK 拉取类响应的 status 字段，缺省视为 false
func (e *Envelope) OK() bool {
	return e.Status != nil && *e.Status
}

// ChatMessage 把实时消息信封投影为内容描述
func (e *Envelope) ChatMessage() *ChatMessage {
	return &ChatMessage{
		ID:      e.ID,
		Date:    e.Date,
		Type:    e.Type,
		Message: e.Message,
		File:    e.File,
		Info:    e.Info,
		Weather: e.Weather,
		News:    e.News,
	}
}

// Messages 解析 getLastMessage / getHistory 响应中的消息序列
func (e *Envelope) Messages() ([]ChatMessage, error) {
	if len(e.Message) == 0 || string(e.Message) == "null" {
		return nil, nil
	}
	var out []ChatMessage
	if err := json.Unmarshal(e.Message, &out); err != nil {
		return nil, fmt.Errorf("decode %s batch: %w", e.Event, err)
	}
	return out, nil
}

// Text 文本内容；message 不是字符串时返回 false
func (m *ChatMessage) Text() (string, bool) {
	var s string
	if len(m.Message) == 0 || json.Unmarshal(m.Message, &s) != nil {
		return "", false
	}
	return s, true
}

// Coordinates 地理位置内容；message 不是坐标对象时返回 false
func (m *ChatMessage) Coordinates() (Coordinates, bool) {
	var c struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if len(m.Message) == 0 || json.Unmarshal(m.Message, &c) != nil {
		return Coordinates{}, false
	}
	if c.Latitude == nil || c.Longitude == nil {
		return Coordinates{}, false
	}
	return Coordinates{Latitude: *c.Latitude, Longitude: *c.Longitude}, true
}

// FileInfo 上传文件的元数据
func (e *Envelope) FileInfo() (FileInfo, bool) {
	var fi FileInfo
	return fi, decodeNested(e.Info, &fi)
}

// LocationCoordinates 命令附带的坐标
func (e *Envelope) LocationCoordinates() (Coordinates, bool) {
	var c Coordinates
	return c, decodeNested(e.Location, &c)
}

func (m *ChatMessage) FileInfo() (FileInfo, bool) {
	var fi FileInfo
	return fi, decodeNested(m.Info, &fi)
}

func (m *ChatMessage) WeatherInfo() (WeatherInfo, bool) {
	var w WeatherInfo
	return w, decodeNested(m.Weather, &w)
}

func (m *ChatMessage) NewsInfo() (NewsInfo, bool) {
	var n NewsInfo
	return n, decodeNested(m.News, &n)
}
