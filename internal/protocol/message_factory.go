package protocol

import (
	"encoding/json"
)

const (
	// CommandPrefix 命令前缀
	CommandPrefix = "/get"
	// AudioMediaType 录音片段固定的媒体类型
	AudioMediaType = "audio/ogg; codecs=opus"
)

// MessageFactory 负责创建出站信封，统一消息创建逻辑
type MessageFactory struct{}

// NewMessageFactory 创建消息工厂
func NewMessageFactory() *MessageFactory {
	return &MessageFactory{}
}

// CreateTextMessage 创建 newMessage 文本消息
func (f *MessageFactory) CreateTextMessage(text string) *Envelope {
	return &Envelope{
		Event:   EventNewMessage,
		Message: rawString(text),
		Type:    KindText,
	}
}

// CreateCommandMessage 创建命令消息；loc 非空时附带坐标
func (f *MessageFactory) CreateCommandMessage(text string, loc *Coordinates) *Envelope {
	env := &Envelope{
		Event:   EventCommand,
		Message: rawString(text),
		Type:    KindText,
	}
	if loc != nil {
		env.Location = rawJSON(loc)
	}
	return env
}

// CreateGeolocationMessage 创建地理位置消息
func (f *MessageFactory) CreateGeolocationMessage(c Coordinates) *Envelope {
	return &Envelope{
		Event:   EventGeolocation,
		Message: rawJSON(c),
		Type:    KindGeolocation,
	}
}

// CreateUploadMessage 创建文件上传消息，file 为自包含的 data URL
func (f *MessageFactory) CreateUploadMessage(file string, info FileInfo) *Envelope {
	return &Envelope{
		Event: EventUploadFile,
		File:  file,
		Type:  KindFile,
		Info:  rawJSON(info),
	}
}

// CreateLastMessageRequest 拉取最近消息，cursor 为零值时不带 id
func (f *MessageFactory) CreateLastMessageRequest(cursor Identifier) *Envelope {
	return &Envelope{Event: EventGetLastMessage, ID: cursor}
}

// CreateHistoryRequest 拉取 cursor 之前的历史消息
func (f *MessageFactory) CreateHistoryRequest(cursor Identifier) *Envelope {
	return &Envelope{Event: EventGetHistory, ID: cursor}
}

func rawString(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}
