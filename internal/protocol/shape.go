package protocol

import (
	"fmt"
	"strings"
)

type field uint16

const (
	fieldID field = 1 << iota
	fieldDate
	fieldStatus
	fieldMessage
	fieldFile
	fieldType
	fieldInfo
	fieldLocation
	fieldWeather
	fieldNews
)

var fieldNames = []struct {
	f    field
	name string
}{
	{fieldID, "id"},
	{fieldDate, "date"},
	{fieldStatus, "status"},
	{fieldMessage, "message"},
	{fieldFile, "file"},
	{fieldType, "type"},
	{fieldInfo, "info"},
	{fieldLocation, "location"},
	{fieldWeather, "weather"},
	{fieldNews, "news"},
}

// shapes 每个事件允许出现的可选字段
var shapes = map[EventTag]field{
	EventNewMessage:     fieldID | fieldDate | fieldMessage | fieldType,
	EventCommand:        fieldID | fieldDate | fieldMessage | fieldType | fieldLocation | fieldWeather | fieldNews,
	EventGeolocation:    fieldID | fieldDate | fieldMessage | fieldType,
	EventGetLastMessage: fieldID | fieldStatus | fieldMessage,
	EventGetHistory:     fieldID | fieldStatus | fieldMessage,
	EventUploadFile:     fieldID | fieldDate | fieldFile | fieldType | fieldInfo | fieldMessage,
}

// Known 是否为已定义的事件
func (t EventTag) Known() bool {
	_, ok := shapes[t]
	return ok
}

func present(m *Envelope) field {
	var f field
	if !m.ID.IsZero() {
		f |= fieldID
	}
	if m.Date != "" {
		f |= fieldDate
	}
	if m.Status != nil {
		f |= fieldStatus
	}
	if len(m.Message) > 0 {
		f |= fieldMessage
	}
	if m.File != "" {
		f |= fieldFile
	}
	if m.Type != "" {
		f |= fieldType
	}
	if len(m.Info) > 0 {
		f |= fieldInfo
	}
	if len(m.Location) > 0 {
		f |= fieldLocation
	}
	if len(m.Weather) > 0 {
		f |= fieldWeather
	}
	if len(m.News) > 0 {
		f |= fieldNews
	}
	return f
}

// Validate 校验信封形状：event 必填且已知，其它字段必须落在该 event 的形状内
func Validate(m *Envelope) error {
	if m.Event == "" {
		return fmt.Errorf("missing field: event")
	}
	allowed, ok := shapes[m.Event]
	if !ok {
		return fmt.Errorf("unknown event: %s", m.Event)
	}
	if extra := present(m) &^ allowed; extra != 0 {
		var names []string
		for _, fn := range fieldNames {
			if extra&fn.f != 0 {
				names = append(names, fn.name)
			}
		}
		return fmt.Errorf("malformed %s envelope: unexpected %s", m.Event, strings.Join(names, ","))
	}
	return nil
}
