package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hongjun500/chat-client/internal/protocol"
	"github.com/hongjun500/chat-client/internal/viewport"
)

// ErrNotRenderable 内容无法转换为可视节点
var ErrNotRenderable = errors.New("content is not renderable")

// Block 文本终端下的可视节点：每行占 1 个单位高度
type Block struct {
	ID    string
	Kind  protocol.ContentKind
	Lines []string
}

func (b *Block) Height() int { return len(b.Lines) }

func (b *Block) String() string { return strings.Join(b.Lines, "\n") }

// Text 把内容描述渲染为文本块
type Text struct{}

// Render 按内容类型分发；file 再按媒体类型前缀分发
func (Text) Render(m *protocol.ChatMessage) (viewport.Node, error) {
	if m == nil {
		return nil, ErrNotRenderable
	}
	var body []string
	switch m.Type {
	case protocol.KindText, protocol.KindGeolocation:
		line, ok := textLine(m)
		if !ok {
			return nil, ErrNotRenderable
		}
		body = []string{line}
	case protocol.KindFile:
		lines, err := fileLines(m)
		if err != nil {
			return nil, err
		}
		body = lines
	case protocol.KindWeather:
		w, ok := m.WeatherInfo()
		if !ok {
			return nil, ErrNotRenderable
		}
		body = []string{w.Location}
		if t := w.TempText(); t != "" {
			body = append(body, t+" °C")
		}
		body = append(body, w.Condition)
	case protocol.KindNews:
		n, ok := m.NewsInfo()
		if !ok {
			return nil, ErrNotRenderable
		}
		body = []string{"# " + n.Title}
		if n.Description != "" {
			body = append(body, n.Description)
		}
		if n.Link != "" {
			body = append(body, "more: "+n.Link)
		}
	default:
		return nil, ErrNotRenderable
	}
	return &Block{
		ID:    m.ID.String(),
		Kind:  m.Type,
		Lines: append([]string{header(m)}, body...),
	}, nil
}

func header(m *protocol.ChatMessage) string {
	if m.Date == "" {
		return "--"
	}
	return "-- " + m.Date
}

// textLine 坐标消息显示为 "your coordinates: lat, lon"
func textLine(m *protocol.ChatMessage) (string, bool) {
	if c, ok := m.Coordinates(); ok {
		return fmt.Sprintf("your coordinates: %g, %g", c.Latitude, c.Longitude), true
	}
	return m.Text()
}

func fileLines(m *protocol.ChatMessage) ([]string, error) {
	info, ok := m.FileInfo()
	if !ok {
		return nil, ErrNotRenderable
	}
	name := info.Name
	category := strings.ToLower(info.Category)
	switch {
	case strings.HasPrefix(category, "image/"):
		return []string{"[image] " + name}, nil
	case strings.HasPrefix(category, "audio/"):
		if name == "" {
			name = "No name"
		}
		return []string{"[audio] " + name}, nil
	case strings.HasPrefix(category, "video/"):
		return []string{"[video] " + name}, nil
	}
	return nil, fmt.Errorf("%w: media type %q", ErrNotRenderable, info.Category)
}
