package protocol

import (
	"encoding/json"
	"strings"
)

// Coordinates 设备坐标
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FileInfo 上传文件的元数据，Category 为文件声明的媒体类型
type FileInfo struct {
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
}

// WeatherInfo 天气命令的结果。Temp 原样保留，服务端可能发数字也可能发 "+5" 这样的字符串
type WeatherInfo struct {
	Location  string          `json:"location,omitempty"`
	Temp      json.RawMessage `json:"temp,omitempty"`
	Icon      string          `json:"icon,omitempty"`
	Condition string          `json:"condition,omitempty"`
}

// TempText 温度的显示文本
func (w WeatherInfo) TempText() string {
	var s string
	if json.Unmarshal(w.Temp, &s) == nil {
		return s
	}
	t := strings.TrimSpace(string(w.Temp))
	if t == "null" {
		return ""
	}
	return t
}

// NewsInfo 新闻命令的结果
type NewsInfo struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
}

// decodeNested 嵌套记录宽松解码：多余字段忽略，缺失或 null 返回 false
func decodeNested(raw json.RawMessage, v any) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

func rawJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}
