package device

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"

	"github.com/hongjun500/chat-client/internal/chat"
)

// LoadFile 读取本地文件；扩展名可识别时作为声明的媒体类型，否则留空交给内容识别
func LoadFile(path string) (chat.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return chat.File{}, fmt.Errorf("read %s: %w", path, err)
	}
	name := filepath.Base(path)
	f := chat.File{Name: name, Data: data}
	if ext := strings.TrimPrefix(filepath.Ext(name), "."); ext != "" {
		if kind := filetype.GetType(strings.ToLower(ext)); kind != filetype.Unknown {
			f.Type = kind.MIME.Value
		}
	}
	return f, nil
}
