package device

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hongjun500/chat-client/internal/chat"
)

// Tooltip 终端下的提示：每个锚点同一时间只有一条，重复显示时替换旧的，到期自动消失
type Tooltip struct {
	mu     sync.Mutex
	out    io.Writer
	active map[chat.Control]*tip
}

type tip struct {
	message string
	timer   *time.Timer
}

var _ chat.Notifier = (*Tooltip)(nil)

func NewTooltip(out io.Writer) *Tooltip {
	return &Tooltip{out: out, active: make(map[chat.Control]*tip)}
}

// Show 显示提示；d<=0 时使用默认时长
func (t *Tooltip) Show(anchor chat.Control, message string, d time.Duration) {
	if d <= 0 {
		d = chat.DefaultNoticeDuration
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if old, ok := t.active[anchor]; ok {
		old.timer.Stop()
	}
	n := &tip{message: message}
	n.timer = time.AfterFunc(d, func() { t.dismiss(anchor, n) })
	t.active[anchor] = n
	fmt.Fprintf(t.out, "[%s] %s\n", anchor, message)
}

// Active 当前锚点上仍在显示的提示
func (t *Tooltip) Active(anchor chat.Control) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, ok := t.active[anchor]
	if !ok {
		return "", false
	}
	return n.message, true
}

// Close 立即清除全部提示
func (t *Tooltip) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for anchor, n := range t.active {
		n.timer.Stop()
		delete(t.active, anchor)
	}
}

func (t *Tooltip) dismiss(anchor chat.Control, n *tip) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active[anchor] == n {
		delete(t.active, anchor)
	}
}
