package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hongjun500/chat-client/internal/chat"
	"github.com/hongjun500/chat-client/pkg/logger"
)

var ErrNotRecording = errors.New("recorder is not running")

// ClipRecorder 终端下没有麦克风：Start 打开预先录好的片段，Stop 返回其内容。
// 录音期间每秒输出一次 mm:ss 计时。
type ClipRecorder struct {
	path string
	out  io.Writer
	tick time.Duration
	now  func() time.Time
	log  *zap.SugaredLogger

	mu      sync.Mutex
	started time.Time
	stop    chan struct{}
	done    chan struct{}
}

var _ chat.Recorder = (*ClipRecorder)(nil)

// NewClipRecorder path 为空时返回 nil，表示没有音频设备
func NewClipRecorder(path string, out io.Writer) *ClipRecorder {
	if path == "" {
		return nil
	}
	return &ClipRecorder{
		path: path,
		out:  out,
		tick: time.Second,
		now:  time.Now,
		log:  logger.Named("recorder").Sugar(),
	}
}

func (r *ClipRecorder) Start(ctx context.Context) error {
	if _, err := os.Stat(r.path); err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop != nil {
		return fmt.Errorf("recorder already running")
	}
	r.started = r.now()
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	go r.timer(ctx, r.started, r.stop, r.done)
	r.log.Infow("recording_started", "path", r.path)
	return nil
}

func (r *ClipRecorder) Stop() ([]byte, error) {
	r.mu.Lock()
	stop, done, started := r.stop, r.done, r.started
	r.stop, r.done = nil, nil
	r.mu.Unlock()
	if stop == nil {
		return nil, ErrNotRecording
	}
	close(stop)
	<-done

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read clip: %w", err)
	}
	r.log.Infow("recording_stopped", "elapsed", FormatElapsed(r.now().Sub(started)), "size", len(data))
	return data, nil
}

// Recording 是否正在录音
func (r *ClipRecorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stop != nil
}

func (r *ClipRecorder) timer(ctx context.Context, started time.Time, stop, done chan struct{}) {
	defer close(done)
	t := time.NewTicker(r.tick)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-t.C:
			if r.out != nil {
				fmt.Fprintf(r.out, "\r● %s", FormatElapsed(r.now().Sub(started)))
			}
		}
	}
}

// FormatElapsed 录音计时，格式 mm:ss
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
