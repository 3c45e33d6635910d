package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/hongjun500/chat-client/internal/chat"
	"github.com/hongjun500/chat-client/internal/command"
	"github.com/hongjun500/chat-client/internal/transport"
	"github.com/hongjun500/chat-client/internal/viewport"
)

// lineInput 终端下的输入框：提交的一行就是输入框内容
type lineInput struct {
	mu sync.Mutex
	v  string
}

func (i *lineInput) Value() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.v
}

func (i *lineInput) SetValue(v string) {
	i.mu.Lock()
	i.v = v
	i.mu.Unlock()
}

type terminal struct {
	client   *chat.Client
	list     *viewport.List
	out      io.Writer
	input    *lineInput
	commands *command.Registry

	// retry 上一次提交失败，输入框仍保留着那段文本
	retry     bool
	stopState func()
}

func newTerminal(client *chat.Client, list *viewport.List, out io.Writer) (*terminal, error) {
	reg := command.NewRegistry()
	if err := command.RegisterBuiltins(reg); err != nil {
		return nil, err
	}
	t := &terminal{client: client, list: list, out: out, input: &lineInput{}, commands: reg}
	t.stopState = client.OnStateChange(t.showState)
	return t, nil
}

func (t *terminal) close() {
	if t.stopState != nil {
		t.stopState()
		t.stopState = nil
	}
}

// showState 连接指示；可以重新连接时提示 :connect
func (t *terminal) showState(s transport.State) {
	switch {
	case s == transport.StateConnected:
		fmt.Fprintln(t.out, "[online]")
	case s.CanConnect():
		fmt.Fprintln(t.out, "[offline] type :connect to retry")
	default:
		fmt.Fprintln(t.out, "[connecting...]")
	}
}

// loop 逐行读取 stdin，直到 EOF、:quit 或 ctx 结束
func (t *terminal) loop(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := t.handle(ctx, line); errors.Is(err, command.ErrQuit) {
				return nil
			}
		}
	}
}

// handle 处理一行输入；":" 开头的是本地命令，其余当作输入框内容提交
func (t *terminal) handle(ctx context.Context, line string) error {
	handled, err := t.commands.Execute(line, &command.Context{
		Ctx:    ctx,
		Client: t.client,
		List:   t.list,
		Input:  t.input,
		Out:    t.out,
	})
	if handled {
		if err != nil && !errors.Is(err, command.ErrQuit) {
			fmt.Fprintln(t.out, err)
		}
		return err
	}

	switch {
	case t.retry && line == "":
		// 空行重发保留的输入
	case t.retry:
		t.input.SetValue(line)
	default:
		// :tab 补全后的前缀与下一行拼接
		t.input.SetValue(t.input.Value() + line)
	}
	t.retry = false

	err = t.client.Composer.SubmitText(ctx, t.input)
	switch {
	case err == nil:
	case errors.Is(err, chat.ErrEmptyInput):
		t.input.SetValue("")
	default:
		t.retry = true
		fmt.Fprintf(t.out, "kept %q, send an empty line to retry\n", t.input.Value())
	}
	return err
}

// transcript 把列表中新出现的节点打印出来；列表被清空后重新开始
type transcript struct {
	mu   sync.Mutex
	list *viewport.List
	out  io.Writer
	seen map[viewport.Node]struct{}
}

func newTranscript(list *viewport.List, out io.Writer) *transcript {
	return &transcript{list: list, out: out, seen: make(map[viewport.Node]struct{})}
}

func (t *transcript) flush() {
	t.mu.Lock()
	defer t.mu.Unlock()
	nodes := t.list.Nodes()
	if len(nodes) == 0 {
		clear(t.seen)
		return
	}
	for _, n := range nodes {
		if _, ok := t.seen[n]; ok {
			continue
		}
		t.seen[n] = struct{}{}
		fmt.Fprintln(t.out, n)
	}
}
