package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/hongjun500/chat-client/internal/chat"
	"github.com/hongjun500/chat-client/internal/observe"
	"github.com/hongjun500/chat-client/internal/viewport"
)

// Prefix 本地命令前缀；"/" 留给发往服务端的命令
const Prefix = ":"

// ErrQuit 由 quit 命令返回，调用方据此结束输入循环
var ErrQuit = errors.New("quit")

type Context struct {
	Ctx    context.Context
	Client *chat.Client
	List   *viewport.List
	Input  chat.TextInput
	Out    io.Writer
	Args   []string
	Raw    string
}

type HandlerFunc func(ctx *Context) error

type Command struct {
	Name    string
	Aliases []string
	Help    string
	Handler HandlerFunc
}

type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Command
	list   []*Command
}

func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Command),
		list:   make([]*Command, 0),
	}
}

func (r *Registry) Register(cmd *Command) (err error) {
	if cmd == nil {
		return errors.New("command is nil")
	}
	name := strings.ToLower(strings.TrimSpace(cmd.Name))
	if name == "" {
		return errors.New("command name is empty")
	}
	if strings.Contains(name, Prefix) {
		return fmt.Errorf("command name must not contain '%s':%s", Prefix, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("command %s already registered", name)
	}
	r.byName[name] = cmd
	for _, item := range cmd.Aliases {
		alias := strings.ToLower(strings.TrimSpace(item))
		if alias == "" {
			continue
		}
		if _, exists := r.byName[alias]; exists {
			return fmt.Errorf("command alias %s already registered", alias)
		}
		r.byName[alias] = cmd
	}
	r.list = append(r.list, cmd)
	return nil
}

func (r *Registry) Get(name string) (*Command, bool) {
	k := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), Prefix))
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.byName[k]
	return cmd, ok
}

func (r *Registry) List() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Command, len(r.list))
	copy(out, r.list)
	return out
}

// Execute 非 ":" 开头的输入不处理，交给调用方当作聊天文本
func (r *Registry) Execute(raw string, ctx *Context) (handled bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, Prefix) {
		return false, nil
	}
	parts := strings.Fields(raw)
	cmdName := strings.TrimPrefix(parts[0], Prefix)
	cmd, ok := r.Get(cmdName)
	if !ok {
		observe.IncCommandError("not_found")
		return true, fmt.Errorf("command %s not found", cmdName)
	}
	ctx.Raw = raw
	ctx.Args = parts[1:]
	observe.IncCommand(cmd.Name)
	if err := cmd.Handler(ctx); err != nil {
		if !errors.Is(err, ErrQuit) {
			observe.IncCommandError("handler")
		}
		return true, err
	}
	return true, nil
}
