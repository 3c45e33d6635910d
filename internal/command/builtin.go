package command

import (
	"fmt"
	"strings"

	"github.com/hongjun500/chat-client/internal/device"
)

// RegisterBuiltins 注册终端内置命令
func RegisterBuiltins(r *Registry) (err error) {
	builtins := []*Command{
		{
			Name: "help",
			Help: "list local commands",
			Handler: func(ctx *Context) error {
				for _, c := range r.List() {
					aliases := ""
					if len(c.Aliases) > 0 {
						aliases = " (aliases: " + strings.Join(c.Aliases, ", ") + ")"
					}
					fmt.Fprintf(ctx.Out, "%s%s - %s%s\n", Prefix, c.Name, c.Help, aliases)
				}
				return nil
			},
		},
		{
			Name:    "quit",
			Aliases: []string{"q", "exit"},
			Help:    "leave the chat",
			Handler: func(ctx *Context) error { return ErrQuit },
		},
		{
			Name: "connect",
			Help: "connect to the server (no-op when already connected)",
			Handler: func(ctx *Context) error {
				return ctx.Client.Connect(ctx.Ctx)
			},
		},
		{
			Name: "disconnect",
			Help: "close the connection",
			Handler: func(ctx *Context) error {
				return ctx.Client.Disconnect()
			},
		},
		{
			Name: "geo",
			Help: "send the device coordinates",
			Handler: func(ctx *Context) error {
				return ctx.Client.Composer.SendLocation(ctx.Ctx)
			},
		},
		{
			Name: "upload",
			Help: "upload a file: :upload <path>",
			Handler: func(ctx *Context) error {
				path := strings.TrimSpace(strings.Join(ctx.Args, " "))
				if path == "" {
					fmt.Fprintln(ctx.Out, "usage: :upload <path>")
					return nil
				}
				f, err := device.LoadFile(path)
				if err != nil {
					return err
				}
				return ctx.Client.Composer.SendFile(ctx.Ctx, f)
			},
		},
		{
			Name: "rec",
			Help: "start audio capture",
			Handler: func(ctx *Context) error {
				return ctx.Client.Composer.StartRecording(ctx.Ctx)
			},
		},
		{
			Name: "stop",
			Help: "stop audio capture and upload the clip",
			Handler: func(ctx *Context) error {
				return ctx.Client.Composer.StopRecording(ctx.Ctx)
			},
		},
		{
			Name: "older",
			Help: "scroll to the top and load older messages",
			Handler: func(ctx *Context) error {
				ctx.List.SetScrollTop(0)
				if !ctx.Client.Scrolled() {
					fmt.Fprintln(ctx.Out, "no older messages to load")
				}
				return nil
			},
		},
		{
			Name:    "tab",
			Aliases: []string{"t"},
			Help:    "complete the server command prefix",
			Handler: func(ctx *Context) error {
				if ctx.Client.Composer.CompleteCommand(ctx.Input) {
					fmt.Fprintf(ctx.Out, "> %s\n", ctx.Input.Value())
				}
				return nil
			},
		},
	}
	for _, c := range builtins {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}
