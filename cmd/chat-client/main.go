package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hongjun500/chat-client/internal/chat"
	"github.com/hongjun500/chat-client/internal/config"
	"github.com/hongjun500/chat-client/internal/device"
	"github.com/hongjun500/chat-client/internal/observe"
	"github.com/hongjun500/chat-client/internal/render"
	"github.com/hongjun500/chat-client/internal/transport"
	"github.com/hongjun500/chat-client/internal/viewport"
	"github.com/hongjun500/chat-client/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		serverURL string
		logLevel  string
	)
	cmd := &cobra.Command{
		Use:           "chat-client",
		Short:         "Terminal client for the chat server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if serverURL != "" {
				cfg.ServerURL = serverURL
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			logger.SetLevel(cfg.LogLevel)
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, os.Stdin, os.Stdout)
		},
	}
	cmd.Flags().StringVar(&serverURL, "url", "", "chat server websocket url (overrides CHAT_SERVER_URL)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	return cmd
}

// run 终端循环结束（:quit 或 EOF）时取消其余 goroutine
func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	log := logger.L().Sugar()

	session := transport.NewSession(transport.Options{
		URL:          cfg.ServerURL,
		WriteTimeout: cfg.WriteTimeout,
		MaxFrameSize: cfg.MaxFrameSize,
	})
	list := viewport.NewList(cfg.ViewportLines)
	tooltip := device.NewTooltip(out)
	defer tooltip.Close()

	opt := chat.Options{
		Renderer:         render.Text{},
		List:             list,
		Notifier:         tooltip,
		Geolocator:       device.NewFixedLocation(cfg.Latitude, cfg.Longitude),
		PullTimeout:      cfg.PullTimeout,
		NoticeDuration:   cfg.NoticeDuration,
		CommandPrefix:    cfg.CommandPrefix,
		LocationKeywords: cfg.LocationKeywords,
	}
	if rec := device.NewClipRecorder(cfg.RecordingPath, out); rec != nil {
		opt.Recorder = rec
	}
	client := chat.NewClient(session, opt)
	defer client.Stop()

	tr := newTranscript(list, out)
	list.OnChange(tr.flush)
	term, err := newTerminal(client, list, out)
	if err != nil {
		return err
	}
	defer term.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			log.Infow("metrics_listen", "addr", cfg.MetricsAddr)
			return observe.StartHTTP(ctx, cfg.MetricsAddr)
		})
	}
	g.Go(func() error {
		if err := client.Connect(ctx); err != nil {
			// 连接失败不退出，用户可以 :connect 重试
			log.Warnw("initial_connect_error", "err", err)
			fmt.Fprintf(out, "connect failed: %v\n", err)
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		defer func() { _ = client.Disconnect() }()
		return term.loop(ctx, in)
	})
	return g.Wait()
}
