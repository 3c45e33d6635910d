package transport

import (
	"net/http"
	"time"

	"github.com/hongjun500/chat-client/internal/protocol"
)

// Options configures the client session
type Options struct {
	URL          string                // ws:// or wss:// endpoint
	Header       http.Header           // extra handshake headers
	DialTimeout  time.Duration         // handshake timeout; 0 uses 10s
	WriteTimeout time.Duration         // per-write deadline; 0 to disable
	MaxFrameSize int                   // inbound frame limit in bytes; 0 to disable
	Codec        protocol.MessageCodec // defaults to JSON
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.DialTimeout <= 0 {
		out.DialTimeout = 10 * time.Second
	}
	if out.Codec == nil {
		out.Codec = protocol.JSONCodec{}
	}
	return out
}
