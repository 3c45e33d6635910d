package observe

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	connectionState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "chat_client_connection_state",
		Help: "1 for the current connection state, 0 for the others",
	}, []string{"state"})

	envelopesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_client_envelopes_sent_total",
			Help: "Total envelopes written to the server by event",
		},
		[]string{"event"},
	)

	envelopesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_client_envelopes_received_total",
			Help: "Total envelopes decoded from the server by event",
		},
		[]string{"event"},
	)

	decodeErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_client_decode_errors_total",
		Help: "Total inbound frames dropped because they could not be decoded",
	})

	notRenderableTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_client_not_renderable_total",
			Help: "Total messages the renderer could not turn into a node",
		},
		[]string{"path"}, // live|last|history|upload
	)

	noticesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_client_notices_total",
			Help: "Total user-visible notices by anchor control",
		},
		[]string{"anchor"},
	)

	unroutedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_client_unrouted_total",
			Help: "Total inbound envelopes dropped because no handler takes their event",
		},
		[]string{"event", "known"},
	)

	historyRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_client_history_requests_total",
		Help: "Total getHistory pull requests issued",
	})

	historyTimeoutsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_client_history_timeouts_total",
		Help: "Total getHistory pull requests that got no answer in time",
	})

	commandTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_client_local_commands_total",
			Help: "Total local terminal commands executed",
		},
		[]string{"command"},
	)

	commandErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_client_local_command_errors_total",
			Help: "Total local terminal command errors by reason",
		},
		[]string{"reason"}, // not_found|handler
	)
)

func init() {
	prometheus.MustRegister(
		connectionState,
		envelopesSent,
		envelopesReceived,
		decodeErrorsTotal,
		notRenderableTotal,
		noticesTotal,
		unroutedTotal,
		historyRequestsTotal,
		historyTimeoutsTotal,
		commandTotal,
		commandErrors,
	)
}

var states = []string{"disconnected", "connecting", "connected", "error"}

// SetConnectionState 只保留当前状态为 1
func SetConnectionState(state string) {
	for _, s := range states {
		v := 0.0
		if s == state {
			v = 1
		}
		connectionState.WithLabelValues(s).Set(v)
	}
}

func IncSent(event string)          { envelopesSent.WithLabelValues(event).Inc() }
func IncReceived(event string)      { envelopesReceived.WithLabelValues(event).Inc() }
func IncDecodeError()               { decodeErrorsTotal.Inc() }
func IncNotRenderable(path string)  { notRenderableTotal.WithLabelValues(path).Inc() }
func IncNotice(anchor string)       { noticesTotal.WithLabelValues(anchor).Inc() }
func IncHistoryRequest()            { historyRequestsTotal.Inc() }
func IncHistoryTimeout()            { historyTimeoutsTotal.Inc() }
func IncCommand(name string)        { commandTotal.WithLabelValues(name).Inc() }
func IncCommandError(reason string) { commandErrors.WithLabelValues(reason).Inc() }

// IncUnrouted known 区分协议内但无去处的事件与完全未知的事件
func IncUnrouted(event string, known bool) {
	unroutedTotal.WithLabelValues(event, strconv.FormatBool(known)).Inc()
}
