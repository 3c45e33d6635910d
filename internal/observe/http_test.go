package observe

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_HealthAndMetrics(t *testing.T) {
	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ok\n", string(body))

	SetConnectionState("connected")
	IncSent("newMessage")
	IncDecodeError()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	text := string(body)
	assert.True(t, strings.Contains(text, `chat_client_connection_state{state="connected"} 1`), text)
	assert.True(t, strings.Contains(text, `chat_client_connection_state{state="error"} 0`))
	assert.True(t, strings.Contains(text, `chat_client_envelopes_sent_total{event="newMessage"}`))
	assert.True(t, strings.Contains(text, "chat_client_decode_errors_total"))
}
