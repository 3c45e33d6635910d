package chat

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongjun500/chat-client/internal/observe"
	"github.com/hongjun500/chat-client/internal/protocol"
	"github.com/hongjun500/chat-client/internal/render"
	"github.com/hongjun500/chat-client/internal/viewport"
)

func decode(t *testing.T, frame string) *protocol.Envelope {
	t.Helper()
	env, err := protocol.Unmarshal(protocol.JSONCodec{}, []byte(frame), 0)
	require.NoError(t, err)
	return env
}

func newTestRouter(r Renderer, list MessageList) (*Router, *Paginator, *recordingNotifier, *recordingSender) {
	sender := &recordingSender{}
	notifier := &recordingNotifier{}
	history := NewPaginator(list, r, sender, 0)
	return NewRouter(list, r, notifier, history, 0), history, notifier, sender
}

func TestRouter_LiveAppendScrollsToBottom(t *testing.T) {
	list := viewport.NewList(100)
	router, history, notifier, _ := newTestRouter(fixedRenderer{h: 60}, list)

	for _, frame := range []string{
		`{"event":"newMessage","id":1,"message":"hi","type":"text"}`,
		`{"event":"command","id":2,"type":"weather","weather":{"location":"x","temp":1,"condition":"sun"}}`,
		`{"event":"geolocation","id":3,"message":{"latitude":1,"longitude":2},"type":"geolocation"}`,
	} {
		router.Route(decode(t, frame))
	}

	assert.Equal(t, 3, list.Len())
	assert.Equal(t, 180-100, list.ScrollTop())
	assert.Equal(t, "1", history.Cursor().String())
	assert.Empty(t, notifier.notices())
}

func TestRouter_LiveNotRenderableIsSilent(t *testing.T) {
	list := viewport.NewList(100)
	router, history, notifier, _ := newTestRouter(fixedRenderer{h: 10}, list)

	router.Route(decode(t, `{"event":"newMessage","id":1,"message":"hi"}`))

	assert.Equal(t, 0, list.Len())
	assert.Empty(t, notifier.notices())
	assert.False(t, history.Cursor().Valid())
}

func TestRouter_LastMessagesStatusFalse(t *testing.T) {
	list := viewport.NewList(100)
	list.Append(testNode{h: 300})
	list.SetScrollTop(40)
	router, _, _, _ := newTestRouter(fixedRenderer{h: 10}, list)

	router.Route(decode(t, `{"event":"getLastMessage","status":false,"message":[{"id":1,"type":"text","message":"a"}]}`))

	assert.Equal(t, 1, list.Len())
	assert.Equal(t, 40, list.ScrollTop())
}

func TestRouter_LastMessagesAppendOldestFirst(t *testing.T) {
	list := viewport.NewList(50)
	router, history, _, _ := newTestRouter(fixedRenderer{h: 20}, list)

	router.Route(decode(t, `{"event":"getLastMessage","status":true,"message":[{"id":7,"type":"text","message":"a"},{"id":8,"type":"text","message":"b"},{"id":9,"type":"text","message":"c"}]}`))

	nodes := list.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, "7", nodes[0].(testNode).id)
	assert.Equal(t, "9", nodes[2].(testNode).id)
	assert.Equal(t, 10, list.ScrollTop())
	assert.Equal(t, "7", history.Cursor().String())
}

func TestRouter_HistoryDelegatesToPaginator(t *testing.T) {
	list := viewport.NewList(50)
	list.Append(testNode{id: "10", h: 20})
	router, history, _, _ := newTestRouter(fixedRenderer{h: 20}, list)
	history.noteLoaded(protocol.NewNumericIdentifier(10))

	router.Route(decode(t, `{"event":"getHistory","status":true,"message":[{"id":9,"type":"text","message":"a"}]}`))

	assert.Equal(t, 2, list.Len())
	assert.Equal(t, "9", list.Nodes()[0].(testNode).id)
	assert.Equal(t, "9", history.Cursor().String())
}

func TestRouter_UploadUnsupportedFormat(t *testing.T) {
	list := viewport.NewList(100)
	router, _, notifier, _ := newTestRouter(render.Text{}, list)

	router.Route(decode(t, `{"event":"upLoadFile","id":4,"file":"data:application/zip;base64,UEs=","type":"file","info":{"name":"a.zip","category":"application/zip"}}`))

	assert.Equal(t, 0, list.Len())
	shown := notifier.notices()
	require.Len(t, shown, 1)
	assert.Equal(t, ControlUpload, shown[0].anchor)
	assert.Equal(t, MsgUnsupportedFormat, shown[0].message)
	assert.Equal(t, DefaultNoticeDuration, shown[0].d)
}

func TestRouter_UploadAppends(t *testing.T) {
	list := viewport.NewList(1)
	router, _, notifier, _ := newTestRouter(render.Text{}, list)

	router.Route(decode(t, `{"event":"upLoadFile","id":5,"file":"data:image/png;base64,AA==","type":"file","info":{"name":"a.png","category":"image/png"}}`))

	require.Equal(t, 1, list.Len())
	assert.Equal(t, "5", list.Nodes()[0].(*render.Block).ID)
	assert.Equal(t, list.ScrollHeight()-1, list.ScrollTop())
	assert.Empty(t, notifier.notices())
}

func TestRouter_UnknownEventIgnored(t *testing.T) {
	srv := httptest.NewServer(observe.Handler())
	defer srv.Close()

	list := viewport.NewList(10)
	router, history, notifier, _ := newTestRouter(fixedRenderer{h: 1}, list)
	router.Route(decode(t, `{"event":"typing","id":4,"message":"...","type":"text"}`))
	assert.Equal(t, 0, list.Len())
	assert.False(t, history.Cursor().Valid())
	assert.Empty(t, notifier.notices())

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Contains(t, string(body), `chat_client_unrouted_total{event="typing",known="false"} 1`)
}
