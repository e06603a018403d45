package preview

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	started string
	white   int
	off     bool
}

func (f *fakeController) Start(name string, _ map[string]any) error {
	if name == "missing" {
		return errors.New("store: script not found")
	}
	f.started = name
	return nil
}

func (f *fakeController) TurnOff() error                    { f.off = true; return nil }
func (f *fakeController) White(level int) error             { f.white = level; return nil }
func (f *fakeController) Solid(params map[string]any) error { return nil }

func newServer(t *testing.T, ctrl Controller) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub()
	mux := http.NewServeMux()
	hub.Register(mux, ctrl)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestFramesAreBroadcast(t *testing.T) {
	hub, srv := newServer(t, nil)
	drv := hub.Driver(2, 2)
	conn := dial(t, srv, "/ws")

	var hello struct {
		Pins map[string]int `json:"pins"`
	}
	readJSON(t, conn, &hello)
	assert.Equal(t, map[string]int{"2": 2}, hello.Pins)

	require.NoError(t, drv.Write([]byte{1, 2, 3, 4, 5, 6}))
	var f frame
	readJSON(t, conn, &f)
	assert.Equal(t, 2, f.Pin)
	assert.Equal(t, uint64(1), f.FrameID)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, f.RGB)
}

func TestDriverRejectsShortFrames(t *testing.T) {
	hub := NewHub()
	drv := hub.Driver(0, 3)
	assert.Error(t, drv.Write([]byte{1, 2, 3}))
	require.NoError(t, drv.Close())
	assert.Empty(t, hub.pins)
}

func TestDiagnosticsArePushed(t *testing.T) {
	hub, srv := newServer(t, nil)
	conn := dial(t, srv, "/diag")

	var d Diagnostic
	readJSON(t, conn, &d)
	assert.Equal(t, CodeConnected, d.Code)

	hub.Push(ScriptFailed("rainbow", errors.New("bad element")))
	readJSON(t, conn, &d)
	assert.Equal(t, Err, d.Severity)
	assert.Equal(t, CodeScriptFailed, d.Code)
	assert.Equal(t, "rainbow", d.Script)
	assert.Equal(t, "bad element", d.Detail)
}

func TestControlCommands(t *testing.T) {
	ctrl := &fakeController{}
	_, srv := newServer(t, ctrl)
	conn := dial(t, srv, "/control")

	send := func(msg string) map[string]any {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))
		var resp map[string]any
		readJSON(t, conn, &resp)
		return resp
	}

	assert.Equal(t, true, send(`{"script":"rainbow"}`)["ok"])
	assert.Equal(t, "rainbow", ctrl.started)
	assert.Equal(t, true, send(`{"white":70}`)["ok"])
	assert.Equal(t, 70, ctrl.white)
	assert.Equal(t, true, send(`{"off":true}`)["ok"])
	assert.True(t, ctrl.off)

	assert.Contains(t, send(`{"script":"missing"}`)["error"], "not found")
	assert.Contains(t, send(`{}`)["error"], "empty command")
	assert.NotNil(t, send(`{`)["error"])
}

func TestHealth(t *testing.T) {
	hub, srv := newServer(t, nil)
	hub.Driver(0, 10)
	hub.SetStatus(func() any { return map[string]string{"script": "glow"} })

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1.0, body["pins"])
	assert.Equal(t, map[string]any{"script": "glow"}, body["status"])
}

func TestFailedStartIsDiagnosed(t *testing.T) {
	_, srv := newServer(t, &fakeController{})
	diag := dial(t, srv, "/diag")
	var d Diagnostic
	readJSON(t, diag, &d)

	ctrl := dial(t, srv, "/control")
	require.NoError(t, ctrl.WriteMessage(websocket.TextMessage, []byte(`{"script":"missing"}`)))
	var resp map[string]any
	readJSON(t, ctrl, &resp)
	assert.Contains(t, resp["error"], "not found")

	readJSON(t, diag, &d)
	assert.Equal(t, CodeScriptFailed, d.Code)
	assert.Equal(t, "missing", d.Script)
}
