package preview

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/stripscript/internal/led"
)

const writeWait = 200 * time.Millisecond

// Controller runs the commands sent over /control.
type Controller interface {
	Start(name string, params map[string]any) error
	TurnOff() error
	White(level int) error
	Solid(params map[string]any) error
}

// Hub broadcasts frames written to its pin drivers and diagnostics to
// websocket clients.
type Hub struct {
	mu          sync.Mutex
	up          websocket.Upgrader
	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool
	pins        map[int]int
	frameID     uint64
	startTime   time.Time
	status      func() any
}

func NewHub() *Hub {
	return &Hub{
		up:          websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
		pins:        map[int]int{},
		startTime:   time.Now(),
	}
}

// SetStatus sets the source of the extra /health fields.
func (h *Hub) SetStatus(fn func() any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = fn
}

// Driver returns a led.Driver that streams pin's frames to /ws clients.
func (h *Hub) Driver(pin, count int) led.Driver {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pins[pin] = count
	return &pinDriver{hub: h, pin: pin, count: count}
}

type pinDriver struct {
	hub   *Hub
	pin   int
	count int
}

func (d *pinDriver) Write(rgb []byte) error {
	if len(rgb) != d.count*3 {
		return fmt.Errorf("rgb length %d does not match count %d", len(rgb), d.count)
	}
	d.hub.broadcastFrame(d.pin, rgb)
	return nil
}

func (d *pinDriver) Close() error {
	d.hub.mu.Lock()
	defer d.hub.mu.Unlock()
	delete(d.hub.pins, d.pin)
	return nil
}

type frame struct {
	T       int64  `json:"t"`
	FrameID uint64 `json:"frame_id"`
	Pin     int    `json:"pin"`
	RGB     []byte `json:"rgb"`
}

func (h *Hub) broadcastFrame(pin int, rgb []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frameID++
	b, _ := json.Marshal(frame{T: time.Now().UnixNano(), FrameID: h.frameID, Pin: pin, RGB: rgb})
	for c := range h.clients {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
}

// Push sends d to every /diag client.
func (h *Hub) Push(d Diagnostic) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pushDiag(d)
}

func (h *Hub) pushDiag(d Diagnostic) {
	b, _ := json.Marshal(d)
	for c := range h.diagClients {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.WriteMessage(websocket.TextMessage, b)
	}
}

// serve registers conn in set, sends hello and drains reads until the client
// goes away.
func (h *Hub) serve(conn *websocket.Conn, set map[*websocket.Conn]bool, hello any) {
	h.mu.Lock()
	set[conn] = true
	b, _ := json.Marshal(hello)
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.TextMessage, b)
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(set, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.mu.Lock()
	pins := make(map[string]int, len(h.pins))
	for p, n := range h.pins {
		pins[fmt.Sprint(p)] = n
	}
	h.mu.Unlock()
	h.serve(conn, h.clients, map[string]any{"pins": pins})
}

func (h *Hub) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.serve(conn, h.diagClients, Diagnostic{Severity: Info, Code: CodeConnected, Summary: "Connected"})
}

type command struct {
	Script string         `json:"script,omitempty"`
	Params map[string]any `json:"params,omitempty"`
	Off    bool           `json:"off,omitempty"`
	White  *int           `json:"white,omitempty"`
	Solid  map[string]any `json:"solid,omitempty"`
}

// HandleControlWS reads commands and answers each with {"ok":true} or
// {"error":...}.
func (h *Hub) HandleControlWS(ctrl Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var cmd command
			if err := json.Unmarshal(data, &cmd); err != nil {
				h.reply(conn, err)
				continue
			}
			h.reply(conn, h.run(ctrl, cmd))
		}
	}
}

func (h *Hub) run(ctrl Controller, cmd command) error {
	var err error
	switch {
	case cmd.Script != "":
		if err = ctrl.Start(cmd.Script, cmd.Params); err != nil {
			h.Push(ScriptFailed(cmd.Script, err))
			return err
		}
	case cmd.Off:
		err = ctrl.TurnOff()
	case cmd.White != nil:
		err = ctrl.White(*cmd.White)
	case cmd.Solid != nil:
		err = ctrl.Solid(cmd.Solid)
	default:
		err = errors.New("empty command")
	}
	if err != nil {
		h.Push(Diagnostic{Severity: Warn, Code: CodeControlFailed, Summary: "Command failed", Detail: err.Error()})
	}
	return err
}

func (h *Hub) reply(conn *websocket.Conn, err error) {
	resp := map[string]any{"ok": true}
	if err != nil {
		resp = map[string]any{"error": err.Error()}
	}
	b, _ := json.Marshal(resp)
	_ = conn.WriteMessage(websocket.TextMessage, b)
}

func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	resp := map[string]any{
		"frame_id": h.frameID,
		"uptime_s": time.Since(h.startTime).Seconds(),
		"pins":     len(h.pins),
	}
	status := h.status
	h.mu.Unlock()
	if status != nil {
		resp["status"] = status()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Register mounts the hub's handlers on mux. ctrl may be nil.
func (h *Hub) Register(mux *http.ServeMux, ctrl Controller) {
	mux.HandleFunc("/ws", h.HandleFramesWS)
	mux.HandleFunc("/diag", h.HandleDiagWS)
	mux.HandleFunc("/health", h.HandleHealth)
	if ctrl != nil {
		mux.HandleFunc("/control", h.HandleControlWS(ctrl))
	}
}
