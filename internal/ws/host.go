package ws

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	diag "github.com/coreman2200/arcaluminis-marquee/internal/diagnostics"
	"github.com/coreman2200/arcaluminis-marquee/internal/present"
	"github.com/coreman2200/arcaluminis-marquee/internal/worker"
)

const writeWait = 200 * time.Millisecond

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// peer serializes writes; gorilla allows one concurrent writer per conn.
type peer struct {
	conn *websocket.Conn
	wmu  sync.Mutex
}

func (p *peer) write(messageType int, b []byte) error {
	p.wmu.Lock()
	defer p.wmu.Unlock()
	_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return p.conn.WriteMessage(messageType, b)
}

// Host is the worker's side of the websocket protocol. Control clients
// send messages into the session inbox and receive its outbound
// announcements; viewers receive committed frames as PNG; diag clients
// receive diagnostics.
type Host struct {
	mu          sync.RWMutex
	control     map[*websocket.Conn]*peer
	viewers     map[*websocket.Conn]*peer
	diagClients map[*websocket.Conn]*peer

	inbox chan<- worker.Message
	done  <-chan struct{}

	limits    Limits
	minGap    time.Duration
	lastFrame time.Time
	health    func() any
	startTime time.Time

	received  atomic.Uint64
	dropped   atomic.Uint64
	announced atomic.Uint64
}

// NewHost feeds decoded messages into inbox until ctx is done. maxFPS
// throttles viewer frames; 0 sends every frame. Zero limits fields take
// DefaultLimits values.
func NewHost(ctx context.Context, inbox chan<- worker.Message, maxFPS int, limits Limits) *Host {
	h := &Host{
		control:     map[*websocket.Conn]*peer{},
		viewers:     map[*websocket.Conn]*peer{},
		diagClients: map[*websocket.Conn]*peer{},
		inbox:       inbox,
		limits:      limits.withDefaults(),
		done:        ctx.Done(),
		startTime:   time.Now(),
	}
	if maxFPS > 0 {
		h.minGap = time.Second / time.Duration(maxFPS)
	}
	return h
}

// SetHealth installs a provider whose value is reported under "session"
// by HandleHealth.
func (h *Host) SetHealth(fn func() any) {
	h.mu.Lock()
	h.health = fn
	h.mu.Unlock()
}

func (h *Host) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	conn.SetReadLimit(h.limits.MaxMessageBytes)
	h.register(h.control, conn)
	defer h.unregister(h.control, conn)
	log.Info().Str("remote", r.RemoteAddr).Msg("control client connected")

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if errors.Is(err, websocket.ErrReadLimit) {
				h.dropped.Add(1)
				log.Warn().Str("remote", r.RemoteAddr).Int64("limit", h.limits.MaxMessageBytes).Msg("control message too large; closing")
				return
			}
			log.Info().Str("remote", r.RemoteAddr).Msg("control client gone")
			return
		}
		h.received.Add(1)
		msg, err := h.limits.Decode(mt, data)
		if err != nil {
			h.dropped.Add(1)
			log.Debug().Err(err).Int("bytes", len(data)).Msg("drop control message")
			continue
		}
		if !h.post(msg) {
			return
		}
	}
}

func (h *Host) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	h.serveSink(h.viewers, w, r)
}

func (h *Host) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	h.serveSink(h.diagClients, w, r)
}

// serveSink keeps a write-only subscriber registered until it disconnects.
func (h *Host) serveSink(set map[*websocket.Conn]*peer, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.register(set, conn)
	go func() {
		defer h.unregister(set, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Host) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	resp := map[string]any{
		"uptime_s":          time.Since(h.startTime).Seconds(),
		"control_clients":   len(h.control),
		"viewers":           len(h.viewers),
		"diag_clients":      len(h.diagClients),
		"messages_received": h.received.Load(),
		"messages_dropped":  h.dropped.Load(),
		"announcements":     h.announced.Load(),
	}
	health := h.health
	h.mu.RUnlock()
	if health != nil {
		resp["session"] = health()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Emit sends the session's outbound message to every control client.
func (h *Host) Emit(o worker.Outbound) {
	b, err := json.Marshal(o)
	if err != nil {
		return
	}
	h.announced.Add(1)
	go h.broadcast(h.control, websocket.TextMessage, b)
}

// Report pushes a diagnostic to diag clients.
func (h *Host) Report(d diag.Diagnostic) {
	b, err := json.Marshal(d)
	if err != nil {
		return
	}
	go h.broadcast(h.diagClients, websocket.TextMessage, b)
}

func (h *Host) Name() string { return "viewers" }

// Consume sends f to viewers as PNG, at most maxFPS times per second.
func (h *Host) Consume(f *present.Frame) error {
	h.mu.Lock()
	if len(h.viewers) == 0 || (h.minGap > 0 && f.Timestamp.Sub(h.lastFrame) < h.minGap) {
		h.mu.Unlock()
		return nil
	}
	h.lastFrame = f.Timestamp
	h.mu.Unlock()

	var buf bytes.Buffer
	if err := png.Encode(&buf, f.Image); err != nil {
		return err
	}
	h.broadcast(h.viewers, websocket.BinaryMessage, buf.Bytes())
	return nil
}

func (h *Host) post(msg worker.Message) bool {
	select {
	case h.inbox <- msg:
		return true
	case <-h.done:
		if msg.Image != nil {
			_ = msg.Image.Close()
		}
		return false
	}
}

func (h *Host) register(set map[*websocket.Conn]*peer, conn *websocket.Conn) {
	h.mu.Lock()
	set[conn] = &peer{conn: conn}
	h.mu.Unlock()
}

func (h *Host) unregister(set map[*websocket.Conn]*peer, conn *websocket.Conn) {
	h.mu.Lock()
	delete(set, conn)
	h.mu.Unlock()
	conn.Close()
}

func (h *Host) broadcast(set map[*websocket.Conn]*peer, messageType int, b []byte) {
	h.mu.RLock()
	peers := make([]*peer, 0, len(set))
	for _, p := range set {
		peers = append(peers, p)
	}
	h.mu.RUnlock()
	for _, p := range peers {
		if err := p.write(messageType, b); err != nil {
			log.Debug().Err(err).Msg("websocket write")
		}
	}
}
