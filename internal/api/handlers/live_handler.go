package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/trident-ems/trident/internal/audio"
	"github.com/trident-ems/trident/internal/session"
	"github.com/trident-ems/trident/internal/utils"
)

// LiveOptions carries the per-call tuning handed to each new session.
type LiveOptions struct {
	Buffer            audio.BufferConfig
	MinFinalizeBuffer float64
	UtteranceTTL      time.Duration
}

// LiveHandler owns the live-call WebSocket boundary. One connection is one
// call session: binary frames are raw little-endian float32 mono PCM, a text
// frame {"type":"end_call"} or a disconnect finalizes the call.
type LiveHandler struct {
	deps     session.Deps // Emitter is filled per connection
	opts     LiveOptions
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

func NewLiveHandler(deps session.Deps, opts LiveOptions, log *logrus.Logger) *LiveHandler {
	return &LiveHandler{
		deps: deps,
		opts: opts,
		log:  log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

type wsClientMsg struct {
	Type string `json:"type"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeText(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

// Emit satisfies session.Emitter. Writes to a closed transport are dropped;
// the session must outlive the socket.
func (w *wsConn) Emit(update any) {
	b, err := json.Marshal(update)
	if err != nil {
		return
	}
	_ = w.writeText(b)
}

func (h *LiveHandler) CallWS(c *gin.Context) {
	dispatcherID, ok := requireDispatcherID(c)
	if !ok {
		return
	}

	callID := c.Param("call_id")
	if callID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "LiveHandler.CallWS", "missing call_id", nil))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}

	deps := h.deps
	deps.Emitter = wc

	sess := session.New(session.Config{
		CallID:            callID,
		Buffer:            h.opts.Buffer,
		MinFinalizeBuffer: h.opts.MinFinalizeBuffer,
		UtteranceTTL:      h.opts.UtteranceTTL,
	}, deps)

	h.log.WithFields(logrus.Fields{
		"call_id":       callID,
		"dispatcher_id": dispatcherID,
	}).Info("live call connected")

	ctx := c.Request.Context()

	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

readLoop:
	for {
		mt, data, rerr := conn.ReadMessage()
		if rerr != nil {
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		switch mt {
		case websocket.BinaryMessage:
			sess.ProcessChunk(ctx, audio.DecodeFloat32(data))

		case websocket.TextMessage:
			var msg wsClientMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				_ = wc.writeText([]byte(`{"type":"error","message":"invalid json"}`))
				continue
			}
			if msg.Type == "end_call" {
				break readLoop
			}
			_ = wc.writeText([]byte(`{"type":"error","message":"unknown message type"}`))
		}
	}

	// The request context dies with the socket; finalization still has to
	// persist and upload, so it gets its own deadline.
	finCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	final := sess.Finalize(finCtx)
	wc.Emit(session.CallEnded{Type: "call_ended", Analysis: final})
}
