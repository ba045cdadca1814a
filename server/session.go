package server

import (
	"net/http"
	"time"

	"github.com/akmonengine/mercator"
	"github.com/akmonengine/mercator/projection"
	"github.com/akmonengine/mercator/svg"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message types sent by clients
const (
	MessageDown   = "down"
	MessageMove   = "move"
	MessageUp     = "up"
	MessageResize = "resize"
)

// messageUnknown labels the messages of any type the session does not handle
const messageUnknown = "unknown"

// messageLabel bounds the metric labels to the known message types
func messageLabel(messageType string) string {
	switch messageType {
	case MessageDown, MessageMove, MessageUp, MessageResize:
		return messageType
	}
	return messageUnknown
}

// Message is a pointer or resize event sent by a client.
// X and Y are pointer coordinates in pixels, Left and Top the origin of the drawing
// element on the page, Width and Height the new viewport for resize.
type Message struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Frame is sent back every time the map is redrawn
type Frame struct {
	ViewBox   string   `json:"viewBox"`
	Paths     []string `json:"paths"`
	Crossings int      `json:"crossings"`
}

// ErrorMessage is sent back for a message the session could not handle
type ErrorMessage struct {
	Error string `json:"error"`
}

// session is one WebSocket client and the map it drives.
// Messages are handled one at a time by the connection goroutine.
type session struct {
	conn   *websocket.Conn
	doc    *svg.Document
	m      *mercator.Map
	logger *zap.Logger

	crossings int
	redrawn   bool
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	doc := svg.NewDocument()
	sess := &session{
		conn:   conn,
		doc:    doc,
		m:      mercator.New(s.Polygons, doc, s.Config),
		logger: s.logger.With(zap.String("remote", r.RemoteAddr)),
	}
	s.observe(sess.m)
	sess.m.Events.Subscribe(mercator.RENDERED, func(event mercator.Event) {
		sess.crossings = event.(mercator.RenderedEvent).Crossing
		sess.redrawn = true
	})

	s.Metrics.ActiveSessions.Inc()
	defer s.Metrics.ActiveSessions.Dec()

	sess.logger.Info("session opened")
	defer sess.logger.Info("session closed")

	s.serveSession(sess)
}

func (s *Server) serveSession(sess *session) {
	for {
		_ = sess.conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg Message
		if err := sess.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				sess.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		s.Metrics.Messages.WithLabelValues(messageLabel(msg.Type)).Inc()

		start := time.Now()
		sess.redrawn = false
		if err := sess.handle(msg); err != nil {
			sess.logger.Debug("rejected message", zap.String("type", msg.Type), zap.Error(err))
			if err := sess.write(ErrorMessage{Error: err.Error()}); err != nil {
				return
			}
			continue
		}
		if !sess.redrawn {
			continue
		}
		s.Metrics.RenderDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)

		if err := sess.write(sess.frame()); err != nil {
			sess.logger.Warn("websocket write failed", zap.Error(err))
			return
		}
	}
}

// handle applies msg to the map
func (sess *session) handle(msg Message) error {
	element := projection.Rect{Left: msg.Left, Top: msg.Top}

	switch msg.Type {
	case MessageDown:
		sess.m.OnDown(msg.X, msg.Y, element)
	case MessageMove:
		sess.m.OnMove(msg.X, msg.Y, element)
	case MessageUp:
		sess.m.OnUp()
	case MessageResize:
		if !sess.m.SetBounds(msg.Width, msg.Height) {
			return errInvalidSize
		}
	default:
		return errUnknownMessage
	}
	return nil
}

func (sess *session) frame() Frame {
	viewBox, _ := sess.doc.Attribute("viewBox")
	return Frame{
		ViewBox:   viewBox,
		Paths:     sess.doc.Paths(),
		Crossings: sess.crossings,
	}
}

func (sess *session) write(v any) error {
	_ = sess.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return sess.conn.WriteJSON(v)
}
