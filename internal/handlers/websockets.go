package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"medclinic/internal/models"
	"medclinic/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 5 * time.Second
	maxInterval      = time.Minute
	maxIntervalMilli = 60_000
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origins for production
}

// wsAppointments streams the caller's upcoming appointments. Browsers cannot
// set an Authorization header on a WebSocket dial, so the token may also come
// in as ?token=.
func (h *Handler) wsAppointments(c *gin.Context) {
	userID, role, ok := h.tokenIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
		return
	}
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	// Push the current snapshot immediately.
	if err := h.sendUpcoming(c.Request.Context(), conn, userID, role); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.sendUpcoming(c.Request.Context(), conn, userID, role); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// tokenIdentity authenticates a request from ?token= or the Authorization
// header. Used by the WebSocket dial and the server-rendered pages, where the
// client cannot always set a Bearer header.
func (h *Handler) tokenIdentity(c *gin.Context) (int, string, bool) {
	token := c.Query("token")
	if token == "" {
		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
	}
	if token == "" {
		return 0, "", false
	}
	userID, role, err := h.services.ParseToken(token)
	if err != nil {
		return 0, "", false
	}
	return userID, role, true
}

// Helper: parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return defaultInterval
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// Helper: sendUpcoming fetches and writes the caller's future non-cancelled
// appointments with a write deadline.
func (h *Handler) sendUpcoming(ctx context.Context, conn *websocket.Conn, userID int, role string) error {
	f := repository.AppointmentFilter{From: time.Now().UTC()}
	if role == models.RoleDoctor {
		f.DoctorID = userID
	} else {
		f.PatientID = userID
	}

	appts, err := h.services.Appointments.List(ctx, f)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_list_failed", "err", err)
		}
		return err
	}

	upcoming := make([]models.Appointment, 0, len(appts))
	for _, a := range appts {
		if a.Status != models.StatusCancelled {
			upcoming = append(upcoming, a)
		}
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsEnvelope{Type: "appointments", Data: upcoming})
}
