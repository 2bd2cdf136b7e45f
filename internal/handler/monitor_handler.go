package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/examin-app/examin-backend/internal/config"
	"github.com/examin-app/examin-backend/internal/response"
	"github.com/examin-app/examin-backend/internal/service"
)

const keepAliveInterval = 30 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allow list permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// MonitorHandler streams live submission events to admins over WebSocket.
type MonitorHandler struct {
	rdb         *redis.Client
	examService *service.ExamService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewMonitorHandler creates a new MonitorHandler.
func NewMonitorHandler(rdb *redis.Client, examService *service.ExamService, log zerolog.Logger, allowedOrigins []string) *MonitorHandler {
	return &MonitorHandler{
		rdb:         rdb,
		examService: examService,
		log:         log.With().Str("component", "monitor_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// MonitorExam godoc
// WS /ws/v1/exams/:id/monitor
// Upgrades to WebSocket and relays each submission for the exam as it lands.
func (h *MonitorHandler) MonitorExam(c *gin.Context) {
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if _, err := h.examService.GetForAdmin(c.Request.Context(), examID); err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	channel := config.CacheKey.ExamSubmissionChannel(examID.String())
	pubsub := h.rdb.Subscribe(ctx, channel)
	defer pubsub.Close()

	h.log.Info().Str("exam_id", examID.String()).Msg("monitor connected")

	// Drain client frames so close and pong frames are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				h.log.Debug().Err(err).Msg("monitor write failed, closing")
				return
			}
		case <-keepAlive.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
