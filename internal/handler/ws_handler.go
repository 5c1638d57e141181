package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/menkyoquiz/menkyo-backend/internal/config"
	"github.com/menkyoquiz/menkyo-backend/internal/middleware"
	"github.com/menkyoquiz/menkyo-backend/internal/model"
	"github.com/menkyoquiz/menkyo-backend/internal/service"
	ws "github.com/menkyoquiz/menkyo-backend/internal/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty origin list permits all origins (development mode).
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

// wsConn wraps a connection with a write lock: the countdown ticker and
// the read loop both write to the socket.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *wsConn) write(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ws.WriteTyped(w.conn, v)
}

func (w *wsConn) writeError(msg string) {
	_ = w.write(ws.ErrorResponse{Event: ws.EventError, Error: msg})
}

// close tears down the underlying socket, unblocking the read loop.
func (w *wsConn) close() error {
	return w.conn.Close()
}

// streamConn is the slice of wsConn the countdown needs.
type streamConn interface {
	write(v interface{}) error
	close() error
}

// WSHandler handles WebSocket quiz streaming.
type WSHandler struct {
	cfg         *config.Config
	quizService *service.QuizService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(cfg *config.Config, quizService *service.QuizService, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		cfg:         cfg,
		quizService: quizService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(cfg.AllowedOrigins),
	}
}

// QuizStream godoc
// WS /ws/v1/quiz/:session_id/stream
// Upgrades to WebSocket for real-time answering. Timed challenges get a
// 1 Hz countdown; the read loop handles answer/advance/ping actions.
func (h *WSHandler) QuizStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	userID := claims.UserID
	sessionID := c.Param("session_id")

	state, err := h.quizService.GetSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no live session with this ID"})
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer raw.Close()
	conn := &wsConn{conn: raw}

	wsLog := h.log.With().
		Int("user_id", userID).
		Str("session_id", sessionID).
		Logger()
	wsLog.Info().Msg("Quiz stream connected")

	done := make(chan struct{})
	defer close(done)

	if state.ChallengeType == string(model.ChallengeTimed) && state.RemainingSeconds != nil {
		go h.runCountdown(conn, wsLog, *state.RemainingSeconds, done)
	}

	for {
		_ = raw.SetReadDeadline(time.Now().Add(5 * time.Minute))
		_, data, err := raw.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		var env ws.RequestEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			conn.writeError("invalid JSON")
			continue
		}

		switch env.Action {
		case ws.ActionAnswer:
			h.handleAnswer(conn, wsLog, userID, sessionID, data)
		case ws.ActionAdvance:
			if h.handleAdvance(conn, wsLog, userID, sessionID) {
				return
			}
		case ws.ActionPing:
			_ = conn.write(ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(env.Action)).Msg("Unknown action")
			conn.writeError("unknown action: " + string(env.Action))
		}
	}
}

// runCountdown ticks once per second until the challenge time runs out or
// the stream closes. On expiry it emits times_up and closes the socket:
// the stream must not accept answers past the time limit.
func (h *WSHandler) runCountdown(conn streamConn, wsLog zerolog.Logger, remaining int, done <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			remaining--
			if remaining <= 0 {
				wsLog.Info().Msg("Timed challenge ran out")
				_ = conn.write(ws.TimesUpResponse{Event: ws.EventTimesUp})
				_ = conn.close()
				return
			}
			if err := conn.write(ws.TickResponse{Event: ws.EventTick, RemainingSeconds: remaining}); err != nil {
				return
			}
		}
	}
}

func (h *WSHandler) handleAnswer(conn *wsConn, wsLog zerolog.Logger, userID int, sessionID string, data []byte) {
	var req ws.AnswerRequest
	if err := json.Unmarshal(data, &req); err != nil || req.Answer == nil {
		conn.writeError("answer is required")
		return
	}

	verdict, state, err := h.quizService.SubmitAnswer(context.Background(), userID, sessionID, model.SubmitAnswerRequest{
		Answer:           req.Answer,
		TimeSpentSeconds: req.TimeSpentSeconds,
	})
	if err != nil {
		wsLog.Debug().Err(err).Msg("Submit rejected")
		conn.writeError(err.Error())
		return
	}

	_ = conn.write(ws.FeedbackResponse{Event: ws.EventFeedback, Verdict: *verdict, Score: state.Score})
}

// handleAdvance moves to the next question. Returns true when the session
// completed, which ends the stream.
func (h *WSHandler) handleAdvance(conn *wsConn, wsLog zerolog.Logger, userID int, sessionID string) bool {
	state, summary, err := h.quizService.Advance(context.Background(), userID, sessionID)
	if err != nil {
		wsLog.Debug().Err(err).Msg("Advance rejected")
		conn.writeError(err.Error())
		return false
	}

	if summary != nil {
		_ = conn.write(ws.CompletedResponse{Event: ws.EventCompleted, Summary: *summary})
		wsLog.Info().Int("score", summary.Score).Msg("Session completed over stream")
		return true
	}

	_ = conn.write(ws.AdvancedResponse{
		Event:        ws.EventAdvanced,
		CurrentIndex: state.CurrentIndex,
		Question:     state.CurrentQuestion,
	})
	return false
}
