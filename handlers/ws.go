package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"github.com/beaconhr/onboard-api/middleware"
	"github.com/beaconhr/onboard-api/models"
)

// WSHandler pushes visa-case events to connected dashboards. HR sessions see
// every event; an employee session only sees its own case.
type WSHandler struct {
	M  *melody.Melody
	DB *sql.DB
}

func NewWSHandler(db *sql.DB) *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024

	// Keep-Alive for cloud hosting proxies
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		userID, _ := s.Get("user_id")
		log.Printf("✅ Client connected: %v", userID)
	})

	m.HandleDisconnect(func(s *melody.Session) {
		userID, _ := s.Get("user_id")
		log.Printf("🔌 Client disconnected: %v", userID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket Error: %v", err)
	})

	return &WSHandler{M: m, DB: db}
}

// HandleWS upgrades the request. It sits behind the hard-failure auth gate, so
// the principal is always present; the role is resolved here and pinned to the
// session.
func (h *WSHandler) HandleWS(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var role string
	if err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT role FROM users WHERE id = $1`, userID).Scan(&role); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	keys := map[string]interface{}{
		"user_id": userID,
		"role":    role,
	}
	if err := h.M.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

type visaEvent struct {
	Type     string `json:"type"`
	UserID   string `json:"user_id"`
	Document string `json:"document"`
	Status   string `json:"status"`
}

// BroadcastVisaEvent notifies HR dashboards and the affected employee that a
// document slot changed.
func (h *WSHandler) BroadcastVisaEvent(userID, document, status string) {
	msg, err := json.Marshal(visaEvent{
		Type:     "visa_update",
		UserID:   userID,
		Document: document,
		Status:   status,
	})
	if err != nil {
		return
	}

	err = h.M.BroadcastFilter(msg, func(q *melody.Session) bool {
		role, _ := q.Get("role")
		if role == models.RoleHR {
			return true
		}
		id, exists := q.Get("user_id")
		return exists && id == userID
	})
	if err != nil {
		log.Printf("⚠️ Error broadcasting visa event for %s: %v", userID, err)
	}
}
