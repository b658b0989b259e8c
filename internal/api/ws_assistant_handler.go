package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"

	"fitvoice/internal/auth"
	"fitvoice/internal/config"
	"fitvoice/internal/conversation"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocket connection wrapper with mutex for thread-safe writes
type safeWSConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *safeWSConn) WriteJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

func (s *safeWSConn) ReadMessage() (int, []byte, error) {
	return s.conn.ReadMessage()
}

func (s *safeWSConn) Close() error {
	return s.conn.Close()
}

type WSConverseMessage struct {
	Topic string `json:"topic"`
	Text  string `json:"text"`
}

type WSConverseReply struct {
	Reply string `json:"reply"`
	Topic string `json:"topic"`
}

// WSAssistantHandler runs a conversation over a websocket: each incoming
// frame is one user turn, each outgoing frame the assistant's reply.
// Auth is by JWT in the Authorization header or a token query parameter,
// since browsers cannot set headers on websocket upgrades.
func WSAssistantHandler(cfg *config.Config, engine *conversation.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "missing JWT"}})
			return
		}
		token = strings.TrimPrefix(token, "Bearer ")
		claims, err := auth.ParseJWT(cfg.Server.JWTSecret, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "invalid JWT"}})
			return
		}

		rawConn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("WebSocket upgrade failed:", err)
			return
		}
		conn := &safeWSConn{conn: rawConn}
		defer conn.Close()

		userID := conversationUserID(claims.UserID)

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var req WSConverseMessage
			if err := json.Unmarshal(msg, &req); err != nil {
				conn.WriteJSON(map[string]string{"error": "invalid JSON"})
				continue
			}
			topic, err := conversation.ParseTopic(req.Topic)
			if err != nil {
				conn.WriteJSON(map[string]string{"error": "unknown topic; use 'diet' or 'fitness'"})
				continue
			}
			reply, err := engine.NextPrompt(c.Request.Context(), userID, topic, req.Text)
			if err != nil {
				log.Printf("[WS] conversation error for user %s: %v", userID, err)
				conn.WriteJSON(map[string]string{"error": "conversation error"})
				continue
			}
			conn.WriteJSON(WSConverseReply{Reply: reply, Topic: string(topic)})
		}
	}
}
