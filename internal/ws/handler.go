package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers cannot set Authorization headers on websocket dials; the JWT
	// rides the query string and origin checking is left to the deployment's
	// reverse proxy.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Serve upgrades the request and registers the authenticated user as a feed
// subscriber. userIDFrom extracts the authenticated user id from the request
// context (set by the auth middleware).
func Serve(hub *Hub, log *zap.Logger, userIDFrom func(*gin.Context) (string, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := userIDFrom(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error response.
			log.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		client := newClient(hub, userID, conn)
		hub.Join(userID, client)
		log.Info("feed subscriber joined",
			zap.String("user", userID),
			zap.String("conn", client.id),
		)

		go client.writePump()
		go client.readPump()
	}
}
