package chat

import (
	"net/http"
	"strings"

	"social-service/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, implement proper origin checking
		return true
	},
}

// ServeWS upgrades the request and hands the connection to the gateway.
// The credential is the session cookie set at login; a query token is
// accepted as a fallback for clients that cannot send cookies.
func ServeWS(g *Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := credentialFrom(c.Request)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error response.
			return
		}
		g.Accept(conn, credential)
	}
}

func credentialFrom(r *http.Request) string {
	if cookie, err := r.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	token := r.URL.Query().Get("token")
	return strings.Replace(token, "Bearer ", "", 1)
}
