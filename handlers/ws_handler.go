// handlers/ws_handler.go
package handlers

import (
	"net/http"
	"strings"

	gws "github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/AnuragSingh014/castle-backend/events"
	"github.com/AnuragSingh014/castle-backend/utils"
	"github.com/AnuragSingh014/castle-backend/websocket"
)

var hub *websocket.Hub

// SetHub installs the hub the websocket endpoint attaches clients to.
func SetHub(h *websocket.Hub) {
	hub = h
}

var upgrader = gws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The HTTP layer handles CORS; the upgrade itself accepts any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the connection and joins the caller's room. Browsers
// cannot set headers on the upgrade request, so the token is usually carried
// in the query string; the Authorization header works for other clients.
func ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if token == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing authentication token")
		return
	}

	claims, err := utils.ValidateJWT(token)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	var room string
	switch claims.Role {
	case utils.RoleAdmin:
		room = events.AdminRoom
	case utils.RoleInvestor:
		room = events.InvestorRoom(claims.UserID)
	default:
		room = events.UserRoom(claims.UserID)
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	log.WithFields(log.Fields{"room": room, "role": claims.Role}).Info("websocket connected")
	hub.Join(room, conn)
}
