package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/rizoma-bar/rizoma-app/events"
	"github.com/rizoma-bar/rizoma-app/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSController struct {
	Hub *events.Hub
}

func NewWSController(hub *events.Hub) *WSController {
	return &WSController{Hub: hub}
}

// Handle -> GET /ws
// Upgrades the connection and keeps it registered until the client drops.
func (wc *WSController) Handle(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	id := wc.Hub.Register(ws)
	utils.InfoLogger.Printf("dashboard conectado: %s", id)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	wc.Hub.Unregister(ws)
	utils.InfoLogger.Printf("dashboard desconectado: %s", id)
}
