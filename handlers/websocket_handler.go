package handlers

import (
	"log"
	"net/http"

	"github.com/fgcbrasil/platform-backend/live"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// В продакшене здесь должна быть проверка Origin,
		// чтобы разрешать подключения только с доверенных доменов.
		return true // Для разработки разрешаем все
	},
}

type WebSocketHandler struct {
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeWs подключает клиента к комнате чемпионата. Клиент подключается к
// /ws/championships/{championshipID} и получает события финализации.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	championshipIDStr := chi.URLParam(r, "championshipID")
	if championshipIDStr == "" {
		http.Error(w, "Missing championshipID", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader.Upgrade сам отправляет HTTP ошибку клиенту.
		log.Printf("Failed to upgrade connection for championship %s: %v", championshipIDStr, err)
		return
	}

	client := live.NewClient(h.hub, conn, championshipIDStr)
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
