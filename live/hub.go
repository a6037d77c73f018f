package live

import (
	"encoding/json"
	"log"
	"strconv"
	"sync"
)

// Event — сообщение, рассылаемое подписчикам комнаты чемпионата.
type Event struct {
	Type    string      `json:"type"` // например, "CHAMPIONSHIP_FINALIZED"
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

const EventChampionshipFinalized = "CHAMPIONSHIP_FINALIZED"

type FinalizedPayload struct {
	ChampionshipID int     `json:"championship_id"`
	XPDistributed  float64 `json:"xp_distributed"`
}

// Hub держит комнаты подписчиков: одна комната — один чемпионат.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			log.Printf("Client registered to room %s. Total clients in room: %d", client.Room, len(h.rooms[client.Room]))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if roomClients, ok := h.rooms[client.Room]; ok {
				if _, okClient := roomClients[client]; okClient {
					client.mu.Lock()
					if !client.closed {
						close(client.Send)
						client.closed = true
					}
					client.mu.Unlock()
					delete(roomClients, client)
					if len(roomClients) == 0 {
						delete(h.rooms, client.Room)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToRoom отправляет событие всем клиентам комнаты. Медленные
// клиенты с переполненным каналом пропускаются, а не блокируют рассылку.
func (h *Hub) BroadcastToRoom(roomID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roomClients, ok := h.rooms[roomID]
	if !ok {
		return
	}

	event.RoomID = roomID
	messageBytes, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshalling event for room %s: %v", roomID, err)
		return
	}

	for client := range roomClients {
		client.mu.Lock()
		if client.closed {
			client.mu.Unlock()
			continue
		}
		select {
		case client.Send <- messageBytes:
		default:
			log.Printf("Client's send channel full for room %s. Skipping.", roomID)
		}
		client.mu.Unlock()
	}
}

// ChampionshipFinalized реализует services.FinalizeNotifier.
func (h *Hub) ChampionshipFinalized(championshipID int, xpDistributed float64) {
	h.BroadcastToRoom(strconv.Itoa(championshipID), Event{
		Type: EventChampionshipFinalized,
		Payload: FinalizedPayload{
			ChampionshipID: championshipID,
			XPDistributed:  xpDistributed,
		},
	})
}
