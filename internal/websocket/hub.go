package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Client merepresentasikan satu koneksi dashboard.
type Client struct {
	Conn *websocket.Conn
	Mu   sync.Mutex
}

// Hub mengelola koneksi WebSocket dan broadcast event task
// ke semua dashboard yang sedang terhubung.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// BroadcastEvent mengirim event bernama beserta payload (JSON) ke semua klien.
// Payload yang gagal di-encode diabaikan, broadcast tidak boleh
// menggagalkan mutasi yang memicunya.
func (h *Hub) BroadcastEvent(event string, payload interface{}) {
	msg, err := json.Marshal(map[string]interface{}{
		"event": event,
		"data":  payload,
	})
	if err != nil {
		return
	}
	h.Broadcast <- msg
}

// Run menjalankan loop Hub untuk register, unregister, dan broadcast.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client] = true
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				client.Conn.Close()
			}
		case message := <-h.Broadcast:
			for client := range h.Clients {
				client.Mu.Lock()
				err := client.Conn.WriteMessage(websocket.TextMessage, message)
				client.Mu.Unlock()
				if err != nil {
					// Koneksi mati, langsung dilepas di sini. Kirim ke channel
					// Unregister dari goroutine yang sama akan deadlock.
					delete(h.Clients, client)
					client.Conn.Close()
				}
			}
		}
	}
}
