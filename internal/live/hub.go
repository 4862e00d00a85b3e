package live

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/coder/websocket"

	"github.com/inamate/rig/internal/engine"
)

// Hub routes websocket clients into one room per skeleton. Joins and
// leaves are serialized through Run; messages are handled on each
// client's read goroutine.
//
// Lock order is Room.mu before Hub.mu.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // skeletonID -> room
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			return
		}
	}
}

// Stop ends Run. Clients still connected are left to their pumps.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Register adds client to its skeleton's room. It returns false once the
// hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// RoomCount returns the number of rooms with at least one client.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.SkeletonID]
	if !ok {
		var err error
		room, err = NewRoom(client.SkeletonID, client.data)
		if err != nil {
			h.mu.Unlock()
			slog.Error("create room", "error", err, "skeleton", client.SkeletonID)
			client.conn.Close(websocket.StatusInternalError, "skeleton could not be loaded")
			return
		}
		h.rooms[client.SkeletonID] = room
	}
	h.mu.Unlock()

	// Holding the room lock keeps pose frames from overtaking the welcome.
	room.mu.Lock()
	h.mu.Lock()
	room.clients[client.ClientID] = client
	h.mu.Unlock()
	welcome := newMessage(TypeWelcome, room.welcome(client.ClientID))
	welcome.SkeletonID = client.SkeletonID
	welcome.ClientID = client.ClientID
	client.Send(welcome)
	room.mu.Unlock()

	joinMsg := newMessage(TypePresenceJoin, PresenceJoinPayload{
		ClientID:    client.ClientID,
		DisplayName: client.DisplayName,
	})
	joinMsg.ClientID = client.ClientID
	h.broadcastToRoom(client.SkeletonID, joinMsg, client.ClientID)

	slog.Info("client joined", "client", client.ClientID, "skeleton", client.SkeletonID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.SkeletonID]
	if !ok || room.clients[client.ClientID] != client {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	close(client.send)
	room.presence.Remove(client.ClientID)

	if len(room.clients) == 0 {
		delete(h.rooms, client.SkeletonID)
	}
	h.mu.Unlock()

	leaveMsg := newMessage(TypePresenceLeave, PresenceLeavePayload{ClientID: client.ClientID})
	leaveMsg.ClientID = client.ClientID
	h.broadcastToRoom(client.SkeletonID, leaveMsg, "")

	slog.Info("client left", "client", client.ClientID, "skeleton", client.SkeletonID)
}

func (h *Hub) room(skeletonID string) (*Room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[skeletonID]
	return room, ok
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePoseUpdate:
		h.handlePoseUpdate(sender, msg)
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", sender.ClientID)
		sender.Send(errorMessage("unknown message type " + msg.Type))
	}
}

func (h *Hub) handlePoseUpdate(sender *Client, msg *Message) {
	var pose engine.Pose
	if err := json.Unmarshal(msg.Payload, &pose); err != nil {
		sender.Send(errorMessage("invalid pose payload"))
		return
	}

	room, ok := h.room(sender.SkeletonID)
	if !ok {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	frame, seq, err := room.apply(pose)
	if err != nil {
		slog.Debug("pose rejected", "error", err, "client", sender.ClientID)
		sender.Send(errorMessage(err.Error()))
	}

	out := newMessage(TypePoseFrame, FramePayload{ClientID: sender.ClientID, Frame: frame})
	out.SkeletonID = sender.SkeletonID
	out.ClientID = sender.ClientID
	out.Seq = seq
	h.broadcastToRoom(sender.SkeletonID, out, "")
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	presence.DisplayName = sender.DisplayName

	room, ok := h.room(sender.SkeletonID)
	if !ok {
		return
	}

	room.presence.Update(sender.ClientID, &presence)

	out := newMessage(TypePresenceUpdate, presence)
	out.ClientID = sender.ClientID
	h.broadcastToRoom(sender.SkeletonID, out, sender.ClientID)
}

func (h *Hub) broadcastToRoom(skeletonID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, ok := h.rooms[skeletonID]
	if !ok {
		return
	}
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			c.Send(msg)
		}
	}
}
