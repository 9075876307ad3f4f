package models

import (
	"errors"
	"sync"
)

// Room represents a collaborative editing room. Members is a set of display
// names: two connections joining with the same name collapse into one entry,
// and the shared code buffer itself lives client-side.
type Room struct {
	ID      string
	Clients map[*Client]bool
	Members map[string]bool
	Mu      sync.Mutex
}

// NewRoom creates a new Room instance.
func NewRoom(id string) *Room {
	return &Room{
		ID:      id,
		Clients: make(map[*Client]bool),
		Members: make(map[string]bool),
	}
}

// AddClient attaches a connection to the room's fan-out set.
func (r *Room) AddClient(client *Client) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	r.Clients[client] = true
}

// RemoveClient detaches a connection from the room's fan-out set.
func (r *Room) RemoveClient(client *Client) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	delete(r.Clients, client)
}

// Broadcast sends a message to all clients in the room except the sender.
// A nil sender reaches everyone.
func (r *Room) Broadcast(message []byte, sender *Client) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	for client := range r.Clients {
		if client == sender {
			continue
		}
		select {
		case client.Send <- message:
		default:
			client.closeSend()
			delete(r.Clients, client)
		}
	}
}

// GetMembers returns the current member display names.
func (r *Room) GetMembers() []string {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.membersLocked()
}

func (r *Room) membersLocked() []string {
	members := make([]string, 0, len(r.Members))
	for member := range r.Members {
		members = append(members, member)
	}
	return members
}

// RoomManager owns the room-id to room mapping. Rooms are created on first
// use and never deleted; the registry grows for the life of the process.
type RoomManager interface {
	GetRoom(roomID string) (*Room, error)
	GetOrCreateRoom(roomID string) *Room
	// Join adds a member name to a room, creating the room if needed, and
	// returns the member list after the mutation.
	Join(roomID, member string) []string
	// Leave removes a member name from a room and returns the member list
	// after the mutation. Unknown rooms and members are a no-op.
	Leave(roomID, member string) []string
	// Members returns the member list of a room, empty for unknown rooms.
	Members(roomID string) []string
	RoomCount() int
}

// roomManagerImpl is the concrete implementation of RoomManager.
type roomManagerImpl struct {
	rooms map[string]*Room
	mu    sync.RWMutex
}

// NewRoomManager creates a new instance of RoomManager.
func NewRoomManager() RoomManager {
	return &roomManagerImpl{
		rooms: make(map[string]*Room),
	}
}

// GetRoom retrieves a room by its ID.
func (rm *roomManagerImpl) GetRoom(roomID string) (*Room, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	room, exists := rm.rooms[roomID]
	if !exists {
		return nil, errors.New("room not found")
	}
	return room, nil
}

// GetOrCreateRoom retrieves an existing room by ID or creates one.
func (rm *roomManagerImpl) GetOrCreateRoom(roomID string) *Room {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if room, exists := rm.rooms[roomID]; exists {
		return room
	}
	room := NewRoom(roomID)
	rm.rooms[roomID] = room
	return room
}

func (rm *roomManagerImpl) Join(roomID, member string) []string {
	room := rm.GetOrCreateRoom(roomID)
	room.Mu.Lock()
	defer room.Mu.Unlock()
	room.Members[member] = true
	return room.membersLocked()
}

func (rm *roomManagerImpl) Leave(roomID, member string) []string {
	room, err := rm.GetRoom(roomID)
	if err != nil {
		return []string{}
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()
	delete(room.Members, member)
	return room.membersLocked()
}

func (rm *roomManagerImpl) Members(roomID string) []string {
	room, err := rm.GetRoom(roomID)
	if err != nil {
		return []string{}
	}
	return room.GetMembers()
}

func (rm *roomManagerImpl) RoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}
