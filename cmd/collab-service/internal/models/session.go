package models

// Session tracks which room and display name a single connection currently
// represents. The zero value is the unjoined state. A separate joined flag
// is required because empty strings are accepted as valid room ids and
// display names.
type Session struct {
	joined   bool
	roomID   string
	userName string
}

// MembershipUpdate is a membership list to broadcast to one room after a
// session transition mutated it.
type MembershipUpdate struct {
	RoomID  string
	Members []string
}

// InRoom reports whether the session is currently attached to a room.
func (s *Session) InRoom() bool {
	return s.joined
}

// RoomID returns the current room id; only meaningful while InRoom.
func (s *Session) RoomID() string {
	return s.roomID
}

// UserName returns the current display name; only meaningful while InRoom.
func (s *Session) UserName() string {
	return s.userName
}

// Join attaches the session to a room, implicitly leaving the current one
// first. The returned updates are ordered: the vacated room's list comes
// before the joined room's, and each must be broadcast to its own room.
func (s *Session) Join(reg RoomManager, roomID, userName string) []MembershipUpdate {
	var updates []MembershipUpdate
	if s.joined {
		members := reg.Leave(s.roomID, s.userName)
		updates = append(updates, MembershipUpdate{RoomID: s.roomID, Members: members})
	}

	s.joined = true
	s.roomID = roomID
	s.userName = userName

	members := reg.Join(roomID, userName)
	return append(updates, MembershipUpdate{RoomID: roomID, Members: members})
}

// Leave detaches the session from its room. The second return is false when
// the session was not in a room, in which case nothing was mutated and
// nothing should be broadcast.
func (s *Session) Leave(reg RoomManager) (MembershipUpdate, bool) {
	if !s.joined {
		return MembershipUpdate{}, false
	}

	members := reg.Leave(s.roomID, s.userName)
	update := MembershipUpdate{RoomID: s.roomID, Members: members}

	s.joined = false
	s.roomID = ""
	s.userName = ""
	return update, true
}
