package models

import (
	"fmt"
	"testing"
)

func sameMembers(got []string, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	set := make(map[string]bool, len(got))
	for _, m := range got {
		set[m] = true
	}
	for _, m := range want {
		if !set[m] {
			return false
		}
	}
	return true
}

func TestJoinThenLeave(t *testing.T) {
	rm := NewRoomManager()

	members := rm.Join("r1", "alice")
	if !sameMembers(members, "alice") {
		t.Fatalf("expected [alice], got %v", members)
	}

	members = rm.Leave("r1", "alice")
	if len(members) != 0 {
		t.Fatalf("expected empty members, got %v", members)
	}
	if got := rm.Members("r1"); len(got) != 0 {
		t.Errorf("expected alice gone, got %v", got)
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	rm := NewRoomManager()

	rm.Join("r1", "alice")
	members := rm.Join("r1", "alice")
	if !sameMembers(members, "alice") {
		t.Errorf("expected single entry, got %v", members)
	}
}

func TestDuplicateDisplayNamesCollapse(t *testing.T) {
	rm := NewRoomManager()

	// Two connections picking the same display name occupy one entry in
	// the member set.
	rm.Join("r1", "alice")
	members := rm.Join("r1", "alice")
	if len(members) != 1 {
		t.Fatalf("expected member set of size 1, got %v", members)
	}

	// The first leave removes the name even though another connection
	// still claims it.
	members = rm.Leave("r1", "alice")
	if len(members) != 0 {
		t.Errorf("expected empty set after leave, got %v", members)
	}
}

func TestMembersOfUnknownRoom(t *testing.T) {
	rm := NewRoomManager()

	members := rm.Members("nope")
	if members == nil || len(members) != 0 {
		t.Errorf("expected empty non-nil members, got %#v", members)
	}
}

func TestLeaveUnknownRoomIsNoop(t *testing.T) {
	rm := NewRoomManager()

	if members := rm.Leave("nope", "alice"); len(members) != 0 {
		t.Errorf("expected empty members, got %v", members)
	}
	if rm.RoomCount() != 0 {
		t.Errorf("leave must not create rooms, count %d", rm.RoomCount())
	}
}

func TestLeaveUnknownMemberIsNoop(t *testing.T) {
	rm := NewRoomManager()

	rm.Join("r1", "alice")
	members := rm.Leave("r1", "bob")
	if !sameMembers(members, "alice") {
		t.Errorf("expected [alice], got %v", members)
	}
}

func TestEmptyStringsAreValidIdentities(t *testing.T) {
	rm := NewRoomManager()

	members := rm.Join("", "")
	if !sameMembers(members, "") {
		t.Errorf("expected the empty name as a member, got %#v", members)
	}
	if rm.RoomCount() != 1 {
		t.Errorf("expected the empty-id room to exist, count %d", rm.RoomCount())
	}
}

func TestRoomsAreNeverPruned(t *testing.T) {
	rm := NewRoomManager()

	// Vacated rooms keep their registry footprint for the process
	// lifetime.
	const n = 10
	for i := 0; i < n; i++ {
		roomID := fmt.Sprintf("room-%d", i)
		rm.Join(roomID, "alice")
		rm.Leave(roomID, "alice")
	}

	if rm.RoomCount() != n {
		t.Errorf("expected %d rooms after vacating all, got %d", n, rm.RoomCount())
	}
	for i := 0; i < n; i++ {
		if members := rm.Members(fmt.Sprintf("room-%d", i)); len(members) != 0 {
			t.Errorf("room-%d should be empty, got %v", i, members)
		}
	}
}

func TestGetOrCreateRoomReturnsSameRoom(t *testing.T) {
	rm := NewRoomManager()

	a := rm.GetOrCreateRoom("r1")
	b := rm.GetOrCreateRoom("r1")
	if a != b {
		t.Error("expected the same room instance")
	}

	got, err := rm.GetRoom("r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != a {
		t.Error("GetRoom returned a different instance")
	}
}

func TestGetRoomUnknown(t *testing.T) {
	rm := NewRoomManager()
	if _, err := rm.GetRoom("nope"); err == nil {
		t.Error("expected an error for an unknown room")
	}
}
