package history

import (
	"context"
	"testing"
)

func TestNilStoreIsNoop(t *testing.T) {
	var s *Store
	s.Record(context.Background(), "room-1", "python3", true, 2)
	if err := s.Close(); err != nil {
		t.Errorf("nil store Close should be nil, got %v", err)
	}
}
