package store

import (
	"strings"
	"testing"
	"time"
)

func TestExecutionLogStoreLogAndList(t *testing.T) {
	db := testDB(t)
	s := NewExecutionLogStore(db)
	destID := testDestinationID(t, db)

	cutoff := time.Now().Add(-time.Minute)
	s.Log(destID, "topic_generation", "success", "주제 생성 완료", 0.002)
	s.Log(destID, "publish_wordpress", "error", "connection refused", 0)

	items, err := s.ListSince(cutoff)
	if err != nil {
		t.Fatalf("ListSince: %v", err)
	}
	var steps []string
	for _, e := range items {
		if e.DestinationID == destID {
			steps = append(steps, e.Step)
		}
	}
	if len(steps) != 2 {
		t.Fatalf("log rows: got %d, want 2", len(steps))
	}
	if steps[0] != "topic_generation" || steps[1] != "publish_wordpress" {
		t.Errorf("steps out of order: %v", steps)
	}
}

func TestExecutionLogStoreTruncatesMessage(t *testing.T) {
	db := testDB(t)
	s := NewExecutionLogStore(db)
	destID := testDestinationID(t, db)

	long := strings.Repeat("x", 5000)
	s.Log(destID, "draft_writing", "error", long, 0)

	items, err := s.ListSince(time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("ListSince: %v", err)
	}
	for _, e := range items {
		if e.DestinationID == destID && e.Step == "draft_writing" {
			if len(e.Message) != maxLogMessage {
				t.Errorf("message length: got %d, want %d", len(e.Message), maxLogMessage)
			}
			return
		}
	}
	t.Fatal("log row not found")
}
