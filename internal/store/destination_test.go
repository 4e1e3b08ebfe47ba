package store

import (
	"testing"
)

func TestDestinationStoreListActive(t *testing.T) {
	db := testDB(t)
	s := NewDestinationStore(db)
	destID := testDestinationID(t, db)

	items, err := s.ListActive()
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	found := false
	for _, d := range items {
		if d.ID == destID {
			found = true
			if d.Name != "test-blog" {
				t.Errorf("name: got %q, want test-blog", d.Name)
			}
			if !d.Active {
				t.Error("expected active destination")
			}
		}
	}
	if !found {
		t.Error("inserted destination not returned by ListActive")
	}
}

func TestDestinationStoreListActiveSkipsInactive(t *testing.T) {
	db := testDB(t)
	s := NewDestinationStore(db)

	var id int64
	err := db.QueryRow(`
		INSERT INTO blogs (blog_name, blog_url, platform, active)
		VALUES ('inactive-blog', 'https://example.com', 'tistory', FALSE)
		RETURNING id
	`).Scan(&id)
	if err != nil {
		t.Fatalf("insert inactive destination: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM blogs WHERE id = $1", id) })

	items, err := s.ListActive()
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	for _, d := range items {
		if d.ID == id {
			t.Error("inactive destination returned by ListActive")
		}
	}
}

func TestDestinationStoreFindByIDMissing(t *testing.T) {
	db := testDB(t)
	s := NewDestinationStore(db)

	d, err := s.FindByID(-1)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if d != nil {
		t.Errorf("expected nil for missing destination, got %+v", d)
	}
}
