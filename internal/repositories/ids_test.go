package repositories

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func newIDTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(`CREATE TABLE farmers (f_id TEXT PRIMARY KEY)`); err != nil {
		t.Fatalf("creating table: %v", err)
	}
	return db
}

func TestNextSequentialIDEmptyTable(t *testing.T) {
	db := newIDTestDB(t)
	id, err := NextSequentialID(db, "farmers", "f_id", "F")
	if err != nil {
		t.Fatalf("NextSequentialID: %v", err)
	}
	if id != "F001" {
		t.Errorf("id = %q, want F001", id)
	}
}

func TestNextSequentialIDIncrements(t *testing.T) {
	db := newIDTestDB(t)
	for _, existing := range []string{"F001", "F002", "F009"} {
		if _, err := db.Exec(`INSERT INTO farmers (f_id) VALUES ($1)`, existing); err != nil {
			t.Fatal(err)
		}
	}

	id, err := NextSequentialID(db, "farmers", "f_id", "F")
	if err != nil {
		t.Fatalf("NextSequentialID: %v", err)
	}
	if id != "F010" {
		t.Errorf("id = %q, want F010", id)
	}
}

func TestNextSequentialIDPastThreeDigits(t *testing.T) {
	db := newIDTestDB(t)
	if _, err := db.Exec(`INSERT INTO farmers (f_id) VALUES ($1)`, "F999"); err != nil {
		t.Fatal(err)
	}

	id, err := NextSequentialID(db, "farmers", "f_id", "F")
	if err != nil {
		t.Fatalf("NextSequentialID: %v", err)
	}
	// The counter keeps growing past the padded width.
	if id != "F1000" {
		t.Errorf("id = %q, want F1000", id)
	}
}
