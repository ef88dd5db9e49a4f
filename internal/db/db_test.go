package db

import (
	"path/filepath"
	"testing"
)

func TestOpenMemory(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer d.Close()

	// Schema must be queryable after migration.
	for _, table := range []string{"documents", "chunks", "query_logs"} {
		var count int
		if err := d.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			t.Errorf("querying %s: %v", table, err)
		}
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "docchat.db")

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	var n int
	if err := d.QueryRow("SELECT COUNT(*) FROM documents").Scan(&n); err != nil {
		t.Fatalf("querying documents: %v", err)
	}
}

func TestForeignKeyCascade(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer d.Close()

	res, err := d.Exec(`INSERT INTO documents (filename, session_id, num_chunks) VALUES ('a.txt', 's1', 2)`)
	if err != nil {
		t.Fatal(err)
	}
	docID, _ := res.LastInsertId()

	if _, err := d.Exec(`INSERT INTO chunks (document_id, content) VALUES (?, 'one'), (?, 'two')`, docID, docID); err != nil {
		t.Fatal(err)
	}

	if _, err := d.Exec(`DELETE FROM documents WHERE id = ?`, docID); err != nil {
		t.Fatal(err)
	}

	var remaining int
	if err := d.QueryRow(`SELECT COUNT(*) FROM chunks WHERE document_id = ?`, docID).Scan(&remaining); err != nil {
		t.Fatal(err)
	}
	if remaining != 0 {
		t.Errorf("chunks not cascaded: %d rows remain", remaining)
	}
}

func TestPragmasApplied(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer d.Close()

	var fk int
	if err := d.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("querying foreign_keys pragma: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys pragma not enabled, got %d", fk)
	}

	path := filepath.Join(t.TempDir(), "docchat.db")
	fd, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer fd.Close()

	if err := fd.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("querying foreign_keys pragma: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys pragma not enabled on file database, got %d", fk)
	}

	var mode string
	if err := fd.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("querying journal_mode pragma: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode: got %q, want wal", mode)
	}
}
