package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherSeesWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	path := filepath.Join(dir, "page.html")
	if err := os.WriteFile(path, []byte("<Hello />"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-w.Changed():
		if filepath.Base(name) != "page.html" {
			t.Errorf("changed = %q, want page.html", name)
		}
	case err := <-w.Errors():
		t.Fatal(err)
	case <-time.After(5 * time.Second):
		t.Fatal("no change event")
	}
}

func TestWatcherCloseEndsChannels(t *testing.T) {
	w, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	// Consumers ranging on the channels must observe termination.
	select {
	case _, ok := <-w.Changed():
		if ok {
			t.Fatal("unexpected change event after Close")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Changed not closed after Close")
	}
	if _, ok := <-w.Errors(); ok {
		t.Fatal("unexpected error after Close")
	}
}
