package system

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFindLatestScript(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.txt")
	fresh := filepath.Join(dir, "fresh.geo")
	ignored := filepath.Join(dir, "notes.md")

	for _, p := range []string{old, fresh, ignored} {
		if err := os.WriteFile(p, []byte("wait\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(ignored, future, future); err != nil {
		t.Fatal(err)
	}

	got, err := FindLatestScript(dir)
	if err != nil {
		t.Fatalf("FindLatestScript failed: %v", err)
	}
	if got != fresh {
		t.Errorf("Expected %s, got %s", fresh, got)
	}

	if _, err := FindLatestScript(t.TempDir()); err == nil {
		t.Error("Expected error for an empty directory")
	}
}

func TestImagePool(t *testing.T) {
	p := NewImagePool()
	rect := image.Rect(0, 0, 16, 8)

	img := p.Get(rect)
	if img.Bounds() != rect {
		t.Fatalf("Expected %v, got %v", rect, img.Bounds())
	}
	p.Put(img)
	p.Put(image.NewRGBA(image.Rect(0, 0, 3, 3)))
	p.Put(nil)

	if again := p.Get(rect); again.Bounds() != rect {
		t.Errorf("Expected %v, got %v", rect, again.Bounds())
	}
}

func TestDefaultWorkers(t *testing.T) {
	if n := DefaultWorkers(); n <= 0 {
		t.Errorf("Expected positive worker count, got %d", n)
	}
}

func TestMemoryReport(t *testing.T) {
	if r := MemoryReport(); !strings.Contains(r, "MiB") && !strings.Contains(r, "n/a") {
		t.Errorf("Unexpected memory report %q", r)
	}
}

func TestDefaultQuality(t *testing.T) {
	if q := DefaultQuality("libx264"); q != 23 {
		t.Errorf("Expected CRF 23, got %d", q)
	}
	if q := DefaultQuality("h264_videotoolbox"); q != 75 {
		t.Errorf("Expected 75, got %d", q)
	}
}
