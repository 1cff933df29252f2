package memorystorage

import (
	"testing"
	"time"
)

func TestMemory_PutGetRoundTrip(t *testing.T) {
	b := New()
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if err := b.PutTile("https://tiles.example/0/0/0.png", []byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	payload, err := b.GetTile("https://tiles.example/0/0/0.png")
	if err != nil {
		t.Fatal(err)
	}
	if len(payload) != 3 {
		t.Errorf("expected 3 bytes, got %d", len(payload))
	}
}

func TestMemory_MissReturnsNilNil(t *testing.T) {
	b := New()
	payload, err := b.GetTile("https://tiles.example/missing.png")
	if err != nil {
		t.Fatal(err)
	}
	if payload != nil {
		t.Errorf("expected nil payload on miss, got %v", payload)
	}
}

func TestMemory_OverwriteKeepsLatest(t *testing.T) {
	b := New()
	b.PutTile("u", []byte{1})
	b.PutTile("u", []byte{9, 9})

	payload, _ := b.GetTile("u")
	if len(payload) != 2 || payload[0] != 9 {
		t.Errorf("expected latest payload, got %v", payload)
	}
	tiles, bytes, _ := b.Stats()
	if tiles != 1 || bytes != 2 {
		t.Errorf("expected 1 tile / 2 bytes, got %d / %d", tiles, bytes)
	}
}

func TestMemory_Prune(t *testing.T) {
	b := New()
	b.PutTile("old", []byte{1})
	cutoff := time.Now().Add(time.Minute)

	removed, err := b.Prune(cutoff)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	if payload, _ := b.GetTile("old"); payload != nil {
		t.Error("expected pruned tile gone")
	}
}
