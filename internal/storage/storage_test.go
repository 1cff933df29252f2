package storage

import (
	"testing"

	"github.com/sentinelc2/client/internal/logging"
)

func TestNewStore_Memory(t *testing.T) {
	s, err := NewStore(Config{Type: "memory"}, logging.NewSlogManager())
	if err != nil {
		t.Fatal(err)
	}
	if s == nil {
		t.Fatal("expected store instance")
	}
}

func TestNewStore_Sqlite(t *testing.T) {
	s, err := NewStore(Config{Type: "sqlite"}, logging.NewSlogManager())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	s.Close()
}

func TestNewStore_UnknownType(t *testing.T) {
	if _, err := NewStore(Config{Type: "redis"}, logging.NewSlogManager()); err == nil {
		t.Error("expected error for unknown storage type")
	}
}
