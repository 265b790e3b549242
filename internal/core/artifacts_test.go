package core

import (
	"testing"
	"time"
)

func TestArtifactStore_PutTake(t *testing.T) {
	s := NewArtifactStore(time.Minute)

	token := s.Put("out.csv", []byte("a;b\n"))
	if token == "" {
		t.Fatal("Put returned empty token")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}

	art, ok := s.Take(token)
	if !ok {
		t.Fatal("Take() returned false for fresh token")
	}
	if art.Name != "out.csv" || string(art.Data) != "a;b\n" {
		t.Errorf("Take() = %+v, want stored artifact", art)
	}

	// Artifacts are single-use.
	if _, ok := s.Take(token); ok {
		t.Error("second Take() succeeded, want consumed token")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after Take, want 0", s.Len())
	}
}

func TestArtifactStore_TakeUnknown(t *testing.T) {
	s := NewArtifactStore(time.Minute)
	if _, ok := s.Take("nope"); ok {
		t.Error("Take() succeeded for unknown token")
	}
}

func TestArtifactStore_DistinctTokens(t *testing.T) {
	s := NewArtifactStore(time.Minute)

	t1 := s.Put("a.csv", []byte("1"))
	t2 := s.Put("b.csv", []byte("2"))
	if t1 == t2 {
		t.Fatal("Put returned identical tokens for distinct artifacts")
	}

	art, _ := s.Take(t2)
	if string(art.Data) != "2" {
		t.Errorf("Take(t2) data = %q, want %q", art.Data, "2")
	}
}

func TestArtifactStore_Sweep(t *testing.T) {
	s := NewArtifactStore(time.Minute)

	old := s.Put("old.csv", []byte("x"))
	fresh := s.Put("fresh.csv", []byte("y"))

	// Expire everything created before "now", then re-add a fresh one.
	s.sweep(time.Now().Add(time.Second))
	if _, ok := s.Take(old); ok {
		t.Error("expired artifact still retrievable")
	}
	if _, ok := s.Take(fresh); ok {
		t.Error("expired artifact still retrievable")
	}

	kept := s.Put("kept.csv", []byte("z"))
	s.sweep(time.Now().Add(-time.Hour))
	if _, ok := s.Take(kept); !ok {
		t.Error("unexpired artifact was swept")
	}
}
