package phrasebook_test

import (
	"context"
	"testing"

	"github.com/randomtoy/oracle-go/internal/adapters/phrasebook"
)

func TestEmbeddedStore_Phrasebook(t *testing.T) {
	s := phrasebook.NewEmbeddedStore()

	pb, err := s.Phrasebook(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pb.FortuneTypes) != 5 {
		t.Errorf("expected 5 fortune types, got %d", len(pb.FortuneTypes))
	}
	if len(pb.Subjects) != 8 {
		t.Errorf("expected 8 subjects, got %d", len(pb.Subjects))
	}
	if len(pb.Predictions) != 10 {
		t.Errorf("expected 10 predictions, got %d", len(pb.Predictions))
	}
	if len(pb.Answers) == 0 {
		t.Error("expected canned answers")
	}
}

func TestEmbeddedStore_Cached(t *testing.T) {
	s := phrasebook.NewEmbeddedStore()
	a, _ := s.Phrasebook(context.Background())
	b, _ := s.Phrasebook(context.Background())
	if &a.Subjects[0] != &b.Subjects[0] {
		t.Error("expected the phrasebook to be parsed once")
	}
}
