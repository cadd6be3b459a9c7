package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"incant/internal/services/history/domain"
)

type fakeRepo struct {
	recorded []domain.Translation
	lastQ    domain.RecentQuery
}

func (f *fakeRepo) Record(_ context.Context, t domain.Translation) error {
	f.recorded = append(f.recorded, t)
	return nil
}

func (f *fakeRepo) Recent(_ context.Context, q domain.RecentQuery) ([]domain.Translation, error) {
	f.lastQ = q
	return nil, nil
}

func TestRecentClampsLimit(t *testing.T) {
	repo := &fakeRepo{}
	s := New(repo, Config{HardLimit: 100}, zerolog.Nop())

	if _, err := s.Recent(context.Background(), domain.RecentQuery{Limit: 0}); err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if repo.lastQ.Limit != 50 {
		t.Fatalf("default limit = %d", repo.lastQ.Limit)
	}

	if _, err := s.Recent(context.Background(), domain.RecentQuery{Limit: 9999}); err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if repo.lastQ.Limit != 100 {
		t.Fatalf("clamped limit = %d", repo.lastQ.Limit)
	}
}

func TestRecordPassesThrough(t *testing.T) {
	repo := &fakeRepo{}
	s := New(repo, Config{}, zerolog.Nop())
	if err := s.Record(context.Background(), domain.Translation{ID: "x"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(repo.recorded) != 1 || repo.recorded[0].ID != "x" {
		t.Fatalf("recorded = %v", repo.recorded)
	}
}
