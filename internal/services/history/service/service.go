// Package service implements history reads and writes over the repo
package service

import (
	"context"

	"incant/internal/platform/logger"
	"incant/internal/services/history/domain"
)

// Config tunes the history service
type Config struct {
	// HardLimit caps any Recent query; defaults to 200
	HardLimit int
}

// Service implements domain.RecorderPort and domain.ReaderPort
type Service struct {
	repo interface {
		domain.RecorderPort
		domain.ReaderPort
	}
	cfg Config
	log logger.Logger
}

// New constructs the history service
func New(repo interface {
	domain.RecorderPort
	domain.ReaderPort
}, cfg Config, log logger.Logger) *Service {
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 200
	}
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Record persists one translation
func (s *Service) Record(ctx context.Context, t domain.Translation) error {
	return s.repo.Record(ctx, t)
}

// Recent lists the newest translations with the limit clamped
func (s *Service) Recent(ctx context.Context, q domain.RecentQuery) ([]domain.Translation, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Limit > s.cfg.HardLimit {
		q.Limit = s.cfg.HardLimit
	}
	return s.repo.Recent(ctx, q)
}
