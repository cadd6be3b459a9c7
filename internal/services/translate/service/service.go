// Package service runs the translation pipeline and records outcomes
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"incant/internal/core/pipeline"
	"incant/internal/platform/logger"
	historydomain "incant/internal/services/history/domain"
	"incant/internal/services/translate/domain"
)

// Service implements domain.TranslatorPort over a shared pipeline.
// Recording is best effort: a history failure is logged and never turns a
// successful translation into an error
type Service struct {
	pipe *pipeline.Pipeline
	rec  historydomain.RecorderPort // optional
	log  logger.Logger
}

// New constructs the translate service. rec may be nil when the API runs
// without a database
func New(pipe *pipeline.Pipeline, rec historydomain.RecorderPort, log logger.Logger) *Service {
	return &Service{pipe: pipe, rec: rec, log: log}
}

// Translate runs the pipeline and returns the full outcome
func (s *Service) Translate(ctx context.Context, in domain.TranslateInput) (domain.Translation, error) {
	res := s.pipe.Run(ctx, in.Text)

	t := domain.Translation{
		ID:         uuid.NewString(),
		Input:      res.Input,
		Normalized: res.Normalized,
		Domain:     res.Detection.Domain,
		Intent:     res.Detection.Intent,
		Confidence: res.Detection.Confidence,
		Stage:      res.Detection.Stage,
		Entities:   res.Entities,
		Command:    res.Command,
		TemplateID: res.TemplateID,
		Status:     string(res.Status),
		Warnings:   res.Warnings,
		CreatedAt:  time.Now().UTC(),
	}

	s.log.Info().
		Str("id", t.ID).
		Str("domain", t.Domain).
		Str("intent", t.Intent).
		Float64("confidence", t.Confidence).
		Str("status", t.Status).
		Msg("translated")

	if s.rec != nil {
		rec := historydomain.Translation{
			ID:         t.ID,
			Input:      t.Input,
			Normalized: t.Normalized,
			Domain:     t.Domain,
			Intent:     t.Intent,
			Confidence: t.Confidence,
			Command:    t.Command,
			TemplateID: t.TemplateID,
			Status:     t.Status,
			CreatedAt:  t.CreatedAt,
		}
		if err := s.rec.Record(ctx, rec); err != nil {
			s.log.Warn().Err(err).Str("id", t.ID).Msg("history record failed")
		}
	}

	return t, nil
}
