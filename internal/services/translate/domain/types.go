// Package domain defines the types and interfaces for the translate service
package domain

import "time"

// TranslateInput is the POST /translate payload. Empty text is allowed: the
// pipeline rejects it with the unknown sentinel rather than a 4xx
type TranslateInput struct {
	Text string `json:"text" validate:"max=2000"`
}

// Translation is the full observable outcome of one translation
type Translation struct {
	ID         string            `json:"id"`
	Input      string            `json:"input"`
	Normalized string            `json:"normalized"`
	Domain     string            `json:"domain"`
	Intent     string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Stage      string            `json:"stage"`
	Entities   map[string]string `json:"entities,omitempty"`
	Command    string            `json:"command"`
	TemplateID string            `json:"template_id,omitempty"`
	Status     string            `json:"status"`
	Warnings   []string          `json:"warnings,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}
