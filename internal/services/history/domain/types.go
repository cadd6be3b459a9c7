// Package domain defines the types and interfaces for the history service
package domain

import "time"

// Translation is one recorded pipeline run
type Translation struct {
	ID         string    `json:"id"`
	Input      string    `json:"input"`
	Normalized string    `json:"normalized"`
	Domain     string    `json:"domain"`
	Intent     string    `json:"intent"`
	Confidence float64   `json:"confidence"`
	Command    string    `json:"command"`
	TemplateID string    `json:"template_id,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// RecentQuery filters the recent listing
type RecentQuery struct {
	Limit  int
	Domain string
}
