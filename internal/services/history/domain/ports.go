package domain

import "context"

// RecorderPort writes translation records
type RecorderPort interface {
	Record(ctx context.Context, t Translation) error
}

// ReaderPort reads back recorded translations
type ReaderPort interface {
	Recent(ctx context.Context, q RecentQuery) ([]Translation, error)
}
