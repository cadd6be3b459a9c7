package domain

import "context"

// TranslatorPort turns raw text into a translation
type TranslatorPort interface {
	Translate(ctx context.Context, in TranslateInput) (Translation, error)
}
