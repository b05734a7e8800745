package port

import (
	"context"

	"invodex/internal/domain"
)

// FieldExtractor abstracts an AI extraction backend. Implementations dispatch
// on the populated Representation variant: image payloads go to a
// vision-capable model, text payloads to a text model. Both return the same
// seven-field contract.
type FieldExtractor interface {
	Extract(ctx context.Context, rep domain.Representation) (*domain.ExtractedFields, error)
}
