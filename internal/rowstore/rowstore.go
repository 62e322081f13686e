package rowstore

import (
	"context"

	"github.com/joseph-ayodele/resume-intake/constants"
)

// Header is the row-store compatibility contract: exact strings, fixed order.
var Header = constants.CanonicalFields

// RowStore is the append-only tabular persistence collaborator. EnsureHeader
// is idempotent and checked once at process start; AppendRow adds one row of
// five string values. No update or delete is ever issued.
type RowStore interface {
	EnsureHeader(ctx context.Context) error
	AppendRow(ctx context.Context, row [5]string) error
}
