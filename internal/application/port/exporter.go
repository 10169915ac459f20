package port

import (
	"context"
	"io"

	"github.com/garyjia/approval-path/internal/domain/approval"
	"github.com/garyjia/approval-path/internal/domain/entity"
)

// TimelineExporter writes a derived approval path in a file format
type TimelineExporter interface {
	Export(ctx context.Context, w io.Writer, expense *entity.Expense, steps []approval.Step) error
	ContentType() string
	Extension() string
}
