package notification

import (
	"context"

	procapp "github.com/fibreflow/procurement/internal/application/procurement"
	"github.com/fibreflow/procurement/internal/domain/procurement"
	"go.uber.org/zap"
)

// LogNotifier records supplier notifications in the application log. It
// stands in for a mail or messaging gateway until one is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// NotifyIssued logs the issued RFQ and its recipients
func (n *LogNotifier) NotifyIssued(ctx context.Context, rfq *procurement.RFQ) error {
	n.logger.Info("RFQ issued to suppliers",
		zap.String("rfq_id", rfq.ID.String()),
		zap.String("rfq_number", rfq.RFQNumber),
		zap.String("title", rfq.Title),
		zap.Int("supplier_count", len(rfq.SupplierIDs)),
		zap.Time("response_deadline", rfq.ResponseDeadline),
	)
	return nil
}

var _ procapp.SupplierNotifier = (*LogNotifier)(nil)
