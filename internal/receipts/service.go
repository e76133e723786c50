package receipts

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/amirdashti/darchin-backend/pkg/enums"
	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
	"github.com/amirdashti/darchin-backend/pkg/logger"
	"github.com/amirdashti/darchin-backend/pkg/metrics"
)

// printerClient is the slice of the ESC/POS client the service needs.
type printerClient interface {
	Print(ctx context.Context, text string) error
}

// Service issues and re-prints receipts. Issue archives first and treats
// printing as best effort; Reprint reads only the archive, never the order
// tables.
type Service interface {
	Issue(ctx context.Context, input RenderInput) (string, error)
	Reprint(ctx context.Context, receiptType enums.ReceiptType, receiptNumber int64) error
}

type service struct {
	archive *Archive
	printer printerClient
	logg    *logger.Logger
	metrics *metrics.ReceiptMetrics
}

// NewService builds a receipts service with the required dependencies.
// metrics may be nil outside the server process.
func NewService(archive *Archive, printer printerClient, logg *logger.Logger, m *metrics.ReceiptMetrics) (Service, error) {
	if archive == nil {
		return nil, fmt.Errorf("receipt archive required")
	}
	if printer == nil {
		return nil, fmt.Errorf("printer client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{archive: archive, printer: printer, logg: logg, metrics: m}, nil
}

// Issue renders the receipt, writes it to the archive and then sends it to
// the printer. The archive write error propagates (the caller runs inside
// the verification transaction and must roll back); the print error is only
// logged.
func (s *service) Issue(ctx context.Context, input RenderInput) (string, error) {
	if !input.Type.IsValid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid receipt type")
	}
	if input.ReceiptNumber <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "receipt number required")
	}

	text := Render(input)

	path, err := s.archive.Write(input.Type, input.ReceiptNumber, text)
	if err != nil {
		return "", err
	}
	s.metrics.IncArchived(input.Type.String())

	s.printBestEffort(ctx, input.Type, input.ReceiptNumber, text)
	return path, nil
}

// IssueAll issues one receipt per requested type from the same input,
// aggregating archival failures so a broken kitchen copy does not hide a
// broken delivery copy.
func IssueAll(ctx context.Context, svc Service, input RenderInput, kinds ...enums.ReceiptType) error {
	var errs error
	for _, kind := range kinds {
		perType := input
		perType.Type = kind
		if _, err := svc.Issue(ctx, perType); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s receipt: %w", kind, err))
		}
	}
	return errs
}

func (s *service) Reprint(ctx context.Context, receiptType enums.ReceiptType, receiptNumber int64) error {
	if !receiptType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid receipt type")
	}
	if receiptNumber <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "receipt number required")
	}

	text, err := s.archive.Read(receiptType, receiptNumber)
	if err != nil {
		return err
	}

	// Unlike Issue, a reprint exists only to reach paper, so the print
	// failure is the caller's problem.
	if err := s.printer.Print(ctx, text); err != nil {
		s.metrics.IncPrintFailure(receiptType.String())
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "printer unreachable")
	}
	s.metrics.IncPrintSuccess(receiptType.String())
	return nil
}

func (s *service) printBestEffort(ctx context.Context, receiptType enums.ReceiptType, receiptNumber int64, text string) {
	err := s.printer.Print(ctx, text)
	if err == nil {
		s.metrics.IncPrintSuccess(receiptType.String())
		return
	}
	s.metrics.IncPrintFailure(receiptType.String())
	s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
		"receipt_type":   receiptType.String(),
		"receipt_number": receiptNumber,
	}), "receipt print failed, archived copy remains")
}
