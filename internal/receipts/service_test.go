package receipts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirdashti/darchin-backend/pkg/enums"
	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
	"github.com/amirdashti/darchin-backend/pkg/logger"
)

type stubPrinter struct {
	printed []string
	err     error
}

func (s *stubPrinter) Print(ctx context.Context, text string) error {
	if s.err != nil {
		return s.err
	}
	s.printed = append(s.printed, text)
	return nil
}

func newReceiptsService(t *testing.T, printer *stubPrinter) (Service, string) {
	t.Helper()
	dir := t.TempDir()
	archive, err := NewArchive(dir)
	require.NoError(t, err)
	svc, err := NewService(archive, printer, logger.New(logger.Options{ServiceName: "receipts-test"}), nil)
	require.NoError(t, err)
	return svc, dir
}

func TestArchiveWriteAndRead(t *testing.T) {
	archive, err := NewArchive(t.TempDir())
	require.NoError(t, err)

	path, err := archive.Write(enums.ReceiptTypeKitchen, 41, "receipt body")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path) || path != "")
	assert.Equal(t, "kitchen_41.txt", filepath.Base(path))
	assert.Equal(t, "kitchen", filepath.Base(filepath.Dir(path)))

	text, err := archive.Read(enums.ReceiptTypeKitchen, 41)
	require.NoError(t, err)
	assert.Equal(t, "receipt body", text)
}

func TestArchiveReadMissing(t *testing.T) {
	archive, err := NewArchive(t.TempDir())
	require.NoError(t, err)

	_, err = archive.Read(enums.ReceiptTypeDelivery, 999)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, ErrReceiptNotFound))
}

func TestIssueArchivesAndPrints(t *testing.T) {
	printer := &stubPrinter{}
	svc, dir := newReceiptsService(t, printer)

	path, err := svc.Issue(context.Background(), renderFixture(enums.ReceiptTypeKitchen))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Receipt #41")

	require.Len(t, printer.printed, 1)
	assert.Equal(t, string(data), printer.printed[0])
	assert.Equal(t, filepath.Join(dir, "kitchen", "kitchen_41.txt"), path)
}

func TestIssueSucceedsWhenPrinterIsDown(t *testing.T) {
	printer := &stubPrinter{err: fmt.Errorf("dial tcp: connection refused")}
	svc, _ := newReceiptsService(t, printer)

	path, err := svc.Issue(context.Background(), renderFixture(enums.ReceiptTypeDelivery))
	require.NoError(t, err, "printing is best effort, archival is not")

	// The archived text is exactly what a working printer would have gotten.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Render(renderFixture(enums.ReceiptTypeDelivery)), string(data))
}

func TestIssueAllAggregatesBothTypes(t *testing.T) {
	printer := &stubPrinter{}
	svc, dir := newReceiptsService(t, printer)

	input := renderFixture(enums.ReceiptTypeKitchen)
	err := IssueAll(context.Background(), svc, input, enums.ReceiptTypeKitchen, enums.ReceiptTypeDelivery)
	require.NoError(t, err)

	for _, kind := range []string{"kitchen", "delivery"} {
		_, statErr := os.Stat(filepath.Join(dir, kind, fmt.Sprintf("%s_41.txt", kind)))
		assert.NoError(t, statErr, "expected archived %s receipt", kind)
	}
	assert.Len(t, printer.printed, 2)
}

func TestReprintReadsArchiveOnly(t *testing.T) {
	printer := &stubPrinter{}
	svc, _ := newReceiptsService(t, printer)

	_, err := svc.Issue(context.Background(), renderFixture(enums.ReceiptTypeKitchen))
	require.NoError(t, err)
	printer.printed = nil

	require.NoError(t, svc.Reprint(context.Background(), enums.ReceiptTypeKitchen, 41))
	require.Len(t, printer.printed, 1)
	assert.Contains(t, printer.printed[0], "Receipt #41")
}

func TestReprintMissingReceipt(t *testing.T) {
	svc, _ := newReceiptsService(t, &stubPrinter{})

	err := svc.Reprint(context.Background(), enums.ReceiptTypeKitchen, 12345)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, ErrReceiptNotFound))
}

func TestReprintPropagatesPrinterFailure(t *testing.T) {
	printer := &stubPrinter{}
	svc, _ := newReceiptsService(t, printer)

	_, err := svc.Issue(context.Background(), renderFixture(enums.ReceiptTypeKitchen))
	require.NoError(t, err)

	printer.err = fmt.Errorf("dial tcp: connection refused")
	err = svc.Reprint(context.Background(), enums.ReceiptTypeKitchen, 41)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}
