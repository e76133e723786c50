package receipts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/amirdashti/darchin-backend/pkg/enums"
	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
)

// ErrReceiptNotFound is returned when no archived receipt matches.
var ErrReceiptNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "receipt not found")

// Archive stores receipt text as flat files under
// <dir>/<type>/<type>_<receiptNumber>.txt. The files are the durable record:
// printing can fail, the archive cannot.
type Archive struct {
	dir string
}

// NewArchive builds an archive rooted at dir.
func NewArchive(dir string) (*Archive, error) {
	if dir == "" {
		return nil, fmt.Errorf("receipts directory required")
	}
	return &Archive{dir: dir}, nil
}

// Write persists the rendered text and returns the file path.
func (a *Archive) Write(receiptType enums.ReceiptType, receiptNumber int64, text string) (string, error) {
	path := a.path(receiptType, receiptNumber)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating receipt dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("writing receipt %s: %w", path, err)
	}
	return path, nil
}

// Read loads an archived receipt's text.
func (a *Archive) Read(receiptType enums.ReceiptType, receiptNumber int64) (string, error) {
	data, err := os.ReadFile(a.path(receiptType, receiptNumber))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrReceiptNotFound
		}
		return "", fmt.Errorf("reading receipt: %w", err)
	}
	return string(data), nil
}

func (a *Archive) path(receiptType enums.ReceiptType, receiptNumber int64) string {
	name := fmt.Sprintf("%s_%d.txt", receiptType, receiptNumber)
	return filepath.Join(a.dir, receiptType.String(), name)
}
