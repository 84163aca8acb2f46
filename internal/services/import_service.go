package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/csvimport"
	"financas/internal/sanitize"
	"financas/internal/store"
)

var ErrBinaryUpload = errors.New("file does not look like CSV text")

// Archiver keeps a copy of a raw upload and returns where it went.
type Archiver interface {
	Archive(ctx context.Context, ownerID, filename string, data []byte) (string, error)
}

// ImportService runs CSV imports straight against the store: rows are stored
// as parsed, one at a time, and zero-amount rows are accepted as income.
type ImportService struct {
	importer    *csvimport.Importer
	archiver    Archiver
	publisher   EventPublisher
	invalidator Invalidator
}

// NewImportService accepts nil for the archiver, the publisher and the invalidator.
func NewImportService(s store.TransactionStore, archiver Archiver, publisher EventPublisher, inv Invalidator) *ImportService {
	parser := csvimport.Parser{Clean: sanitize.Text}
	return &ImportService{
		importer:    csvimport.NewImporter(s, parser),
		archiver:    archiver,
		publisher:   publisher,
		invalidator: inv,
	}
}

// Import decodes data and imports it for ownerID. Binary content is refused
// before parsing. When the import aborts on a store error the rows already
// stored are still announced and the *csvimport.ImportError is returned.
//
// Once rows start being stored the import runs to the end of the file even if
// ctx is cancelled, so a dropped client never leaves half a file behind.
func (s *ImportService) Import(ctx context.Context, ownerID, filename string, data []byte) (csvimport.Result, error) {
	if ownerID == "" {
		return csvimport.Result{}, core.ErrNoOwner
	}
	if sanitize.IsBinary(data) {
		return csvimport.Result{}, ErrBinaryUpload
	}

	if s.archiver != nil && len(data) > 0 {
		if uri, err := s.archiver.Archive(ctx, ownerID, filename, data); err != nil {
			slog.WarnContext(ctx, "Failed to archive import file", "filename", filename, "error", err)
		} else {
			slog.DebugContext(ctx, "Import file archived", "uri", uri)
		}
	}

	text, err := decodeText(data)
	if err != nil {
		return csvimport.Result{}, fmt.Errorf("decode upload: %w", err)
	}

	ctx = context.WithoutCancel(ctx)
	res, err := s.importer.Import(ctx, ownerID, text)
	for _, id := range res.IDs {
		publishEvent(ctx, s.publisher, amqp.NewTransactionEvent(amqp.ActionCreated, ownerID, id))
	}
	if res.Imported > 0 {
		invalidate(s.invalidator, ownerID)
	}
	if err != nil {
		return res, err
	}

	if res.Outcome == csvimport.OutcomeImported {
		publishEvent(ctx, s.publisher, amqp.NewImportCompletedEvent(ownerID, res.Imported))
	}
	slog.InfoContext(ctx, "CSV import finished",
		"owner_id", ownerID,
		"filename", filename,
		"imported", res.Imported,
		"rejected", res.Rejected,
		"outcome", res.Outcome)
	return res, nil
}

// decodeText accepts UTF-8 and falls back to Latin-1, the usual encoding of
// spreadsheet exports that are not UTF-8.
func decodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
