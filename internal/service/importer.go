package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/order-desk/internal/logging"
	"github.com/sakif/order-desk/internal/model"
	"github.com/sakif/order-desk/internal/repository"
	"github.com/sakif/order-desk/internal/validation"
)

// ImportResult is the only thing an import reports back: how many records
// were created and how many were skipped. Per-record reasons are logged, not
// returned.
type ImportResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// Skip reasons besides the validation.Reason values.
const (
	skipNotObject      = "not_an_object"
	skipDuplicateEmail = "duplicate_email"
	skipUnknownUser    = "unknown_user"
)

// Importer reconciles a batch of raw records against the store.
//
// A batch is processed in input order inside a single transaction. Each
// record is validated, then checked against both the store and the records
// already staged earlier in the same batch. Rejected records are counted and
// skipped; they never abort the batch. Accepted records are inserted at the
// end of the batch and committed together, so either the whole accepted set
// becomes durable or none of it does.
type Importer struct {
	store  repository.Store
	logger *slog.Logger
}

func NewImporter(store repository.Store, logger *slog.Logger) *Importer {
	return &Importer{store: store, logger: logger}
}

// batch tracks counts for one import run.
type batch struct {
	ImportResult
	id      string
	reasons map[string]int
	logger  *slog.Logger
}

func (im *Importer) newBatch(ctx context.Context, kind string, size int) *batch {
	id := xid.New().String()
	return &batch{
		id:      id,
		reasons: make(map[string]int),
		logger: logging.FromContext(ctx, im.logger).With(
			slog.String("import_id", id),
			slog.String("kind", kind),
			slog.Int("records", size),
		),
	}
}

func (b *batch) skip(index int, reason string) {
	b.Skipped++
	b.reasons[reason]++
	b.logger.Debug("import record skipped", slog.Int("index", index), slog.String("reason", reason))
}

func (b *batch) reset() {
	b.ImportResult = ImportResult{}
	clear(b.reasons)
}

func (b *batch) finish(start time.Time, err error) (ImportResult, error) {
	if err != nil {
		b.logger.Error("import failed, nothing committed",
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)),
		)
		return ImportResult{}, err
	}
	b.logger.Info("import finished",
		slog.Int("created", b.Created),
		slog.Int("skipped", b.Skipped),
		slog.Any("skipped_by_reason", b.reasons),
		slog.Duration("duration", time.Since(start)),
	)
	return b.ImportResult, nil
}

// ImportUsers creates every valid user in items whose email is not already
// taken, by a stored user or by an earlier record of the same batch. id and
// created_at in the input are ignored.
func (im *Importer) ImportUsers(ctx context.Context, items []any) (ImportResult, error) {
	start := time.Now()
	b := im.newBatch(ctx, "users", len(items))

	err := im.store.InTx(ctx, func(tx repository.Repository) error {
		b.reset()
		staged := make(map[string]struct{}, len(items))
		drafts := make([]model.UserDraft, 0, len(items))

		for i, item := range items {
			raw, ok := item.(map[string]any)
			if !ok {
				b.skip(i, skipNotObject)
				continue
			}
			draft, err := validation.User(raw)
			if err != nil {
				b.skip(i, rejectionReason(err))
				continue
			}
			if _, dup := staged[draft.Email]; dup {
				b.skip(i, skipDuplicateEmail)
				continue
			}
			exists, err := tx.EmailExists(ctx, draft.Email)
			if err != nil {
				return err
			}
			if exists {
				b.skip(i, skipDuplicateEmail)
				continue
			}
			staged[draft.Email] = struct{}{}
			drafts = append(drafts, draft)
			b.Created++
		}

		for _, d := range drafts {
			if err := tx.CreateUser(ctx, d.User()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		err = fmt.Errorf("importing users: %w", err)
	}
	return b.finish(start, err)
}

// ImportOrders creates every valid order in items whose user_id refers to an
// existing user. Orders never create users, so "existing" means already in
// the store. id and created_at in the input are ignored.
func (im *Importer) ImportOrders(ctx context.Context, items []any) (ImportResult, error) {
	start := time.Now()
	b := im.newBatch(ctx, "orders", len(items))

	err := im.store.InTx(ctx, func(tx repository.Repository) error {
		b.reset()
		known := make(map[int64]bool)
		drafts := make([]model.OrderDraft, 0, len(items))

		for i, item := range items {
			raw, ok := item.(map[string]any)
			if !ok {
				b.skip(i, skipNotObject)
				continue
			}
			draft, err := validation.Order(raw)
			if err != nil {
				b.skip(i, rejectionReason(err))
				continue
			}
			exists, seen := known[draft.UserID]
			if !seen {
				exists, err = tx.UserExists(ctx, draft.UserID)
				if err != nil {
					return err
				}
				known[draft.UserID] = exists
			}
			if !exists {
				b.skip(i, skipUnknownUser)
				continue
			}
			drafts = append(drafts, draft)
			b.Created++
		}

		for _, d := range drafts {
			if err := tx.CreateOrder(ctx, d.Order()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		err = fmt.Errorf("importing orders: %w", err)
	}
	return b.finish(start, err)
}

func rejectionReason(err error) string {
	var rej *validation.Rejection
	if errors.As(err, &rej) {
		return string(rej.Reason)
	}
	return "invalid"
}
