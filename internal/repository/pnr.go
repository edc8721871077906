package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/opengds/terminal-server-go/internal/database"
	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/model"
)

// Index kinds written to pnr_index alongside every committed document.
const (
	IndexKindName   = "name"
	IndexKindFlight = "flight"
	IndexKindPhone  = "phone"
	IndexKindTicket = "ticket"
	IndexKindFF     = "ff"
)

// ErrVersionConflict is returned when a commit loses the optimistic
// version check to a concurrent committer of the same locator.
var ErrVersionConflict = apperrors.Conflict("SIMULTANEOUS CHANGES - RETRIEVE AND RETRY")

type PnrRepository interface {
	FindByLocator(ctx context.Context, locator string) (*model.Pnr, int64, error)
	FindByName(ctx context.Context, lastName, firstName string) ([]model.Pnr, error)
	FindByFlight(ctx context.Context, flightNumber string, date time.Time) ([]model.Pnr, error)
	FindByPhone(ctx context.Context, phone string) ([]model.Pnr, error)
	FindByTicket(ctx context.Context, ticketNumber string) ([]model.Pnr, error)
	FindByFrequentFlyer(ctx context.Context, ff string) ([]model.Pnr, error)
	FindBySessionID(ctx context.Context, sessionID string) (*model.Pnr, error)
	// Save persists the full document and rewrites its secondary index
	// atomically. expectedVersion 0 inserts a new row; otherwise the update
	// succeeds only when the stored version still matches, and the new
	// version is returned.
	Save(ctx context.Context, pnr *model.Pnr, sessionID string, expectedVersion int64) (int64, error)
	Delete(ctx context.Context, locator string) error
}

type pnrRow struct {
	RecordLocator    string         `db:"record_locator"`
	Document         []byte         `db:"document"`
	SessionID        sql.NullString `db:"session_id"`
	SessionTimestamp sql.NullTime   `db:"session_timestamp"`
	Version          int64          `db:"version"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

type pnrRepo struct {
	db *database.DB
}

func NewPnrRepository(db *database.DB) PnrRepository {
	return &pnrRepo{db: db}
}

func (r *pnrRepo) FindByLocator(ctx context.Context, locator string) (*model.Pnr, int64, error) {
	var row pnrRow
	err := r.db.GetContext(ctx, &row, `
		SELECT record_locator, document, session_id, session_timestamp, version, created_at, updated_at
		FROM pnrs WHERE record_locator = $1
	`, locator)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	pnr, err := decodeDocument(row.Document)
	if err != nil {
		return nil, 0, err
	}
	return pnr, row.Version, nil
}

func (r *pnrRepo) FindByName(ctx context.Context, lastName, firstName string) ([]model.Pnr, error) {
	pnrs, err := r.findByIndex(ctx, IndexKindName, strings.ToUpper(lastName))
	if err != nil {
		return nil, err
	}
	if firstName == "" {
		return pnrs, nil
	}
	upper := strings.ToUpper(firstName)
	return lo.Filter(pnrs, func(p model.Pnr, _ int) bool {
		return lo.SomeBy(p.Passengers, func(pax model.Passenger) bool {
			return strings.EqualFold(pax.FirstName, upper)
		})
	}), nil
}

func (r *pnrRepo) FindByFlight(ctx context.Context, flightNumber string, date time.Time) ([]model.Pnr, error) {
	return r.findByIndex(ctx, IndexKindFlight, flightIndexValue(flightNumber, date))
}

func (r *pnrRepo) FindByPhone(ctx context.Context, phone string) ([]model.Pnr, error) {
	return r.findByIndex(ctx, IndexKindPhone, phone)
}

func (r *pnrRepo) FindByTicket(ctx context.Context, ticketNumber string) ([]model.Pnr, error) {
	return r.findByIndex(ctx, IndexKindTicket, ticketNumber)
}

func (r *pnrRepo) FindByFrequentFlyer(ctx context.Context, ff string) ([]model.Pnr, error) {
	return r.findByIndex(ctx, IndexKindFF, strings.ToUpper(ff))
}

func (r *pnrRepo) FindBySessionID(ctx context.Context, sessionID string) (*model.Pnr, error) {
	var row pnrRow
	err := r.db.GetContext(ctx, &row, `
		SELECT record_locator, document, session_id, session_timestamp, version, created_at, updated_at
		FROM pnrs WHERE session_id = $1
		ORDER BY session_timestamp DESC
		LIMIT 1
	`, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeDocument(row.Document)
}

func (r *pnrRepo) findByIndex(ctx context.Context, kind, value string) ([]model.Pnr, error) {
	var rows []pnrRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT p.record_locator, p.document, p.session_id, p.session_timestamp,
		       p.version, p.created_at, p.updated_at
		FROM pnrs p
		JOIN pnr_index i ON i.record_locator = p.record_locator
		WHERE i.kind = $1 AND i.value = $2
		ORDER BY p.created_at ASC
	`, kind, value)
	if err != nil {
		return nil, err
	}

	out := make([]model.Pnr, 0, len(rows))
	for _, row := range rows {
		pnr, err := decodeDocument(row.Document)
		if err != nil {
			return nil, err
		}
		out = append(out, *pnr)
	}
	return out, nil
}

func (r *pnrRepo) Save(ctx context.Context, pnr *model.Pnr, sessionID string, expectedVersion int64) (int64, error) {
	doc, err := json.Marshal(pnr)
	if err != nil {
		return 0, fmt.Errorf("marshal pnr document: %w", err)
	}

	newVersion := expectedVersion + 1
	err = r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		now := time.Now()
		if expectedVersion == 0 {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO pnrs (record_locator, document, session_id, session_timestamp, version, created_at, updated_at)
				VALUES ($1, $2, $3, $4, 1, $5, $5)
			`, pnr.RecordLocator, doc, sessionID, now, now)
			if err != nil {
				return err
			}
		} else {
			result, err := tx.ExecContext(ctx, `
				UPDATE pnrs
				SET document = $2, session_id = $3, session_timestamp = $4, version = version + 1, updated_at = $5
				WHERE record_locator = $1 AND version = $6
			`, pnr.RecordLocator, doc, sessionID, now, now, expectedVersion)
			if err != nil {
				return err
			}
			rows, err := result.RowsAffected()
			if err != nil {
				return err
			}
			if rows != 1 {
				return ErrVersionConflict
			}
		}
		return writeIndex(ctx, tx, pnr)
	})
	if err != nil {
		return 0, err
	}
	return newVersion, nil
}

func (r *pnrRepo) Delete(ctx context.Context, locator string) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM pnr_index WHERE record_locator = $1`, locator); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM pnrs WHERE record_locator = $1`, locator)
		return err
	})
}

// writeIndex rewrites the secondary lookup rows for a document.
func writeIndex(ctx context.Context, tx *sqlx.Tx, pnr *model.Pnr) error {
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM pnr_index WHERE record_locator = $1
	`, pnr.RecordLocator); err != nil {
		return err
	}

	type entry struct{ kind, value string }
	var entries []entry

	for _, pax := range pnr.Passengers {
		entries = append(entries, entry{IndexKindName, strings.ToUpper(pax.LastName)})
		if pax.FrequentFlyer != "" {
			entries = append(entries, entry{IndexKindFF, strings.ToUpper(pax.FrequentFlyer)})
		}
	}
	for _, seg := range pnr.Segments {
		if !seg.IsSurfaceSegment && seg.Status.Active() {
			entries = append(entries, entry{IndexKindFlight, flightIndexValue(seg.FlightNumber, seg.DepartureDate)})
		}
	}
	if pnr.Contact != nil && pnr.Contact.Phone != "" {
		entries = append(entries, entry{IndexKindPhone, pnr.Contact.Phone})
	}
	for _, ticket := range pnr.Tickets {
		entries = append(entries, entry{IndexKindTicket, ticket.Number})
	}

	entries = lo.UniqBy(entries, func(e entry) string { return e.kind + "|" + e.value })
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pnr_index (record_locator, kind, value) VALUES ($1, $2, $3)
		`, pnr.RecordLocator, e.kind, e.value); err != nil {
			return err
		}
	}
	return nil
}

func flightIndexValue(flightNumber string, date time.Time) string {
	return fmt.Sprintf("%s|%s", flightNumber, date.Format("2006-01-02"))
}

func decodeDocument(doc []byte) (*model.Pnr, error) {
	var pnr model.Pnr
	if err := json.Unmarshal(doc, &pnr); err != nil {
		return nil, fmt.Errorf("decode pnr document: %w", err)
	}
	return &pnr, nil
}
