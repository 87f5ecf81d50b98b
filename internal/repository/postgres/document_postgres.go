package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"awdtrack/internal/database"
	"awdtrack/internal/model"
	"awdtrack/internal/refcode"
	"awdtrack/internal/repository"
)

// referenceLockSpace is the first key of the per-year advisory lock that
// serializes reference allocation.
const referenceLockSpace = 0x415744

// sortColumns whitelists the orderings a listing may request.
var sortColumns = map[string]string{
	"dateTimeSubmitted":  "date_time_submitted",
	"awdReferenceNumber": "awd_reference_number",
	"subject":            "subject",
	"status":             "status",
	"forwardedTo":        "forwarded_to",
	"awdReceivedDate":    "awd_received_date",
	"deadline":           "deadline",
}

const defaultSort = "date_time_submitted"

// purgeTables hold rows keyed by document_id that go with a purged document.
var purgeTables = []string{"mandays", "tracking", "return_inspector", "return_to_awd", "document_attachments"}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// Create inserts a new document and its intake tracking entry. The reference
// number is chosen by alloc while the year's advisory lock is held, so two
// concurrent creates never see the same set of existing codes.
func (r *DocumentPostgres) Create(ctx context.Context, year int, alloc repository.ReferenceAllocator, doc *model.Document, entry *model.TrackingEntry) (*model.Document, error) {
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, referenceLockSpace, year); err != nil {
			return fmt.Errorf("lock reference year: %w", err)
		}

		existing, err := referencesForYear(ctx, tx, year)
		if err != nil {
			return err
		}
		ref, err := alloc(existing)
		if err != nil {
			return err
		}
		doc.AWDReferenceNumber = ref
		entry.AWDReferenceNumber = ref
		entry.Snapshot.AWDReferenceNumber = ref

		if err := insertDocument(ctx, tx, doc); err != nil {
			return err
		}
		return insertTracking(ctx, tx, entry)
	})
	if err != nil {
		return nil, mapWriteError(err)
	}
	return doc, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// List returns documents matching f using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, f repository.ListFilter) (*repository.PageResult[model.Document], error) {
	var w whereBuilder
	if len(f.Status) > 0 {
		ph := make([]string, len(f.Status))
		for i, s := range f.Status {
			ph[i] = w.arg(string(s))
		}
		w.add("status IN (" + joinPlaceholders(ph) + ")")
	}
	if f.ForwardedTo != "" {
		w.add("forwarded_to = " + w.arg(string(f.ForwardedTo)))
	}
	if f.Division != "" {
		w.add("division = " + w.arg(string(f.Division)))
	}
	if f.Year > 0 {
		w.add("awd_reference_number LIKE " + w.arg(refcode.YearPrefix(f.Year)+"%"))
	}
	if f.Search != "" {
		p := w.arg(likePattern(f.Search))
		w.add("(awd_reference_number ILIKE " + p + " OR subject ILIKE " + p +
			" OR originating_office ILIKE " + p + " OR fsis_reference_number ILIKE " + p + ")")
	}
	where := w.String()

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`+where, w.args...).Scan(&total); err != nil {
		return nil, err
	}

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = defaultSort
	}
	dir := "ASC"
	if f.SortDesc || f.SortBy == "" {
		dir = "DESC"
	}

	limit := w.arg(f.Limit)
	offset := w.arg(f.Offset)
	q := `SELECT ` + documentColumns + ` FROM documents` + where +
		fmt.Sprintf(" ORDER BY %s %s NULLS LAST, id %s LIMIT %s OFFSET %s", col, dir, dir, limit, offset)

	rows, err := r.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// ApplyTransition persists one routing action. The document update is
// conditional on the state the action was computed from; a concurrent change
// yields repository.ErrStale and nothing is written.
func (r *DocumentPostgres) ApplyTransition(ctx context.Context, t repository.Transition) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		d := t.Document
		const q = `
			UPDATE documents
			SET forwarded_by = $1, forwarded_to = $2, forwarded_to_name = $3, division = $4,
			    remarks = $5, status = $6, end_date = $7, assigned_inspector = $8, received_by = $9
			WHERE id = $10 AND status = $11 AND forwarded_to = $12
		`
		res, err := tx.ExecContext(ctx, q,
			string(d.ForwardedBy),
			string(d.ForwardedTo),
			d.ForwardedToName,
			string(d.Division),
			d.Remarks,
			string(d.Status),
			nullTime(d.EndDate),
			d.AssignedInspector,
			d.ReceivedBy,
			d.ID,
			string(t.PrevStatus),
			string(t.PrevForwardedTo),
		)
		if err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return repository.ErrStale
		}

		if err := insertTracking(ctx, tx, &t.Entry); err != nil {
			return err
		}
		if t.ClearMandays {
			if _, err := tx.ExecContext(ctx, `DELETE FROM mandays WHERE document_id = $1`, d.ID); err != nil {
				return fmt.Errorf("clear mandays: %w", err)
			}
		}
		if t.Manday != nil {
			if err := insertManday(ctx, tx, t.Manday); err != nil {
				return err
			}
		}
		if t.Return != nil {
			if err := insertReturn(ctx, tx, t.Return); err != nil {
				return err
			}
		}
		return nil
	})
}

// History returns the tracking entries of a document in the order they were written.
func (r *DocumentPostgres) History(ctx context.Context, documentID string) ([]model.TrackingEntry, error) {
	const q = `
		SELECT id, document_id, awd_reference_number, action, status, forwarded_by, forwarded_to,
		       remarks, action_timestamp, snapshot
		FROM tracking
		WHERE document_id = $1
		ORDER BY action_timestamp ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]model.TrackingEntry, 0)
	for rows.Next() {
		var e model.TrackingEntry
		var sts, forwardedBy, fwdTo string
		var snapshot []byte
		if err := rows.Scan(
			&e.ID,
			&e.DocumentID,
			&e.AWDReferenceNumber,
			&e.Action,
			&sts,
			&forwardedBy,
			&fwdTo,
			&e.Remarks,
			&e.ActionTimestamp,
			&snapshot,
		); err != nil {
			return nil, err
		}
		e.Status = model.Status(sts)
		e.ForwardedBy = model.Role(forwardedBy)
		e.ForwardedTo = model.Role(fwdTo)
		if err := unmarshalSnapshot(snapshot, &e.Snapshot); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ReferencesForYear returns every reference number issued for year.
func (r *DocumentPostgres) ReferencesForYear(ctx context.Context, year int) ([]string, error) {
	return referencesForYear(ctx, r.db, year)
}

// Purge removes a document by reference number together with its tracking,
// manday, return and attachment rows. sql.ErrNoRows is returned when no
// document carries the reference.
func (r *DocumentPostgres) Purge(ctx context.Context, reference string) ([]string, error) {
	var paths []string
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var id string
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM documents WHERE awd_reference_number = $1 FOR UPDATE`, reference,
		).Scan(&id)
		if err != nil {
			return err
		}

		rows, err := tx.QueryContext(ctx, `SELECT storage_path FROM document_attachments WHERE document_id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var p string
			if err := rows.Scan(&p); err != nil {
				return err
			}
			paths = append(paths, p)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		for _, table := range purgeTables {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE document_id = $1`, id); err != nil {
				return fmt.Errorf("purge %s: %w", table, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id); err != nil {
			return fmt.Errorf("purge documents: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func referencesForYear(ctx context.Context, q querier, year int) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT awd_reference_number FROM documents WHERE awd_reference_number LIKE $1`,
		refcode.YearPrefix(year)+"%",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := make([]string, 0)
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func insertDocument(ctx context.Context, q querier, d *model.Document) error {
	const stmt = `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`
	_, err := q.ExecContext(ctx, stmt,
		d.ID,
		d.AWDReferenceNumber,
		d.Subject,
		d.OriginatingOffice,
		nullTime(d.DateOfDocument),
		d.FSISReferenceNumber,
		nullTime(d.AWDReceivedDate),
		string(d.ForwardedBy),
		string(d.ForwardedTo),
		d.ForwardedToName,
		string(d.Division),
		d.Remarks,
		string(d.Status),
		d.WorkingDays,
		nullTime(d.StartDate),
		nullTime(d.EndDate),
		d.DateTimeSubmitted,
		d.AssignedInspector,
		d.ReceivedBy,
		nullTime(d.Deadline),
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func insertTracking(ctx context.Context, q querier, e *model.TrackingEntry) error {
	snapshot, err := marshalSnapshot(e.Snapshot)
	if err != nil {
		return err
	}
	const stmt = `
		INSERT INTO tracking (id, document_id, awd_reference_number, action, status, forwarded_by,
		                      forwarded_to, remarks, action_timestamp, snapshot)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = q.ExecContext(ctx, stmt,
		e.ID,
		e.DocumentID,
		e.AWDReferenceNumber,
		e.Action,
		string(e.Status),
		string(e.ForwardedBy),
		string(e.ForwardedTo),
		e.Remarks,
		e.ActionTimestamp,
		string(snapshot),
	)
	if err != nil {
		return fmt.Errorf("insert tracking: %w", err)
	}
	return nil
}

func insertManday(ctx context.Context, q querier, m *model.MandayRecord) error {
	const stmt = `
		INSERT INTO mandays (id, document_id, awd_reference_number, division, original_working_days,
		                     actual_working_days, inspector_name, start_date, end_date, date_recorded)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := q.ExecContext(ctx, stmt,
		m.ID,
		m.DocumentID,
		m.AWDReferenceNumber,
		string(m.Division),
		m.OriginalWorkingDays,
		m.ActualWorkingDays,
		m.InspectorName,
		m.StartDate,
		m.EndDate,
		m.DateRecorded,
	)
	if err != nil {
		return fmt.Errorf("insert manday: %w", err)
	}
	return nil
}

func returnTable(kind model.ReturnKind) (string, error) {
	switch kind {
	case model.ReturnToInspector:
		return "return_inspector", nil
	case model.ReturnToAWD:
		return "return_to_awd", nil
	default:
		return "", fmt.Errorf("unknown return kind %q", kind)
	}
}

func insertReturn(ctx context.Context, q querier, rs *model.ReturnSnapshot) error {
	table, err := returnTable(rs.Kind)
	if err != nil {
		return err
	}
	snapshot, err := marshalSnapshot(rs.Snapshot)
	if err != nil {
		return err
	}
	stmt := `INSERT INTO ` + table + ` (id, document_id, awd_reference_number, division, remarks, snapshot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = q.ExecContext(ctx, stmt,
		rs.ID,
		rs.DocumentID,
		rs.AWDReferenceNumber,
		string(rs.Division),
		rs.Remarks,
		string(snapshot),
		rs.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}
