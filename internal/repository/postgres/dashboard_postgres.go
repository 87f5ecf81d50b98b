package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"awdtrack/internal/model"
	"awdtrack/internal/refcode"
	"awdtrack/internal/repository"
)

// DashboardPostgres is a PostgreSQL implementation of repository.DashboardRepository.
type DashboardPostgres struct {
	db *sql.DB
}

// NewDashboardPostgres creates a new DashboardPostgres repository.
func NewDashboardPostgres(db *sql.DB) *DashboardPostgres {
	return &DashboardPostgres{db: db}
}

var _ repository.DashboardRepository = (*DashboardPostgres)(nil)

// scopeWhere filters on the division column and the reference year prefix.
func scopeWhere(s repository.Scope) *whereBuilder {
	w := &whereBuilder{}
	if s.Division != "" {
		w.add("division = " + w.arg(string(s.Division)))
	}
	if s.Year > 0 {
		w.add("awd_reference_number LIKE " + w.arg(refcode.YearPrefix(s.Year)+"%"))
	}
	return w
}

func (r *DashboardPostgres) StatusCounts(ctx context.Context, s repository.Scope) ([]repository.StatusCount, error) {
	w := scopeWhere(s)
	q := `SELECT status, forwarded_to, COUNT(*) FROM documents` + w.String() +
		` GROUP BY status, forwarded_to ORDER BY status, forwarded_to`

	rows, err := r.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]repository.StatusCount, 0)
	for rows.Next() {
		var sts, fwd string
		var c repository.StatusCount
		if err := rows.Scan(&sts, &fwd, &c.Count); err != nil {
			return nil, err
		}
		c.Status = model.Status(sts)
		c.ForwardedTo = model.Role(fwd)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *DashboardPostgres) OpenDocuments(ctx context.Context, s repository.Scope) ([]model.Document, error) {
	w := scopeWhere(s)
	w.add("status IN (" + w.arg(string(model.StatusOpen)) + ", " + w.arg(string(model.StatusOnHold)) + ")")
	q := `SELECT ` + documentColumns + ` FROM documents` + w.String() + ` ORDER BY deadline ASC NULLS LAST`

	rows, err := r.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *DashboardPostgres) Mandays(ctx context.Context, s repository.Scope) ([]model.MandayRecord, error) {
	w := scopeWhere(s)
	q := `
		SELECT id, document_id, awd_reference_number, division, original_working_days,
		       actual_working_days, inspector_name, start_date, end_date, date_recorded
		FROM mandays` + w.String() + `
		ORDER BY date_recorded DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.MandayRecord, 0)
	for rows.Next() {
		var m model.MandayRecord
		var division string
		if err := rows.Scan(
			&m.ID,
			&m.DocumentID,
			&m.AWDReferenceNumber,
			&division,
			&m.OriginalWorkingDays,
			&m.ActualWorkingDays,
			&m.InspectorName,
			&m.StartDate,
			&m.EndDate,
			&m.DateRecorded,
		); err != nil {
			return nil, err
		}
		m.Division = model.Role(division)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *DashboardPostgres) ReturnCount(ctx context.Context, kind model.ReturnKind, s repository.Scope) (int, error) {
	table, err := returnTable(kind)
	if err != nil {
		return 0, err
	}
	w := scopeWhere(s)

	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+w.String(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
