package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"awdtrack/internal/model"
	"awdtrack/internal/repository"
)

const uniqueViolation = "23505"

type scanner interface {
	Scan(dest ...any) error
}

// mapWriteError turns driver errors the service layer cares about into
// repository sentinels.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

func nullTime(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return *t
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

const documentColumns = `id, awd_reference_number, subject, originating_office, date_of_document,
		fsis_reference_number, awd_received_date, forwarded_by, forwarded_to, forwarded_to_name,
		division, remarks, status, working_days, start_date, end_date, date_time_submitted,
		assigned_inspector, received_by, deadline`

func scanDocument(s scanner) (*model.Document, error) {
	var d model.Document
	var dateOfDoc, received, start, end, due sql.NullTime
	var forwardedBy, forwardedTo, division, sts string
	if err := s.Scan(
		&d.ID,
		&d.AWDReferenceNumber,
		&d.Subject,
		&d.OriginatingOffice,
		&dateOfDoc,
		&d.FSISReferenceNumber,
		&received,
		&forwardedBy,
		&forwardedTo,
		&d.ForwardedToName,
		&division,
		&d.Remarks,
		&sts,
		&d.WorkingDays,
		&start,
		&end,
		&d.DateTimeSubmitted,
		&d.AssignedInspector,
		&d.ReceivedBy,
		&due,
	); err != nil {
		return nil, err
	}

	d.DateOfDocument = timePtr(dateOfDoc)
	d.AWDReceivedDate = timePtr(received)
	d.StartDate = timePtr(start)
	d.EndDate = timePtr(end)
	d.Deadline = timePtr(due)
	d.ForwardedBy = model.Role(forwardedBy)
	d.ForwardedTo = model.Role(forwardedTo)
	d.Division = model.Role(division)
	d.Status = model.Status(sts)
	return &d, nil
}

func unmarshalSnapshot(b []byte, doc *model.Document) error {
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, doc); err != nil {
		return fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return nil
}

func marshalSnapshot(doc model.Document) ([]byte, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return b, nil
}

// likePattern escapes LIKE wildcards in user input and wraps it for a
// substring match.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// whereBuilder accumulates AND-ed conditions with positional arguments.
type whereBuilder struct {
	conds []string
	args  []any
}

// arg registers v and returns its placeholder.
func (w *whereBuilder) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func joinPlaceholders(ph []string) string {
	return strings.Join(ph, ", ")
}

func (w *whereBuilder) add(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}
