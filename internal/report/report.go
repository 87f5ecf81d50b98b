// Package report renders manday and document registers as XLSX workbooks.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"awdtrack/internal/deadline"
	"awdtrack/internal/model"
)

const (
	SheetMandays   = "Mandays"
	SheetSummary   = "Summary"
	SheetDocuments = "Documents"

	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

var (
	mandayHeader = []any{
		"AWD Reference No.", "Division", "Inspector", "Start Date", "End Date",
		"Planned Working Days", "Actual Working Days", "Variance", "Date Recorded",
	}
	summaryHeader  = []any{"Division", "Records", "Planned Working Days", "Actual Working Days", "Variance"}
	documentHeader = []any{
		"AWD Reference No.", "Subject", "Originating Office", "FSIS Reference No.", "Date of Document",
		"AWD Received Date", "Forwarded By", "Forwarded To", "Status", "Working Days", "Deadline",
		"Remaining", "Assigned Inspector", "Received By", "Date Submitted", "Remarks",
	}
)

// DocumentRow is one line of the document register.
type DocumentRow struct {
	Document model.Document
	Badge    deadline.Badge
}

// MandayWorkbook lists manday records on one sheet and per-division totals
// on a second. Times are rendered in loc.
func MandayWorkbook(records []model.MandayRecord, loc *time.Location) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetMandays); err != nil {
		return nil, closeWith(f, err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, closeWith(f, err)
	}

	if err := writeHeader(f, SheetMandays, mandayHeader); err != nil {
		return nil, closeWith(f, err)
	}
	type total struct{ records, planned, actual int }
	totals := map[model.Role]*total{}

	for i, m := range records {
		row := []any{
			m.AWDReferenceNumber,
			string(m.Division),
			m.InspectorName,
			m.StartDate.In(loc).Format(dateLayout),
			m.EndDate.In(loc).Format(dateLayout),
			m.OriginalWorkingDays,
			m.ActualWorkingDays,
			m.ActualWorkingDays - m.OriginalWorkingDays,
			m.DateRecorded.In(loc).Format(dateTimeLayout),
		}
		if err := setRow(f, SheetMandays, i+2, row); err != nil {
			return nil, closeWith(f, err)
		}

		t, ok := totals[m.Division]
		if !ok {
			t = &total{}
			totals[m.Division] = t
		}
		t.records++
		t.planned += m.OriginalWorkingDays
		t.actual += m.ActualWorkingDays
	}

	if err := writeHeader(f, SheetSummary, summaryHeader); err != nil {
		return nil, closeWith(f, err)
	}
	divisions := make([]model.Role, 0, len(totals))
	for d := range totals {
		divisions = append(divisions, d)
	}
	sort.Slice(divisions, func(i, j int) bool { return divisions[i] < divisions[j] })
	for i, d := range divisions {
		t := totals[d]
		name := string(d)
		if name == "" {
			name = "Unassigned"
		}
		if err := setRow(f, SheetSummary, i+2, []any{name, t.records, t.planned, t.actual, t.actual - t.planned}); err != nil {
			return nil, closeWith(f, err)
		}
	}

	return f, nil
}

// DocumentWorkbook lists documents with their deadline badge.
func DocumentWorkbook(rows []DocumentRow, loc *time.Location) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetDocuments); err != nil {
		return nil, closeWith(f, err)
	}
	if err := writeHeader(f, SheetDocuments, documentHeader); err != nil {
		return nil, closeWith(f, err)
	}

	for i, r := range rows {
		d := r.Document
		row := []any{
			d.AWDReferenceNumber,
			d.Subject,
			d.OriginatingOffice,
			d.FSISReferenceNumber,
			formatDate(d.DateOfDocument, loc),
			formatDate(d.AWDReceivedDate, loc),
			string(d.ForwardedBy),
			d.ForwardedToName,
			string(d.Status),
			d.WorkingDays,
			formatDate(d.Deadline, loc),
			r.Badge.Label,
			d.AssignedInspector,
			d.ReceivedBy,
			d.DateTimeSubmitted.In(loc).Format(dateTimeLayout),
			d.Remarks,
		}
		if err := setRow(f, SheetDocuments, i+2, row); err != nil {
			return nil, closeWith(f, err)
		}
	}
	return f, nil
}

// Write streams f to w and releases it.
func Write(f *excelize.File, w io.Writer) error {
	if _, err := f.WriteTo(w); err != nil {
		return closeWith(f, fmt.Errorf("write workbook: %w", err))
	}
	return f.Close()
}

func writeHeader(f *excelize.File, sheet string, header []any) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
	})
	if err != nil {
		return err
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", last, 20); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func formatDate(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(loc).Format(dateLayout)
}

func closeWith(f *excelize.File, err error) error {
	if cerr := f.Close(); cerr != nil {
		return fmt.Errorf("%w; close workbook: %v", err, cerr)
	}
	return err
}
