package report

import (
	"bytes"
	"testing"
	"time"

	"awdtrack/internal/deadline"
	"awdtrack/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestMandayWorkbook(t *testing.T) {
	records := []model.MandayRecord{
		{AWDReferenceNumber: "AWD-2025-0001", Division: model.RoleGACID, InspectorName: "J. Cruz",
			StartDate: day(3), EndDate: day(10), OriginalWorkingDays: 7, ActualWorkingDays: 5, DateRecorded: day(10)},
		{AWDReferenceNumber: "AWD-2025-0002", Division: model.RoleCATCID, InspectorName: "L. Reyes",
			StartDate: day(6), EndDate: day(13), OriginalWorkingDays: 3, ActualWorkingDays: 5, DateRecorded: day(13)},
		{AWDReferenceNumber: "AWD-2025-0003", Division: model.RoleGACID, InspectorName: "J. Cruz",
			StartDate: day(6), EndDate: day(8), OriginalWorkingDays: 3, ActualWorkingDays: 2, DateRecorded: day(8)},
	}

	f, err := MandayWorkbook(records, time.UTC)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(f, &buf))

	out, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer out.Close()

	rows, err := out.GetRows(SheetMandays)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "AWD Reference No.", rows[0][0])
	assert.Equal(t, []string{"AWD-2025-0001", "GACID", "J. Cruz", "2025-01-03", "2025-01-10", "7", "5", "-2", "2025-01-10 00:00"}, rows[1])

	summary, err := out.GetRows(SheetSummary)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, []string{"CATCID", "1", "3", "5", "2"}, summary[1])
	assert.Equal(t, []string{"GACID", "2", "10", "7", "-3"}, summary[2])
}

func TestDocumentWorkbook(t *testing.T) {
	due := day(8)
	rows := []DocumentRow{
		{
			Document: model.Document{
				AWDReferenceNumber: "AWD-2025-0001",
				Subject:            "Permit renewal",
				ForwardedBy:        model.RoleAdmin,
				ForwardedToName:    "Secretary",
				Status:             model.StatusOpen,
				WorkingDays:        3,
				Deadline:           &due,
				DateTimeSubmitted:  day(3).Add(9 * time.Hour),
			},
			Badge: deadline.Badge{Label: "2 working days left (due Jan 8, 2025)", Urgency: deadline.UrgencyCritical},
		},
	}

	f, err := DocumentWorkbook(rows, time.UTC)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(f, &buf))

	out, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer out.Close()

	got, err := out.GetRows(SheetDocuments)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Len(t, got[0], len(documentHeader))
	assert.Equal(t, "AWD-2025-0001", got[1][0])
	assert.Equal(t, "Open", got[1][8])
	assert.Equal(t, "2025-01-08", got[1][10])
	assert.Equal(t, "2 working days left (due Jan 8, 2025)", got[1][11])
	assert.Equal(t, "2025-01-03 09:00", got[1][14])
}
