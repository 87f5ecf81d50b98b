package deadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyUrgency(t *testing.T) {
	due := date(2025, 1, 8)

	tests := []struct {
		name      string
		remaining int
		overdue   bool
		closed    bool
		want      Badge
	}{
		{name: "closed wins over everything", remaining: 2, overdue: true, closed: true, want: Badge{Label: "Closed", Urgency: UrgencyNeutral}},
		{name: "overdue", overdue: true, want: Badge{Label: "Overdue", Urgency: UrgencyCritical, Due: &due}},
		{name: "due today", remaining: 0, want: Badge{Label: "Due today (Jan 8, 2025)", Urgency: UrgencyCritical, Due: &due}},
		{name: "one left", remaining: 1, want: Badge{Label: "1 working days left (due Jan 8, 2025)", Urgency: UrgencyCritical, Due: &due, Remaining: 1}},
		{name: "three left is critical", remaining: 3, want: Badge{Label: "3 working days left (due Jan 8, 2025)", Urgency: UrgencyCritical, Due: &due, Remaining: 3}},
		{name: "four left is warning", remaining: 4, want: Badge{Label: "4 working days left (due Jan 8, 2025)", Urgency: UrgencyWarning, Due: &due, Remaining: 4}},
		{name: "seven left is warning", remaining: 7, want: Badge{Label: "7 working days left (due Jan 8, 2025)", Urgency: UrgencyWarning, Due: &due, Remaining: 7}},
		{name: "eight left is normal", remaining: 8, want: Badge{Label: "8 working days left (due Jan 8, 2025)", Urgency: UrgencyNormal, Due: &due, Remaining: 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyUrgency(tt.remaining, tt.overdue, tt.closed, due))
		})
	}
}

func TestClassifyUrgency_Total(t *testing.T) {
	due := date(2025, 1, 8)
	known := map[Urgency]bool{UrgencyNeutral: true, UrgencyNormal: true, UrgencyWarning: true, UrgencyCritical: true}
	for remaining := -2; remaining <= 30; remaining++ {
		for _, overdue := range []bool{false, true} {
			for _, closed := range []bool{false, true} {
				b := ClassifyUrgency(remaining, overdue, closed, due)
				assert.NotEmpty(t, b.Label)
				assert.True(t, known[b.Urgency], "unknown urgency %q", b.Urgency)
			}
		}
	}
}

func TestEvaluate(t *testing.T) {
	start := date(2025, 1, 3) // Friday, due Wednesday Jan 8

	tests := []struct {
		name   string
		start  *time.Time
		budget int
		closed bool
		now    time.Time
		label  string
		urg    Urgency
	}{
		{name: "missing start", budget: 3, now: date(2025, 1, 3), label: "N/A", urg: UrgencyNeutral},
		{name: "missing budget", start: &start, now: date(2025, 1, 3), label: "N/A", urg: UrgencyNeutral},
		{name: "closed", start: &start, budget: 3, closed: true, now: date(2025, 2, 1), label: "Closed", urg: UrgencyNeutral},
		{name: "on start day", start: &start, budget: 3, now: time.Date(2025, 1, 3, 10, 0, 0, 0, time.UTC), label: "3 working days left (due Jan 8, 2025)", urg: UrgencyCritical},
		{name: "over the weekend", start: &start, budget: 3, now: date(2025, 1, 4), label: "3 working days left (due Jan 8, 2025)", urg: UrgencyCritical},
		{name: "deadline day", start: &start, budget: 3, now: time.Date(2025, 1, 8, 17, 0, 0, 0, time.UTC), label: "Due today (Jan 8, 2025)", urg: UrgencyCritical},
		{name: "day after deadline", start: &start, budget: 3, now: date(2025, 1, 9), label: "Overdue", urg: UrgencyCritical},
		{name: "twenty day budget", start: &start, budget: 20, now: date(2025, 1, 3), label: "20 working days left (due Jan 31, 2025)", urg: UrgencyNormal},
		{name: "seven day budget", start: &start, budget: 7, now: date(2025, 1, 3), label: "7 working days left (due Jan 14, 2025)", urg: UrgencyWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Evaluate(tt.start, tt.budget, tt.closed, tt.now)
			assert.Equal(t, tt.label, b.Label)
			assert.Equal(t, tt.urg, b.Urgency)
		})
	}
}

func TestEvaluateString(t *testing.T) {
	now := date(2025, 1, 3)

	b := EvaluateString("01/03/2025", 3, "", time.UTC, now)
	assert.Equal(t, "3 working days left (due Jan 8, 2025)", b.Label)

	b = EvaluateString("2025-01-03", 3, "", time.UTC, now)
	assert.Equal(t, "3 working days left (due Jan 8, 2025)", b.Label)

	b = EvaluateString("not a date", 3, "", time.UTC, now)
	assert.Equal(t, NotApplicable, b)

	b = EvaluateString("2025-01-03", 3, "2025-01-07", time.UTC, now)
	assert.Equal(t, "Closed", b.Label)
}
