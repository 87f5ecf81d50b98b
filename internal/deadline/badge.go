package deadline

import (
	"fmt"
	"time"
)

// Urgency is the badge colour class.
type Urgency string

const (
	UrgencyNeutral  Urgency = "gray"
	UrgencyNormal   Urgency = "green"
	UrgencyWarning  Urgency = "yellow"
	UrgencyCritical Urgency = "red"
)

// Badge is the remaining-time label rendered for a document.
type Badge struct {
	Label     string     `json:"label"`
	Urgency   Urgency    `json:"urgency"`
	Due       *time.Time `json:"due,omitempty"`
	Remaining int        `json:"remaining"`
}

// NotApplicable is the badge for documents without a usable start date or budget.
var NotApplicable = Badge{Label: "N/A", Urgency: UrgencyNeutral}

// ClassifyUrgency maps the remaining business days to a badge. closed wins
// over overdue, and overdue wins over any remaining count.
func ClassifyUrgency(remaining int, overdue, closed bool, due time.Time) Badge {
	var b Badge
	switch {
	case closed:
		return Badge{Label: "Closed", Urgency: UrgencyNeutral}
	case overdue:
		b = Badge{Label: "Overdue", Urgency: UrgencyCritical}
	case remaining <= 0:
		b = Badge{Label: fmt.Sprintf("Due today (%s)", due.Format(LabelLayout)), Urgency: UrgencyCritical}
	case remaining <= 3:
		b = Badge{Label: remainingLabel(remaining, due), Urgency: UrgencyCritical}
	case remaining <= 7:
		b = Badge{Label: remainingLabel(remaining, due), Urgency: UrgencyWarning}
	default:
		b = Badge{Label: remainingLabel(remaining, due), Urgency: UrgencyNormal}
	}

	b.Due = &due
	if !overdue && remaining > 0 {
		b.Remaining = remaining
	}
	return b
}

func remainingLabel(n int, due time.Time) string {
	return fmt.Sprintf("%d working days left (due %s)", n, due.Format(LabelLayout))
}

// Evaluate computes the badge for a document started on start with the given
// budget. A nil start or a non-positive budget yields NotApplicable.
func Evaluate(start *time.Time, budgetDays int, closed bool, now time.Time) Badge {
	if closed {
		return ClassifyUrgency(0, false, true, time.Time{})
	}
	if start == nil || start.IsZero() || budgetDays <= 0 {
		return NotApplicable
	}

	due, err := ComputeDeadline(*start, budgetDays)
	if err != nil {
		return NotApplicable
	}

	now = now.In(start.Location())
	overdue := IsOverdue(now, due)
	return ClassifyUrgency(RemainingBusinessDays(now, due), overdue, false, due)
}

// EvaluateString is Evaluate for raw date strings. Unparseable dates render
// as NotApplicable instead of failing.
func EvaluateString(start string, budgetDays int, end string, loc *time.Location, now time.Time) Badge {
	if end != "" {
		if _, err := ParseDate(end, loc); err == nil {
			return ClassifyUrgency(0, false, true, time.Time{})
		}
	}
	t, err := ParseDate(start, loc)
	if err != nil {
		return NotApplicable
	}
	return Evaluate(&t, budgetDays, false, now)
}
