package model

import "time"

// Status is the routing state of a tracked document.
type Status string

const (
	StatusOpen     Status = "Open"
	StatusReturned Status = "Returned"
	StatusOnHold   Status = "On Hold"
	StatusClosed   Status = "Closed"
	StatusDeleted  Status = "Deleted"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusReturned, StatusOnHold, StatusClosed, StatusDeleted:
		return true
	default:
		return false
	}
}

// WorkingDayBudgets lists the accepted working-day budgets
// (simple, complex, highly technical transactions).
var WorkingDayBudgets = []int{3, 7, 20}

// IsValidBudget reports whether days is one of WorkingDayBudgets.
func IsValidBudget(days int) bool {
	for _, d := range WorkingDayBudgets {
		if d == days {
			return true
		}
	}
	return false
}

// Document is a tracked AWD item and its current routing state.
// Every transition mutates it in place; history lives in TrackingEntry rows.
type Document struct {
	ID                  string     `json:"id"`
	AWDReferenceNumber  string     `json:"awdReferenceNumber"`
	Subject             string     `json:"subject"`
	OriginatingOffice   string     `json:"originatingOffice"`
	DateOfDocument      *time.Time `json:"dateOfDocument,omitempty"`
	FSISReferenceNumber string     `json:"fsisReferenceNumber"`
	AWDReceivedDate     *time.Time `json:"awdReceivedDate,omitempty"`
	ForwardedBy         Role       `json:"forwardedBy"`
	ForwardedTo         Role       `json:"forwardedTo"`
	ForwardedToName     string     `json:"forwardedtoname"`
	Division            Role       `json:"division,omitempty"`
	Remarks             string     `json:"remarks"`
	Status              Status     `json:"status"`
	WorkingDays         int        `json:"workingDays"`
	StartDate           *time.Time `json:"startDate,omitempty"`
	EndDate             *time.Time `json:"endDate,omitempty"`
	DateTimeSubmitted   time.Time  `json:"dateTimeSubmitted"`
	AssignedInspector   string     `json:"assignedInspector"`
	ReceivedBy          string     `json:"receivedBy"`
	Deadline            *time.Time `json:"deadline,omitempty"`
}

// TrackingEntry is an immutable audit record of one document transition.
type TrackingEntry struct {
	ID                 string    `json:"id"`
	DocumentID         string    `json:"documentId"`
	AWDReferenceNumber string    `json:"awdReferenceNumber"`
	Action             string    `json:"action"`
	Status             Status    `json:"status"`
	ForwardedBy        Role      `json:"forwardedBy"`
	ForwardedTo        Role      `json:"forwardedTo"`
	Remarks            string    `json:"remarks"`
	ActionTimestamp    time.Time `json:"actionTimestamp"`
	Snapshot           Document  `json:"snapshot"`
}

// MandayRecord is the planned-vs-actual effort summary of a closed document.
type MandayRecord struct {
	ID                  string    `json:"id"`
	DocumentID          string    `json:"documentId"`
	AWDReferenceNumber  string    `json:"awdReferenceNumber"`
	Division            Role      `json:"division,omitempty"`
	OriginalWorkingDays int       `json:"originalWorkingDays"`
	ActualWorkingDays   int       `json:"actualWorkingDays"`
	InspectorName       string    `json:"inspectorName"`
	StartDate           time.Time `json:"startDate"`
	EndDate             time.Time `json:"endDate"`
	DateRecorded        time.Time `json:"dateRecorded"`
}

// ReturnKind selects which return log a ReturnSnapshot belongs to.
type ReturnKind string

const (
	// ReturnToInspector records closed documents sent back to a division or the secretary.
	ReturnToInspector ReturnKind = "returninspector"
	// ReturnToAWD records documents sent back to intake by the secretary.
	ReturnToAWD ReturnKind = "returntoawd"
)

// ReturnSnapshot is a document copy kept for dashboard return counts.
type ReturnSnapshot struct {
	ID                 string     `json:"id"`
	Kind               ReturnKind `json:"kind"`
	DocumentID         string     `json:"documentId"`
	AWDReferenceNumber string     `json:"awdReferenceNumber"`
	Division           Role       `json:"division,omitempty"`
	Remarks            string     `json:"remarks"`
	Snapshot           Document   `json:"snapshot"`
	CreatedAt          time.Time  `json:"createdAt"`
}
