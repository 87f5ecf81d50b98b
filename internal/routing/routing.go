// Package routing holds the document transition table. It decides which
// actions a document accepts in its current state and computes the result of
// applying one, without touching storage.
package routing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"awdtrack/internal/deadline"
	"awdtrack/internal/model"
)

// Action is a user-triggered transition.
type Action string

const (
	ActionCreate             Action = "create"
	ActionAssignAndClose     Action = "assign-and-close"
	ActionHold               Action = "hold"
	ActionDelete             Action = "delete"
	ActionForwardToDivision  Action = "forward-to-division"
	ActionReturnToIntake     Action = "return-to-intake"
	ActionEndorseToSecretary Action = "endorse-to-secretary"
	ActionMarkReceived       Action = "mark-received"
	ActionReturnWithRemarks  Action = "return-with-remarks"
	ActionReturnToOpen       Action = "return-to-open"
	ActionReForward          Action = "re-forward"
)

var (
	ErrActionNotPermitted = errors.New("action not permitted in current state")
	ErrNotHolder          = errors.New("document is not forwarded to the acting role")
	ErrInvalidTarget      = errors.New("invalid forwarding target")
	ErrInspectorRequired  = errors.New("assigned inspector is required")
	ErrRemarksRequired    = errors.New("remarks are required")
)

// Permitted returns the actions available for a document in the given state.
func Permitted(status model.Status, forwardedTo model.Role) []Action {
	switch status {
	case model.StatusOpen:
		switch {
		case forwardedTo == model.RoleAdmin:
			return []Action{ActionAssignAndClose, ActionHold, ActionDelete}
		case forwardedTo == model.RoleSecretary:
			return []Action{ActionForwardToDivision, ActionReturnToIntake, ActionDelete}
		case forwardedTo.IsDivision():
			return []Action{ActionEndorseToSecretary, ActionDelete}
		}
	case model.StatusClosed:
		return []Action{ActionMarkReceived, ActionReturnWithRemarks}
	case model.StatusOnHold:
		return []Action{ActionReturnToOpen, ActionDelete}
	case model.StatusReturned:
		return []Action{ActionReForward}
	}
	return nil
}

// IsPermitted reports whether action is in Permitted for the document.
func IsPermitted(doc model.Document, action Action) bool {
	for _, a := range Permitted(doc.Status, doc.ForwardedTo) {
		if a == action {
			return true
		}
	}
	return false
}

// Authorize checks that actor may act on doc. Admin may act on anything;
// other roles only on documents currently forwarded to them.
func Authorize(actor model.Session, doc model.Document) error {
	if actor.Role == model.RoleAdmin || actor.Role == doc.ForwardedTo {
		return nil
	}
	return ErrNotHolder
}

// Request describes one action applied by an authenticated actor.
type Request struct {
	Action    Action
	Actor     model.Session
	Target    model.Role
	Inspector string
	Remarks   string
}

// Outcome is everything a transition writes: the updated document, its
// tracking entry, and side effects on manday and return records. IDs are left
// for the caller to assign.
type Outcome struct {
	Document     model.Document
	Entry        model.TrackingEntry
	Manday       *model.MandayRecord
	ClearMandays bool
	Return       *model.ReturnSnapshot
}

// Intake builds the initial state of a newly registered document: open and
// forwarded from intake to the secretary.
func Intake(doc model.Document, actor model.Session, now time.Time) Outcome {
	doc.Status = model.StatusOpen
	doc.ForwardedBy = actor.Role
	doc.ForwardedTo = model.RoleSecretary
	doc.ForwardedToName = string(model.RoleSecretary)
	doc.DateTimeSubmitted = now

	return Outcome{
		Document: doc,
		Entry:    entryFor(doc, ActionCreate, doc.Remarks, now),
	}
}

// Apply validates req against the transition table and returns the result.
func Apply(doc model.Document, req Request, now time.Time) (Outcome, error) {
	if !IsPermitted(doc, req.Action) {
		return Outcome{}, fmt.Errorf("%w: %s on %s document held by %s", ErrActionNotPermitted, req.Action, doc.Status, doc.ForwardedTo)
	}
	if err := Authorize(req.Actor, doc); err != nil {
		return Outcome{}, err
	}

	remarks := strings.TrimSpace(req.Remarks)
	if remarks != "" {
		doc.Remarks = remarks
	}

	var out Outcome

	switch req.Action {
	case ActionAssignAndClose:
		inspector := strings.TrimSpace(req.Inspector)
		if inspector == "" {
			return Outcome{}, ErrInspectorRequired
		}
		end := deadline.StartOfDay(now)
		doc.AssignedInspector = inspector
		doc.Status = model.StatusClosed
		doc.EndDate = &end
		out.Manday = mandayFor(doc, end, now)

	case ActionHold:
		doc.Status = model.StatusOnHold

	case ActionDelete:
		doc.Status = model.StatusDeleted

	case ActionForwardToDivision:
		if !req.Target.IsDivision() {
			return Outcome{}, fmt.Errorf("%w: %q is not a division", ErrInvalidTarget, req.Target)
		}
		forward(&doc, req.Actor.Role, req.Target)
		doc.Division = req.Target

	case ActionReturnToIntake:
		forward(&doc, req.Actor.Role, model.RoleAdmin)
		out.Return = returnFor(doc, model.ReturnToAWD, doc.Division, remarks, now)

	case ActionEndorseToSecretary:
		forward(&doc, req.Actor.Role, model.RoleSecretary)

	case ActionMarkReceived:
		name := req.Actor.Name
		if name == "" {
			name = string(req.Actor.Role)
		}
		doc.ReceivedBy = name

	case ActionReturnWithRemarks:
		if req.Target != model.RoleSecretary && !req.Target.IsDivision() {
			return Outcome{}, fmt.Errorf("%w: %q cannot receive returned documents", ErrInvalidTarget, req.Target)
		}
		if remarks == "" {
			return Outcome{}, ErrRemarksRequired
		}
		forward(&doc, req.Actor.Role, req.Target)
		if req.Target.IsDivision() {
			doc.Division = req.Target
		}
		doc.Status = model.StatusReturned
		doc.EndDate = nil
		doc.AssignedInspector = ""
		doc.ReceivedBy = ""
		out.ClearMandays = true
		out.Return = returnFor(doc, model.ReturnToInspector, req.Target, remarks, now)

	case ActionReturnToOpen:
		doc.Status = model.StatusOpen

	case ActionReForward:
		if !req.Target.IsValid() || req.Target == doc.ForwardedTo {
			return Outcome{}, fmt.Errorf("%w: %q", ErrInvalidTarget, req.Target)
		}
		forward(&doc, req.Actor.Role, req.Target)
		if req.Target.IsDivision() {
			doc.Division = req.Target
		}
		doc.Status = model.StatusOpen
	}

	out.Document = doc
	out.Entry = entryFor(doc, req.Action, remarks, now)
	return out, nil
}

func forward(doc *model.Document, from, to model.Role) {
	doc.ForwardedBy = from
	doc.ForwardedTo = to
	doc.ForwardedToName = string(to)
}

func entryFor(doc model.Document, action Action, remarks string, now time.Time) model.TrackingEntry {
	return model.TrackingEntry{
		DocumentID:         doc.ID,
		AWDReferenceNumber: doc.AWDReferenceNumber,
		Action:             string(action),
		Status:             doc.Status,
		ForwardedBy:        doc.ForwardedBy,
		ForwardedTo:        doc.ForwardedTo,
		Remarks:            remarks,
		ActionTimestamp:    now,
		Snapshot:           doc,
	}
}

func mandayFor(doc model.Document, end, now time.Time) *model.MandayRecord {
	start := deadline.StartOfDay(doc.DateTimeSubmitted.In(end.Location()))
	if doc.StartDate != nil {
		start = *doc.StartDate
	}
	return &model.MandayRecord{
		DocumentID:          doc.ID,
		AWDReferenceNumber:  doc.AWDReferenceNumber,
		Division:            doc.Division,
		OriginalWorkingDays: doc.WorkingDays,
		ActualWorkingDays:   deadline.RemainingBusinessDays(start, end),
		InspectorName:       doc.AssignedInspector,
		StartDate:           start,
		EndDate:             end,
		DateRecorded:        now,
	}
}

func returnFor(doc model.Document, kind model.ReturnKind, division model.Role, remarks string, now time.Time) *model.ReturnSnapshot {
	return &model.ReturnSnapshot{
		Kind:               kind,
		DocumentID:         doc.ID,
		AWDReferenceNumber: doc.AWDReferenceNumber,
		Division:           division,
		Remarks:            remarks,
		Snapshot:           doc,
		CreatedAt:          now,
	}
}
