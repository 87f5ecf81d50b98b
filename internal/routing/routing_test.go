package routing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"awdtrack/internal/model"
)

var (
	admin     = model.Session{ID: "s-admin", Name: "Intake Officer", Role: model.RoleAdmin}
	secretary = model.Session{ID: "s-sec", Name: "Secretary", Role: model.RoleSecretary}
	gacid     = model.Session{ID: "s-gacid", Name: "GACID Chief", Role: model.RoleGACID}
	eard      = model.Session{ID: "s-eard", Name: "EARD Chief", Role: model.RoleEARD}
)

func openDoc(holder model.Role) model.Document {
	start := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	return model.Document{
		ID:                 "doc-1",
		AWDReferenceNumber: "AWD-2025-0001",
		Subject:            "Permit request",
		Status:             model.StatusOpen,
		ForwardedBy:        model.RoleAdmin,
		ForwardedTo:        holder,
		WorkingDays:        3,
		StartDate:          &start,
		DateTimeSubmitted:  start,
	}
}

func TestPermitted(t *testing.T) {
	tests := []struct {
		name   string
		status model.Status
		holder model.Role
		want   []Action
	}{
		{"open at intake", model.StatusOpen, model.RoleAdmin, []Action{ActionAssignAndClose, ActionHold, ActionDelete}},
		{"open at secretary", model.StatusOpen, model.RoleSecretary, []Action{ActionForwardToDivision, ActionReturnToIntake, ActionDelete}},
		{"open at division", model.StatusOpen, model.RoleMOOCSU, []Action{ActionEndorseToSecretary, ActionDelete}},
		{"closed", model.StatusClosed, model.RoleAdmin, []Action{ActionMarkReceived, ActionReturnWithRemarks}},
		{"on hold", model.StatusOnHold, model.RoleAdmin, []Action{ActionReturnToOpen, ActionDelete}},
		{"returned", model.StatusReturned, model.RoleCATCID, []Action{ActionReForward}},
		{"deleted", model.StatusDeleted, model.RoleAdmin, nil},
		{"open at unknown holder", model.StatusOpen, model.Role("Nobody"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Permitted(tt.status, tt.holder))
		})
	}
}

func TestIntake(t *testing.T) {
	now := time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC)
	out := Intake(model.Document{ID: "doc-1", AWDReferenceNumber: "AWD-2025-0001"}, admin, now)

	assert.Equal(t, model.StatusOpen, out.Document.Status)
	assert.Equal(t, model.RoleAdmin, out.Document.ForwardedBy)
	assert.Equal(t, model.RoleSecretary, out.Document.ForwardedTo)
	assert.Equal(t, now, out.Document.DateTimeSubmitted)
	assert.Equal(t, string(ActionCreate), out.Entry.Action)
	assert.Equal(t, model.RoleSecretary, out.Entry.ForwardedTo)
	assert.Equal(t, "doc-1", out.Entry.DocumentID)
}

func TestApply_EndorseToSecretary(t *testing.T) {
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	doc := openDoc(model.RoleGACID)
	doc.Division = model.RoleGACID

	out, err := Apply(doc, Request{Action: ActionEndorseToSecretary, Actor: gacid}, now)
	require.NoError(t, err)

	assert.Equal(t, model.StatusOpen, out.Document.Status)
	assert.Equal(t, model.RoleSecretary, out.Document.ForwardedTo)
	assert.Equal(t, model.RoleGACID, out.Document.ForwardedBy)
	assert.Equal(t, model.RoleSecretary, out.Entry.ForwardedTo)
	assert.Equal(t, string(ActionEndorseToSecretary), out.Entry.Action)
	assert.Equal(t, now, out.Entry.ActionTimestamp)
	assert.Nil(t, out.Manday)
	assert.Nil(t, out.Return)
	assert.False(t, out.ClearMandays)
	// the input is not modified
	assert.Equal(t, model.RoleGACID, doc.ForwardedTo)
}

func TestApply_ForwardToDivision(t *testing.T) {
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)

	out, err := Apply(openDoc(model.RoleSecretary), Request{Action: ActionForwardToDivision, Actor: secretary, Target: model.RoleEARD}, now)
	require.NoError(t, err)
	assert.Equal(t, model.RoleEARD, out.Document.ForwardedTo)
	assert.Equal(t, model.RoleEARD, out.Document.Division)
	assert.Equal(t, "EARD", out.Document.ForwardedToName)

	_, err = Apply(openDoc(model.RoleSecretary), Request{Action: ActionForwardToDivision, Actor: secretary, Target: model.RoleAdmin}, now)
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestApply_ReturnToIntake(t *testing.T) {
	now := time.Date(2025, 1, 7, 10, 0, 0, 0, time.UTC)
	doc := openDoc(model.RoleSecretary)
	doc.Division = model.RoleEARD

	out, err := Apply(doc, Request{Action: ActionReturnToIntake, Actor: secretary, Remarks: "complete"}, now)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, out.Document.Status)
	assert.Equal(t, model.RoleAdmin, out.Document.ForwardedTo)
	assert.Equal(t, "complete", out.Document.Remarks)
	require.NotNil(t, out.Return)
	assert.Equal(t, model.ReturnToAWD, out.Return.Kind)
	assert.Equal(t, model.RoleEARD, out.Return.Division)
}

func TestApply_AssignAndClose(t *testing.T) {
	now := time.Date(2025, 1, 8, 15, 0, 0, 0, time.UTC)
	doc := openDoc(model.RoleAdmin)
	doc.Division = model.RoleGACID

	_, err := Apply(doc, Request{Action: ActionAssignAndClose, Actor: admin}, now)
	assert.ErrorIs(t, err, ErrInspectorRequired)

	out, err := Apply(doc, Request{Action: ActionAssignAndClose, Actor: admin, Inspector: " J. Cruz "}, now)
	require.NoError(t, err)

	assert.Equal(t, model.StatusClosed, out.Document.Status)
	assert.Equal(t, "J. Cruz", out.Document.AssignedInspector)
	require.NotNil(t, out.Document.EndDate)
	assert.Equal(t, time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC), *out.Document.EndDate)

	require.NotNil(t, out.Manday)
	assert.Equal(t, 3, out.Manday.OriginalWorkingDays)
	assert.Equal(t, 3, out.Manday.ActualWorkingDays)
	assert.Equal(t, model.RoleGACID, out.Manday.Division)
	assert.Equal(t, "J. Cruz", out.Manday.InspectorName)
	assert.Equal(t, model.StatusClosed, out.Entry.Status)
}

func TestApply_ReturnWithRemarks(t *testing.T) {
	now := time.Date(2025, 1, 9, 10, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)
	doc := openDoc(model.RoleAdmin)
	doc.Status = model.StatusClosed
	doc.EndDate = &end
	doc.AssignedInspector = "J. Cruz"
	doc.Division = model.RoleGACID

	_, err := Apply(doc, Request{Action: ActionReturnWithRemarks, Actor: admin, Target: model.RoleGACID}, now)
	assert.ErrorIs(t, err, ErrRemarksRequired)

	_, err = Apply(doc, Request{Action: ActionReturnWithRemarks, Actor: admin, Target: model.RoleAdmin, Remarks: "x"}, now)
	assert.ErrorIs(t, err, ErrInvalidTarget)

	out, err := Apply(doc, Request{Action: ActionReturnWithRemarks, Actor: admin, Target: model.RoleGACID, Remarks: "missing annex"}, now)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReturned, out.Document.Status)
	assert.Equal(t, model.RoleGACID, out.Document.ForwardedTo)
	assert.Nil(t, out.Document.EndDate)
	assert.Empty(t, out.Document.AssignedInspector)
	assert.True(t, out.ClearMandays)
	require.NotNil(t, out.Return)
	assert.Equal(t, model.ReturnToInspector, out.Return.Kind)
	assert.Equal(t, "missing annex", out.Entry.Remarks)
}

func TestApply_ReForward(t *testing.T) {
	now := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	doc := openDoc(model.RoleEARD)
	doc.Status = model.StatusReturned

	_, err := Apply(doc, Request{Action: ActionReForward, Actor: eard, Target: model.RoleEARD}, now)
	assert.ErrorIs(t, err, ErrInvalidTarget)

	out, err := Apply(doc, Request{Action: ActionReForward, Actor: eard, Target: model.RoleSecretary}, now)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, out.Document.Status)
	assert.Equal(t, model.RoleSecretary, out.Document.ForwardedTo)
	assert.Equal(t, model.RoleEARD, out.Document.ForwardedBy)
}

func TestApply_AdminActingForHolder(t *testing.T) {
	now := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)

	endorsed, err := Apply(openDoc(model.RoleGACID), Request{Action: ActionEndorseToSecretary, Actor: admin}, now)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, endorsed.Document.ForwardedBy)
	assert.Equal(t, model.RoleAdmin, endorsed.Entry.ForwardedBy)

	returned := openDoc(model.RoleEARD)
	returned.Status = model.StatusReturned
	reforwarded, err := Apply(returned, Request{Action: ActionReForward, Actor: admin, Target: model.RoleSecretary}, now)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, reforwarded.Document.ForwardedBy)
	assert.Equal(t, model.RoleAdmin, reforwarded.Entry.ForwardedBy)
}

func TestApply_HoldAndRelease(t *testing.T) {
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)

	held, err := Apply(openDoc(model.RoleAdmin), Request{Action: ActionHold, Actor: admin}, now)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOnHold, held.Document.Status)

	released, err := Apply(held.Document, Request{Action: ActionReturnToOpen, Actor: admin}, now)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, released.Document.Status)
	assert.Equal(t, model.RoleAdmin, released.Document.ForwardedTo)
}

func TestApply_MarkReceived(t *testing.T) {
	doc := openDoc(model.RoleAdmin)
	doc.Status = model.StatusClosed

	out, err := Apply(doc, Request{Action: ActionMarkReceived, Actor: admin}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Intake Officer", out.Document.ReceivedBy)
	assert.Equal(t, model.StatusClosed, out.Document.Status)
}

func TestApply_Rejections(t *testing.T) {
	now := time.Now()

	_, err := Apply(openDoc(model.RoleGACID), Request{Action: ActionHold, Actor: admin}, now)
	assert.ErrorIs(t, err, ErrActionNotPermitted)

	_, err = Apply(openDoc(model.RoleGACID), Request{Action: ActionEndorseToSecretary, Actor: eard}, now)
	assert.ErrorIs(t, err, ErrNotHolder)

	deleted := openDoc(model.RoleAdmin)
	deleted.Status = model.StatusDeleted
	_, err = Apply(deleted, Request{Action: ActionDelete, Actor: admin}, now)
	assert.ErrorIs(t, err, ErrActionNotPermitted)
}

func TestApply_AdminMayActForHolder(t *testing.T) {
	out, err := Apply(openDoc(model.RoleGACID), Request{Action: ActionDelete, Actor: admin}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, model.StatusDeleted, out.Document.Status)
}
