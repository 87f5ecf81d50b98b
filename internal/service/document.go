package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"awdtrack/internal/deadline"
	"awdtrack/internal/events"
	"awdtrack/internal/model"
	tracing "awdtrack/internal/otel"
	"awdtrack/internal/refcode"
	"awdtrack/internal/repository"
	"awdtrack/internal/routing"
	"awdtrack/internal/storage"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// CreateDocumentInput is the intake form. Dates are raw strings parsed with
// deadline.ParseDate. An empty AWDReferenceNumber means allocate the next one.
type CreateDocumentInput struct {
	AWDReferenceNumber  string `json:"awdReferenceNumber"`
	Subject             string `json:"subject"`
	OriginatingOffice   string `json:"originatingOffice"`
	DateOfDocument      string `json:"dateOfDocument"`
	FSISReferenceNumber string `json:"fsisReferenceNumber"`
	AWDReceivedDate     string `json:"awdReceivedDate"`
	StartDate           string `json:"startDate"`
	WorkingDays         int    `json:"workingDays"`
	Remarks             string `json:"remarks"`
}

// ActionInput is one routing action requested on a document.
type ActionInput struct {
	Action    routing.Action `json:"action"`
	Target    model.Role     `json:"target,omitempty"`
	Inspector string         `json:"inspector,omitempty"`
	Remarks   string         `json:"remarks,omitempty"`
}

// ListQuery filters a document listing. An empty Status excludes deleted documents.
type ListQuery struct {
	Status      []model.Status
	ForwardedTo model.Role
	Division    model.Role
	Search      string
	Year        int
	SortBy      string
	SortDesc    bool
	Limit       int
	Offset      int
}

// DocumentView is a document with its deadline badge and the actions the
// viewing session may take on it.
type DocumentView struct {
	model.Document
	Badge   deadline.Badge   `json:"badge"`
	Actions []routing.Action `json:"actions"`
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []DocumentView `json:"data"`
	Total int            `json:"total"`
}

// BulkFailure explains why one item of a bulk request was not applied.
type BulkFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BulkResult itemizes a bulk request. Items are applied independently.
type BulkResult struct {
	Succeeded []string      `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

// AttachmentView is attachment metadata with a presigned download URL.
type AttachmentView struct {
	model.Attachment
	URL string `json:"url,omitempty"`
}

// DocumentService defines the use cases for tracked documents. The acting
// session is passed explicitly to every call that depends on it.
type DocumentService interface {
	// Create registers a document at intake and forwards it to the secretary.
	Create(ctx context.Context, sess model.Session, in CreateDocumentInput) (*DocumentView, error)
	Get(ctx context.Context, sess model.Session, id string) (*DocumentView, error)
	List(ctx context.Context, sess model.Session, q ListQuery) (*DocumentListResult, error)
	// ApplyAction runs one routing action and persists its outcome atomically.
	ApplyAction(ctx context.Context, sess model.Session, id string, in ActionInput) (*DocumentView, error)
	// ReturnClosed sends closed documents back with remarks, one document at a time.
	ReturnClosed(ctx context.Context, sess model.Session, ids []string, target model.Role, remarks string) (*BulkResult, error)
	// Purge hard-deletes documents by reference number. Admin only.
	Purge(ctx context.Context, sess model.Session, references []string) (*BulkResult, error)
	History(ctx context.Context, sess model.Session, id string) ([]model.TrackingEntry, error)
	// NextReference previews the next reference number of the current year.
	NextReference(ctx context.Context) (string, error)

	AddAttachment(ctx context.Context, sess model.Session, documentID string, up Upload) (*model.Attachment, error)
	ListAttachments(ctx context.Context, sess model.Session, documentID string) ([]AttachmentView, error)
	// OpenAttachment streams an attachment; the caller closes the reader.
	OpenAttachment(ctx context.Context, sess model.Session, documentID, attachmentID string) (*OpenedAttachment, error)
	DeleteAttachment(ctx context.Context, sess model.Session, documentID, attachmentID string) error
}

// DocumentServiceDeps wires a DocumentService. Events, Metrics and Location
// are optional.
type DocumentServiceDeps struct {
	Documents   repository.DocumentRepository
	Attachments repository.AttachmentRepository
	Storage     storage.Storage
	Events      events.Publisher
	Metrics     *Metrics
	Location    *time.Location
	URLExpiry   time.Duration
	Logger      zerolog.Logger
}

type documentService struct {
	docs      repository.DocumentRepository
	atts      repository.AttachmentRepository
	store     storage.Storage
	events    events.Publisher
	metrics   *Metrics
	loc       *time.Location
	urlExpiry time.Duration
	log       zerolog.Logger
	tracer    oteltrace.Tracer
	now       func() time.Time
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(d DocumentServiceDeps) DocumentService {
	s := &documentService{
		docs:      d.Documents,
		atts:      d.Attachments,
		store:     d.Storage,
		events:    d.Events,
		metrics:   d.Metrics,
		loc:       d.Location,
		urlExpiry: d.URLExpiry,
		log:       d.Logger.With().Str("component", "document_service").Logger(),
		tracer:    tracing.Tracer("service"),
		now:       time.Now,
	}
	if s.events == nil {
		s.events = events.Nop{}
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.urlExpiry <= 0 {
		s.urlExpiry = 15 * time.Minute
	}
	return s
}

func (s *documentService) Create(ctx context.Context, sess model.Session, in CreateDocumentInput) (*DocumentView, error) {
	ctx, span := s.tracer.Start(ctx, "DocumentService.Create")
	defer span.End()

	if sess.Role != model.RoleAdmin {
		return nil, fmt.Errorf("%w: only intake registers documents", ErrForbidden)
	}
	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrInvalidInput)
	}
	if !model.IsValidBudget(in.WorkingDays) {
		return nil, fmt.Errorf("%w: workingDays must be one of %v", ErrInvalidInput, model.WorkingDayBudgets)
	}

	now := s.now().In(s.loc)
	dateOfDoc, err := s.optionalDate("dateOfDocument", in.DateOfDocument)
	if err != nil {
		return nil, err
	}
	received, err := s.optionalDate("awdReceivedDate", in.AWDReceivedDate)
	if err != nil {
		return nil, err
	}
	start := deadline.StartOfDay(now)
	if in.StartDate != "" {
		if start, err = deadline.ParseDate(in.StartDate, s.loc); err != nil {
			return nil, fmt.Errorf("startDate: %w", err)
		}
	}
	due, err := deadline.ComputeDeadline(start, in.WorkingDays)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	year := now.Year()
	manual := strings.TrimSpace(in.AWDReferenceNumber)
	if manual != "" {
		if year, _, err = refcode.Parse(manual); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	alloc := func(existing []string) (string, error) {
		if manual == "" {
			return refcode.Next(existing, year), nil
		}
		if slices.Contains(existing, manual) {
			return "", ErrDuplicateReference
		}
		return manual, nil
	}

	out := routing.Intake(model.Document{
		ID:                  uuid.New().String(),
		Subject:             subject,
		OriginatingOffice:   strings.TrimSpace(in.OriginatingOffice),
		DateOfDocument:      dateOfDoc,
		FSISReferenceNumber: strings.TrimSpace(in.FSISReferenceNumber),
		AWDReceivedDate:     received,
		Remarks:             strings.TrimSpace(in.Remarks),
		WorkingDays:         in.WorkingDays,
		StartDate:           &start,
		Deadline:            &due,
	}, sess, now)
	out.Entry.ID = uuid.New().String()

	created, err := s.docs.Create(ctx, year, alloc, &out.Document, &out.Entry)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			err = ErrDuplicateReference
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("awd.reference", created.AWDReferenceNumber))

	s.metrics.observe(routing.ActionCreate)
	s.publish(ctx, events.TypeCreated, *created, sess.Role)
	v := s.view(sess, *created, now)
	return &v, nil
}

func (s *documentService) Get(ctx context.Context, sess model.Session, id string) (*DocumentView, error) {
	doc, err := s.findVisible(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	v := s.view(sess, *doc, s.now())
	return &v, nil
}

// List returns paginated documents. Division sessions only see documents
// routed to their division.
func (s *documentService) List(ctx context.Context, sess model.Session, q ListQuery) (*DocumentListResult, error) {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	statuses := q.Status
	if len(statuses) == 0 {
		statuses = []model.Status{model.StatusOpen, model.StatusOnHold, model.StatusClosed, model.StatusReturned}
	}
	for _, st := range statuses {
		if !st.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, st)
		}
	}
	division := q.Division
	if sess.Role.IsDivision() {
		division = sess.Role
	}

	res, err := s.docs.List(ctx, repository.ListFilter{
		Status:      statuses,
		ForwardedTo: q.ForwardedTo,
		Division:    division,
		Search:      strings.TrimSpace(q.Search),
		Year:        q.Year,
		SortBy:      q.SortBy,
		SortDesc:    q.SortDesc,
		PageQuery:   repository.PageQuery{Limit: q.Limit, Offset: q.Offset},
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	items := make([]DocumentView, 0, len(res.Items))
	for _, d := range res.Items {
		items = append(items, s.view(sess, s.localize(d), now))
	}
	return &DocumentListResult{Items: items, Total: res.Total}, nil
}

func (s *documentService) ApplyAction(ctx context.Context, sess model.Session, id string, in ActionInput) (*DocumentView, error) {
	ctx, span := s.tracer.Start(ctx, "DocumentService.ApplyAction",
		oteltrace.WithAttributes(attribute.String("awd.action", string(in.Action))))
	defer span.End()

	v, err := s.applyAction(ctx, sess, id, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return v, nil
}

func (s *documentService) applyAction(ctx context.Context, sess model.Session, id string, in ActionInput) (*DocumentView, error) {
	doc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	out, err := routing.Apply(*doc, routing.Request{
		Action:    in.Action,
		Actor:     sess,
		Target:    in.Target,
		Inspector: in.Inspector,
		Remarks:   in.Remarks,
	}, now)
	if err != nil {
		return nil, err
	}

	out.Entry.ID = uuid.New().String()
	if out.Manday != nil {
		out.Manday.ID = uuid.New().String()
	}
	if out.Return != nil {
		out.Return.ID = uuid.New().String()
	}

	err = s.docs.ApplyTransition(ctx, repository.Transition{
		PrevStatus:      doc.Status,
		PrevForwardedTo: doc.ForwardedTo,
		Document:        out.Document,
		Entry:           out.Entry,
		Manday:          out.Manday,
		ClearMandays:    out.ClearMandays,
		Return:          out.Return,
	})
	if err != nil {
		if errors.Is(err, repository.ErrStale) {
			return nil, ErrConflict
		}
		return nil, err
	}

	s.metrics.observe(in.Action)
	s.publish(ctx, events.TypeUpdated, out.Document, sess.Role)
	v := s.view(sess, out.Document, now)
	return &v, nil
}

func (s *documentService) ReturnClosed(ctx context.Context, sess model.Session, ids []string, target model.Role, remarks string) (*BulkResult, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no documents selected", ErrInvalidInput)
	}
	if target != model.RoleSecretary && !target.IsDivision() {
		return nil, fmt.Errorf("%w: %q cannot receive returned documents", ErrInvalidInput, target)
	}
	if strings.TrimSpace(remarks) == "" {
		return nil, fmt.Errorf("%w: remarks are required", ErrInvalidInput)
	}

	res := &BulkResult{Succeeded: []string{}, Failed: []BulkFailure{}}
	for _, id := range ids {
		_, err := s.ApplyAction(ctx, sess, id, ActionInput{
			Action:  routing.ActionReturnWithRemarks,
			Target:  target,
			Remarks: remarks,
		})
		if err != nil {
			logFor(ctx, &s.log).Warn().Err(err).Str("document_id", id).Msg("bulk_return_item_failed")
			res.Failed = append(res.Failed, BulkFailure{ID: id, Reason: reason(err)})
			continue
		}
		res.Succeeded = append(res.Succeeded, id)
	}
	return res, nil
}

func (s *documentService) Purge(ctx context.Context, sess model.Session, references []string) (*BulkResult, error) {
	if sess.Role != model.RoleAdmin {
		return nil, fmt.Errorf("%w: purge requires Admin", ErrForbidden)
	}
	if len(references) == 0 {
		return nil, fmt.Errorf("%w: no references selected", ErrInvalidInput)
	}

	res := &BulkResult{Succeeded: []string{}, Failed: []BulkFailure{}}
	for _, ref := range references {
		ref = strings.TrimSpace(ref)
		paths, err := s.docs.Purge(ctx, ref)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				err = ErrNotFound
			} else {
				logFor(ctx, &s.log).Error().Err(err).Str("reference", ref).Msg("purge_failed")
			}
			res.Failed = append(res.Failed, BulkFailure{ID: ref, Reason: reason(err)})
			continue
		}
		// Rows are gone; orphaned objects are logged, not fatal.
		for _, p := range paths {
			if err := s.store.Delete(ctx, p); err != nil {
				logFor(ctx, &s.log).Warn().Err(err).Str("key", p).Msg("purge_object_delete_failed")
			}
		}
		s.metrics.observe("purge")
		s.publish(ctx, events.TypePurged, model.Document{AWDReferenceNumber: ref, Status: model.StatusDeleted}, sess.Role)
		res.Succeeded = append(res.Succeeded, ref)
	}
	return res, nil
}

func (s *documentService) History(ctx context.Context, sess model.Session, id string) ([]model.TrackingEntry, error) {
	if _, err := s.findVisible(ctx, sess, id); err != nil {
		return nil, err
	}
	entries, err := s.docs.History(ctx, id)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.TrackingEntry{}
	}
	return entries, nil
}

func (s *documentService) NextReference(ctx context.Context) (string, error) {
	year := s.now().In(s.loc).Year()
	existing, err := s.docs.ReferencesForYear(ctx, year)
	if err != nil {
		return "", err
	}
	return refcode.Next(existing, year), nil
}

func (s *documentService) find(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	d := s.localize(*doc)
	return &d, nil
}

// findVisible loads a document the session may read. A division only sees
// documents of its own division or currently forwarded to it; anything else
// reads as not found.
func (s *documentService) findVisible(ctx context.Context, sess model.Session, id string) (*model.Document, error) {
	doc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Role.IsDivision() && doc.Division != sess.Role && doc.ForwardedTo != sess.Role {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (s *documentService) optionalDate(field, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := deadline.ParseDate(raw, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return &t, nil
}

// localize moves calendar dates read back from the database to midnight in
// the configured zone so business-day math sees the intended day.
func (s *documentService) localize(d model.Document) model.Document {
	for _, p := range []**time.Time{&d.DateOfDocument, &d.AWDReceivedDate, &d.StartDate, &d.EndDate, &d.Deadline} {
		if *p == nil {
			continue
		}
		y, m, day := (*p).Date()
		t := time.Date(y, m, day, 0, 0, 0, 0, s.loc)
		*p = &t
	}
	return d
}

func (s *documentService) view(sess model.Session, d model.Document, now time.Time) DocumentView {
	v := DocumentView{Document: d, Actions: []routing.Action{}}
	switch {
	case d.Status == model.StatusDeleted:
		v.Badge = deadline.NotApplicable
	default:
		closed := d.Status == model.StatusClosed || d.EndDate != nil
		v.Badge = deadline.Evaluate(d.StartDate, d.WorkingDays, closed, now)
	}
	if routing.Authorize(sess, d) == nil {
		if acts := routing.Permitted(d.Status, d.ForwardedTo); acts != nil {
			v.Actions = acts
		}
	}
	return v
}

func (s *documentService) publish(ctx context.Context, typ string, d model.Document, actor model.Role) {
	ev := model.DocumentEvent{
		Type:               typ,
		DocumentID:         d.ID,
		AWDReferenceNumber: d.AWDReferenceNumber,
		Status:             d.Status,
		ForwardedTo:        d.ForwardedTo,
		Actor:              actor,
		At:                 s.now().UTC(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		logFor(ctx, &s.log).Warn().Err(err).Str("event", typ).Str("reference", d.AWDReferenceNumber).Msg("event_publish_failed")
	}
}
