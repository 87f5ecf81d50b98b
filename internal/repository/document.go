package repository

import (
	"context"
	"errors"

	"awdtrack/internal/model"
)

var (
	// ErrDuplicate is returned when a write hits a unique constraint.
	ErrDuplicate = errors.New("duplicate key")
	// ErrStale is returned when a conditional update matched no row because
	// the row changed since it was read.
	ErrStale = errors.New("row changed since read")
)

// ReferenceAllocator picks the reference number of a new document from the
// codes already issued for the year. It runs while the year is locked.
type ReferenceAllocator func(existing []string) (string, error)

// Transition is everything one routing action writes. It is persisted in a
// single transaction.
type Transition struct {
	// PrevStatus and PrevForwardedTo guard the update against concurrent writers.
	PrevStatus      model.Status
	PrevForwardedTo model.Role

	Document     model.Document
	Entry        model.TrackingEntry
	Manday       *model.MandayRecord
	ClearMandays bool
	Return       *model.ReturnSnapshot
}

// ListFilter narrows and orders a document listing. Zero values mean no filter.
type ListFilter struct {
	Status      []model.Status
	ForwardedTo model.Role
	Division    model.Role
	Search      string
	Year        int
	SortBy      string
	SortDesc    bool
	PageQuery
}

// DocumentRepository defines data access for documents and their audit trail.
// No business logic here, strictly persistence operations.
type DocumentRepository interface {
	// Create allocates the reference number under a per-year lock, then
	// inserts the document and its first tracking entry atomically.
	Create(ctx context.Context, year int, alloc ReferenceAllocator, doc *model.Document, entry *model.TrackingEntry) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns a page of documents and the total matching rows.
	List(ctx context.Context, f ListFilter) (*PageResult[model.Document], error)

	// ApplyTransition writes the document update, tracking entry, manday
	// change and return snapshot of one action in one transaction.
	ApplyTransition(ctx context.Context, t Transition) error

	// History returns tracking entries of a document oldest first.
	History(ctx context.Context, documentID string) ([]model.TrackingEntry, error)

	// ReferencesForYear returns every reference number issued for year.
	ReferencesForYear(ctx context.Context, year int) ([]string, error)

	// Purge hard-deletes a document and all rows that reference it. It returns
	// the storage paths of the removed attachments.
	Purge(ctx context.Context, reference string) ([]string, error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
