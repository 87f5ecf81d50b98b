package repository

import (
	"context"

	"awdtrack/internal/model"
)

// Scope restricts aggregate queries to one division and/or reference year.
type Scope struct {
	Division model.Role
	Year     int
}

// StatusCount is the number of documents with a given status and holder.
type StatusCount struct {
	Status      model.Status
	ForwardedTo model.Role
	Count       int
}

// DashboardRepository serves the read-only aggregates behind the dashboard
// and the spreadsheet exports.
type DashboardRepository interface {
	StatusCounts(ctx context.Context, s Scope) ([]StatusCount, error)
	// OpenDocuments returns documents whose deadline is still running.
	OpenDocuments(ctx context.Context, s Scope) ([]model.Document, error)
	Mandays(ctx context.Context, s Scope) ([]model.MandayRecord, error)
	ReturnCount(ctx context.Context, kind model.ReturnKind, s Scope) (int, error)
}
