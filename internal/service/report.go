package service

import (
	"context"
	"io"
	"time"

	"awdtrack/internal/model"
	"awdtrack/internal/report"
	"awdtrack/internal/repository"
)

// ReportService renders spreadsheet exports.
type ReportService interface {
	Mandays(ctx context.Context, sess model.Session, f DashboardFilter, w io.Writer) error
	// Documents exports every document matching q, ignoring its paging.
	Documents(ctx context.Context, sess model.Session, q ListQuery, w io.Writer) error
}

type reportService struct {
	dash repository.DashboardRepository
	docs DocumentService
	loc  *time.Location
}

// NewReportService constructs a new ReportService.
func NewReportService(dash repository.DashboardRepository, docs DocumentService, loc *time.Location) ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &reportService{dash: dash, docs: docs, loc: loc}
}

func (s *reportService) Mandays(ctx context.Context, sess model.Session, f DashboardFilter, w io.Writer) error {
	f, err := scopeFor(sess, f)
	if err != nil {
		return err
	}
	records, err := s.dash.Mandays(ctx, repository.Scope{Division: f.Division, Year: f.Year})
	if err != nil {
		return err
	}
	wb, err := report.MandayWorkbook(records, s.loc)
	if err != nil {
		return err
	}
	return report.Write(wb, w)
}

func (s *reportService) Documents(ctx context.Context, sess model.Session, q ListQuery, w io.Writer) error {
	var rows []report.DocumentRow
	q.Limit = maxLimit
	q.Offset = 0
	for {
		page, err := s.docs.List(ctx, sess, q)
		if err != nil {
			return err
		}
		for _, v := range page.Items {
			rows = append(rows, report.DocumentRow{Document: v.Document, Badge: v.Badge})
		}
		q.Offset += len(page.Items)
		if len(page.Items) == 0 || q.Offset >= page.Total {
			break
		}
	}

	wb, err := report.DocumentWorkbook(rows, s.loc)
	if err != nil {
		return err
	}
	return report.Write(wb, w)
}
