package service

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"awdtrack/internal/deadline"
	"awdtrack/internal/model"
	"awdtrack/internal/repository"
)

// dueSoonDays is the remaining-day threshold counted as due soon.
const dueSoonDays = 3

// DashboardFilter scopes the dashboard. Division sessions are always scoped
// to their own division.
type DashboardFilter struct {
	Division model.Role `json:"division,omitempty"`
	Year     int        `json:"year,omitempty"`
}

// MandayAggregate sums manday records sharing a key.
type MandayAggregate struct {
	Key           string  `json:"key"`
	Records       int     `json:"records"`
	Planned       int     `json:"planned"`
	Actual        int     `json:"actual"`
	AverageActual float64 `json:"averageActual"`
}

// Dashboard is the summary shown on the landing page of each role.
type Dashboard struct {
	Filter              DashboardFilter      `json:"filter"`
	ByStatus            map[model.Status]int `json:"byStatus"`
	ByHolder            map[model.Role]int   `json:"byHolder"`
	Overdue             int                  `json:"overdue"`
	DueSoon             int                  `json:"dueSoon"`
	ReturnedToInspector int                  `json:"returnedToInspector"`
	ReturnedToAWD       int                  `json:"returnedToAwd"`
	MandaysByDivision   []MandayAggregate    `json:"mandaysByDivision"`
	MandaysByInspector  []MandayAggregate    `json:"mandaysByInspector"`
	GeneratedAt         time.Time            `json:"generatedAt"`
}

// DashboardService computes dashboard aggregates.
type DashboardService interface {
	Summary(ctx context.Context, sess model.Session, f DashboardFilter) (*Dashboard, error)
}

type dashboardService struct {
	repo repository.DashboardRepository
	loc  *time.Location
	now  func() time.Time
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(repo repository.DashboardRepository, loc *time.Location) DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardService{repo: repo, loc: loc, now: time.Now}
}

func (s *dashboardService) Summary(ctx context.Context, sess model.Session, f DashboardFilter) (*Dashboard, error) {
	f, err := scopeFor(sess, f)
	if err != nil {
		return nil, err
	}
	scope := repository.Scope{Division: f.Division, Year: f.Year}

	var (
		counts   []repository.StatusCount
		open     []model.Document
		mandays  []model.MandayRecord
		toInsp   int
		toIntake int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { counts, err = s.repo.StatusCounts(gctx, scope); return })
	g.Go(func() (err error) { open, err = s.repo.OpenDocuments(gctx, scope); return })
	g.Go(func() (err error) { mandays, err = s.repo.Mandays(gctx, scope); return })
	g.Go(func() (err error) { toInsp, err = s.repo.ReturnCount(gctx, model.ReturnToInspector, scope); return })
	g.Go(func() (err error) { toIntake, err = s.repo.ReturnCount(gctx, model.ReturnToAWD, scope); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	d := &Dashboard{
		Filter:              f,
		ByStatus:            map[model.Status]int{},
		ByHolder:            map[model.Role]int{},
		ReturnedToInspector: toInsp,
		ReturnedToAWD:       toIntake,
		GeneratedAt:         now,
	}
	for _, c := range counts {
		d.ByStatus[c.Status] += c.Count
		if c.Status != model.StatusDeleted {
			d.ByHolder[c.ForwardedTo] += c.Count
		}
	}
	for _, doc := range open {
		overdue, soon := s.deadlineState(doc, now)
		if overdue {
			d.Overdue++
		} else if soon {
			d.DueSoon++
		}
	}
	d.MandaysByDivision = aggregate(mandays, func(r model.MandayRecord) string { return string(r.Division) })
	d.MandaysByInspector = aggregate(mandays, func(r model.MandayRecord) string { return r.InspectorName })
	return d, nil
}

func (s *dashboardService) deadlineState(doc model.Document, now time.Time) (overdue, soon bool) {
	if doc.StartDate == nil || doc.WorkingDays <= 0 {
		return false, false
	}
	y, m, day := doc.StartDate.Date()
	start := time.Date(y, m, day, 0, 0, 0, 0, s.loc)
	due, err := deadline.ComputeDeadline(start, doc.WorkingDays)
	if err != nil {
		return false, false
	}
	if deadline.IsOverdue(now, due) {
		return true, false
	}
	return false, deadline.RemainingBusinessDays(now, due) <= dueSoonDays
}

// scopeFor pins division sessions to their own division.
func scopeFor(sess model.Session, f DashboardFilter) (DashboardFilter, error) {
	if sess.Role.IsDivision() {
		f.Division = sess.Role
	}
	if f.Division != "" && !f.Division.IsValid() {
		return f, ErrInvalidInput
	}
	if f.Year < 0 {
		return f, ErrInvalidInput
	}
	return f, nil
}

func aggregate(records []model.MandayRecord, key func(model.MandayRecord) string) []MandayAggregate {
	byKey := map[string]*MandayAggregate{}
	for _, r := range records {
		k := key(r)
		a, ok := byKey[k]
		if !ok {
			a = &MandayAggregate{Key: k}
			byKey[k] = a
		}
		a.Records++
		a.Planned += r.OriginalWorkingDays
		a.Actual += r.ActualWorkingDays
	}

	out := make([]MandayAggregate, 0, len(byKey))
	for _, a := range byKey {
		a.AverageActual = float64(a.Actual) / float64(a.Records)
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
