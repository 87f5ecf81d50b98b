package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"awdtrack/internal/auth"
	"awdtrack/internal/model"
	"awdtrack/internal/repository"
)

const minPasswordLen = 8

// AccountInput creates or updates an account. On update an empty Password
// keeps the current one.
type AccountInput struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Division model.Role `json:"division"`
	Password string     `json:"password,omitempty"`
}

// AccountListResult is the service-level DTO for paginated accounts.
type AccountListResult struct {
	Items []model.Account `json:"data"`
	Total int             `json:"total"`
}

// AccountService manages login identities. Every operation requires an
// Admin session.
type AccountService interface {
	Create(ctx context.Context, sess model.Session, in AccountInput) (*model.Account, error)
	Get(ctx context.Context, sess model.Session, id string) (*model.Account, error)
	List(ctx context.Context, sess model.Session, limit, offset int) (*AccountListResult, error)
	Update(ctx context.Context, sess model.Session, id string, in AccountInput) (*model.Account, error)
	Delete(ctx context.Context, sess model.Session, id string) error
}

type accountService struct {
	repo repository.AccountRepository
	now  func() time.Time
}

// NewAccountService constructs a new AccountService.
func NewAccountService(repo repository.AccountRepository) AccountService {
	return &accountService{repo: repo, now: time.Now}
}

func (s *accountService) Create(ctx context.Context, sess model.Session, in AccountInput) (*model.Account, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	in, err := normalizeAccount(in, true)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	acc, err := s.repo.Create(ctx, &model.Account{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		Division:     in.Division,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, mapAccountWrite(err)
	}
	return acc, nil
}

func (s *accountService) Get(ctx context.Context, sess model.Session, id string) (*model.Account, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

func (s *accountService) List(ctx context.Context, sess model.Session, limit, offset int) (*AccountListResult, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	items := res.Items
	if items == nil {
		items = []model.Account{}
	}
	return &AccountListResult{Items: items, Total: res.Total}, nil
}

func (s *accountService) Update(ctx context.Context, sess model.Session, id string, in AccountInput) (*model.Account, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	acc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err = normalizeAccount(in, false)
	if err != nil {
		return nil, err
	}

	acc.Name = in.Name
	acc.Email = in.Email
	acc.Division = in.Division
	if in.Password != "" {
		if acc.PasswordHash, err = auth.HashPassword(in.Password); err != nil {
			return nil, err
		}
	}
	updated, err := s.repo.Update(ctx, acc)
	if err != nil {
		return nil, mapAccountWrite(err)
	}
	return updated, nil
}

// Delete removes an account. An admin cannot delete the account they are
// signed in with.
func (s *accountService) Delete(ctx context.Context, sess model.Session, id string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if id == "" {
		return ErrIDRequired
	}
	if id == sess.AccountID {
		return fmt.Errorf("%w: cannot delete the signed-in account", ErrInvalidInput)
	}
	return s.repo.Delete(ctx, id)
}

func (s *accountService) find(ctx context.Context, id string) (*model.Account, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	acc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return acc, nil
}

func requireAdmin(sess model.Session) error {
	if sess.Role != model.RoleAdmin {
		return fmt.Errorf("%w: requires Admin", ErrForbidden)
	}
	return nil
}

func normalizeAccount(in AccountInput, passwordRequired bool) (AccountInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" {
		return in, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return in, fmt.Errorf("%w: invalid email %q", ErrInvalidInput, in.Email)
	}
	if !in.Division.IsValid() {
		return in, fmt.Errorf("%w: unknown division %q", ErrInvalidInput, in.Division)
	}
	if passwordRequired || in.Password != "" {
		if len(in.Password) < minPasswordLen {
			return in, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLen)
		}
	}
	return in, nil
}

func mapAccountWrite(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrDuplicateEmail
	}
	return err
}
