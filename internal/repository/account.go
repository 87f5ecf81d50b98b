package repository

import (
	"context"

	"awdtrack/internal/model"
)

// AccountRepository stores login identities.
type AccountRepository interface {
	Create(ctx context.Context, acc *model.Account) (*model.Account, error)
	FindByID(ctx context.Context, id string) (*model.Account, error)
	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Account], error)
	// Update overwrites name, email, division and password hash.
	Update(ctx context.Context, acc *model.Account) (*model.Account, error)
	// Delete returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
