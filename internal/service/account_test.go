package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"awdtrack/internal/auth"
	"awdtrack/internal/model"
	"awdtrack/internal/repository"
	repoMocks "awdtrack/internal/repository/mocks"
)

func TestAccountService_Create(t *testing.T) {
	ctx := context.Background()
	valid := AccountInput{Name: " Ana Cruz ", Email: "Ana@AWD.gov", Division: model.RoleGACID, Password: "s3cret-pass"}

	tests := []struct {
		name       string
		sess       model.Session
		in         AccountInput
		setupMocks func(m *repoMocks.MockAccountRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			sess: adminSess,
			in:   valid,
			setupMocks: func(m *repoMocks.MockAccountRepository) {
				m.On("Create", ctx, mock.MatchedBy(func(a *model.Account) bool {
					return a.ID != "" && a.Name == "Ana Cruz" && a.Email == "ana@awd.gov" &&
						auth.CheckPassword(a.PasswordHash, "s3cret-pass") == nil
				})).Return(&model.Account{ID: "acc-9", Email: "ana@awd.gov"}, nil)
			},
		},
		{
			name: "duplicate email",
			sess: adminSess,
			in:   valid,
			setupMocks: func(m *repoMocks.MockAccountRepository) {
				m.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicate)
			},
			wantErr: ErrDuplicateEmail,
		},
		{
			name:       "non-admin",
			sess:       gacidSess,
			in:         valid,
			setupMocks: func(m *repoMocks.MockAccountRepository) {},
			wantErr:    ErrForbidden,
		},
		{
			name:       "bad email",
			sess:       adminSess,
			in:         AccountInput{Name: "A", Email: "not-an-email", Division: model.RoleGACID, Password: "s3cret-pass"},
			setupMocks: func(m *repoMocks.MockAccountRepository) {},
			wantErr:    ErrInvalidInput,
		},
		{
			name:       "unknown division",
			sess:       adminSess,
			in:         AccountInput{Name: "A", Email: "a@awd.gov", Division: "HR", Password: "s3cret-pass"},
			setupMocks: func(m *repoMocks.MockAccountRepository) {},
			wantErr:    ErrInvalidInput,
		},
		{
			name:       "short password",
			sess:       adminSess,
			in:         AccountInput{Name: "A", Email: "a@awd.gov", Division: model.RoleAdmin, Password: "short"},
			setupMocks: func(m *repoMocks.MockAccountRepository) {},
			wantErr:    ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockAccountRepository)
			tt.setupMocks(mRepo)
			svc := NewAccountService(mRepo)

			got, err := svc.Create(ctx, tt.sess, tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "acc-9", got.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestAccountService_Update(t *testing.T) {
	ctx := context.Background()
	existing := func() *model.Account {
		return &model.Account{ID: "acc-9", Name: "Ana", Email: "ana@awd.gov", Division: model.RoleGACID, PasswordHash: "old-hash"}
	}

	t.Run("keeps the password when none is given", func(t *testing.T) {
		mRepo := new(repoMocks.MockAccountRepository)
		mRepo.On("FindByID", ctx, "acc-9").Return(existing(), nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(a *model.Account) bool {
			return a.Division == model.RoleEARD && a.PasswordHash == "old-hash"
		})).Return(&model.Account{ID: "acc-9", Division: model.RoleEARD}, nil)

		got, err := NewAccountService(mRepo).Update(ctx, adminSess, "acc-9",
			AccountInput{Name: "Ana", Email: "ana@awd.gov", Division: model.RoleEARD})
		require.NoError(t, err)
		assert.Equal(t, model.RoleEARD, got.Division)
		mRepo.AssertExpectations(t)
	})

	t.Run("rehashes a new password", func(t *testing.T) {
		mRepo := new(repoMocks.MockAccountRepository)
		mRepo.On("FindByID", ctx, "acc-9").Return(existing(), nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(a *model.Account) bool {
			return auth.CheckPassword(a.PasswordHash, "another-pass") == nil
		})).Return(existing(), nil)

		_, err := NewAccountService(mRepo).Update(ctx, adminSess, "acc-9",
			AccountInput{Name: "Ana", Email: "ana@awd.gov", Division: model.RoleGACID, Password: "another-pass"})
		require.NoError(t, err)
		mRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockAccountRepository)
		mRepo.On("FindByID", ctx, "acc-0").Return(nil, sql.ErrNoRows)

		_, err := NewAccountService(mRepo).Update(ctx, adminSess, "acc-0", AccountInput{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAccountService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockAccountRepository)
	mRepo.On("List", ctx, repository.PageQuery{Limit: defaultLimit, Offset: 0}).
		Return(&repository.PageResult[model.Account]{Total: 0}, nil)
	mRepo.On("Delete", ctx, "acc-9").Return(nil)
	mRepo.On("Delete", ctx, "acc-8").Return(errors.New("db fail"))
	svc := NewAccountService(mRepo)

	res, err := svc.List(ctx, adminSess, 0, -5)
	require.NoError(t, err)
	assert.NotNil(t, res.Items)

	assert.NoError(t, svc.Delete(ctx, adminSess, "acc-9"))
	assert.EqualError(t, svc.Delete(ctx, adminSess, "acc-8"), "db fail")
	assert.ErrorIs(t, svc.Delete(ctx, adminSess, adminSess.AccountID), ErrInvalidInput)
	assert.ErrorIs(t, svc.Delete(ctx, adminSess, ""), ErrIDRequired)
	assert.ErrorIs(t, svc.Delete(ctx, secretarySess, "acc-9"), ErrForbidden)
	mRepo.AssertExpectations(t)
}
