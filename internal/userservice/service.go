// Package userservice manages business logic layer of users.
package userservice

import (
	"context"

	"github.com/flowserve/ledger/internal/domain"
	"github.com/flowserve/ledger/pkg/errorspkg"
	"github.com/flowserve/ledger/pkg/passpkg"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by user service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package userservice
type Repo interface {
	CreateWithAccount(ctx context.Context, arg domain.CreateUserParams, currency string) (domain.UserWithAccount, error)
	Get(ctx context.Context, username string) (domain.User, error)
}

// Service facilitates user service layer logic.
type Service struct {
	repo     Repo
	currency string
}

// New returns user service struct to manage user business logic.
// currency is the ledger currency used for new primary accounts.
func New(ur Repo, currency string) *Service {
	return &Service{
		repo:     ur,
		currency: currency,
	}
}

// NewUserWithoutPassword returns user with removed sensitive data.
func NewUserWithoutPassword(u domain.User) domain.UserWithoutPassword {
	return domain.UserWithoutPassword{
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// Create registers a user and opens their primary wallet account.
func (s *Service) Create(ctx context.Context, username, password, fullname, email string) (domain.UserWithoutPassword, domain.Account, error) {
	l := zerolog.Ctx(ctx)

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.UserWithoutPassword{}, domain.Account{}, errorspkg.ErrInternal
	}

	arg := domain.CreateUserParams{
		Username:       username,
		HashedPassword: hashedPassword,
		FullName:       fullname,
		Email:          email,
	}

	result, err := s.repo.CreateWithAccount(ctx, arg, s.currency)
	if err != nil {
		return domain.UserWithoutPassword{}, domain.Account{}, err
	}

	return NewUserWithoutPassword(result.User), result.Account, nil
}

// CheckPassword verifies the user's password and returns the user on success.
func (s *Service) CheckPassword(ctx context.Context, username, password string) (domain.UserWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	user, err := s.repo.Get(ctx, username)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.UserWithoutPassword{}, err
	}

	if err := passpkg.Check(password, user.HashedPassword); err != nil {
		return domain.UserWithoutPassword{}, domain.ErrWrongPassword
	}

	return NewUserWithoutPassword(user), nil
}
