package unitofwork

import (
	"context"

	"job-wizard-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ApplicationRepository() contract.ApplicationRepository
}
