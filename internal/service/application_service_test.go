package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-wizard-be/internal/entity"
	"job-wizard-be/internal/repository/contract"
	"job-wizard-be/internal/repository/specification"
	"job-wizard-be/internal/repository/unitofwork"
)

type stubAppRepo struct {
	contract.ApplicationRepository

	app       *entity.Application
	completed []uuid.UUID
}

func (r *stubAppRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Application, error) {
	return r.app, nil
}

func (r *stubAppRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	r.completed = append(r.completed, id)
	return nil
}

type stubUow struct {
	unitofwork.UnitOfWork

	apps *stubAppRepo
}

func (u *stubUow) ApplicationRepository() contract.ApplicationRepository {
	return u.apps
}

type stubFactory struct {
	uow *stubUow
}

func (f *stubFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func TestCompleteMarksApplication(t *testing.T) {
	userID := uuid.New()
	appID := uuid.New()
	repo := &stubAppRepo{app: &entity.Application{Id: appID, UserId: userID}}
	svc := NewApplicationService(&stubFactory{uow: &stubUow{apps: repo}})

	require.NoError(t, svc.Complete(context.Background(), userID, appID))
	assert.Equal(t, []uuid.UUID{appID}, repo.completed)
}

func TestCompleteAlreadyCompletedIsNoop(t *testing.T) {
	userID := uuid.New()
	appID := uuid.New()
	repo := &stubAppRepo{app: &entity.Application{Id: appID, UserId: userID, IsCompleted: true}}
	svc := NewApplicationService(&stubFactory{uow: &stubUow{apps: repo}})

	require.NoError(t, svc.Complete(context.Background(), userID, appID))
	assert.Empty(t, repo.completed)
}

func TestCompleteMissingApplication(t *testing.T) {
	repo := &stubAppRepo{}
	svc := NewApplicationService(&stubFactory{uow: &stubUow{apps: repo}})

	err := svc.Complete(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrApplicationNotFound)
	assert.Empty(t, repo.completed)
}
