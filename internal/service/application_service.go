package service

import (
	"context"
	"errors"

	"job-wizard-be/internal/dto"
	"job-wizard-be/internal/repository/specification"
	"job-wizard-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

var ErrApplicationNotFound = errors.New("application not found")

type IApplicationService interface {
	List(ctx context.Context, userID uuid.UUID, limit, offset int) (*dto.ApplicationListResponse, error)
	Show(ctx context.Context, userID, applicationID uuid.UUID) (*dto.ShowApplicationResponse, error)
	Complete(ctx context.Context, userID, applicationID uuid.UUID) error
	Delete(ctx context.Context, userID, applicationID uuid.UUID) error
}

type applicationService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewApplicationService(uowFactory unitofwork.RepositoryFactory) IApplicationService {
	return &applicationService{
		uowFactory: uowFactory,
	}
}

func (s *applicationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) (*dto.ApplicationListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ApplicationRepository()

	total, err := repo.Count(ctx, specification.UserOwnedBy{UserID: userID})
	if err != nil {
		return nil, err
	}

	apps, err := repo.FindAll(ctx,
		specification.UserOwnedBy{UserID: userID},
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ApplicationListItem, len(apps))
	for i, app := range apps {
		items[i] = dto.ApplicationListItem{
			Id:             app.Id,
			Title:          app.Title,
			CurrentStep:    app.CurrentStep,
			TotalVacancies: app.TotalVacancies,
			AppliedCount:   len(app.AppliedVacancyIds),
			IsCompleted:    app.IsCompleted,
			CreatedAt:      app.CreatedAt,
			UpdatedAt:      app.UpdatedAt,
		}
	}

	return &dto.ApplicationListResponse{Items: items, Total: total}, nil
}

func (s *applicationService) Show(ctx context.Context, userID, applicationID uuid.UUID) (*dto.ShowApplicationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	app, err := uow.ApplicationRepository().FindOne(ctx,
		specification.ByID{ID: applicationID},
		specification.UserOwnedBy{UserID: userID},
	)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrApplicationNotFound
	}

	return &dto.ShowApplicationResponse{
		Id:                  app.Id,
		Title:               app.Title,
		CurrentStep:         app.CurrentStep,
		SelectedKeywords:    app.SelectedKeywords,
		SuggestedKeywords:   app.SuggestedKeywords,
		CurrentVacancyIndex: app.CurrentVacancyIndex,
		TotalVacancies:      app.TotalVacancies,
		AppliedVacancyIds:   app.AppliedVacancyIds,
		IsCompleted:         app.IsCompleted,
		CreatedAt:           app.CreatedAt,
		UpdatedAt:           app.UpdatedAt,
	}, nil
}

// Complete marks a saved application finished. The wizard never sets the
// flag itself; the user closes an application out explicitly.
func (s *applicationService) Complete(ctx context.Context, userID, applicationID uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	app, err := uow.ApplicationRepository().FindOne(ctx,
		specification.ByID{ID: applicationID},
		specification.UserOwnedBy{UserID: userID},
	)
	if err != nil {
		return err
	}
	if app == nil {
		return ErrApplicationNotFound
	}
	if app.IsCompleted {
		return nil
	}

	return uow.ApplicationRepository().MarkCompleted(ctx, applicationID)
}

func (s *applicationService) Delete(ctx context.Context, userID, applicationID uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	app, err := uow.ApplicationRepository().FindOne(ctx,
		specification.ByID{ID: applicationID},
		specification.UserOwnedBy{UserID: userID},
	)
	if err != nil {
		return err
	}
	if app == nil {
		return ErrApplicationNotFound
	}

	return uow.ApplicationRepository().Delete(ctx, applicationID)
}
