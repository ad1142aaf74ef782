package implementation

import (
	"context"
	"errors"

	"job-wizard-be/internal/entity"
	"job-wizard-be/internal/mapper"
	"job-wizard-be/internal/model"
	"job-wizard-be/internal/repository/contract"
	"job-wizard-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ApplicationMapper
}

func NewApplicationRepository(db *gorm.DB) contract.ApplicationRepository {
	return &ApplicationRepositoryImpl{
		db:     db,
		mapper: mapper.NewApplicationMapper(),
	}
}

func (r *ApplicationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ApplicationRepositoryImpl) Create(ctx context.Context, app *entity.Application) error {
	modelApp := r.mapper.ToModel(app)
	if err := r.db.WithContext(ctx).Create(modelApp).Error; err != nil {
		return err
	}
	*app = *r.mapper.ToEntity(modelApp)
	return nil
}

func (r *ApplicationRepositoryImpl) Update(ctx context.Context, app *entity.Application) error {
	modelApp := r.mapper.ToModel(app)
	if err := r.db.WithContext(ctx).Save(modelApp).Error; err != nil {
		return err
	}
	*app = *r.mapper.ToEntity(modelApp)
	return nil
}

func (r *ApplicationRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Application{}).Error
}

func (r *ApplicationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Application, error) {
	var modelApp model.Application
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelApp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelApp), nil
}

func (r *ApplicationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Application, error) {
	var modelApps []*model.Application
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelApps).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(modelApps), nil
}

func (r *ApplicationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Application{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ApplicationRepositoryImpl) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Application{}).Where("id = ?", id).Update("is_completed", true).Error
}
