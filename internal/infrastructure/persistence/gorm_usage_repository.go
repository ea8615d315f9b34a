package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/childmindresearch/cloai-service/internal/domain/usage"
	"github.com/childmindresearch/cloai-service/internal/infrastructure/persistence/models"
	"github.com/childmindresearch/cloai-service/internal/pkg/logger"
)

type gormUsageRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormUsageRepository creates a new GORM-based usage.Repository implementation
func NewGormUsageRepository(db *gorm.DB, logger logger.Logger) (usage.Repository, error) {
	return &gormUsageRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormUsageRepository) Create(ctx context.Context, record *usage.Record) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.UsageRecordModel{}
	model.FromDomain(record)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create usage record: %w", err)
	}

	r.logger.Info("Created usage record with id ", record.ID)
	return nil
}

func (r *gormUsageRepository) List(ctx context.Context, query *usage.Query) ([]*usage.Record, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query parameters: %w", err)
	}

	var modelList []*models.UsageRecordModel
	dbQuery := r.db.WithContext(ctx).Model(&models.UsageRecordModel{})

	if query.ClientID != "" {
		dbQuery = dbQuery.Where("client_id = ?", query.ClientID)
	}
	if query.Operation != "" {
		dbQuery = dbQuery.Where("operation = ?", query.Operation)
	}
	if query.Status != "" {
		dbQuery = dbQuery.Where("status = ?", query.Status)
	}
	if !query.DateTimeCreated.IsZero() {
		dbQuery = dbQuery.Where("date_time_created >= ?", query.DateTimeCreated)
	}

	if query.SortBy != "" {
		order := query.SortOrder
		if order == "" {
			order = "asc"
		}
		dbQuery = dbQuery.Order(fmt.Sprintf("%s %s", query.SortBy, order))
	}

	if query.Limit > 0 {
		dbQuery = dbQuery.Limit(query.Limit)
	}
	if query.Offset > 0 {
		dbQuery = dbQuery.Offset(query.Offset)
	}

	if err := dbQuery.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch usage records: %w", err)
	}

	domainList := make([]*usage.Record, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}

	return domainList, nil
}

func (r *gormUsageRepository) GetByID(ctx context.Context, recordID string) (*usage.Record, error) {
	var model models.UsageRecordModel
	if err := r.db.WithContext(ctx).Where("id = ?", recordID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("usage record with ID %s not found", recordID)
		}
		return nil, fmt.Errorf("failed to fetch usage record: %w", err)
	}
	return model.ToDomain(), nil
}
