package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fed-stew/authvital-sub001/internal/domain/catalog"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/persistence/mappers"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/persistence/models"
	"github.com/fed-stew/authvital-sub001/internal/shared/db"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

// ApplicationRepositoryImpl implements the catalog.ApplicationRepository interface
type ApplicationRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ApplicationMapper
	logger logger.Interface
}

// NewApplicationRepository creates a new application repository instance
func NewApplicationRepository(gdb *gorm.DB, log logger.Interface) catalog.ApplicationRepository {
	return &ApplicationRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewApplicationMapper(),
		logger: log,
	}
}

// Create creates a new application
func (r *ApplicationRepositoryImpl) Create(ctx context.Context, app *catalog.Application) error {
	model, err := r.mapper.ToModel(app)
	if err != nil {
		return fmt.Errorf("failed to map application: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("application already exists")
		}
		return fmt.Errorf("failed to create application: %w", err)
	}

	if err := app.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set application ID: %w", err)
	}

	r.logger.Infow("application created", "id", model.ID, "sid", model.SID, "name", model.Name)
	return nil
}

// Update updates an existing application
func (r *ApplicationRepositoryImpl) Update(ctx context.Context, app *catalog.Application) error {
	model, err := r.mapper.ToModel(app)
	if err != nil {
		return fmt.Errorf("failed to map application: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.ApplicationModel{}).Where("id = ?", app.ID()).Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update application: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("application not found")
	}

	return nil
}

// GetByID retrieves an application by ID
func (r *ApplicationRepositoryImpl) GetByID(ctx context.Context, id uint) (*catalog.Application, error) {
	var model models.ApplicationModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.First(&model, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("application not found")
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetBySID retrieves an application by short ID
func (r *ApplicationRepositoryImpl) GetBySID(ctx context.Context, sid string) (*catalog.Application, error) {
	var model models.ApplicationModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("sid = ?", sid).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("application not found")
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// List retrieves all registered applications
func (r *ApplicationRepositoryImpl) List(ctx context.Context) ([]*catalog.Application, error) {
	var appModels []*models.ApplicationModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Find(&appModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	return r.mapper.ToEntities(appModels)
}

// ListByAccessModes retrieves applications whose access mode is one of the given modes
func (r *ApplicationRepositoryImpl) ListByAccessModes(ctx context.Context, modes []catalog.AccessMode) ([]*catalog.Application, error) {
	modeStrings := make([]string, len(modes))
	for i, m := range modes {
		modeStrings[i] = string(m)
	}

	var appModels []*models.ApplicationModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("access_mode IN ?", modeStrings).Find(&appModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	return r.mapper.ToEntities(appModels)
}

// LicenseTypeRepositoryImpl implements the catalog.LicenseTypeRepository interface
type LicenseTypeRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.LicenseTypeMapper
	logger logger.Interface
}

// NewLicenseTypeRepository creates a new license type repository instance
func NewLicenseTypeRepository(gdb *gorm.DB, log logger.Interface) catalog.LicenseTypeRepository {
	return &LicenseTypeRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewLicenseTypeMapper(),
		logger: log,
	}
}

// Create creates a new license type
func (r *LicenseTypeRepositoryImpl) Create(ctx context.Context, lt *catalog.LicenseType) error {
	model, err := r.mapper.ToModel(lt)
	if err != nil {
		return fmt.Errorf("failed to map license type: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("license type already exists")
		}
		return fmt.Errorf("failed to create license type: %w", err)
	}

	if err := lt.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set license type ID: %w", err)
	}

	r.logger.Infow("license type created", "id", model.ID, "sid", model.SID, "name", model.Name)
	return nil
}

// Update updates an existing license type
func (r *LicenseTypeRepositoryImpl) Update(ctx context.Context, lt *catalog.LicenseType) error {
	model, err := r.mapper.ToModel(lt)
	if err != nil {
		return fmt.Errorf("failed to map license type: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.LicenseTypeModel{}).Where("id = ?", lt.ID()).Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update license type: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("license type not found")
	}

	return nil
}

// GetByID retrieves a license type by ID
func (r *LicenseTypeRepositoryImpl) GetByID(ctx context.Context, id uint) (*catalog.LicenseType, error) {
	var model models.LicenseTypeModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.First(&model, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("license type not found")
		}
		return nil, fmt.Errorf("failed to get license type: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetBySID retrieves a license type by short ID
func (r *LicenseTypeRepositoryImpl) GetBySID(ctx context.Context, sid string) (*catalog.LicenseType, error) {
	var model models.LicenseTypeModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("sid = ?", sid).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("license type not found")
		}
		return nil, fmt.Errorf("failed to get license type: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// ListByApplication retrieves all license types of an application ordered by display order
func (r *LicenseTypeRepositoryImpl) ListByApplication(ctx context.Context, applicationID uint) ([]*catalog.LicenseType, error) {
	var typeModels []*models.LicenseTypeModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("application_id = ?", applicationID).
		Order("display_order ASC").
		Find(&typeModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list license types: %w", err)
	}

	return r.mapper.ToEntities(typeModels)
}
