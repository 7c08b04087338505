package repository

import (
	"context"

	"github.com/amirphl/Kitsune-no-Ichiba/models"
	"github.com/amirphl/Kitsune-no-Ichiba/utils"
	"gorm.io/gorm"
)

// SellerRepositoryImpl implements SellerRepository interface
type SellerRepositoryImpl struct {
	*BaseRepository[models.Seller, models.SellerFilter]
}

// NewSellerRepository creates a new seller repository
func NewSellerRepository(db *gorm.DB) SellerRepository {
	return &SellerRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Seller, models.SellerFilter](db),
	}
}

func (r *SellerRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.Seller, error) {
	rows, err := r.ByFilter(ctx, models.SellerFilter{Email: &email}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *SellerRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Seller, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}
	rows, err := r.ByFilter(ctx, models.SellerFilter{UUID: &parsed}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *SellerRepositoryImpl) ByStoreSlug(ctx context.Context, slug string) (*models.Seller, error) {
	rows, err := r.ByFilter(ctx, models.SellerFilter{StoreSlug: &slug}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *SellerRepositoryImpl) ListActiveSellers(ctx context.Context, limit, offset int) ([]*models.Seller, error) {
	return r.ByFilter(ctx, models.SellerFilter{IsActive: utils.ToPtr(true)}, "id DESC", limit, offset)
}

// applyFilter applies filter criteria to a GORM query
func (r *SellerRepositoryImpl) applyFilter(query *gorm.DB, filter models.SellerFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}
	if filter.ContactMobile != nil {
		query = query.Where("contact_mobile = ?", *filter.ContactMobile)
	}
	if filter.StoreSlug != nil {
		query = query.Where("store_slug = ?", *filter.StoreSlug)
	}
	if filter.IsVerified != nil {
		query = query.Where("is_verified = ?", *filter.IsVerified)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves sellers based on filter criteria
func (r *SellerRepositoryImpl) ByFilter(ctx context.Context, filter models.SellerFilter, orderBy string, limit, offset int) ([]*models.Seller, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Seller{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Seller
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of sellers matching filter
func (r *SellerRepositoryImpl) Count(ctx context.Context, filter models.SellerFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Seller{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any seller matches the filter
func (r *SellerRepositoryImpl) Exists(ctx context.Context, filter models.SellerFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
