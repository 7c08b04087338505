package repository

import (
	"context"

	"github.com/amirphl/Kitsune-no-Ichiba/models"
	"github.com/amirphl/Kitsune-no-Ichiba/utils"
	"gorm.io/gorm"
)

// ListingRepositoryImpl implements ListingRepository interface
type ListingRepositoryImpl struct {
	*BaseRepository[models.Listing, models.ListingFilter]
}

// NewListingRepository creates a new listing repository
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &ListingRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Listing, models.ListingFilter](db),
	}
}

func (r *ListingRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Listing, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}
	rows, err := r.ByFilter(ctx, models.ListingFilter{UUID: &parsed}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *ListingRepositoryImpl) BySKU(ctx context.Context, sku string) (*models.Listing, error) {
	rows, err := r.ByFilter(ctx, models.ListingFilter{SKU: &sku}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *ListingRepositoryImpl) BySellerID(ctx context.Context, sellerID uint, limit, offset int) ([]*models.Listing, error) {
	return r.ByFilter(ctx, models.ListingFilter{SellerID: &sellerID}, "id DESC", limit, offset)
}

func (r *ListingRepositoryImpl) Update(ctx context.Context, listing models.Listing) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	now := utils.UTCNow()
	listing.UpdatedAt = &now

	err = db.Save(&listing).Error
	if err != nil {
		return err
	}

	return nil
}

func (r *ListingRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status models.ListingStatus) error {
	db := r.getDB(ctx)
	return db.Model(&models.Listing{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": utils.UTCNow(),
		}).Error
}

func (r *ListingRepositoryImpl) CountBySellerID(ctx context.Context, sellerID uint) (int, error) {
	c, err := r.Count(ctx, models.ListingFilter{SellerID: &sellerID})
	if err != nil {
		return 0, err
	}
	return int(c), nil
}

// applyFilter applies filter criteria to a GORM query
func (r *ListingRepositoryImpl) applyFilter(query *gorm.DB, filter models.ListingFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.SKU != nil {
		query = query.Where("sku = ?", *filter.SKU)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ProductName != nil {
		query = query.Where("product_name ILIKE ?", "%"+*filter.ProductName+"%")
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	if filter.UpdatedAfter != nil {
		query = query.Where("updated_at > ?", *filter.UpdatedAfter)
	}
	if filter.UpdatedBefore != nil {
		query = query.Where("updated_at < ?", *filter.UpdatedBefore)
	}
	return query
}

// ByFilter retrieves listings based on filter criteria
func (r *ListingRepositoryImpl) ByFilter(ctx context.Context, filter models.ListingFilter, orderBy string, limit, offset int) ([]*models.Listing, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Listing{})

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

	var rows []*models.Listing
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of listings matching filter
func (r *ListingRepositoryImpl) Count(ctx context.Context, filter models.ListingFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Listing{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any listing matches the filter
func (r *ListingRepositoryImpl) Exists(ctx context.Context, filter models.ListingFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
