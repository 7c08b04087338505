// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/amirphl/Kitsune-no-Ichiba/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// SellerRepository defines operations for seller accounts
type SellerRepository interface {
	Repository[models.Seller, models.SellerFilter]
	ByEmail(ctx context.Context, email string) (*models.Seller, error)
	ByUUID(ctx context.Context, uuid string) (*models.Seller, error)
	ByStoreSlug(ctx context.Context, slug string) (*models.Seller, error)
	ListActiveSellers(ctx context.Context, limit, offset int) ([]*models.Seller, error)
}

// ListingRepository defines operations for listings
type ListingRepository interface {
	Repository[models.Listing, models.ListingFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Listing, error)
	BySKU(ctx context.Context, sku string) (*models.Listing, error)
	BySellerID(ctx context.Context, sellerID uint, limit, offset int) ([]*models.Listing, error)
	Update(ctx context.Context, listing models.Listing) error
	UpdateStatus(ctx context.Context, id uint, status models.ListingStatus) error
	CountBySellerID(ctx context.Context, sellerID uint) (int, error)
}

// MultimediaAssetRepository defines operations for uploaded media assets
type MultimediaAssetRepository interface {
	Repository[models.MultimediaAsset, models.MultimediaAssetFilter]
	ByUUID(ctx context.Context, uuid string) (*models.MultimediaAsset, error)
	BySellerID(ctx context.Context, sellerID uint, limit, offset int) ([]*models.MultimediaAsset, error)
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListBySeller(ctx context.Context, sellerID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
	ListFailedActions(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}

// SequenceCounterRepository defines operations for named monotonic counters
type SequenceCounterRepository interface {
	Next(ctx context.Context, name string) (uint64, error)
}
