// Package models contains domain entities and business models for the listing system
package models

import (
	"time"

	"github.com/google/uuid"
)

type Seller struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_sellers_uuid;index:idx_sellers_uuid" json:"uuid"`

	// Store fields
	StoreName string  `gorm:"size:120;not null" json:"store_name"`
	StoreSlug string  `gorm:"size:120;not null;uniqueIndex:uk_sellers_store_slug" json:"store_slug"`
	About     *string `gorm:"type:text" json:"about,omitempty"`

	// Contact fields
	ContactFirstName string `gorm:"size:255;not null" json:"contact_first_name"`
	ContactLastName  string `gorm:"size:255;not null" json:"contact_last_name"`
	ContactMobile    string `gorm:"size:15;not null;uniqueIndex:idx_sellers_contact_mobile" json:"contact_mobile"`
	Email            string `gorm:"size:255;not null;uniqueIndex:idx_sellers_email" json:"email"`

	// Status and verification
	IsVerified *bool `gorm:"default:false" json:"is_verified"`
	IsActive   *bool `gorm:"default:true;index:idx_sellers_is_active" json:"is_active"`

	// Timestamps
	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_sellers_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	LastSeenAt  *time.Time `gorm:"index:idx_sellers_last_seen_at" json:"last_seen_at,omitempty"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
	SuspendedAt *time.Time `json:"suspended_at,omitempty"`

	// Relations
	Listings  []Listing  `gorm:"foreignKey:SellerID" json:"-"`
	AuditLogs []AuditLog `gorm:"foreignKey:SellerID" json:"-"`
}

func (Seller) TableName() string {
	return "sellers"
}

// SellerFilter represents filter criteria for seller queries
type SellerFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Email         *string
	ContactMobile *string
	StoreSlug     *string
	IsVerified    *bool
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// CanSubmitListings checks whether the seller account may submit listings
func (s *Seller) CanSubmitListings() bool {
	if s.IsActive == nil || !*s.IsActive {
		return false
	}
	return s.SuspendedAt == nil
}
