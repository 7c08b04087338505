package models

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	SellerID     *uint           `gorm:"index:idx_audit_seller_id" json:"seller_id,omitempty"`
	Seller       *Seller         `gorm:"foreignKey:SellerID;references:ID" json:"seller,omitempty"`
	Action       string          `gorm:"type:audit_action_enum;not null;index:idx_audit_action" json:"action"`
	Description  *string         `gorm:"type:text" json:"description,omitempty"`
	IPAddress    *string         `gorm:"type:inet;index:idx_audit_ip_address" json:"ip_address,omitempty"`
	UserAgent    *string         `gorm:"type:text" json:"user_agent,omitempty"`
	RequestID    *string         `gorm:"size:255;index:idx_audit_request_id" json:"request_id,omitempty"`
	Metadata     json.RawMessage `gorm:"type:jsonb;index:idx_audit_metadata,type:gin" json:"metadata,omitempty"`
	Success      *bool           `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP;index:idx_audit_created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// Audit action constants
const (
	AuditActionListingSubmitted        = "listing_submitted"
	AuditActionListingSubmissionFailed = "listing_submission_failed"
	AuditActionListingUpdated          = "listing_updated"
	AuditActionListingUpdateFailed     = "listing_update_failed"
	AuditActionListingExported         = "listing_exported"
	AuditActionAssetUploaded           = "asset_uploaded"
	AuditActionAssetUploadFailed       = "asset_upload_failed"
	AuditActionDraftSaved              = "draft_saved"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID            *uint
	SellerID      *uint
	Action        *string
	Success       *bool
	IPAddress     *string
	RequestID     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *AuditLog) IsFailed() bool {
	return a.Success != nil && !*a.Success
}
