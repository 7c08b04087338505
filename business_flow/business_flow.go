// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/amirphl/Kitsune-no-Ichiba/app/dto"
	"github.com/amirphl/Kitsune-no-Ichiba/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	DeviceInfo map[string]string `json:"device_info,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	SessionID  string            `json:"session_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		DeviceInfo: make(map[string]string),
		Additional: make(map[string]string),
	}
}

// AddDeviceInfo adds device information to the metadata
func (cm *ClientMetadata) AddDeviceInfo(key, value string) {
	if cm.DeviceInfo == nil {
		cm.DeviceInfo = make(map[string]string)
	}
	cm.DeviceInfo[key] = value
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// SetSessionID sets the session ID
func (cm *ClientMetadata) SetSessionID(sessionID string) {
	cm.SessionID = sessionID
}

// ToListingDTO converts a listing model to ListingDTO for API responses
func ToListingDTO(listing models.Listing) dto.ListingDTO {
	d := dto.ListingDTO{
		ID:          listing.ID,
		UUID:        listing.UUID.String(),
		SKU:         listing.SKU,
		ListingKind: string(listing.Kind),
		Status:      string(listing.Status),
		ProductName: listing.ProductName,
		Tags:        []string(listing.Tags),
		Payload:     listing.Payload,
		CreatedAt:   listing.CreatedAt.Format(time.RFC3339),
	}
	if listing.UpdatedAt != nil {
		d.UpdatedAt = listing.UpdatedAt.Format(time.RFC3339)
	}
	return d
}
