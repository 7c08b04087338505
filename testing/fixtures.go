// Package testing provides test utilities and database setup for testing the listing system
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/amirphl/Kitsune-no-Ichiba/models"
	"github.com/amirphl/Kitsune-no-Ichiba/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestSeller creates an active, verified seller with randomized
// unique fields (mobile, email, store slug)
func (tf *TestFixtures) CreateTestSeller() (*models.Seller, error) {
	randomDigits := fmt.Sprintf("%09d", rand.Intn(900000000)+100000000)

	seller := &models.Seller{
		UUID:             uuid.New(),
		StoreName:        "Test Store " + randomDigits,
		StoreSlug:        "test-store-" + randomDigits,
		ContactFirstName: "John",
		ContactLastName:  "Doe",
		ContactMobile:    fmt.Sprintf("+989%s", randomDigits),
		Email:            fmt.Sprintf("john.doe.%s@example.com", randomDigits),
		IsVerified:       utils.ToPtr(true),
		IsActive:         utils.ToPtr(true),
	}

	err := tf.DB.DB.Create(seller).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test seller: %w", err)
	}

	return seller, nil
}

// CreateSuspendedSeller creates a seller whose account was suspended an hour ago
func (tf *TestFixtures) CreateSuspendedSeller() (*models.Seller, error) {
	seller, err := tf.CreateTestSeller()
	if err != nil {
		return nil, err
	}

	suspendedAt := time.Now().UTC().Add(-1 * time.Hour)
	seller.SuspendedAt = &suspendedAt

	err = tf.DB.DB.Save(seller).Error
	if err != nil {
		return nil, fmt.Errorf("failed to suspend test seller: %w", err)
	}

	return seller, nil
}

// CreateTestDraft builds a complete, valid draft for the given kind. Quote
// requests carry only the fields their rule set requires.
func (tf *TestFixtures) CreateTestDraft(kind models.ListingKind) models.ListingDraft {
	draft := models.ListingDraft{
		Kind:        kind,
		ProductName: "Cordless Drill 18V",
		CategoryID:  utils.ToPtr(uint(42)),
		Condition:   "NEW",
		Tags:        []string{"tools", "drill"},
		ShortDescriptions: []string{
			"Two-speed gearbox",
			"Includes two batteries",
		},
		Specifications: []models.SpecificationEntry{
			{Key: "Voltage", Value: "18V"},
		},
		Images: []models.AssetRef{
			{Reference: "assets/drill-front.jpg"},
		},
	}

	if kind == models.ListingKindProduct {
		draft.SetUpPrice = true
		draft.BrandID = utils.ToPtr(uint(7))
		draft.CountryID = utils.ToPtr(uint(1))
		draft.StateID = utils.ToPtr(uint(10))
		draft.CityID = utils.ToPtr(uint(100))
		draft.SellLocations = []string{"1-10-100"}
		draft.Stock = utils.ToPtr(25)
		draft.ProductPrice = utils.ToPtr(150.0)
		draft.OfferPrice = utils.ToPtr(120.0)
		draft.PriceRules = []models.PriceRule{
			{
				ConsumerType:     "RETAIL",
				SellType:         models.SellTypeNormal,
				ConsumerDiscount: utils.ToPtr(10.0),
				VendorDiscount:   utils.ToPtr(5.0),
				DeliveryAfter:    utils.ToPtr(3),
				MinQuantity:      utils.ToPtr(1),
				MaxQuantity:      utils.ToPtr(50),
			},
		}
	} else {
		draft.ProductPrice = utils.ToPtr(150.0)
	}

	return draft
}

// CreateTestListing persists a submitted listing for the seller with a
// representative payload
func (tf *TestFixtures) CreateTestListing(seller *models.Seller, kind models.ListingKind) (*models.Listing, error) {
	randomDigits := fmt.Sprintf("%06d", rand.Intn(900000)+100000)
	sku := fmt.Sprintf("%s-%s", kind, randomDigits)

	payload := models.SubmissionPayload{
		SKU:               sku,
		ListingKind:       kind,
		ProductName:       "Cordless Drill 18V",
		CategoryID:        42,
		Condition:         "NEW",
		Tags:              []string{"tools", "drill"},
		ShortDescriptions: []string{"Two-speed gearbox"},
		Specifications: []models.SpecificationEntry{
			{Key: "Voltage", Value: "18V"},
		},
		ProductPriceList: []models.PriceEntry{
			{
				ConsumerType: "RETAIL",
				SellType:     models.SellTypeNormal.String(),
				Stock:        25,
				ProductPrice: 150,
				OfferPrice:   120,
				AskForPrice:  utils.BoolString(false),
				AskForStock:  utils.BoolString(false),
				MenuID:       "1",
				Status:       "ACTIVE",
			},
		},
		ProductImagesList: []models.ImageEntry{
			{Image: "assets/drill-front.jpg", ImageName: "drill-front.jpg"},
		},
	}

	listing := &models.Listing{
		UUID:              uuid.New(),
		SellerID:          seller.ID,
		SKU:               sku,
		Kind:              kind,
		Status:            models.ListingStatusSubmitted,
		ProductName:       payload.ProductName,
		Tags:              pq.StringArray(payload.Tags),
		ShortDescriptions: pq.StringArray(payload.ShortDescriptions),
		Payload:           payload,
	}

	err := tf.DB.DB.Create(listing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test listing: %w", err)
	}

	return listing, nil
}

// CreateMultipleTestListings seeds count submitted listings for the seller,
// alternating between product and quote-request kinds
func (tf *TestFixtures) CreateMultipleTestListings(seller *models.Seller, count int) ([]*models.Listing, error) {
	var listings []*models.Listing
	for i := 0; i < count; i++ {
		kind := models.ListingKindProduct
		if i%2 == 1 {
			kind = models.ListingKindQuoteRequest
		}

		listing, err := tf.CreateTestListing(seller, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to create listing %d: %w", i, err)
		}

		listings = append(listings, listing)
	}

	return listings, nil
}

// CreateTestMultimediaAsset persists an uploaded asset record owned by the seller
func (tf *TestFixtures) CreateTestMultimediaAsset(seller *models.Seller) (*models.MultimediaAsset, error) {
	randomDigits := fmt.Sprintf("%09d", rand.Intn(900000000)+100000000)

	asset := &models.MultimediaAsset{
		UUID:             uuid.New(),
		SellerID:         seller.ID,
		OriginalFilename: fmt.Sprintf("photo-%s.jpg", randomDigits),
		StoredPath:       fmt.Sprintf("data/uploads/multimedia/2026-01-01/photo-%s.jpg", randomDigits),
		SizeBytes:        2048,
		MimeType:         "image/jpeg",
		MediaType:        "image",
		Extension:        ".jpg",
	}

	err := tf.DB.DB.Create(asset).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test multimedia asset: %w", err)
	}

	return asset, nil
}

// CreateTestAuditLog creates a test audit log entry
func (tf *TestFixtures) CreateTestAuditLog(sellerID *uint, action string, success bool) (*models.AuditLog, error) {
	description := fmt.Sprintf("Test %s action", action)
	ipAddress := "127.0.0.1"
	userAgent := "Test User Agent"

	audit := &models.AuditLog{
		SellerID:    sellerID,
		Action:      action,
		Description: &description,
		Success:     &success,
		IPAddress:   &ipAddress,
		UserAgent:   &userAgent,
	}

	if !success {
		errorMessage := "Test failed action"
		audit.ErrorMessage = &errorMessage
	}

	err := tf.DB.DB.Create(audit).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test audit log: %w", err)
	}

	return audit, nil
}
