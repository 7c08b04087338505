package repository

import (
	"context"
	"testing"

	"github.com/amirphl/Kitsune-no-Ichiba/models"
	testingutil "github.com/amirphl/Kitsune-no-Ichiba/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := NewListingRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		seller, err := fixtures.CreateTestSeller()
		require.NoError(t, err)

		t.Run("SaveAndByUUID", func(t *testing.T) {
			listing, err := fixtures.CreateTestListing(seller, models.ListingKindProduct)
			require.NoError(t, err)

			found, err := repo.ByUUID(ctx, listing.UUID.String())
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, listing.SKU, found.SKU)
			assert.Equal(t, listing.ProductName, found.Payload.ProductName)
		})

		t.Run("ByUUIDMissing", func(t *testing.T) {
			found, err := repo.ByUUID(ctx, "00000000-0000-0000-0000-000000000000")
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("BySKU", func(t *testing.T) {
			listing, err := fixtures.CreateTestListing(seller, models.ListingKindQuoteRequest)
			require.NoError(t, err)

			found, err := repo.BySKU(ctx, listing.SKU)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, listing.UUID, found.UUID)
		})

		t.Run("FilterBySellerAndKind", func(t *testing.T) {
			kind := models.ListingKindProduct
			filter := models.ListingFilter{SellerID: &seller.ID, Kind: &kind}

			listings, err := repo.ByFilter(ctx, filter, "created_at DESC", 0, 0)
			require.NoError(t, err)
			for _, l := range listings {
				assert.Equal(t, seller.ID, l.SellerID)
				assert.Equal(t, kind, l.Kind)
			}

			count, err := repo.Count(ctx, filter)
			require.NoError(t, err)
			assert.Equal(t, int64(len(listings)), count)
		})

		t.Run("UpdateStatus", func(t *testing.T) {
			listing, err := fixtures.CreateTestListing(seller, models.ListingKindProduct)
			require.NoError(t, err)

			require.NoError(t, repo.UpdateStatus(ctx, listing.ID, models.ListingStatusActive))

			found, err := repo.ByID(ctx, listing.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, models.ListingStatusActive, found.Status)
		})

		t.Run("Update", func(t *testing.T) {
			listing, err := fixtures.CreateTestListing(seller, models.ListingKindProduct)
			require.NoError(t, err)

			listing.ProductName = "Renamed Drill"
			require.NoError(t, repo.Update(ctx, *listing))

			found, err := repo.ByID(ctx, listing.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, "Renamed Drill", found.ProductName)
			assert.NotNil(t, found.UpdatedAt)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSellerRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := NewSellerRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		seller, err := fixtures.CreateTestSeller()
		require.NoError(t, err)

		t.Run("ByEmail", func(t *testing.T) {
			found, err := repo.ByEmail(ctx, seller.Email)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, seller.ID, found.ID)
		})

		t.Run("ByStoreSlug", func(t *testing.T) {
			found, err := repo.ByStoreSlug(ctx, seller.StoreSlug)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, seller.ID, found.ID)
		})

		t.Run("SuspendedSellerCannotSubmit", func(t *testing.T) {
			suspended, err := fixtures.CreateSuspendedSeller()
			require.NoError(t, err)

			found, err := repo.ByID(ctx, suspended.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.False(t, found.CanSubmitListings())
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSequenceCounterRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := NewSequenceCounterRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("MonotonicPerName", func(t *testing.T) {
			first, err := repo.Next(ctx, "listing_sku_p")
			require.NoError(t, err)
			second, err := repo.Next(ctx, "listing_sku_p")
			require.NoError(t, err)
			assert.Equal(t, first+1, second)
		})

		t.Run("IndependentSequences", func(t *testing.T) {
			_, err := repo.Next(ctx, "listing_sku_p")
			require.NoError(t, err)

			rSeq, err := repo.Next(ctx, "listing_sku_r")
			require.NoError(t, err)
			assert.Equal(t, uint64(1), rSeq)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestWithTransaction(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := NewListingRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		seller, err := fixtures.CreateTestSeller()
		require.NoError(t, err)

		t.Run("RollbackOnError", func(t *testing.T) {
			listing, err := fixtures.CreateTestListing(seller, models.ListingKindProduct)
			require.NoError(t, err)

			txErr := WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
				if err := repo.UpdateStatus(txCtx, listing.ID, models.ListingStatusArchived); err != nil {
					return err
				}
				return assert.AnError
			})
			require.Error(t, txErr)

			found, err := repo.ByID(ctx, listing.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, models.ListingStatusSubmitted, found.Status)
		})

		t.Run("CommitOnSuccess", func(t *testing.T) {
			listing, err := fixtures.CreateTestListing(seller, models.ListingKindProduct)
			require.NoError(t, err)

			txErr := WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
				return repo.UpdateStatus(txCtx, listing.ID, models.ListingStatusActive)
			})
			require.NoError(t, txErr)

			found, err := repo.ByID(ctx, listing.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, models.ListingStatusActive, found.Status)
		})

		return nil
	})
	require.NoError(t, err)
}
