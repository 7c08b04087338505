package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/Kitsune-no-Ichiba/models"
	"github.com/amirphl/Kitsune-no-Ichiba/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SequenceCounterRepositoryImpl implements SequenceCounterRepository interface
type SequenceCounterRepositoryImpl struct {
	DB *gorm.DB
}

// NewSequenceCounterRepository creates a new sequence counter repository
func NewSequenceCounterRepository(db *gorm.DB) SequenceCounterRepository {
	return &SequenceCounterRepositoryImpl{DB: db}
}

func (r *SequenceCounterRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.DB
}

// Next atomically increments the named counter and returns its new value.
// The counter row is created on first use. The row is locked for update so
// concurrent callers never observe the same value.
func (r *SequenceCounterRepositoryImpl) Next(ctx context.Context, name string) (uint64, error) {
	var next uint64

	advance := func(tx *gorm.DB) error {
		var counter models.SequenceCounter
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("name = ?", name).
			First(&counter).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			counter = models.SequenceCounter{Name: name}
			if err := tx.Create(&counter).Error; err != nil {
				return fmt.Errorf("failed to create sequence counter %q: %w", name, err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to lock sequence counter %q: %w", name, err)
		}

		counter.LastValue++
		counter.UpdatedAt = utils.UTCNow()
		if err := tx.Save(&counter).Error; err != nil {
			return fmt.Errorf("failed to advance sequence counter %q: %w", name, err)
		}

		next = counter.LastValue
		return nil
	}

	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		if err := advance(tx); err != nil {
			return 0, err
		}
		return next, nil
	}

	if err := r.DB.Transaction(func(tx *gorm.DB) error { return advance(tx) }); err != nil {
		return 0, err
	}
	return next, nil
}
