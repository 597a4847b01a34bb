package repositories

import (
	"context"
	"fmt"

	"autoreview/app/models"

	"github.com/dgraph-io/badger/v4"
)

type BadgerCarRepository struct {
	db *badger.DB
}

func NewBadgerCarRepository(db *badger.DB) *BadgerCarRepository {
	return &BadgerCarRepository{db: db}
}

func (r *BadgerCarRepository) Replace(cars []*models.CarSpec) error {
	if err := dropPrefix(r.db, CarKeyPrefix); err != nil {
		return fmt.Errorf("drop cars: %w", err)
	}
	return putEntities(r.db, CarKeyPrefix, cars, func(c *models.CarSpec) string { return c.ID })
}

// List returns cars in key order, which is stable across calls.
func (r *BadgerCarRepository) List(ctx context.Context) ([]*models.CarSpec, error) {
	var cars []*models.CarSpec
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, CarKeyPrefix, func(val []byte) error {
			var car models.CarSpec
			if err := unmarshalEntity(val, &car); err != nil {
				return err
			}
			cars = append(cars, &car)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return cars, nil
}

func (r *BadgerCarRepository) GetByID(ctx context.Context, id string) (*models.CarSpec, error) {
	var car models.CarSpec
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(CarKeyPrefix, id), &car)
	})
	if err != nil {
		return nil, err
	}
	return &car, nil
}
