package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrDuplicateKey is returned by Add when a record with the same
// primary key (or unique index value) already exists. The append-only
// collections (sales, sale items, debts, debt payments, users) rely on
// this instead of silently overwriting history.
var ErrDuplicateKey = errors.New("duplicate key")

// Put inserts or replaces a record by primary key.
func Put[T any](db *gorm.DB, record *T) error {
	return db.Save(record).Error
}

// Add inserts a record and fails with ErrDuplicateKey if the key is
// already taken.
func Add[T any](db *gorm.DB, record *T) error {
	if err := db.Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
		}
		return err
	}
	return nil
}

// Get reads one record by primary key. Returns (nil, nil) when the key
// does not exist, so callers can distinguish "missing" from a real
// store failure.
func Get[T any](db *gorm.DB, key string) (*T, error) {
	var record T
	err := db.First(&record, "id = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetAll scans a whole collection.
func GetAll[T any](db *gorm.DB) ([]T, error) {
	var records []T
	if err := db.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GetAllByIndex does an equality lookup on a secondary index column,
// e.g. all sale items for a sale id or all debts for a customer id.
func GetAllByIndex[T any](db *gorm.DB, column string, value any) ([]T, error) {
	var records []T
	if err := db.Where(map[string]any{column: value}).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Delete hard-deletes by primary key. No cascade: rows in other
// collections that reference the key keep their denormalized snapshot
// fields and become best-effort historical labels.
func Delete[T any](db *gorm.DB, key string) error {
	var record T
	return db.Delete(&record, "id = ?", key).Error
}

// RunTransaction executes work with all writes applied together or not
// at all. An error (or panic) inside work rolls everything back. Every
// multi-collection mutation in the app - the sale commit and the
// backup restore - goes through here.
func RunTransaction(db *gorm.DB, work func(tx *gorm.DB) error) error {
	return db.Transaction(work)
}
