// Package backup serializes the whole store into one portable JSON
// snapshot and restores a snapshot by wholesale replacement. Restore
// runs in a single transaction, so a half-applied snapshot is
// impossible.
package backup

import (
	"encoding/json"

	"go-pos-local/internal/database"
	"go-pos-local/internal/models"

	"gorm.io/gorm"
)

// FormatVersion is stamped into every exported snapshot.
const FormatVersion = 1

// Snapshot holds the full contents of every collection.
type Snapshot struct {
	Version      int                  `json:"version"`
	Timestamp    string               `json:"timestamp"`
	Products     []models.Product     `json:"products"`
	Customers    []models.Customer    `json:"customers"`
	Sales        []models.Sale        `json:"sales"`
	SaleItems    []models.SaleItem    `json:"saleItems"`
	Debts        []models.Debt        `json:"debts"`
	DebtPayments []models.DebtPayment `json:"debtPayments"`
	Users        []SnapshotUser       `json:"users"`
	Settings     *models.Settings     `json:"settings"`
}

// SnapshotUser mirrors models.User but serializes the password hash.
// The API model hides the hash from every response; a backup that
// dropped it would restore a store nobody can log into.
type SnapshotUser struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
	Role         string `json:"role"`
	CreatedAt    string `json:"createdAt"`
}

func toSnapshotUser(u models.User) SnapshotUser {
	return SnapshotUser{ID: u.ID, Username: u.Username, PasswordHash: u.PasswordHash,
		Role: u.Role, CreatedAt: u.CreatedAt}
}

func fromSnapshotUser(u SnapshotUser) models.User {
	return models.User{ID: u.ID, Username: u.Username, PasswordHash: u.PasswordHash,
		Role: u.Role, CreatedAt: u.CreatedAt}
}

// InvalidBackupFormatError rejects a snapshot whose top-level shape is
// not usable.
type InvalidBackupFormatError struct {
	Reason string
}

func (e *InvalidBackupFormatError) Error() string {
	return "invalid backup format: " + e.Reason
}

// Export reads every collection into a snapshot stamped with the
// format version and the export time.
func Export(db *gorm.DB, timestamp string) (*Snapshot, error) {
	snap := &Snapshot{Version: FormatVersion, Timestamp: timestamp}

	var err error
	var products []models.Product
	if err = db.Preload("Conversions").Find(&products).Error; err != nil {
		return nil, err
	}
	snap.Products = products
	if snap.Customers, err = database.GetAll[models.Customer](db); err != nil {
		return nil, err
	}
	if snap.Sales, err = database.GetAll[models.Sale](db); err != nil {
		return nil, err
	}
	if snap.SaleItems, err = database.GetAll[models.SaleItem](db); err != nil {
		return nil, err
	}
	if snap.Debts, err = database.GetAll[models.Debt](db); err != nil {
		return nil, err
	}
	if snap.DebtPayments, err = database.GetAll[models.DebtPayment](db); err != nil {
		return nil, err
	}
	userRows, err := database.GetAll[models.User](db)
	if err != nil {
		return nil, err
	}
	snap.Users = make([]SnapshotUser, 0, len(userRows))
	for _, u := range userRows {
		snap.Users = append(snap.Users, toSnapshotUser(u))
	}
	if snap.Settings, err = database.Get[models.Settings](db, "config"); err != nil {
		return nil, err
	}
	return snap, nil
}

// Parse decodes raw snapshot bytes and validates the top-level shape:
// a timestamp must be present and products must be a list. Anything
// else fails with InvalidBackupFormatError before the store is touched.
func Parse(raw []byte) (*Snapshot, error) {
	var probe struct {
		Timestamp *string          `json:"timestamp"`
		Products  *json.RawMessage `json:"products"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, &InvalidBackupFormatError{Reason: "not a JSON object: " + err.Error()}
	}
	if probe.Timestamp == nil || *probe.Timestamp == "" {
		return nil, &InvalidBackupFormatError{Reason: "missing timestamp"}
	}
	if probe.Products == nil {
		return nil, &InvalidBackupFormatError{Reason: "missing products"}
	}
	var products []json.RawMessage
	if err := json.Unmarshal(*probe.Products, &products); err != nil {
		return nil, &InvalidBackupFormatError{Reason: "products is not a list"}
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, &InvalidBackupFormatError{Reason: err.Error()}
	}
	return &snap, nil
}

// Restore destructively replaces every collection's contents with the
// snapshot's, all inside one transaction.
func Restore(db *gorm.DB, snap *Snapshot) error {
	return database.RunTransaction(db, func(tx *gorm.DB) error {
		for _, model := range []any{
			&models.UnitConversion{}, &models.Product{}, &models.Customer{},
			&models.Sale{}, &models.SaleItem{}, &models.Debt{},
			&models.DebtPayment{}, &models.User{}, &models.Settings{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}

		// Creating a product also creates its nested conversions.
		for i := range snap.Products {
			if err := tx.Create(&snap.Products[i]).Error; err != nil {
				return err
			}
		}
		for i := range snap.Customers {
			if err := tx.Create(&snap.Customers[i]).Error; err != nil {
				return err
			}
		}
		for i := range snap.Sales {
			if err := tx.Create(&snap.Sales[i]).Error; err != nil {
				return err
			}
		}
		for i := range snap.SaleItems {
			if err := tx.Create(&snap.SaleItems[i]).Error; err != nil {
				return err
			}
		}
		for i := range snap.Debts {
			if err := tx.Create(&snap.Debts[i]).Error; err != nil {
				return err
			}
		}
		for i := range snap.DebtPayments {
			if err := tx.Create(&snap.DebtPayments[i]).Error; err != nil {
				return err
			}
		}
		for i := range snap.Users {
			user := fromSnapshotUser(snap.Users[i])
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
		}
		if snap.Settings != nil {
			snap.Settings.ID = "config"
			if err := tx.Create(snap.Settings).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
