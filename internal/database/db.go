package database

import (
	"log"
	"os"
	"time"

	"go-pos-local/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens (or creates) the local database file and prepares the
// schema. The whole store lives in one sqlite file next to the binary,
// so the app keeps working with no server and no network.
func Connect() {
	path := os.Getenv("POS_DB_PATH")
	if path == "" {
		path = "localpos.db"
	}

	var err error
	DB, err = Open(path)
	if err != nil {
		log.Fatal("❌ Failed to open local database:", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("❌ Failed to sync schema:", err)
	}
	log.Println("✅ Database Schema Synced!")

	if err := Seed(DB); err != nil {
		log.Fatal("❌ Failed to seed database:", err)
	}
}

// Open connects gorm to a sqlite file (or ":memory:" in tests).
func Open(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
}

// Migrate creates every collection and its lookup indexes.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.UnitConversion{},
		&models.Customer{},
		&models.Sale{},
		&models.SaleItem{},
		&models.Debt{},
		&models.DebtPayment{},
		&models.Settings{},
	)
}

// Seed creates the first admin account and the settings singleton on a
// brand new store. Safe to call on every startup: it checks for
// existing rows first and touches nothing on a populated database.
func Seed(db *gorm.DB) error {
	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount == 0 {
		password := os.Getenv("POS_ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := models.User{
			ID:           uuid.NewString(),
			Username:     "admin",
			PasswordHash: string(hash),
			Role:         "admin",
			CreatedAt:    time.Now().Format(time.RFC3339),
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
		log.Println("✅ Seeded initial admin user")
	}

	var settingsCount int64
	if err := db.Model(&models.Settings{}).Count(&settingsCount).Error; err != nil {
		return err
	}
	if settingsCount == 0 {
		defaults := models.Settings{
			ID:                "config",
			StoreName:         "Toko Sembako Berkah",
			StoreAddress:      "Jl. Raya Makmur No. 12",
			StorePhone:        "08123456789",
			ReceiptFooterNote: "Terima kasih, datang kembali!",
		}
		if err := db.Create(&defaults).Error; err != nil {
			return err
		}
		log.Println("✅ Seeded default store settings")
	}

	return nil
}
