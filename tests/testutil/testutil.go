package testutil

import (
	"fmt"
	"os"
	"testing"

	"github.com/Amiththillenkery/ammafreshghee/config"
	"github.com/Amiththillenkery/ammafreshghee/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
// It will fail the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// MustSetTestEnvironment sets GO_ENV to test and fails if it cannot be set.
// Use this in TestMain or suite setup functions.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}

	if os.Getenv("GO_ENV") != "test" {
		t.Fatal("Failed to verify GO_ENV=test")
	}
}

// NewTestDB opens an isolated in-memory SQLite database migrated with the
// full schema and registers it as the active connection. Each test gets its
// own database keyed by the test name.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}, &models.KeepAlive{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	previous := config.GetDB()
	config.SetDB(db)
	t.Cleanup(func() { config.SetDB(previous) })

	return db
}

// NewTestConfig builds and registers a configuration suitable for tests:
// notifications off, sandbox payment credentials, a known admin key.
func NewTestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		DatabaseURL:        "sqlite://memory",
		Port:               "8080",
		GoEnv:              "test",
		AdminAPIKey:        "test-admin-key",
		PhonePeMerchantID:  "MERCHANT_TEST",
		PhonePeSaltKey:     "test-salt-key",
		PhonePeSaltIndex:   "1",
		PhonePeEnv:         "sandbox",
		NotificationMethod: "none",
		BusinessName:       "Amma Fresh",
	}

	previous := config.GetConfig()
	config.SetConfig(cfg)
	t.Cleanup(func() { config.SetConfig(previous) })

	return cfg
}

// SeedCatalog loads the standard product catalog into the test database
func SeedCatalog(t *testing.T, db *gorm.DB) []models.Product {
	t.Helper()

	if err := models.SeedProducts(db); err != nil {
		t.Fatalf("Failed to seed products: %v", err)
	}

	var products []models.Product
	if err := db.Order("grams ASC").Find(&products).Error; err != nil {
		t.Fatalf("Failed to load seeded products: %v", err)
	}
	return products
}
