package migrations

import (
	"gorm.io/gorm"
)

const (
	DefaultPlatformColor    = "#6B7280"
	trading212PlatformName  = "Trading 212"
	trading212PlatformColor = "#3B82F6"

	originBackend = "backend"
	originImport  = "import"
)

// backfillPlatformColors gives every platform without a color one, using the
// brokerage color for the imported platform.
func backfillPlatformColors(db *gorm.DB) error {
	if err := db.Table("platforms").
		Where("name = ? AND (color_hex IS NULL OR color_hex = '')", trading212PlatformName).
		Update("color_hex", trading212PlatformColor).Error; err != nil {
		return err
	}
	return db.Table("platforms").
		Where("color_hex IS NULL OR color_hex = ''").
		Update("color_hex", DefaultPlatformColor).Error
}

// backfillAmountSpent fills the explicit cost of positions stored before it
// was tracked with shares times average price.
func backfillAmountSpent(db *gorm.DB) error {
	return db.Table("positions").
		Where("amount_spent IS NULL").
		Update("amount_spent", gorm.Expr("shares * average_price")).Error
}

// backfillPlatformOrigin tags platforms saved before origins were tracked.
// The brokerage platform is the only one that never came from the backend.
func backfillPlatformOrigin(db *gorm.DB) error {
	if err := db.Table("platforms").
		Where("name = ? AND (origin IS NULL OR origin = '')", trading212PlatformName).
		Update("origin", originImport).Error; err != nil {
		return err
	}
	return db.Table("platforms").
		Where("origin IS NULL OR origin = ''").
		Update("origin", originBackend).Error
}
