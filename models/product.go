package models

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a ghee product in the catalog.
// A DeliveryCharge of zero marks the product as free-delivery: any order
// containing such a product ships free.
type Product struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Grams          int       `gorm:"not null" json:"grams"`
	Liter          float64   `gorm:"not null" json:"liter"`
	Price          float64   `gorm:"not null" json:"price"`
	Description    string    `gorm:"not null" json:"description"`
	Image          string    `gorm:"not null" json:"image"`
	Badge          *string   `json:"badge"`
	DeliveryCharge float64   `gorm:"not null" json:"delivery_charge"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// HasFreeDelivery reports whether the product carries the free-delivery attribute
func (p *Product) HasFreeDelivery() bool {
	return p.DeliveryCharge == 0
}

func strPtr(s string) *string { return &s }

// SeedProducts inserts the initial product catalog if the table is empty
func SeedProducts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []Product{
		{
			Name:           "Pure Cow Ghee",
			Grams:          100,
			Liter:          0.1,
			Price:          120,
			Description:    "Pure cow ghee made from traditional bilona method. Perfect for small families or first-time buyers.",
			Image:          "/bottle-100g.svg",
			DeliveryCharge: 49,
		},
		{
			Name:           "Pure Cow Ghee",
			Grams:          250,
			Liter:          0.25,
			Price:          300,
			Description:    "Handcrafted pure cow ghee with rich aroma. Ideal for daily cooking and traditional recipes.",
			Image:          "/bottle-250g.svg",
			DeliveryCharge: 49,
		},
		{
			Name:           "Pure Cow Ghee",
			Grams:          500,
			Liter:          0.5,
			Price:          600,
			Description:    "Premium quality cow ghee. No preservatives, no chemicals. Traditional goodness in every spoon.",
			Image:          "/bottle-500g.svg",
			Badge:          strPtr("Popular"),
			DeliveryCharge: 49,
		},
		{
			Name:           "Pure Cow Ghee",
			Grams:          750,
			Liter:          0.75,
			Price:          900,
			Description:    "Authentic cow ghee prepared using age-old methods. Rich taste and maximum purity guaranteed.",
			Image:          "/bottle-750g.svg",
			DeliveryCharge: 49,
		},
		{
			Name:           "Pure Cow Ghee",
			Grams:          1000,
			Liter:          1,
			Price:          1200,
			Description:    "Best value 1 KG pack! Pure cow ghee with authentic granular texture. Free delivery included.",
			Image:          "/bottle-1kg.svg",
			Badge:          strPtr("Free Delivery"),
			DeliveryCharge: 0,
		},
		{
			Name:           "Premium Cow Ghee Pack",
			Grams:          2000,
			Liter:          2,
			Price:          2400,
			Description:    "Premium 2 KG family pack of pure cow ghee. Best value for regular use. Free delivery included.",
			Image:          "/bottle-2kg.svg",
			Badge:          strPtr("Premium Pack"),
			DeliveryCharge: 0,
		},
	}

	return db.Create(&products).Error
}
