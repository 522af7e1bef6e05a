package models

import "time"

// KeepAlive is a single-row counter the keep-alive service touches
// periodically so free-tier hosting doesn't idle the database.
type KeepAlive struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Count       int       `gorm:"not null;default:1" json:"count"`
	LastUpdated time.Time `gorm:"autoUpdateTime" json:"last_updated"`
}

// TableName specifies the table name for the KeepAlive model
func (KeepAlive) TableName() string {
	return "keep_alive"
}
