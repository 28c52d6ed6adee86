package entity

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// QRCode is a stored label render.
type QRCode struct {
	gorm.Model
	CodeID       string `gorm:"uniqueIndex"`
	TrackingCode string `gorm:"index"`
	Payload      string
	CacheKey     string
	FilePath     string
	Format       string
	Level        string
	Strategy     string
	Degraded     bool
	Monochrome   bool
	Width        int
	Warnings     pq.StringArray `gorm:"type:text[]"`
}
