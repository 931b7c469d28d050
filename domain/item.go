package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.items (
//     id            BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     user_id       BIGINT NOT NULL,
//     title         TEXT,
//     description   TEXT,
//     category      TEXT,
//     price         NUMERIC,
//     status        TEXT DEFAULT 'draft',
//     photos        JSONB,
//     seo_keywords  JSONB,
//     hashtags      JSONB,
//     search_terms  JSONB,
//     sold_at       TIMESTAMPTZ,
//     created_at    TIMESTAMPTZ DEFAULT NOW(),
//     updated_at    TIMESTAMPTZ DEFAULT NOW()
// );

const (
	ItemStatusDraft     = "draft"
	ItemStatusReady     = "ready"
	ItemStatusPublished = "published"
	ItemStatusScheduled = "scheduled"
	ItemStatusSold      = "sold"
)

type Item struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint64         `gorm:"column:user_id;not null;index" json:"user_id"`
	Title       string         `gorm:"column:title;type:text" json:"title"`
	Description string         `gorm:"column:description;type:text" json:"description"`
	Category    string         `gorm:"column:category;type:text" json:"category"`
	Price       float64        `gorm:"column:price;type:numeric" json:"price"`
	Status      string         `gorm:"column:status;default:draft" json:"status"`
	Photos      datatypes.JSON `gorm:"column:photos" json:"photos"`
	SEOKeywords datatypes.JSON `gorm:"column:seo_keywords" json:"seo_keywords"`
	Hashtags    datatypes.JSON `gorm:"column:hashtags" json:"hashtags"`
	SearchTerms datatypes.JSON `gorm:"column:search_terms" json:"search_terms"`
	SoldAt      *time.Time     `gorm:"column:sold_at" json:"sold_at,omitempty"`
	CreatedAt   time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

func (Item) TableName() string {
	return "items"
}

// ValidItemStatus reports whether s is a known listing status.
func ValidItemStatus(s string) bool {
	switch s {
	case ItemStatusDraft, ItemStatusReady, ItemStatusPublished, ItemStatusScheduled, ItemStatusSold:
		return true
	}
	return false
}
