package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	BundleStatusActive    = "active"
	BundleStatusDissolved = "dissolved"
)

// BundleDiscountPercentage is the fixed discount applied to the sum of
// member prices when a bundle is created.
const BundleDiscountPercentage = 15.0

// CREATE TABLE public.bundles (
//     id                    TEXT PRIMARY KEY,
//     user_id               BIGINT NOT NULL,
//     name                  TEXT,
//     description           TEXT,
//     price                 NUMERIC,
//     original_total_price  NUMERIC,
//     discount_percentage   NUMERIC,
//     cover_photo           TEXT,
//     photos                JSONB,
//     seo_keywords          JSONB,
//     hashtags              JSONB,
//     search_terms          JSONB,
//     status                TEXT NOT NULL DEFAULT 'active',
//     created_at            TIMESTAMPTZ DEFAULT NOW(),
//     updated_at            TIMESTAMPTZ DEFAULT NOW()
// );

type Bundle struct {
	ID                 string         `gorm:"primaryKey" json:"id"`
	UserID             uint64         `gorm:"column:user_id;not null;index" json:"user_id"`
	Name               string         `gorm:"column:name;type:text" json:"name"`
	Description        string         `gorm:"column:description;type:text" json:"description"`
	Price              float64        `gorm:"column:price;type:numeric" json:"price"`
	OriginalTotalPrice float64        `gorm:"column:original_total_price;type:numeric" json:"original_total_price"`
	DiscountPercentage float64        `gorm:"column:discount_percentage;type:numeric" json:"discount_percentage"`
	CoverPhoto         string         `gorm:"column:cover_photo;type:text" json:"cover_photo"`
	Photos             datatypes.JSON `gorm:"column:photos" json:"photos"`
	SEOKeywords        datatypes.JSON `gorm:"column:seo_keywords" json:"seo_keywords"`
	Hashtags           datatypes.JSON `gorm:"column:hashtags" json:"hashtags"`
	SearchTerms        datatypes.JSON `gorm:"column:search_terms" json:"search_terms"`
	Status             string         `gorm:"column:status;not null;default:active" json:"status"`
	CreatedAt          time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

func (Bundle) TableName() string {
	return "bundles"
}

// BundleItem links one inventory item to one bundle. Rows are written
// only after the bundle row itself has committed.
type BundleItem struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	BundleID string `gorm:"column:bundle_id;not null;index" json:"bundle_id"`
	ItemID   uint64 `gorm:"column:item_id;not null;index" json:"item_id"`
}

func (BundleItem) TableName() string {
	return "bundle_items"
}
