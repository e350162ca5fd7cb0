package gorm

import (
	"time"

	"gorm.io/datatypes"
)

// Listing is the local mirror of one upstream Guesty listing
type Listing struct {
	ID           string   `gorm:"column:id;primaryKey;type:varchar(64)"`
	Title        *string  `gorm:"column:title;type:text"`
	Address      *string  `gorm:"column:address;type:text"`
	Bedrooms     *int     `gorm:"column:bedrooms"`
	Bathrooms    *float64 `gorm:"column:bathrooms"`
	MaxGuests    *int     `gorm:"column:max_guests"`
	SquareMeters *float64 `gorm:"column:square_meters"`
	PropertyType *string  `gorm:"column:property_type;type:varchar(100)"`
	Status       *string  `gorm:"column:status;type:varchar(50)"`

	ThumbnailURL *string        `gorm:"column:thumbnail_url;type:text"`
	HighresURL   *string        `gorm:"column:highres_url;type:text"`
	Images       datatypes.JSON `gorm:"column:images"`

	// Full upstream payload, kept verbatim
	RawData datatypes.JSONMap `gorm:"column:raw_data"`

	SyncStatus    string    `gorm:"column:sync_status;type:varchar(20);not null;default:active;index"`
	IsDeleted     bool      `gorm:"column:is_deleted;not null;default:false"`
	FirstSyncedAt time.Time `gorm:"column:first_synced_at;not null"`
	LastSynced    time.Time `gorm:"column:last_synced;not null"`
}

// TableName specifies the table name for GORM
func (Listing) TableName() string {
	return "listings"
}
