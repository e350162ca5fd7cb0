package gorm

import "time"

// SyncLogEntry is the append-only outcome row written once per sync run
type SyncLogEntry struct {
	ID         string    `gorm:"column:id;primaryKey;type:varchar(36)" db:"id"`
	Service    string    `gorm:"column:service;type:varchar(50);not null" db:"service"`
	SyncType   string    `gorm:"column:sync_type;type:varchar(50);not null" db:"sync_type"`
	Status     string    `gorm:"column:status;type:varchar(20);not null" db:"status"`
	Message    string    `gorm:"column:message;type:text" db:"message"`
	StartTime  time.Time `gorm:"column:start_time;not null" db:"start_time"`
	EndTime    time.Time `gorm:"column:end_time;not null" db:"end_time"`
	ItemsCount int       `gorm:"column:items_count;not null;default:0" db:"items_count"`
}

// TableName specifies the table name for GORM
func (SyncLogEntry) TableName() string {
	return "sync_logs"
}
