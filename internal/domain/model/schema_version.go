package model

import "time"

// SchemaVersion marks a schema version applied to the database.
type SchemaVersion struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false" json:"version"`
	AppliedAt time.Time `gorm:"not null" json:"applied_at"`
}
