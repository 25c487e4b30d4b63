package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&LedgerInfo{},
	&LedgerEntry{},
}

// LedgerInfo describes the store itself. One row is created on first setup.
type LedgerInfo struct {
	gorm.Model
	Namespace     string         `json:"namespace" gorm:"size:127"`
	SchemaVersion string         `json:"schemaVersion" gorm:"size:31"`
	Settings      datatypes.JSON `json:"settings"`
}

func (*LedgerInfo) TableName() string {
	return "ledger_infos"
}

// LedgerEntry is one key/value pair of one location.
type LedgerEntry struct {
	ID        uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	UpdatedAt time.Time `json:"updatedAt"`
	Location  string    `json:"location" gorm:"size:127;uniqueIndex:idx_ledger_location_key"`
	Key       string    `json:"key" gorm:"column:entry_key;size:255;uniqueIndex:idx_ledger_location_key"`
	Value     string    `json:"value" gorm:"column:entry_value;size:255"`
}

func (*LedgerEntry) TableName() string {
	return "ledger_entries"
}
