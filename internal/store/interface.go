package store

import (
	"time"

	"gorm.io/datatypes"
)

//go:generate mockgen -destination=../mock/store/mock_store.go -package=mock_store . Repo

// DeviceRecord is one discovered device persisted to the inventory
// database. Connections holds the device's adjacency as json.
type DeviceRecord struct {
	Hostname    string         `gorm:"primaryKey"`
	IP          string         `gorm:"index"`
	Platform    string
	Serial      string
	Connections datatypes.JSON
	LastSeen    time.Time
}

// Repo interface representing access to the device inventory
type Repo interface {
	Upsert(record *DeviceRecord) error
	Get(hostname string) (*DeviceRecord, error)
	GetAll() ([]*DeviceRecord, error)
}
