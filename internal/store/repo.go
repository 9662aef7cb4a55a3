package store

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/scottpeterman/termtelent-sub002/internal/exception"
	"github.com/scottpeterman/termtelent-sub002/internal/topology"
)

// SqliteRepo is our inventory repo implementation for sqlite
type SqliteRepo struct {
	db *gorm.DB
}

// NewSqliteRepo opens the inventory database at dbFile, migrating the
// schema as needed
func NewSqliteRepo(dbFile string) (*SqliteRepo, error) {
	db, err := gorm.Open(sqlite.Open(dbFile), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})

	if err != nil {
		return nil, errors.Wrap(err, "failed to open inventory database")
	}

	if err := db.AutoMigrate(&DeviceRecord{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate inventory schema")
	}

	return &SqliteRepo{db: db}, nil
}

// Upsert inserts or replaces the record for a hostname
func (r *SqliteRepo) Upsert(record *DeviceRecord) error {
	if record.Hostname == "" {
		return errors.New("hostname cannot be empty")
	}

	record.LastSeen = time.Now()

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hostname"}},
		UpdateAll: true,
	}).Create(record)

	return result.Error
}

// Get returns the record for a hostname
func (r *SqliteRepo) Get(hostname string) (*DeviceRecord, error) {
	record := DeviceRecord{}

	result := r.db.First(&record, "hostname = ?", hostname)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, exception.ErrRecordNotFound
		}

		return nil, result.Error
	}

	return &record, nil
}

// GetAll returns every record in the inventory
func (r *SqliteRepo) GetAll() ([]*DeviceRecord, error) {
	records := []*DeviceRecord{}

	if result := r.db.Find(&records); result.Error != nil {
		return nil, result.Error
	}

	return records, nil
}

// RecordFromDevice converts a crawl result device into its persisted
// form. A marshal failure leaves connections empty rather than failing
// the run.
func RecordFromDevice(device *topology.Device) *DeviceRecord {
	record := &DeviceRecord{
		Hostname: device.Hostname,
		IP:       device.IP,
		Platform: device.Platform,
		Serial:   device.Serial,
	}

	if data, err := json.Marshal(device.Connections); err == nil {
		record.Connections = datatypes.JSON(data)
	}

	return record
}
