package parse

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenDatabase opens the template database at dbFile
func OpenDatabase(dbFile string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbFile), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})

	if err != nil {
		return nil, errors.Wrap(err, "failed to open template database")
	}

	return db, nil
}

// SqliteRepo is our template repo implementation for sqlite
type SqliteRepo struct {
	db *gorm.DB
}

// NewSqliteRepo returns a template repo backed by the given db handle
func NewSqliteRepo(db *gorm.DB) *SqliteRepo {
	return &SqliteRepo{
		db: db,
	}
}

// FindTemplates returns templates whose cli_command matches every usable
// term of the hint. Hints are split on "_" after folding "-" to "_";
// terms shorter than three characters are ignored.
func (r *SqliteRepo) FindTemplates(hint string) ([]*Template, error) {
	templates := []*Template{}

	query := r.db.Model(&Template{})

	for _, term := range strings.Split(strings.ReplaceAll(hint, "-", "_"), "_") {
		if len(term) > 2 {
			query = query.Where("cli_command LIKE ?", "%"+term+"%")
		}
	}

	if result := query.Find(&templates); result.Error != nil {
		return nil, result.Error
	}

	return templates, nil
}
