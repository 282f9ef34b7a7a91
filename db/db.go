package db

import (
	"blog/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to MySQL when a DSN is configured and falls back to SQLite
// otherwise. TranslateError is enabled so that unique constraint violations
// surface as gorm.ErrDuplicatedKey regardless of the driver.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.MySQLDSN != "" {
		dialector = mysql.Open(cfg.MySQLDSN)
	} else {
		dialector = sqlite.Open(cfg.SQLiteFile)
	}
	return gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	})
}
