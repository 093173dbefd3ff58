package tmdb

import (
	"fmt"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/teamup-uiuc/teamup/pkg/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// SqliteMemoryDSN names a shared in-memory database. Connections opened with the same
// name see the same data.
func SqliteMemoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}

func MakeMySQLDSN(c config.Configer) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.GetKey("DB_USERNAME"),
		c.GetKey("DB_PASSWORD"),
		c.GetKeyWithDefault("DB_HOST", "127.0.0.1"),
		c.GetKeyWithDefault("DB_PORT", "3306"),
		c.GetKey("DB_DATABASE"))
}

// GormConfig is shared by every connection so driver errors such as unique key
// violations come back as gorm.ErrDuplicatedKey regardless of the driver.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		// Referential integrity is maintained by the matching service. Match requests
		// and comments keep their post_id after the post row is removed.
		DisableForeignKeyConstraintWhenMigrating: true,
	}
}

// Open connects to the database selected by DB_DRIVER (mysql by default).
func Open(c config.Configer) (*gorm.DB, error) {
	switch driver := strings.ToLower(c.GetKeyWithDefault("DB_DRIVER", DriverMySQL)); driver {
	case DriverMySQL:
		db, err := gorm.Open(mysql.Open(MakeMySQLDSN(c)), GormConfig())
		if err != nil {
			return nil, err
		}
		return db, configurePool(db, 100)

	case DriverSQLite:
		path, err := homedir.Expand(c.GetKeyWithDefault("SQLITE_PATH", "~/.teamup/teamup.db"))
		if err != nil {
			return nil, err
		}
		db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), GormConfig())
		if err != nil {
			return nil, err
		}
		// SQLite allows a single writer; one connection keeps transactions serialized.
		return db, configurePool(db, 1)

	default:
		return nil, errors.Errorf("unknown DB_DRIVER %q", driver)
	}
}

func configurePool(db *gorm.DB, maxOpen int) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(min(maxOpen, 10))
	sqlDB.SetConnMaxLifetime(time.Hour)
	return nil
}

const maxDBRetries = 5

// MustConnectToDB will attempt to connect to the database maxDBRetries times, sleeping
// 3 seconds between attempts. If it never succeeds it calls log.Fatalf().
func MustConnectToDB(c config.Configer) *gorm.DB {
	for retryCount := 1; ; retryCount++ {
		db, err := Open(c)
		switch {
		case err == nil:
			return db
		case retryCount >= maxDBRetries:
			log.Fatalf("Failed to open db (driver %s): %s", c.GetKeyWithDefault("DB_DRIVER", DriverMySQL), err)
		default:
			log.Warnf("Connecting to db failed (attempt %d of %d): %s", retryCount, maxDBRetries, err)
			time.Sleep(3 * time.Second)
		}
	}
}
