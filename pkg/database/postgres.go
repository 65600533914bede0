package database

import (
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options describes how to reach Postgres. DSN wins over the discrete fields.
type Options struct {
	DSN      string
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	TimeZone string
	Debug    bool
}

// BuildDSN returns the connection string for o.
func (o Options) BuildDSN() string {
	if o.DSN != "" {
		return o.DSN
	}
	tz := o.TimeZone
	if tz == "" {
		tz = "UTC"
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		o.Host, o.User, o.Password, o.Name, o.Port, tz,
	)
}

// NewGormLogger routes GORM output through logrus.
func NewGormLogger(debug bool) logger.Interface {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return logger.New(
		log.New(logrus.StandardLogger().Writer(), "", 0),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func Connect(opts Options) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  opts.BuildDSN(),
		PreferSimpleProtocol: true, // Disables implicit prepared statements for pooled (transaction mode) proxies
	}), &gorm.Config{
		Logger:         NewGormLogger(opts.Debug),
		PrepareStmt:    false,
		TranslateError: true, // unique violations surface as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	// Connection Pooling Setup
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logrus.Info("Database connection established")
	return db, nil
}
