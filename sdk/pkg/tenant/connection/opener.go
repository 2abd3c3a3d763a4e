package connection

import (
	"context"
	"fmt"
	"time"

	"github.com/eatwithme/etm-core/sdk/config"
	"github.com/eatwithme/etm-core/sdk/pkg/logger"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/credentials"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// GormOpener opens tenant pools with gorm over the postgres driver, applying
// the shared pool limits from configuration.
type GormOpener struct {
	defaults config.DatabaseDefaults
}

func NewGormOpener(defaults config.DatabaseDefaults) *GormOpener {
	return &GormOpener{defaults: defaults}
}

func (o *GormOpener) Open(ctx context.Context, tenantID string, creds credentials.Credentials) (*gorm.DB, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(creds.DSN()), &gorm.Config{
		Logger: logger.NewGormLogger(logger.Logger, 3),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if o.defaults.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(o.defaults.MaxOpenConns)
	}
	if o.defaults.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(o.defaults.MaxIdleConns)
	}
	if o.defaults.ConnMaxLifeTime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(o.defaults.ConnMaxLifeTime) * time.Second)
	}
	if o.defaults.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(o.defaults.ConnMaxIdleTime) * time.Second)
	}

	if err := o.Validate(ctx, db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("tenant %s database unreachable: %w", tenantID, err)
	}
	return db, nil
}

// Validate runs a SELECT 1 round trip to confirm the pool is usable.
func (o *GormOpener) Validate(ctx context.Context, db *gorm.DB) error {
	var one int
	return db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error
}

func (o *GormOpener) Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
