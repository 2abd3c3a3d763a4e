package migration

import "time"

// Migration records an applied schema version inside the tenant database.
type Migration struct {
	Version   string    `gorm:"primaryKey;size:64"`
	ApplyTime time.Time `gorm:"autoCreateTime"`
}

func (Migration) TableName() string {
	return "schema_migrations"
}
