package provision

import "time"

// Seed-time models for a tenant database. They mirror the slice of the
// tenant schema the bootstrap writes to; the full schema comes from
// migrations.

type Role struct {
	ID               uint   `gorm:"primaryKey"`
	Name             string `gorm:"size:64;uniqueIndex"`
	Permissions      string `gorm:"type:text"` // JSON-encoded list
	DashboardModules string `gorm:"type:text"` // JSON-encoded list
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Role) TableName() string { return "roles" }

type Staff struct {
	ID               uint   `gorm:"primaryKey"`
	Name             string `gorm:"size:128"`
	Email            string `gorm:"size:255;uniqueIndex"`
	Password         string `gorm:"size:255"` // bcrypt hash
	Phone            string `gorm:"size:32"`
	Pin              string `gorm:"size:8"`
	Permissions      string `gorm:"type:text"`
	DashboardModules string `gorm:"type:text"`
	RoleID           uint
	Role             Role
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Staff) TableName() string { return "staff" }

type Restaurant struct {
	ID             string `gorm:"primaryKey;size:16"`
	Name           string `gorm:"size:255"`
	Country        string `gorm:"size:64"`
	Currency       string `gorm:"size:8"`
	CurrencySymbol string `gorm:"size:8"`
	Language       string `gorm:"size:32"`
	Theme          string `gorm:"size:16"`
	Notifications  bool
	AutoBackup     bool
	PlanID         string `gorm:"size:64"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Restaurant) TableName() string { return "restaurants" }

type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:128"`
	Color     string `gorm:"size:16"`
	Type      string `gorm:"size:16"` // menu | expense
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Category) TableName() string { return "categories" }

type Table struct {
	ID        uint `gorm:"primaryKey"`
	Number    int  `gorm:"uniqueIndex"`
	Capacity  int
	Status    string `gorm:"size:16"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Table) TableName() string { return "tables" }
