package provision

import (
	"context"
	"fmt"

	"github.com/eatwithme/etm-core/sdk/config"
	"github.com/eatwithme/etm-core/sdk/pkg/json"
	"github.com/eatwithme/etm-core/sdk/pkg/logger"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/credentials"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// adminModules are the dashboard areas the bootstrap admin can reach.
var adminModules = []string{"dashboard", "pos", "reports", "staff", "inventory", "menu", "tables"}

// SeedInput is what the seeder writes into a fresh tenant database.
type SeedInput struct {
	RestaurantID   string
	RestaurantName string
	AdminName      string
	Email          string
	Password       string // plaintext from signup, hashed before storage
	Country        string
	PlanID         string
}

// Seeder writes the initial data set into a provisioned tenant database.
type Seeder interface {
	Seed(ctx context.Context, creds credentials.Credentials, in SeedInput) error
}

// GormSeeder connects with the tenant's own role and inserts the bootstrap
// rows. Every insert is check-before-create so a re-run after a partial
// failure does not duplicate data.
type GormSeeder struct {
	cfg config.SeedConfig
}

func NewSeeder(cfg config.SeedConfig) *GormSeeder {
	return &GormSeeder{cfg: cfg}
}

func (s *GormSeeder) Seed(ctx context.Context, creds credentials.Credentials, in SeedInput) error {
	db, err := gorm.Open(postgres.Open(creds.DSN()), &gorm.Config{
		Logger: logger.NewGormLogger(logger.Logger, 3),
	})
	if err != nil {
		return fmt.Errorf("connect for seeding: %w", err)
	}
	defer closeDB(db)
	db = db.WithContext(ctx)

	role, err := s.seedAdminRole(db)
	if err != nil {
		return fmt.Errorf("seed admin role: %w", err)
	}
	if err := s.seedAdminStaff(db, role, in); err != nil {
		return fmt.Errorf("seed admin staff: %w", err)
	}
	if err := s.seedRestaurant(db, in); err != nil {
		return fmt.Errorf("seed restaurant settings: %w", err)
	}
	if err := s.seedCategories(db); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	if err := s.seedTables(db); err != nil {
		return fmt.Errorf("seed tables: %w", err)
	}

	logger.Infof("tenant %s: initial data seeded", in.RestaurantID)
	return nil
}

func (s *GormSeeder) seedAdminRole(db *gorm.DB) (*Role, error) {
	role := Role{
		Name:             "Admin",
		Permissions:      mustJSON([]string{"all_access"}),
		DashboardModules: mustJSON(adminModules),
	}
	if err := db.Where(Role{Name: "Admin"}).FirstOrCreate(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (s *GormSeeder) seedAdminStaff(db *gorm.DB, role *Role, in SeedInput) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	staff := Staff{
		Name:             in.AdminName,
		Email:            in.Email,
		Password:         string(hash),
		Phone:            "",
		Pin:              "0000",
		Permissions:      mustJSON([]string{"all_access"}),
		DashboardModules: mustJSON(adminModules),
		RoleID:           role.ID,
	}
	return db.Where(Staff{Email: in.Email}).FirstOrCreate(&staff).Error
}

func (s *GormSeeder) seedRestaurant(db *gorm.DB, in SeedInput) error {
	country := in.Country
	if country == "" {
		country = s.cfg.DefaultCountry
	}
	if country == "" {
		country = "India"
	}
	currency, symbol := currencyFor(country)

	restaurant := Restaurant{
		ID:             in.RestaurantID,
		Name:           in.RestaurantName,
		Country:        country,
		Currency:       currency,
		CurrencySymbol: symbol,
		Language:       "English",
		Theme:          "light",
		Notifications:  true,
		AutoBackup:     false,
		PlanID:         in.PlanID,
	}
	return db.Where(Restaurant{ID: in.RestaurantID}).FirstOrCreate(&restaurant).Error
}

func (s *GormSeeder) seedCategories(db *gorm.DB) error {
	for _, c := range defaultCategories() {
		category := c
		if err := db.Where(Category{Name: c.Name, Type: c.Type}).FirstOrCreate(&category).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *GormSeeder) seedTables(db *gorm.DB) error {
	count := s.cfg.DefaultTables
	if count <= 0 {
		count = 6
	}
	for _, t := range defaultTables(count) {
		table := t
		if err := db.Where(Table{Number: t.Number}).FirstOrCreate(&table).Error; err != nil {
			return err
		}
	}
	return nil
}

// currencyFor maps a signup country to its currency. Everything outside the
// explicitly supported countries falls back to INR.
func currencyFor(country string) (code, symbol string) {
	switch country {
	case "United States":
		return "USD", "$"
	case "United Kingdom":
		return "GBP", "£"
	default:
		return "INR", "₹"
	}
}

func defaultCategories() []Category {
	return []Category{
		{Name: "Starters", Color: "#F97316", Type: "menu"},
		{Name: "Main Course", Color: "#2563EB", Type: "menu"},
		{Name: "Desserts", Color: "#EC4899", Type: "menu"},
		{Name: "Beverages", Color: "#0EA5E9", Type: "menu"},
		{Name: "Utilities", Color: "#14B8A6", Type: "expense"},
		{Name: "Staff Salaries", Color: "#F59E0B", Type: "expense"},
	}
}

// defaultTables produces n starter tables, the first four seating 4 and the
// rest seating 6.
func defaultTables(n int) []Table {
	tables := make([]Table, 0, n)
	for i := 0; i < n; i++ {
		capacity := 4
		if i >= 4 {
			capacity = 6
		}
		tables = append(tables, Table{Number: i + 1, Capacity: capacity, Status: "FREE"})
	}
	return tables
}

func mustJSON(v interface{}) string {
	s, err := json.MarshalToString(v)
	if err != nil {
		return "[]"
	}
	return s
}
