package config

var ProvisionConfig = new(Provision)

// Provision configures the tenant provisioning lifecycle.
type Provision struct {
	// ControlPlane is the central tenant registry (admin backend).
	ControlPlane ControlPlane `mapstructure:"controlPlane"`

	// IdentifierLength is the number of digits in generated restaurant ids.
	IdentifierLength int `mapstructure:"identifierLength"`
	// IdentifierAttempts caps uniqueness retries before giving up.
	IdentifierAttempts int `mapstructure:"identifierAttempts"`

	Migration MigrationConfig `mapstructure:"migration"`
	Seed      SeedConfig      `mapstructure:"seed"`
}

// ControlPlane locates the admin backend tenant registry API.
type ControlPlane struct {
	BaseURL string `mapstructure:"baseURL"`
	Timeout int    `mapstructure:"timeout"` // seconds per request
	// EncryptionKey decrypts passwords stored at rest in the registry.
	// 32 bytes for AES-256-GCM; empty means passwords are stored plaintext.
	EncryptionKey string `mapstructure:"encryptionKey"`
}

// MigrationConfig controls how the tenant schema is applied.
// When Command is set it is executed with DATABASE_URL pointing at the new
// tenant database; otherwise SQLFiles are applied over a direct connection.
type MigrationConfig struct {
	Command  []string `mapstructure:"command"`
	SQLFiles []string `mapstructure:"sqlFiles"`
	Timeout  int      `mapstructure:"timeout"` // seconds
}

// SeedConfig holds defaults written into a freshly provisioned tenant.
type SeedConfig struct {
	DefaultCountry string `mapstructure:"defaultCountry"`
	DefaultTables  int    `mapstructure:"defaultTables"`
}

// Example:
/*
provision:
  controlPlane:
    baseURL: "https://admin.easytomanage.xyz"
    timeout: 10
  identifierLength: 7
  identifierAttempts: 5
  migration:
    command: ["npx", "prisma", "migrate", "deploy", "--schema=./prisma/schema.prisma"]
    timeout: 120
  seed:
    defaultCountry: "India"
    defaultTables: 6
*/
