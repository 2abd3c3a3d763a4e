package config

var TenantsConfig = new(Tenants)

// Tenants configures tenant identification and per-tenant database access.
// Defaults provide a baseline every tenant inherits; the credential provider
// fills in anything tenant-specific.
type Tenants struct {
	Enabled bool `mapstructure:"enabled"`

	// Resolver controls where the tenant id is read from on each request.
	Resolver Resolver `mapstructure:"resolver"`

	// CredentialSource selects the credential provider strategy:
	// "static" derives everything from Defaults, "registry" looks the tenant
	// up in the control plane. A deployment-time choice, never hard-coded.
	CredentialSource string `mapstructure:"credentialSource"`

	Defaults DatabaseDefaults `mapstructure:"defaults"`
}

// Resolver holds the request fields consulted for the tenant id.
// Precedence is fixed: body field, then header, then query parameter.
type Resolver struct {
	BodyField  string `mapstructure:"bodyField"`  // JSON body field, highest precedence
	HeaderName string `mapstructure:"headerName"` // request header
	QueryParam string `mapstructure:"queryParam"` // query parameter, lowest precedence
}

// DatabaseDefaults is the shared baseline for tenant database connections.
type DatabaseDefaults struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	DBNamePrefix string `mapstructure:"dbNamePrefix"` // database name = prefix + tenant id
	SSLMode      string `mapstructure:"sslMode"`

	MaxOpenConns    int `mapstructure:"maxOpenConns"`
	MaxIdleConns    int `mapstructure:"maxIdleConns"`
	ConnMaxLifeTime int `mapstructure:"connMaxLifeTime"` // seconds
	ConnMaxIdleTime int `mapstructure:"connMaxIdleTime"` // seconds

	ConnectTimeout int `mapstructure:"connectTimeout"` // seconds per pool creation attempt
	ValidateEvery  int `mapstructure:"validateEvery"`  // seconds a health check stays fresh
	EvictGrace     int `mapstructure:"evictGrace"`     // seconds before an evicted pool is closed
}

// Example:
/*
tenants:
  enabled: true

  resolver:
    bodyField: "restaurantId"
    headerName: "X-Restaurant-ID"
    queryParam: "restaurantId"

  credentialSource: "static"  # static | registry

  defaults:
    host: "tenant-db.internal"
    port: 5432
    username: "etm_app"
    password: ""              # injected via TENANTS_DEFAULTS_PASSWORD
    dbNamePrefix: "tenant_"
    sslMode: "require"
    maxOpenConns: 10
    maxIdleConns: 5
    connMaxLifeTime: 3600
    connMaxIdleTime: 600
    connectTimeout: 5
    validateEvery: 30
    evictGrace: 10
*/
