package config

// Database is the privileged root ("master") PostgreSQL connection used by the
// provisioning lifecycle. It is a separately pooled resource and is never
// handed to tenant-facing code paths.
type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	ConnMaxIdleTime int    `mapstructure:"connMaxIdleTime"`
	ConnMaxLifeTime int    `mapstructure:"connMaxLifeTime"`
	MaxIdleConns    int    `mapstructure:"maxIdleConns"`
	MaxOpenConns    int    `mapstructure:"maxOpenConns"`
}

var DatabaseConfig = new(Database)
