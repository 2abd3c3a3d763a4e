package config

// JWT signing settings for tokens issued at the end of tenant provisioning.
type JWT struct {
	Secret  string `mapstructure:"secret"`
	Timeout int    `mapstructure:"timeout"` // token lifetime in seconds
}

var JwtConfig = new(JWT)
