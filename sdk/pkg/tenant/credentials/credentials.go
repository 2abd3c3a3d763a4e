// Package credentials resolves a tenant id to database connection parameters.
//
// Two strategies exist, selected at deployment time:
//   - StaticProvider derives everything from shared configuration (database
//     name is a fixed function of the tenant id);
//   - RegistryProvider asks the control plane for per-tenant parameters and
//     optionally fetches the password from a secret store by reference.
//
// Passwords never appear in logs or error messages; use Redacted for any
// diagnostic output.
package credentials

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	// ErrInvalidTenantID rejects an absent or blank tenant id. Caller error,
	// never retried.
	ErrInvalidTenantID = errors.New("invalid tenant id")

	// ErrNotFound means the tenant is unknown to the credential source.
	ErrNotFound = errors.New("tenant credentials not found")

	// ErrUnavailable means the credential source could not be reached.
	// Transient; the retry wrapper only retries on this.
	ErrUnavailable = errors.New("credential source unavailable")
)

// Credentials are the connection parameters for one tenant database.
// Immutable once obtained.
type Credentials struct {
	Host     string
	Port     int
	Username string
	Password string
	DBName   string
	SSLMode  string
}

// Validate checks that every required field is present.
func (c Credentials) Validate() error {
	switch {
	case c.Host == "":
		return errors.New("credentials: host is required")
	case c.Port <= 0:
		return errors.New("credentials: port is required")
	case c.Username == "":
		return errors.New("credentials: username is required")
	case c.DBName == "":
		return errors.New("credentials: database name is required")
	}
	return nil
}

// DSN renders the keyword/value form the postgres driver accepts.
func (c Credentials) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.Host, c.Username, c.Password, c.DBName, c.Port, sslMode)
}

// URL renders the postgresql:// connection string with the password
// percent-encoded, for external tools such as the migration command.
func (c Credentials) URL() string {
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.DBName,
	}
	if c.SSLMode != "" {
		q := url.Values{}
		q.Set("sslmode", c.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Redacted is the only representation safe to log.
func (c Credentials) Redacted() string {
	return fmt.Sprintf("postgresql://%s:[REDACTED]@%s:%d/%s", c.Username, c.Host, c.Port, c.DBName)
}

// String redacts so accidental %v formatting cannot leak the password.
func (c Credentials) String() string {
	return c.Redacted()
}

// GoString redacts %#v formatting as well.
func (c Credentials) GoString() string {
	return c.Redacted()
}
