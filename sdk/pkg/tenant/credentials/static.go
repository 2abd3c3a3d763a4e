package credentials

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cast"

	"github.com/eatwithme/etm-core/sdk/config"
)

// StaticProvider derives tenant credentials deterministically: the database
// name is DBNamePrefix + tenantID and host/port/user/password come from the
// shared defaults. Per-tenant environment overrides (TENANT_DB_HOST_<id> and
// friends) take precedence when present, which is how development
// deployments point individual restaurants at local databases.
type StaticProvider struct {
	Host         string
	Port         int
	Username     string
	Password     string
	DBNamePrefix string
	SSLMode      string
}

// NewStaticProvider builds the provider from the tenant defaults config.
func NewStaticProvider(d config.DatabaseDefaults) *StaticProvider {
	prefix := d.DBNamePrefix
	if prefix == "" {
		prefix = "tenant_"
	}
	return &StaticProvider{
		Host:         d.Host,
		Port:         d.Port,
		Username:     d.Username,
		Password:     d.Password,
		DBNamePrefix: prefix,
		SSLMode:      d.SSLMode,
	}
}

func (p *StaticProvider) Resolve(_ context.Context, tenantID string) (Credentials, error) {
	if tenantID == "" {
		return Credentials{}, ErrInvalidTenantID
	}

	creds := Credentials{
		Host:     p.Host,
		Port:     p.Port,
		Username: p.Username,
		Password: p.Password,
		DBName:   p.DBNamePrefix + tenantID,
		SSLMode:  p.SSLMode,
	}

	// per-tenant environment overrides
	if host := os.Getenv("TENANT_DB_HOST_" + tenantID); host != "" {
		creds.Host = host
		if port := os.Getenv("TENANT_DB_PORT_" + tenantID); port != "" {
			if n, err := strconv.Atoi(port); err == nil {
				creds.Port = n
			}
		}
		if user := os.Getenv("TENANT_DB_USER_" + tenantID); user != "" {
			creds.Username = user
		}
		if pass := os.Getenv("TENANT_DB_PASSWORD_" + tenantID); pass != "" {
			creds.Password = pass
		}
	}
	if creds.Port == 0 {
		creds.Port = cast.ToInt(os.Getenv("TENANT_DB_PORT"))
		if creds.Port == 0 {
			creds.Port = 5432
		}
	}

	if err := creds.Validate(); err != nil {
		return Credentials{}, fmt.Errorf("static credentials for tenant %s: %w", tenantID, err)
	}
	return creds, nil
}
