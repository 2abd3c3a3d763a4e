package runtime

import (
	"fmt"
	"time"

	"github.com/eatwithme/etm-core/sdk/config"
	"github.com/eatwithme/etm-core/sdk/pkg/crypto"
	"github.com/eatwithme/etm-core/sdk/pkg/logger"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/cache"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/connection"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/controlplane"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/credentials"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/provision"
)

// Bootstrap wires a full application from the loaded configuration: credential
// provider per the configured strategy, connection cache, resolver, root
// connection and provisioning manager.
func Bootstrap() (*Application, error) {
	app := NewConfig()
	app.SetLogger(logger.Logger)

	tenantsCfg := config.TenantsConfig
	provisionCfg := config.ProvisionConfig

	registry := controlplane.NewClient(
		provisionCfg.ControlPlane.BaseURL,
		time.Duration(provisionCfg.ControlPlane.Timeout)*time.Second,
	)

	provider, err := buildProvider(tenantsCfg, provisionCfg, registry)
	if err != nil {
		return nil, err
	}
	app.SetCredentialProvider(provider)

	opener := connection.NewGormOpener(tenantsCfg.Defaults)
	connCache := connection.NewCache(opener, connection.OptionsFrom(tenantsCfg.Defaults))
	app.SetConnectionCache(connCache)
	app.SetTenantResolver(tenant.NewResolver(provider, connCache))

	rootDB, err := provision.OpenRoot(*config.DatabaseConfig)
	if err != nil {
		return nil, fmt.Errorf("bootstrap master connection: %w", err)
	}
	app.SetRootDB(rootDB)

	migrator, err := provision.NewMigrator(provisionCfg.Migration)
	if err != nil {
		return nil, err
	}
	app.SetProvisionManager(provision.NewManager(
		registry,
		provision.NewRootDB(rootDB),
		migrator,
		provision.NewSeeder(provisionCfg.Seed),
		provision.NewJWTIssuer(*config.JwtConfig),
		connCache,
		*provisionCfg,
		tenantsCfg.Defaults,
	))

	return app, nil
}

// buildProvider selects the credential strategy from configuration, always
// wrapped with the transient-error retry policy.
func buildProvider(tenantsCfg *config.Tenants, provisionCfg *config.Provision, registry *controlplane.Client) (credentials.Provider, error) {
	switch tenantsCfg.CredentialSource {
	case "", "static":
		return credentials.WithRetry(credentials.NewStaticProvider(tenantsCfg.Defaults)), nil

	case "registry":
		opts := []credentials.RegistryOption{
			credentials.WithFileCache(cache.NewFileCache()),
			credentials.WithDefaults(
				tenantsCfg.Defaults.Host,
				tenantsCfg.Defaults.Port,
				tenantsCfg.Defaults.SSLMode,
			),
		}
		if key := provisionCfg.ControlPlane.EncryptionKey; key != "" {
			cipher, err := crypto.NewCryptoService(key)
			if err != nil {
				return nil, fmt.Errorf("control plane encryption key: %w", err)
			}
			opts = append(opts, credentials.WithCipher(cipher))
		}
		provider := credentials.NewRegistryProvider(registry, credentials.EnvSecretStore{}, opts...)
		return credentials.WithRetry(provider), nil

	default:
		return nil, fmt.Errorf("unknown credentialSource %q", tenantsCfg.CredentialSource)
	}
}
