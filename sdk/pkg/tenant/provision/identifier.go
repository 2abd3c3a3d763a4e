package provision

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/eatwithme/etm-core/sdk/pkg/tenant/controlplane"
)

const (
	DefaultIdentifierLength   = 7
	DefaultIdentifierAttempts = 5
)

// Registry is the control-plane surface provisioning needs. Satisfied by
// *controlplane.Client.
type Registry interface {
	GetByID(ctx context.Context, restaurantID string) (*controlplane.Tenant, error)
	FindByEmail(ctx context.Context, email string) (*controlplane.Tenant, error)
	Create(ctx context.Context, t *controlplane.Tenant) (*controlplane.Tenant, error)
	Delete(ctx context.Context, restaurantID string) error
}

// IdentifierGenerator produces restaurant ids that are unused in the control
// plane: fixed-length random digits, probed for uniqueness.
type IdentifierGenerator struct {
	registry Registry
	length   int
	attempts int
}

func NewIdentifierGenerator(registry Registry, length, attempts int) *IdentifierGenerator {
	if length <= 0 {
		length = DefaultIdentifierLength
	}
	if attempts <= 0 {
		attempts = DefaultIdentifierAttempts
	}
	return &IdentifierGenerator{registry: registry, length: length, attempts: attempts}
}

// Generate returns an id the control plane does not know. An unreachable
// control plane fails the call rather than risking a collision.
func (g *IdentifierGenerator) Generate(ctx context.Context) (string, error) {
	for i := 0; i < g.attempts; i++ {
		id := g.random()
		_, err := g.registry.GetByID(ctx, id)
		switch {
		case errors.Is(err, controlplane.ErrNotFound):
			return id, nil
		case err != nil:
			return "", err
		default:
			// taken, try again
		}
	}
	return "", ErrIdentifierExhausted
}

func (g *IdentifierGenerator) random() string {
	low := 1
	for i := 1; i < g.length; i++ {
		low *= 10
	}
	return fmt.Sprintf("%d", low+rand.Intn(9*low))
}
