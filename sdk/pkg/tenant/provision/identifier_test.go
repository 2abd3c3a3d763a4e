package provision

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/eatwithme/etm-core/sdk/pkg/tenant/controlplane"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probeRegistry struct {
	takenFirst int // number of probes answered "taken" before reporting unique
	err        error
	probes     int
}

func (p *probeRegistry) GetByID(ctx context.Context, id string) (*controlplane.Tenant, error) {
	p.probes++
	if p.err != nil {
		return nil, p.err
	}
	if p.probes <= p.takenFirst {
		return &controlplane.Tenant{RestaurantID: id}, nil
	}
	return nil, controlplane.ErrNotFound
}

func (p *probeRegistry) FindByEmail(ctx context.Context, email string) (*controlplane.Tenant, error) {
	return nil, controlplane.ErrNotFound
}

func (p *probeRegistry) Create(ctx context.Context, t *controlplane.Tenant) (*controlplane.Tenant, error) {
	return t, nil
}

func (p *probeRegistry) Delete(ctx context.Context, id string) error { return nil }

func TestIdentifier_SevenDigits(t *testing.T) {
	g := NewIdentifierGenerator(&probeRegistry{}, 7, 5)
	sevenDigits := regexp.MustCompile(`^[1-9]\d{6}$`)

	for i := 0; i < 50; i++ {
		id, err := g.Generate(context.Background())
		require.NoError(t, err)
		assert.Regexp(t, sevenDigits, id)
	}
}

func TestIdentifier_RetriesOnCollision(t *testing.T) {
	reg := &probeRegistry{takenFirst: 2}
	g := NewIdentifierGenerator(reg, 7, 5)

	id, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 3, reg.probes)
}

func TestIdentifier_Exhausted(t *testing.T) {
	reg := &probeRegistry{takenFirst: 100}
	g := NewIdentifierGenerator(reg, 7, 4)

	_, err := g.Generate(context.Background())
	assert.ErrorIs(t, err, ErrIdentifierExhausted)
	assert.Equal(t, 4, reg.probes)
}

func TestIdentifier_UnreachableControlPlane(t *testing.T) {
	reg := &probeRegistry{err: controlplane.ErrUnavailable}
	g := NewIdentifierGenerator(reg, 7, 5)

	_, err := g.Generate(context.Background())
	assert.ErrorIs(t, err, controlplane.ErrUnavailable)
	assert.Equal(t, 1, reg.probes, "must not keep probing an unreachable registry")
}

func TestIdentifier_DefaultsApplied(t *testing.T) {
	g := NewIdentifierGenerator(&probeRegistry{}, 0, 0)
	assert.Equal(t, DefaultIdentifierLength, g.length)
	assert.Equal(t, DefaultIdentifierAttempts, g.attempts)
}

func TestIdentifier_WrappedUnavailable(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")
	reg := &probeRegistry{err: cause}
	g := NewIdentifierGenerator(reg, 7, 5)

	_, err := g.Generate(context.Background())
	assert.ErrorIs(t, err, cause)
}
