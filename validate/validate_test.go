package validate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgavlin/wasm-opt/internal/testmodule"
)

func TestModule(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, Module(ctx, testmodule.Binary(), FeaturesDefault))
	require.NoError(t, Module(ctx, testmodule.Binary(), FeaturesMVP))
	require.NoError(t, Module(ctx, testmodule.Binary(), FeaturesAll))
}

func TestModuleInvalid(t *testing.T) {
	ctx := context.Background()

	assert.Error(t, Module(ctx, []byte("not a module"), FeaturesDefault))

	// A function section with a type index that has no type.
	raw := []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		0x03, 0x02, 0x01, 0x07,
	}
	assert.Error(t, Module(ctx, raw, FeaturesDefault))
}
