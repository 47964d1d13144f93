// Package validate checks that a binary module is well-formed by compiling it
// with wazero. The optimizer runs it on its own output before writing, so a
// broken pass can never produce a module no runtime will accept.
package validate

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// Features selects the WebAssembly feature set modules are validated against.
type Features int

const (
	// FeaturesDefault validates against the runtime's default feature set.
	FeaturesDefault Features = iota
	// FeaturesMVP restricts validation to WebAssembly 1.0.
	FeaturesMVP
	// FeaturesAll enables every feature the runtime supports.
	FeaturesAll
)

func (f Features) core() api.CoreFeatures {
	if f == FeaturesMVP {
		return api.CoreFeaturesV1
	}
	return api.CoreFeaturesV2
}

// Module compiles raw and reports any validation failure.
func Module(ctx context.Context, raw []byte, features Features) error {
	cfg := wazero.NewRuntimeConfigInterpreter().WithCoreFeatures(features.core())
	r := wazero.NewRuntimeWithConfig(ctx, cfg)
	defer r.Close(ctx)

	cm, err := r.CompileModule(ctx, raw)
	if err != nil {
		return fmt.Errorf("validating module: %w", err)
	}
	return cm.Close(ctx)
}
