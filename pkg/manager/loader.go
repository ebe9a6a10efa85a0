package manager

import (
	"fmt"

	"mercator-hq/saturn/pkg/bridge"
	"mercator-hq/saturn/pkg/engine"
)

// LoaderConfig configures policy loading.
type LoaderConfig struct {
	// Path is the legacy policy file to load.
	Path string

	// Limits are the engine bounds compiled policies must respect.
	Limits engine.Limits
}

// DefaultLoaderConfig returns the default loader configuration.
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		Limits: engine.DefaultLimits(),
	}
}

// Validate checks the configuration.
func (c LoaderConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("policy path must be set")
	}
	return c.Limits.Validate()
}

// LoadedPolicy pairs a compiled engine policy with the legacy document it
// was translated from. The document is needed again at evaluation time to
// flatten requests.
type LoadedPolicy struct {
	File   *bridge.PolicyFile
	Policy *engine.Policy
}

// Close releases the compiled policy.
func (lp *LoadedPolicy) Close() error {
	if lp == nil || lp.Policy == nil {
		return nil
	}
	return lp.Policy.Close()
}

// Load reads, translates, and compiles the configured policy file.
func Load(config LoaderConfig) (*LoadedPolicy, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("loader config: %w", err)
	}

	pf, err := bridge.LoadPolicyFile(config.Path)
	if err != nil {
		return nil, err
	}

	policy, err := bridge.Translate(pf, config.Limits)
	if err != nil {
		return nil, err
	}

	return &LoadedPolicy{File: pf, Policy: policy}, nil
}
