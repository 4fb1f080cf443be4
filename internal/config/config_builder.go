package config

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"slices"

	"dario.cat/mergo"
)

// Source priorities. Higher values override lower ones on merge.
const (
	priorityDefaults = iota
	priorityJSON
	priorityEnv
	priorityFlags
)

type layer struct {
	priority int
	cfg      *StructuredConfig
}

type configBuilder struct {
	layers []layer
	err    error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		layers: make([]layer, 0, 4),
	}
}

func (b *configBuilder) add(priority int, cfg *StructuredConfig) {
	b.layers = append(b.layers, layer{priority: priority, cfg: cfg})
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occurred during building config: %w", b.err)
	}

	ordered := slices.Clone(b.layers)
	slices.SortStableFunc(ordered, func(a, c layer) int {
		return cmp.Compare(a.priority, c.priority)
	})

	config := new(StructuredConfig)
	for _, l := range ordered {
		if err := mergo.Merge(config, l.cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (b *configBuilder) withDefaults() *configBuilder {
	b.add(priorityDefaults, Defaults())
	return b
}

func (b *configBuilder) withFlags(args []string) *configBuilder {
	flagsCfg, err := parseFlags(args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.add(priorityFlags, flagsCfg)
	return b
}

// withEnv loads the .env file named by a flag or by ENV_FILE, then parses the
// process environment.
func (b *configBuilder) withEnv() *configBuilder {
	envFile := b.lookup(func(cfg *StructuredConfig) string { return cfg.EnvFilePath })
	if envFile == "" {
		envFile = os.Getenv("ENV_FILE")
	}

	if err := loadEnvFile(envFile); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.add(priorityEnv, envCfg)
	return b
}

// withJSON parses the JSON file named by the highest priority source that
// set one. Without a path it is a no-op.
func (b *configBuilder) withJSON() *configBuilder {
	if b.err != nil {
		return b
	}

	jsonPath := b.lookup(func(cfg *StructuredConfig) string { return cfg.JSONFilePath })
	if jsonPath == "" {
		return b
	}

	jsonCfg, err := parseJSON(jsonPath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.add(priorityJSON, jsonCfg)
	return b
}

// lookup returns the value picked by get from the highest priority layer
// where it is non-empty.
func (b *configBuilder) lookup(get func(*StructuredConfig) string) string {
	value, best := "", -1
	for _, l := range b.layers {
		if v := get(l.cfg); v != "" && l.priority > best {
			value, best = v, l.priority
		}
	}
	return value
}
