package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
	"github.com/MKhiriev/baas-sample/internal/logger"
)

// configBuilder collects configuration layers in precedence order. build
// merges them so that the first layer with a non-zero field wins.
type configBuilder struct {
	src     Sources
	configs []*StructuredConfig
	err     error
	logger  *logger.Logger
}

func newConfigBuilder(src Sources, log *logger.Logger) *configBuilder {
	if src.Environ == nil {
		src.Environ = map[string]string{}
	}
	return &configBuilder{
		src:     src,
		configs: make([]*StructuredConfig, 0, 5),
		logger:  log,
	}
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (b *configBuilder) withEnv() *configBuilder {
	// the diagnostic looks at the environment only, a local default may
	// still supply the URI
	if b.src.Environ[envDatabaseURI] == "" && b.src.Environ[envMongoDBURI] == "" {
		b.logger.Warn().Msg("DATABASE_URI not specified, falling back to localhost.")
	}

	if raw := b.src.Environ["PORT"]; raw != "" && parsePort(raw) == 0 {
		b.logger.Warn().Str("port", raw).Msg("PORT is not a positive integer, ignoring")
	}

	envCfg, err := parseEnv(b.src.Environ)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withEnvAliases() *configBuilder {
	aliasCfg, err := parseEnvAliases(b.src.Environ)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, aliasCfg)
	return b
}

func (b *configBuilder) withFlags() *configBuilder {
	flagCfg, err := parseFlags(b.src.Args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, flagCfg)
	return b
}

func (b *configBuilder) withLocalDefaults() *configBuilder {
	path := DefaultLocalConfigPath
	for _, cfg := range b.configs {
		if cfg.LocalConfigPath != "" {
			path = cfg.LocalConfigPath
			break
		}
	}

	localCfg, err := parseLocalDefaults(path)
	if errors.Is(err, ErrLocalConfigNotFound) {
		b.logger.Debug().Str("path", path).Msg("local config file not found, skipping")
		return b
	}
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, localCfg)
	return b
}

func (b *configBuilder) withLiterals() *configBuilder {
	b.configs = append(b.configs, literals())
	return b
}
