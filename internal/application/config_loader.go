package application

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/openvaa/vaa-matching/internal/domain"
)

// ConfigLoader provides YAML configuration parsing, validation, and caching
// for matching configurations.
// Use ConfigLoader to load configurations from files or readers while
// benefiting from SHA256-based caching and validation against the metric
// registry.
type ConfigLoader struct {
	// validator performs struct field validation including the custom
	// metricname, missingmethod and missingbias rules.
	validator *validator.Validate
	// cache stores validated configs indexed by the SHA256 hash of their
	// normalized form.
	cache map[string]MatchingConfig
	// cacheMu provides thread-safe access to the cache map.
	cacheMu sync.RWMutex
	// sf prevents duplicate validation when multiple goroutines load the
	// same configuration simultaneously.
	sf singleflight.Group
}

// NewConfigLoader creates a loader that validates metric names against
// metrics. A nil registry uses NewMetricRegistry.
// NewConfigLoader returns an error if validator registration fails.
func NewConfigLoader(metrics *MetricRegistry) (*ConfigLoader, error) {
	if metrics == nil {
		metrics = NewMetricRegistry()
	}
	v, err := newConfigValidator(metrics)
	if err != nil {
		return nil, err
	}
	return &ConfigLoader{
		validator: v,
		cache:     make(map[string]MatchingConfig),
	}, nil
}

// load is the common implementation for loading configs from byte data.
// Fields absent from data keep the values of DefaultMatchingConfig.
func (cl *ConfigLoader) load(ctx context.Context, data []byte) (MatchingConfig, error) {
	if err := ctx.Err(); err != nil {
		return MatchingConfig{}, err
	}

	config, err := cl.parseYAML(data)
	if err != nil {
		return MatchingConfig{}, domain.NewConfigurationError("MatchingConfig",
			fmt.Sprintf("failed to parse YAML: %v", err))
	}

	// Hash the normalized config, not the raw bytes.
	hash, err := cl.calculateConfigHash(config)
	if err != nil {
		return MatchingConfig{}, fmt.Errorf("failed to calculate hash: %w", err)
	}

	v, err, _ := cl.sf.Do(hash, func() (any, error) {
		// Check the cache inside singleflight to close the race between the
		// cache check and the group execution.
		if cached, ok := cl.getCachedConfig(hash); ok {
			return cached, nil
		}

		if err := validateConfig(cl.validator, config); err != nil {
			return nil, err
		}

		cl.cacheConfig(hash, *config)
		return *config, nil
	})
	if err != nil {
		return MatchingConfig{}, err
	}

	cfg := v.(MatchingConfig)
	cfg.QuestionWeights = maps.Clone(cfg.QuestionWeights)
	cfg.Metadata.Tags = append([]string(nil), cfg.Metadata.Tags...)
	return cfg, nil
}

// LoadFromFile loads and validates a matching configuration from a YAML
// file.
// LoadFromFile returns an error if reading, parsing or validation fails;
// parse and validation failures are ConfigurationErrors.
func (cl *ConfigLoader) LoadFromFile(ctx context.Context, path string) (MatchingConfig, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return MatchingConfig{}, fmt.Errorf("failed to read file: %w", err)
	}
	return cl.load(ctx, data)
}

// LoadFromReader loads and validates a matching configuration from r.
func (cl *ConfigLoader) LoadFromReader(ctx context.Context, r io.Reader) (MatchingConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return MatchingConfig{}, fmt.Errorf("failed to read data: %w", err)
	}
	return cl.load(ctx, data)
}

// Validate checks an in-memory configuration with the loader's validator.
func (cl *ConfigLoader) Validate(cfg MatchingConfig) error {
	return validateConfig(cl.validator, &cfg)
}

// parseYAML unmarshals YAML over DefaultMatchingConfig using strict
// decoding, so unknown fields are reported instead of silently ignored.
// An empty document yields the defaults.
func (cl *ConfigLoader) parseYAML(data []byte) (*MatchingConfig, error) {
	config := DefaultMatchingConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Strict mode - fail on unknown fields.

	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("YAML decode failed: %w", err)
	}
	return &config, nil
}

// calculateConfigHash computes the SHA256 hash of a normalized config so
// that semantically identical configurations share a cache entry
// regardless of whitespace or key order.
func (cl *ConfigLoader) calculateConfigHash(config *MatchingConfig) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(config); err != nil {
		return "", fmt.Errorf("failed to encode config for hashing: %w", err)
	}

	hash := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(hash[:]), nil
}

// getCachedConfig returns a previously validated config by hash.
func (cl *ConfigLoader) getCachedConfig(hash string) (MatchingConfig, bool) {
	cl.cacheMu.RLock()
	defer cl.cacheMu.RUnlock()

	cfg, ok := cl.cache[hash]
	return cfg, ok
}

// cacheConfig stores a validated config by hash.
func (cl *ConfigLoader) cacheConfig(hash string, cfg MatchingConfig) {
	cl.cacheMu.Lock()
	defer cl.cacheMu.Unlock()

	cl.cache[hash] = cfg
}

// CacheSize returns the number of cached configurations.
func (cl *ConfigLoader) CacheSize() int {
	cl.cacheMu.RLock()
	defer cl.cacheMu.RUnlock()

	return len(cl.cache)
}

// ClearCache removes all cached configurations.
func (cl *ConfigLoader) ClearCache() {
	cl.cacheMu.Lock()
	defer cl.cacheMu.Unlock()

	cl.cache = make(map[string]MatchingConfig)
}
