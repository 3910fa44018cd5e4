package config

import (
	"os"

	fixgateway "github.com/joripage/fixgateway-dev/pkg/gateway/fix"
	postgres_wrapper "github.com/joripage/fixgateway-dev/pkg/infra/postgres"
	redis_wrapper "github.com/joripage/fixgateway-dev/pkg/infra/redis"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type ArchiverConfig struct {
	BatchSize       int    `yaml:"batch_size"`
	FlushIntervalMS int64  `yaml:"flush_interval_ms"`
	Stream          string `yaml:"stream"`
}

type AppConfig struct {
	ServiceName string                           `yaml:"service_name"`
	Gateway     *fixgateway.FixGatewayConfig     `yaml:"gateway"`
	AuditDB     *postgres_wrapper.PostgresConfig `yaml:"audit_db"`
	Redis       *redis_wrapper.RedisConfig       `yaml:"redis"`
	Archiver    *ArchiverConfig                  `yaml:"archiver"`
}

// Load load config from file and environment variables.
func Load(filePath string) (*AppConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	fields := []interface{}{
		"func",
		"config.readFromFile",
		"filePath",
		filePath,
	}

	sugar := zap.S().With(fields...)

	sugar.Debug("Load config...")
	zap.S().Debugf("CONFIG_FILE=%v", filePath)

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("Failed to load config file")
		return nil, err
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	cfg := &AppConfig{}

	err = yaml.Unmarshal(configBytes, cfg)
	if err != nil {
		sugar.Error("Failed to parse config file")
		return nil, err
	}

	zap.S().Debugf("config: %+v", cfg)

	return cfg, nil
}
