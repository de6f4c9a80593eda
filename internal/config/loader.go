package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"sinag/internal/constants"
)

// Load reads configFile, fills unset evaluation settings with their defaults,
// applies environment overrides and validates the result.
func Load(configFile string) (*Config, error) {
	viper.Reset()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(configFile)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := ValidateStatic(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.read_timeout_seconds", 30)
	viper.SetDefault("server.write_timeout_seconds", 30)
	viper.SetDefault("broker.type", "kafka")
	viper.SetDefault("broker.kafka.retry.max_attempts", 3)
	viper.SetDefault("broker.kafka.retry.initial_interval", "1s")
	viper.SetDefault("broker.kafka.retry.max_interval", "30s")
	viper.SetDefault("broker.kafka.retry.multiplier", 2.0)
	viper.SetDefault("engine.max_nesting_depth", constants.DefaultMaxNestingDepth)
	viper.SetDefault("engine.expression_cache_size", constants.DefaultExpressionCacheSize)
	viper.SetDefault("evaluation.fallback.on_schema_error", "fail")
	viper.SetDefault("idempotency.hash_algorithm", "sha256")
	viper.SetDefault("idempotency.ttl_seconds", constants.DefaultTTLSeconds)
	viper.SetDefault("broker.kafka.input_topic", constants.DefaultSubmissionsTopic)
	viper.SetDefault("broker.kafka.output_topic", constants.DefaultResultsTopic)
	viper.SetDefault("broker.kafka.config_update_topic", constants.DefaultConfigTopic)
	viper.SetDefault("database.mongodb.database", constants.DefaultMongoDBName)
}

func bindEnvVariables() {
	viper.BindEnv("broker.kafka.brokers", "BROKER_KAFKA_BROKERS")
	viper.BindEnv("broker.kafka.group_id", "BROKER_KAFKA_GROUP_ID")
	viper.BindEnv("broker.kafka.input_topic", "BROKER_KAFKA_INPUT_TOPIC")
	viper.BindEnv("broker.kafka.output_topic", "BROKER_KAFKA_OUTPUT_TOPIC")
	viper.BindEnv("broker.kafka.config_update_topic", "BROKER_KAFKA_CONFIG_UPDATE_TOPIC")
	viper.BindEnv("broker.kafka.dlq_topic", "BROKER_KAFKA_DLQ_TOPIC")

	viper.BindEnv("database.postgres.host", "DATABASE_POSTGRES_HOST")
	viper.BindEnv("database.postgres.port", "DATABASE_POSTGRES_PORT")
	viper.BindEnv("database.postgres.user", "DATABASE_POSTGRES_USER")
	viper.BindEnv("database.postgres.password", "DATABASE_POSTGRES_PASSWORD")
	viper.BindEnv("database.postgres.dbname", "DATABASE_POSTGRES_DBNAME")
	viper.BindEnv("database.postgres.sslmode", "DATABASE_POSTGRES_SSLMODE")

	viper.BindEnv("database.redis.host", "DATABASE_REDIS_HOST")
	viper.BindEnv("database.redis.port", "DATABASE_REDIS_PORT")
	viper.BindEnv("database.redis.password", "DATABASE_REDIS_PASSWORD")
	viper.BindEnv("database.redis.db", "DATABASE_REDIS_DB")

	viper.BindEnv("database.mongodb.uri", "DATABASE_MONGODB_URI")
	viper.BindEnv("database.mongodb.database", "DATABASE_MONGODB_DATABASE")

	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.read_timeout_seconds", "SERVER_READ_TIMEOUT_SECONDS")
	viper.BindEnv("server.write_timeout_seconds", "SERVER_WRITE_TIMEOUT_SECONDS")

	viper.BindEnv("logging.level", "LOGGING_LEVEL")
	viper.BindEnv("logging.format", "LOGGING_FORMAT")

	viper.BindEnv("tracing.otlp.endpoint", "TRACING_OTLP_ENDPOINT")
	viper.BindEnv("tracing.otlp.insecure", "TRACING_OTLP_INSECURE")
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.service_name", "TRACING_SERVICE_NAME")

	viper.BindEnv("engine.max_nesting_depth", "ENGINE_MAX_NESTING_DEPTH")
	viper.BindEnv("engine.expressions_enabled", "ENGINE_EXPRESSIONS_ENABLED")
	viper.BindEnv("engine.expression_cache_size", "ENGINE_EXPRESSION_CACHE_SIZE")
	viper.BindEnv("evaluation.fallback.on_schema_error", "EVALUATION_FALLBACK_ON_SCHEMA_ERROR")
	viper.BindEnv("idempotency.enabled", "IDEMPOTENCY_ENABLED")
	viper.BindEnv("idempotency.ttl_seconds", "IDEMPOTENCY_TTL_SECONDS")
}

// applyEnvOverrides handles the list-valued settings viper cannot split from
// a single environment variable.
func applyEnvOverrides(cfg *Config) {
	if brokers := splitList(viper.GetString("BROKER_KAFKA_BROKERS")); len(brokers) > 0 {
		cfg.Broker.Kafka.Brokers = brokers
	}

	if fields := splitList(viper.GetString("IDEMPOTENCY_FIELDS_TO_HASH")); len(fields) > 0 {
		cfg.Idempotency.FieldsToHash = fields
	}

	if otlpEndpoint := viper.GetString("TRACING_OTLP_ENDPOINT"); otlpEndpoint != "" {
		cfg.Tracing.OTLP.Endpoint = otlpEndpoint
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
