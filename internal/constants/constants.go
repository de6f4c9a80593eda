package constants

import "time"

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 10 * time.Second
	KafkaMinBytes     = 10_000
	KafkaMaxBytes     = 10_000_000
)

const (
	CacheKeyPrefixIdempotency = "sinag:eval:"
)

const (
	DefaultSubmissionsTopic = "assessment_submissions"
	DefaultResultsTopic     = "evaluation_results"
	DefaultConfigTopic      = "indicator_updates"
)

const (
	DefaultMongoDBName          = "sinag"
	EvaluationResultsCollection = "evaluation_results"
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

const (
	DefaultTTLSeconds = 86400
)

const (
	DefaultMaxNestingDepth     = 20
	DefaultExpressionCacheSize = 512
)

// Behaviour when an indicator's schema cannot be evaluated.
const (
	SchemaErrorFail  = "fail"
	SchemaErrorError = "error"
)

// Behaviour when the idempotency store is unreachable.
const (
	FallbackAllow = "allow"
	FallbackDeny  = "deny"
	FallbackError = "error"
)

const (
	HashAlgorithmSHA256 = "sha256"
	HashAlgorithmMD5    = "md5"
)

const (
	ValidationModeStrict  = "strict"
	ValidationModeLenient = "lenient"
)
