package config

const (
	// DefaultEndpoint is the upload endpoint of the analytics API
	DefaultEndpoint = "https://analytics-api.buildkite.com/v1/uploads"
	// DefaultBatchSize is the maximum number of test records per upload.
	// The API currently accepts at most 5000 records per call; batching
	// well below that keeps request bodies small.
	DefaultBatchSize = 500
	// TokenEnvVar names the environment variable holding the API token
	TokenEnvVar = "BUILDKITE_ANALYTICS_TOKEN"
	// CollectorName identifies this collector to the API
	CollectorName = "go-test-collector"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = ".rtc"
)
