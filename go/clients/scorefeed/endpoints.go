package scorefeed

const (
	// Paths
	playersPath = "v1/players"
	statsPath   = "v1/stats/%d/%d"

	// Headers
	APIKeyHeader    = "X-API-Key"
	JsonHeader      = "accept"
	JsonContentType = "application/json"
)
