package validators

import "errors"

// Error messages for validation
var (
	// URL validation errors
	ErrURLRequired    = errors.New("URL is required")
	ErrURLScheme      = errors.New("URL must start with http:// or https://")
	ErrURLFormat      = errors.New("invalid URL format")
	ErrURLMissingHost = errors.New("invalid URL: missing hostname")
	ErrURLHostDomain  = errors.New("invalid URL: hostname must be a valid domain")

	// Record validation errors
	ErrInvalidRecord = errors.New("invalid record")
)

// localhost is the only single-label host accepted by ValidateAndNormalizeURL
const localhost = "localhost"

// defaultPorts maps a scheme to the port omitted from canonical URLs
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}
