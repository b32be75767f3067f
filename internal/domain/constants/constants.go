// Package constants holds configuration values shared across layers.
package constants

const (
	// EnvDevelop is the env name used for local development.
	EnvDevelop = "develop"
)

// Pub/Sub providers
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Store providers
const (
	StoreProviderMemory    = "memory"
	StoreProviderPostgres  = "postgres"
	StoreProviderFirestore = "firestore"
)

// Rate limited routes, used as limiter keys and config map keys.
const (
	RouteNonce  = "nonce"
	RouteVerify = "verify"
	RoutePing   = "ping"
)
