package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
	defaultStoreProvider      = "memory"
	defaultStoreTimeout       = 3 * time.Second
	defaultAuditTimeout       = time.Second
	defaultRetryAttempts      = 3
	defaultRetryBaseDelay     = 50 * time.Millisecond
	defaultSweepInterval      = 5 * time.Minute
	defaultSlowQuery          = 200 * time.Millisecond
	defaultRateLimitWindow    = time.Minute
	defaultMetricsPath        = "/metrics"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	SecretKey struct {
		Access string `json:"access" yaml:"access"`
	} `json:"secretKey" yaml:"secretKey"`

	// Store selects and tunes the persistence backend shared by every instance.
	Store StoreConfig `json:"store" yaml:"store"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	// Firebase backs push delivery and the firestore store provider.
	Firebase *FirebaseConfig `json:"firebase" yaml:"firebase"`

	// PubSub configuration for presence event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	// QRCode configuration for static venue QR rendering
	QRCode *QRCodeConfig `json:"qrcode" yaml:"qrcode"`

	Entry EntryConfig `json:"entry" yaml:"entry"`

	Presence PresenceConfig `json:"presence" yaml:"presence"`

	RateLimit RateLimitConfig `json:"rateLimit" yaml:"rateLimit"`

	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// StoreConfig defines the store provider and the bounds applied to every store call.
type StoreConfig struct {
	// Provider is one of "memory", "postgres" or "firestore".
	Provider string        `json:"provider" yaml:"provider"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout"`
	Retry    struct {
		MaxAttempts int           `json:"maxAttempts" yaml:"maxAttempts"`
		BaseDelay   time.Duration `json:"baseDelay" yaml:"baseDelay"`
	} `json:"retry" yaml:"retry"`

	// AuditTimeout bounds the single best-effort audit write.
	AuditTimeout time.Duration `json:"auditTimeout" yaml:"auditTimeout"`

	// SweepInterval controls how often expired tokens and samples are purged
	// on providers without native TTL.
	SweepInterval time.Duration `json:"sweepInterval" yaml:"sweepInterval"`

	// SlowQuery is the latency above which postgres queries are logged as slow.
	SlowQuery time.Duration `json:"slowQuery" yaml:"slowQuery"`

	// SeedFile optionally preloads venues into the memory provider.
	SeedFile string `json:"seedFile" yaml:"seedFile"`
}

// FirebaseConfig defines Firebase configuration for push notifications and firestore
type FirebaseConfig struct {
	ProjectID       string `json:"projectId" yaml:"projectId"`
	CredentialsPath string `json:"credentialsPath" yaml:"credentialsPath"`
}

// QRCodeConfig defines QR code generation configuration
type QRCodeConfig struct {
	Size                 int    `json:"size" yaml:"size"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`

	// PublishTimeout bounds one publish. Events are still sent after the triggering request ends.
	PublishTimeout time.Duration `json:"publishTimeout" yaml:"publishTimeout"`
}

// EntryConfig holds the venue defaults and token lifetimes used by the check-in flow.
type EntryConfig struct {
	DefaultRadius  float64 `json:"defaultRadius" yaml:"defaultRadius"`
	DefaultKFactor float64 `json:"defaultKFactor" yaml:"defaultKFactor"`

	TokenLifetime struct {
		Outdoor       time.Duration `json:"outdoor" yaml:"outdoor"`
		IndoorSimple  time.Duration `json:"indoorSimple" yaml:"indoorSimple"`
		IndoorComplex time.Duration `json:"indoorComplex" yaml:"indoorComplex"`
		Default       time.Duration `json:"default" yaml:"default"`
	} `json:"tokenLifetime" yaml:"tokenLifetime"`

	// SampleHistory bounds the per-user location samples kept for mock detection.
	SampleHistory struct {
		Size      int           `json:"size" yaml:"size"`
		Retention time.Duration `json:"retention" yaml:"retention"`
	} `json:"sampleHistory" yaml:"sampleHistory"`
}

// PresenceConfig overrides the presence state machine tunables.
type PresenceConfig struct {
	MinPingSpacing      time.Duration `json:"minPingSpacing" yaml:"minPingSpacing"`
	OutsidePingsToPause int           `json:"outsidePingsToPause" yaml:"outsidePingsToPause"`
	GracePeriod         time.Duration `json:"gracePeriod" yaml:"gracePeriod"`
	GraceResumeDistance float64       `json:"graceResumeDistance" yaml:"graceResumeDistance"`
	ReactivationWindow  time.Duration `json:"reactivationWindow" yaml:"reactivationWindow"`
	MaxAccrualGap       time.Duration `json:"maxAccrualGap" yaml:"maxAccrualGap"`
	HistorySize         int           `json:"historySize" yaml:"historySize"`
}

// RateLimitConfig defines per-route limits for the shared sliding-window limiter.
type RateLimitConfig struct {
	Enabled bool           `json:"enabled" yaml:"enabled"`
	Window  time.Duration  `json:"window" yaml:"window"`
	Limits  map[string]int `json:"limits" yaml:"limits"`
}

// MetricsConfig toggles the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path" yaml:"path"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: POSTGRES_SSLMODE -> postgres.sslMode (not postgres.sslmode)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	// Build replicas from environment variables (POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, etc.)
	if cfg.Postgres != nil {
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	return cfg, nil
}

// applyDefaults fills zero values left by the yaml file and environment.
// Protocol tunables under entry and presence are defaulted by their consumers.
func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if cfg.Store.Provider == "" {
		cfg.Store.Provider = defaultStoreProvider
	}
	if cfg.Store.Timeout <= 0 {
		cfg.Store.Timeout = defaultStoreTimeout
	}
	if cfg.Store.AuditTimeout <= 0 {
		cfg.Store.AuditTimeout = defaultAuditTimeout
	}
	if cfg.Store.Retry.MaxAttempts <= 0 {
		cfg.Store.Retry.MaxAttempts = defaultRetryAttempts
	}
	if cfg.Store.Retry.BaseDelay <= 0 {
		cfg.Store.Retry.BaseDelay = defaultRetryBaseDelay
	}
	if cfg.Store.SweepInterval <= 0 {
		cfg.Store.SweepInterval = defaultSweepInterval
	}
	if cfg.Store.SlowQuery <= 0 {
		cfg.Store.SlowQuery = defaultSlowQuery
	}
	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = defaultRateLimitWindow
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = defaultMetricsPath
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
// Example: POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, POSTGRES_REPLICAS_0_USERNAME, POSTGRES_REPLICAS_0_PASSWORD
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			// No more replicas or incomplete configuration.
			break
		}

		replica := postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		}

		replicas = append(replicas, replica)
	}

	return replicas
}
