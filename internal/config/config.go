package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/recruitboard/recruitboard/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	DBURL                   string
	DBDisablePreparedBinary bool
	CacheEnabled            bool
	CacheTTL                time.Duration
	CORSAllowedOrigins      []string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	PprofEnabled            bool
	PprofAddr               string
	RosterFile              string
	ExportDir               string
	AuthBaseURL             string
	AuthIntrospectPath      string
	AuthTimeout             time.Duration
	AuthCacheTTL            time.Duration
	AuthCacheMaxEntries     int
	CFBDEnabled             bool
	CFBDBaseURL             string
	CFBDAPIKey              string
	CFBDTimeout             time.Duration
	CFBDMaxRetries          int
	CFBDCircuitEnabled      bool
	CFBDCircuitFailureCount int
	CFBDCircuitOpenTimeout  time.Duration
	CFBDCircuitHalfOpenMax  int
	InternalJobToken        string
	UptraceEnabled          bool
	UptraceDSN              string
	PyroscopeEnabled        bool
	PyroscopeServerAddress  string
	PyroscopeAppName        string
	PyroscopeAuthToken      string
	PyroscopeUploadRate     time.Duration
	LogLevel                logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfbdEnabled, err := strconv.ParseBool(getEnv("CFBD_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CFBD_ENABLED: %w", err)
	}
	cfbdTimeout, err := time.ParseDuration(getEnv("CFBD_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CFBD_TIMEOUT: %w", err)
	}
	if cfbdTimeout <= 0 {
		return Config{}, fmt.Errorf("CFBD_TIMEOUT must be > 0")
	}
	cfbdMaxRetries, err := getEnvAsInt("CFBD_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse CFBD_MAX_RETRIES: %w", err)
	}
	if cfbdMaxRetries < 0 {
		return Config{}, fmt.Errorf("CFBD_MAX_RETRIES must be >= 0")
	}
	cfbdCircuitEnabled, err := strconv.ParseBool(getEnv("CFBD_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CFBD_CIRCUIT_ENABLED: %w", err)
	}
	cfbdCircuitFailureCount, err := getEnvAsInt("CFBD_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse CFBD_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfbdCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("CFBD_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cfbdCircuitOpenTimeout, err := time.ParseDuration(getEnv("CFBD_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CFBD_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if cfbdCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("CFBD_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	cfbdCircuitHalfOpenMax, err := getEnvAsInt("CFBD_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse CFBD_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfbdCircuitHalfOpenMax < 1 {
		return Config{}, fmt.Errorf("CFBD_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	cfbdAPIKey := strings.TrimSpace(getEnv("CFBD_API_KEY", ""))
	if cfbdEnabled && cfbdAPIKey == "" {
		return Config{}, fmt.Errorf("CFBD_API_KEY is required when CFBD_ENABLED=true")
	}

	authTimeout, err := time.ParseDuration(getEnv("AUTH_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTH_TIMEOUT: %w", err)
	}
	if authTimeout <= 0 {
		return Config{}, fmt.Errorf("AUTH_TIMEOUT must be > 0")
	}
	authCacheTTL, err := time.ParseDuration(getEnv("AUTH_CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTH_CACHE_TTL: %w", err)
	}
	authCacheMaxEntries, err := getEnvAsInt("AUTH_CACHE_MAX_ENTRIES", 1024)
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTH_CACHE_MAX_ENTRIES: %w", err)
	}
	if authCacheMaxEntries < 0 {
		return Config{}, fmt.Errorf("AUTH_CACHE_MAX_ENTRIES must be >= 0")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	cfg := Config{
		AppEnv:                  appEnv,
		ServiceName:             getEnv("APP_SERVICE_NAME", "recruitboard-api"),
		ServiceVersion:          getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                   strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary: dbDisablePreparedBinary,
		CacheEnabled:            cacheEnabled,
		CacheTTL:                cacheTTL,
		CORSAllowedOrigins:      splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:             readTimeout,
		WriteTimeout:            writeTimeout,
		PprofEnabled:            pprofEnabled,
		PprofAddr:               pprofAddr,
		RosterFile:              strings.TrimSpace(getEnv("ROSTER_FILE", "")),
		ExportDir:               strings.TrimSpace(getEnv("EXPORT_DIR", "")),
		AuthBaseURL:             getEnv("AUTH_BASE_URL", "http://localhost:8081"),
		AuthIntrospectPath:      getEnv("AUTH_INTROSPECT_PATH", "/v1/auth/introspect"),
		AuthTimeout:             authTimeout,
		AuthCacheTTL:            authCacheTTL,
		AuthCacheMaxEntries:     authCacheMaxEntries,
		CFBDEnabled:             cfbdEnabled,
		CFBDBaseURL:             strings.TrimSpace(getEnv("CFBD_BASE_URL", "https://api.collegefootballdata.com")),
		CFBDAPIKey:              cfbdAPIKey,
		CFBDTimeout:             cfbdTimeout,
		CFBDMaxRetries:          cfbdMaxRetries,
		CFBDCircuitEnabled:      cfbdCircuitEnabled,
		CFBDCircuitFailureCount: cfbdCircuitFailureCount,
		CFBDCircuitOpenTimeout:  cfbdCircuitOpenTimeout,
		CFBDCircuitHalfOpenMax:  cfbdCircuitHalfOpenMax,
		InternalJobToken:        strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		UptraceEnabled:          uptraceEnabled,
		UptraceDSN:              uptraceDSN,
		PyroscopeEnabled:        pyroscopeEnabled,
		PyroscopeServerAddress:  pyroscopeServerAddress,
		PyroscopeAuthToken:      strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:     pyroscopeUploadRate,
		LogLevel:                parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
