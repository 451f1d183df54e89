package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/match-center/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string

	CacheTTL time.Duration

	HeartbeatInterval time.Duration
	LivePollInterval  time.Duration
	WindowDays        int
	Timezone          *time.Location

	ScoreboardBaseURL             string
	ScoreboardTimeout             time.Duration
	ScoreboardMaxRetries          int
	ScoreboardCircuitEnabled      bool
	ScoreboardCircuitFailureCount int
	ScoreboardCircuitOpenTimeout  time.Duration
	ScoreboardCircuitHalfOpenMax  int

	ScoringBaseURL             string
	ScoringTimeout             time.Duration
	ScoringMaxRetries          int
	ScoringMaxWorkers          int
	ScoringCircuitEnabled      bool
	ScoringCircuitFailureCount int
	ScoringCircuitOpenTimeout  time.Duration
	ScoringCircuitHalfOpenMax  int

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration

	PprofEnabled bool
	PprofAddr    string

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("HTTP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("HTTP_WRITE_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_WRITE_TIMEOUT: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "2m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}

	heartbeatInterval, err := time.ParseDuration(getEnv("HEARTBEAT_INTERVAL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HEARTBEAT_INTERVAL: %w", err)
	}
	if heartbeatInterval <= 0 {
		return Config{}, fmt.Errorf("HEARTBEAT_INTERVAL must be > 0")
	}

	livePollInterval, err := time.ParseDuration(getEnv("LIVE_POLL_INTERVAL", "12s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LIVE_POLL_INTERVAL: %w", err)
	}
	if livePollInterval <= 0 {
		return Config{}, fmt.Errorf("LIVE_POLL_INTERVAL must be > 0")
	}

	windowDays, err := getEnvAsInt("UPCOMING_WINDOW_DAYS", 7)
	if err != nil {
		return Config{}, fmt.Errorf("parse UPCOMING_WINDOW_DAYS: %w", err)
	}
	if windowDays <= 0 {
		return Config{}, fmt.Errorf("UPCOMING_WINDOW_DAYS must be > 0")
	}

	timezone := time.Local
	if name := strings.TrimSpace(getEnv("TIMEZONE", "")); name != "" {
		timezone, err = time.LoadLocation(name)
		if err != nil {
			return Config{}, fmt.Errorf("parse TIMEZONE: %w", err)
		}
	}

	scoreboardTimeout, err := time.ParseDuration(getEnv("SCOREBOARD_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREBOARD_TIMEOUT: %w", err)
	}
	scoreboardMaxRetries, err := getEnvAsInt("SCOREBOARD_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREBOARD_MAX_RETRIES: %w", err)
	}
	scoreboardCircuitEnabled, err := strconv.ParseBool(getEnv("SCOREBOARD_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREBOARD_CIRCUIT_ENABLED: %w", err)
	}
	scoreboardCircuitFailureCount, err := getEnvAsInt("SCOREBOARD_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREBOARD_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	scoreboardCircuitOpenTimeout, err := time.ParseDuration(getEnv("SCOREBOARD_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREBOARD_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	scoreboardCircuitHalfOpenMax, err := getEnvAsInt("SCOREBOARD_CIRCUIT_HALF_OPEN_MAX", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREBOARD_CIRCUIT_HALF_OPEN_MAX: %w", err)
	}

	scoringTimeout, err := time.ParseDuration(getEnv("SCORING_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORING_TIMEOUT: %w", err)
	}
	scoringMaxRetries, err := getEnvAsInt("SCORING_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORING_MAX_RETRIES: %w", err)
	}
	scoringMaxWorkers, err := getEnvAsInt("SCORING_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORING_MAX_WORKERS: %w", err)
	}
	if scoringMaxWorkers <= 0 {
		return Config{}, fmt.Errorf("SCORING_MAX_WORKERS must be > 0")
	}
	scoringCircuitEnabled, err := strconv.ParseBool(getEnv("SCORING_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORING_CIRCUIT_ENABLED: %w", err)
	}
	scoringCircuitFailureCount, err := getEnvAsInt("SCORING_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORING_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	scoringCircuitOpenTimeout, err := time.ParseDuration(getEnv("SCORING_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORING_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	scoringCircuitHalfOpenMax, err := getEnvAsInt("SCORING_CIRCUIT_HALF_OPEN_MAX", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORING_CIRCUIT_HALF_OPEN_MAX: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
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

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	serviceName := strings.TrimSpace(getEnv("SERVICE_NAME", "match-center"))

	return Config{
		AppEnv:             appEnv,
		ServiceName:        serviceName,
		ServiceVersion:     strings.TrimSpace(getEnv("SERVICE_VERSION", "dev")),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		CacheTTL: cacheTTL,

		HeartbeatInterval: heartbeatInterval,
		LivePollInterval:  livePollInterval,
		WindowDays:        windowDays,
		Timezone:          timezone,

		ScoreboardBaseURL:             strings.TrimSpace(getEnv("SCOREBOARD_BASE_URL", "")),
		ScoreboardTimeout:             scoreboardTimeout,
		ScoreboardMaxRetries:          scoreboardMaxRetries,
		ScoreboardCircuitEnabled:      scoreboardCircuitEnabled,
		ScoreboardCircuitFailureCount: scoreboardCircuitFailureCount,
		ScoreboardCircuitOpenTimeout:  scoreboardCircuitOpenTimeout,
		ScoreboardCircuitHalfOpenMax:  scoreboardCircuitHalfOpenMax,

		ScoringBaseURL:             strings.TrimSpace(getEnv("SCORING_BASE_URL", "")),
		ScoringTimeout:             scoringTimeout,
		ScoringMaxRetries:          scoringMaxRetries,
		ScoringMaxWorkers:          scoringMaxWorkers,
		ScoringCircuitEnabled:      scoringCircuitEnabled,
		ScoringCircuitFailureCount: scoringCircuitFailureCount,
		ScoringCircuitOpenTimeout:  scoringCircuitOpenTimeout,
		ScoringCircuitHalfOpenMax:  scoringCircuitHalfOpenMax,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServerAddress,
		PyroscopeAppName:       strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", serviceName)),
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:    pyroscopeUploadRate,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,

		LogLevel: parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
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
