package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timing windows, retention sizes), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server ServerConfig
	DB     DBConfig
	CORS   CORSConfig
	Log    LogConfig
	JWT    JWTConfig
	Engine EngineConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// EngineConfig drives the submission lifecycle engine: cache staleness,
// sweep cadence, notification windows, and bounded retention sizes.
type EngineConfig struct {
	CacheTTL            time.Duration `envconfig:"ENGINE_CACHE_TTL" default:"5m"`
	SweepInterval       time.Duration `envconfig:"ENGINE_SWEEP_INTERVAL" default:"1h"`
	ArchiveGrace        time.Duration `envconfig:"ENGINE_ARCHIVE_GRACE" default:"24h"`
	WarningRetention    int           `envconfig:"ENGINE_WARNING_RETENTION" default:"10"`
	ErrorRingSize       int           `envconfig:"ENGINE_ERROR_RING_SIZE" default:"10"`
	WindowOpenLead      time.Duration `envconfig:"ENGINE_WINDOW_OPEN_LEAD" default:"168h"`
	UrgentLead          time.Duration `envconfig:"ENGINE_URGENT_LEAD" default:"24h"`
	DeadlineHour        int           `envconfig:"ENGINE_DEADLINE_HOUR" default:"8"`
	DeadlineRepeatEvery time.Duration `envconfig:"ENGINE_DEADLINE_REPEAT_EVERY" default:"4h"`
	DeadlineMaxRepeats  int           `envconfig:"ENGINE_DEADLINE_MAX_REPEATS" default:"3"`

	// Per-destination overrides of the significant-field allow-list, as
	// "DEST:field1|field2,DEST2:field3". Destinations without an override
	// use the built-in default list.
	SignificantFields string `envconfig:"ENGINE_SIGNIFICANT_FIELDS" default:""`
}

// SignificantFieldOverrides parses the per-destination allow-list overrides.
func (e EngineConfig) SignificantFieldOverrides() map[string][]string {
	out := make(map[string][]string)
	if e.SignificantFields == "" {
		return out
	}
	for _, pair := range strings.Split(e.SignificantFields, ",") {
		dest, fields, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		out[strings.TrimSpace(dest)] = strings.Split(fields, "|")
	}
	return out
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeFormat: "2006-01-02 15:04:05.000",
			TimeZone:   "UTC",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "24h",
		},
		Engine: NewTestEngineConfig(),
	}
}

func NewTestEngineConfig() EngineConfig {
	return EngineConfig{
		CacheTTL:            5 * time.Minute,
		SweepInterval:       time.Hour,
		ArchiveGrace:        24 * time.Hour,
		WarningRetention:    10,
		ErrorRingSize:       10,
		WindowOpenLead:      7 * 24 * time.Hour,
		UrgentLead:          24 * time.Hour,
		DeadlineHour:        8,
		DeadlineRepeatEvery: 4 * time.Hour,
		DeadlineMaxRepeats:  3,
	}
}
