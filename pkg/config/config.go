package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	Log        LogConfig
	Scheduler  SchedulerConfig
	Validation ValidationConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig holds the tunable constants of the timetable engine.
// Defaults mirror a Monday-Friday teaching week of double periods.
type SchedulerConfig struct {
	DefaultPreferredDays  []int
	DefaultMaxConsecutive int
	WeekStart             int
	WeekEnd               int
}

// ValidationConfig names the heuristic constants of the allocation rules so
// tuning never touches algorithm code.
type ValidationConfig struct {
	DefaultTeacherCapacity  int
	AutoAcceptConfidence    float64
	AltTeacherConfidence    float64
	AltInstrumentConfidence float64
	HistoryLimit            int
	StatsCacheTTL           time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}
	cfg.Env = v.GetString("ENV")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		DefaultPreferredDays:  splitDays(v.GetString("SCHEDULER_PREFERRED_DAYS")),
		DefaultMaxConsecutive: v.GetInt("SCHEDULER_MAX_CONSECUTIVE"),
		WeekStart:             v.GetInt("SCHEDULER_WEEK_START"),
		WeekEnd:               v.GetInt("SCHEDULER_WEEK_END"),
	}

	cfg.Validation = ValidationConfig{
		DefaultTeacherCapacity:  v.GetInt("VALIDATION_DEFAULT_CAPACITY"),
		AutoAcceptConfidence:    v.GetFloat64("VALIDATION_AUTO_ACCEPT_CONFIDENCE"),
		AltTeacherConfidence:    v.GetFloat64("VALIDATION_ALT_TEACHER_CONFIDENCE"),
		AltInstrumentConfidence: v.GetFloat64("VALIDATION_ALT_INSTRUMENT_CONFIDENCE"),
		HistoryLimit:            v.GetInt("VALIDATION_HISTORY_LIMIT"),
		StatsCacheTTL:           parseDuration(v.GetString("VALIDATION_STATS_CACHE_TTL"), 5*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULER_PREFERRED_DAYS", "1,2,3,4,5")
	v.SetDefault("SCHEDULER_MAX_CONSECUTIVE", 3)
	v.SetDefault("SCHEDULER_WEEK_START", 1)
	v.SetDefault("SCHEDULER_WEEK_END", 18)

	v.SetDefault("VALIDATION_DEFAULT_CAPACITY", 8)
	v.SetDefault("VALIDATION_AUTO_ACCEPT_CONFIDENCE", 0.8)
	v.SetDefault("VALIDATION_ALT_TEACHER_CONFIDENCE", 0.85)
	v.SetDefault("VALIDATION_ALT_INSTRUMENT_CONFIDENCE", 0.7)
	v.SetDefault("VALIDATION_HISTORY_LIMIT", 0)
	v.SetDefault("VALIDATION_STATS_CACHE_TTL", "5m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitDays(raw string) []int {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]int, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		switch trimmed {
		case "1", "2", "3", "4", "5", "6", "7":
			result = append(result, int(trimmed[0]-'0'))
		}
	}

	return result
}
