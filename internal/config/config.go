package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when an environment variable is absent or empty.
const (
	DefaultProject     = "Generic"
	DefaultEnvironment = "UAT"
	DefaultServiceName = "Error Monitor"
	DefaultServiceType = "lambda"
	DefaultSender      = "alerts@example.com"
	DefaultRecipient   = "alerts@example.com"
	DefaultInterval    = 60
	DefaultRegion      = "ap-southeast-1"
)

// Config holds all runtime settings, read once at startup and passed into
// each component. No component reads the environment directly.
type Config struct {
	ProjectName      string
	Environment      string
	ServiceName      string
	ServiceType      string
	LogGroups        []string
	SenderEmail      string
	Recipients       []string
	IntervalMinutes  int
	Region           string
	ErrorPatternPath string
}

// Load builds a Config from environment variables, falling back to defaults.
func Load() *Config {
	return &Config{
		ProjectName:      getEnv("PROJECT_NAME", DefaultProject),
		Environment:      getEnv("ENVIRONMENT", DefaultEnvironment),
		ServiceName:      getEnv("SERVICE_NAME", DefaultServiceName),
		ServiceType:      getEnv("SERVICE_TYPE", DefaultServiceType),
		LogGroups:        SplitCSV(os.Getenv("LOG_GROUPS")),
		SenderEmail:      getEnv("SENDER_EMAIL", DefaultSender),
		Recipients:       SplitCSV(getEnv("RECIPIENT_EMAIL", DefaultRecipient)),
		IntervalMinutes:  getEnvInt("INTERVAL_MINUTES", DefaultInterval),
		Region:           getEnv("AWS_REGION", DefaultRegion),
		ErrorPatternPath: os.Getenv("ERROR_PATTERN_PATH"),
	}
}

// Window returns the [start, end) monitoring window in UTC, where end is the
// given invocation time and start is end minus the configured interval.
func (c *Config) Window(now time.Time) (time.Time, time.Time) {
	end := now.UTC()
	start := end.Add(-time.Duration(c.IntervalMinutes) * time.Minute)
	return start, end
}

// SplitCSV turns a comma-separated string into a slice, trimming whitespace
// and dropping empty entries. Order is preserved.
func SplitCSV(csv string) []string {
	if csv == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(csv, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
