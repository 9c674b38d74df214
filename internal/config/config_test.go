package config

import (
	"os"
	"reflect"
	"testing"
	"time"
)

// helper to temporarily set env var
func withEnv(key, val string, fn func()) {
	old, had := os.LookupEnv(key)
	_ = os.Setenv(key, val)
	defer func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	}()
	fn()
}

// helper to temporarily unset env var
func withoutEnv(key string, fn func()) {
	old, had := os.LookupEnv(key)
	_ = os.Unsetenv(key)
	defer func() {
		if had {
			_ = os.Setenv(key, old)
		}
	}()
	fn()
}

func TestSplitCSV(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"simple", "a,b,c", []string{"a", "b", "c"}},
		{"spaces", " a, b ,c ", []string{"a", "b", "c"}},
		{"empties", ",a,,b,", []string{"a", "b"}},
		{"recipients", "a@x.com, b@x.com", []string{"a@x.com", "b@x.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitCSV(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("SplitCSV(%q)=%v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PROJECT_NAME", "ENVIRONMENT", "SERVICE_NAME", "SERVICE_TYPE",
		"LOG_GROUPS", "SENDER_EMAIL", "RECIPIENT_EMAIL", "INTERVAL_MINUTES",
		"AWS_REGION", "ERROR_PATTERN_PATH",
	} {
		old, had := os.LookupEnv(key)
		_ = os.Unsetenv(key)
		defer func(key, old string, had bool) {
			if had {
				_ = os.Setenv(key, old)
			}
		}(key, old, had)
	}

	cfg := Load()
	if cfg.ProjectName != DefaultProject || cfg.Environment != DefaultEnvironment {
		t.Fatalf("unexpected project/environment defaults: %+v", cfg)
	}
	if cfg.ServiceName != DefaultServiceName || cfg.ServiceType != DefaultServiceType {
		t.Fatalf("unexpected service defaults: %+v", cfg)
	}
	if cfg.LogGroups != nil {
		t.Fatalf("LogGroups should be empty by default, got %v", cfg.LogGroups)
	}
	if !reflect.DeepEqual(cfg.Recipients, []string{DefaultRecipient}) {
		t.Fatalf("Recipients=%v, want [%s]", cfg.Recipients, DefaultRecipient)
	}
	if cfg.IntervalMinutes != DefaultInterval || cfg.Region != DefaultRegion {
		t.Fatalf("unexpected interval/region defaults: %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	withEnv("LOG_GROUPS", "/aws/lambda/a, /aws/lambda/b", func() {
		withEnv("RECIPIENT_EMAIL", "a@x.com, b@x.com", func() {
			withEnv("INTERVAL_MINUTES", "15", func() {
				cfg := Load()
				if !reflect.DeepEqual(cfg.LogGroups, []string{"/aws/lambda/a", "/aws/lambda/b"}) {
					t.Fatalf("LogGroups=%v", cfg.LogGroups)
				}
				if !reflect.DeepEqual(cfg.Recipients, []string{"a@x.com", "b@x.com"}) {
					t.Fatalf("Recipients=%v", cfg.Recipients)
				}
				if cfg.IntervalMinutes != 15 {
					t.Fatalf("IntervalMinutes=%d, want 15", cfg.IntervalMinutes)
				}
			})
		})
	})
}

func TestLoadBadInterval(t *testing.T) {
	withEnv("INTERVAL_MINUTES", "ten", func() {
		if got := Load().IntervalMinutes; got != DefaultInterval {
			t.Fatalf("IntervalMinutes=%d, want default %d", got, DefaultInterval)
		}
	})
	withoutEnv("INTERVAL_MINUTES", func() {
		if got := Load().IntervalMinutes; got != DefaultInterval {
			t.Fatalf("IntervalMinutes=%d, want default %d", got, DefaultInterval)
		}
	})
}

func TestWindow(t *testing.T) {
	now := time.Date(2025, 8, 31, 12, 0, 0, 0, time.UTC)
	cfg := &Config{IntervalMinutes: 60}
	start, end := cfg.Window(now)
	if !end.Equal(now) {
		t.Fatalf("end=%v, want %v", end, now)
	}
	if want := now.Add(-60 * time.Minute); !start.Equal(want) {
		t.Fatalf("start=%v, want %v", start, want)
	}
	if end.Location() != time.UTC {
		t.Fatalf("end not in UTC: %v", end.Location())
	}
}
