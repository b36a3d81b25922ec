package startup

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("PORT", "")
	t.Setenv("METRICS_PORT", "")
	t.Setenv("INDEX_INTERVAL", "")
	t.Setenv("METRICS_ENABLED", "")
	t.Setenv("LOG_HEALTH_CHECKS", "")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", config.Port)
	}
	if config.MetricsPort != "9090" {
		t.Errorf("Expected default metrics port 9090, got %s", config.MetricsPort)
	}
	if config.IndexInterval != 30*time.Minute {
		t.Errorf("Expected default interval 30m, got %v", config.IndexInterval)
	}
	if !config.MetricsEnabled {
		t.Error("Expected metrics enabled by default")
	}
	if config.LogHealthChecks {
		t.Error("Expected health check logging disabled by default")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("INDEX_INTERVAL", "5m")
	t.Setenv("METRICS_ENABLED", "false")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Port != "9000" {
		t.Errorf("Expected port 9000, got %s", config.Port)
	}
	if config.IndexInterval != 5*time.Minute {
		t.Errorf("Expected interval 5m, got %v", config.IndexInterval)
	}
	if config.MetricsEnabled {
		t.Error("Expected metrics disabled")
	}
}

func TestLoadConfigInvalidInterval(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("INDEX_INTERVAL", "sometimes")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.IndexInterval != 30*time.Minute {
		t.Errorf("Expected fallback to 30m, got %v", config.IndexInterval)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value        string
		defaultValue bool
		want         bool
	}{
		{"", true, true},
		{"", false, false},
		{"true", false, true},
		{"false", true, false},
		{"1", false, true},
		{"garbage", true, true},
	}

	for _, tt := range tests {
		t.Setenv("TEST_BOOL", tt.value)
		if got := getEnvBool("TEST_BOOL", tt.defaultValue); got != tt.want {
			t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.value, tt.defaultValue, got, tt.want)
		}
	}
}

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()
	if info.Version == "" || info.GoVersion == "" || info.OS == "" || info.Arch == "" {
		t.Errorf("Expected populated build info, got %+v", info)
	}
}
