package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

var configKeys = []string{
	"FORECAST_API_URL", "FORECAST_REGION", "FORECAST_HORIZON", "FORECAST_CAPACITY",
	"FORECAST_MAPE", "FORECAST_REGIONS", "MODEL_METRICS_PATH", "REFRESH_INTERVAL",
	"REQUEST_TIMEOUT", "MAX_CONCURRENT_FETCHES", "LOG_LEVEL", "LOG_FILE",
	"METRICS_ADDR", "DESKTOP_NOTIFICATIONS",
}

// isolate clears config variables and moves cwd and HOME into an empty
// temp dir so no .env file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	wd, _ := os.Getwd()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	return tmpDir
}

func TestGetEnvString(t *testing.T) {
	key := "TEST_ENV_STRING"
	val := "test_value"
	os.Setenv(key, val)
	defer os.Unsetenv(key)

	if got := getEnvString(key, "default"); got != val {
		t.Errorf("getEnvString() = %q, want %q", got, val)
	}

	if got := getEnvString("NON_EXISTENT", "default"); got != "default" {
		t.Errorf("getEnvString() = %q, want %q", got, "default")
	}
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_ENV_DURATION"

	tests := []struct {
		name       string
		envVal     string
		defaultVal time.Duration
		want       time.Duration
	}{
		{"ValidDuration", "1m", time.Second, time.Minute},
		{"ValidSeconds", "60", time.Second, 60 * time.Second},
		{"Invalid", "invalid", time.Second, time.Second},
		{"Empty", "", time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVal != "" {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			if got := getEnvDuration(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvNumbers(t *testing.T) {
	t.Setenv("TEST_INT", " 30 ")
	t.Setenv("TEST_BAD_INT", "thirty")
	t.Setenv("TEST_FLOAT", "12.5")
	t.Setenv("TEST_BOOL", "false")

	if got := getEnvInt("TEST_INT", 7); got != 30 {
		t.Errorf("getEnvInt() = %d, want 30", got)
	}
	if got := getEnvInt("TEST_BAD_INT", 7); got != 7 {
		t.Errorf("getEnvInt() = %d, want default 7", got)
	}
	if got := getEnvFloat("TEST_FLOAT", 1); got != 12.5 {
		t.Errorf("getEnvFloat() = %v, want 12.5", got)
	}
	if got := getEnvBool("TEST_BOOL", true); got {
		t.Error("getEnvBool() = true, want false")
	}
	if got := getEnvBool("TEST_MISSING_BOOL", true); !got {
		t.Error("getEnvBool() = false, want default true")
	}
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("TEST_LIST", " East US, ,West US ,")
	if got := getEnvList("TEST_LIST", nil); !reflect.DeepEqual(got, []string{"East US", "West US"}) {
		t.Errorf("getEnvList() = %v", got)
	}

	defaults := []string{"a"}
	got := getEnvList("TEST_MISSING_LIST", defaults)
	got[0] = "changed"
	if defaults[0] != "a" {
		t.Error("getEnvList() returned the default slice itself")
	}
}

func TestGetEnvPaths(t *testing.T) {
	paths := getEnvPaths()
	if len(paths) == 0 {
		t.Error("getEnvPaths() returned empty list")
	}

	// Basic check that it contains current directory
	cwd, _ := os.Getwd()
	found := false
	for _, p := range paths {
		if p == filepath.Join(cwd, ".env") {
			found = true
			break
		}
	}
	if !found {
		t.Error("getEnvPaths() missing current directory .env")
	}
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIURL != defaultAPIURL {
		t.Errorf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.Horizon != 7 || cfg.Capacity != 10000 || cfg.MAPE != 8.5 {
		t.Errorf("forecast params = %d/%v/%v", cfg.Horizon, cfg.Capacity, cfg.MAPE)
	}
	if !reflect.DeepEqual(cfg.Regions, DefaultRegions) {
		t.Errorf("Regions = %v, want %v", cfg.Regions, DefaultRegions)
	}
	if cfg.RefreshInterval != defaultRefreshInterval {
		t.Errorf("RefreshInterval = %v, want %v", cfg.RefreshInterval, defaultRefreshInterval)
	}
	if want := filepath.Join(home, ".config", "capdash", "models.yaml"); cfg.ModelMetricsPath != want {
		t.Errorf("ModelMetricsPath = %q, want %q", cfg.ModelMetricsPath, want)
	}
	if !cfg.Notifications {
		t.Error("Notifications = false, want true by default")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("FORECAST_API_URL", "http://forecast.internal:8080/")
	t.Setenv("FORECAST_HORIZON", "30")
	t.Setenv("FORECAST_REGIONS", "North,South")
	t.Setenv("MAX_CONCURRENT_FETCHES", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.APIURL != "http://forecast.internal:8080" {
		t.Errorf("APIURL = %q, trailing slash not trimmed", cfg.APIURL)
	}
	if cfg.Horizon != 30 || cfg.MaxConcurrentFetches != 2 {
		t.Errorf("Horizon/MaxConcurrentFetches = %d/%d", cfg.Horizon, cfg.MaxConcurrentFetches)
	}
	if !reflect.DeepEqual(cfg.Regions, []string{"North", "South"}) {
		t.Errorf("Regions = %v", cfg.Regions)
	}
}

func TestLoad_WithEnvFile(t *testing.T) {
	tmpDir := isolate(t)
	content := "FORECAST_REGION=West\nFORECAST_CAPACITY=2500"
	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Region != "West" || cfg.Capacity != 2500 {
		t.Errorf("Region/Capacity = %q/%v, want West/2500", cfg.Region, cfg.Capacity)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"Horizon", "FORECAST_HORIZON", "14", "FORECAST_HORIZON"},
		{"Capacity", "FORECAST_CAPACITY", "0", "FORECAST_CAPACITY"},
		{"MAPE", "FORECAST_MAPE", "-1", "FORECAST_MAPE"},
		{"URL", "FORECAST_API_URL", "localhost", "FORECAST_API_URL"},
		{"Regions", "FORECAST_REGIONS", " , ", "FORECAST_REGIONS"},
		{"Interval", "REFRESH_INTERVAL", "10ms", "REFRESH_INTERVAL"},
		{"Fetches", "MAX_CONCURRENT_FETCHES", "0", "MAX_CONCURRENT_FETCHES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want mention of %s", err, tt.want)
			}
		})
	}
}
