package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), ".qpv.json")
	if err := os.WriteFile(configPath, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name              string
		configJSON        string
		expectedWidth     int
		expectedHeight    int
		expectedCache     int
		expectedSort      int
		expectedSlideshow int
	}{
		{
			name: "Valid config",
			configJSON: `{
				"window_width": 1000,
				"window_height": 800,
				"cache_size": 8,
				"sort_method": 1,
				"slideshow_seconds": 10
			}`,
			expectedWidth:     1000,
			expectedHeight:    800,
			expectedCache:     8,
			expectedSort:      SortNatural,
			expectedSlideshow: 10,
		},
		{
			name:              "Width too small",
			configJSON:        `{"window_width": 200, "window_height": 600}`,
			expectedWidth:     defaultWidth,
			expectedHeight:    600,
			expectedCache:     defaultCacheSize,
			expectedSort:      SortEntryOrder,
			expectedSlideshow: defaultSlideshowSeconds,
		},
		{
			name:              "Height too small",
			configJSON:        `{"window_width": 800, "window_height": 100}`,
			expectedWidth:     800,
			expectedHeight:    defaultHeight,
			expectedCache:     defaultCacheSize,
			expectedSort:      SortEntryOrder,
			expectedSlideshow: defaultSlideshowSeconds,
		},
		{
			name:              "Cache size capped",
			configJSON:        `{"cache_size": 500}`,
			expectedWidth:     defaultWidth,
			expectedHeight:    defaultHeight,
			expectedCache:     64,
			expectedSort:      SortEntryOrder,
			expectedSlideshow: defaultSlideshowSeconds,
		},
		{
			name:              "Unknown sort method",
			configJSON:        `{"sort_method": 7}`,
			expectedWidth:     defaultWidth,
			expectedHeight:    defaultHeight,
			expectedCache:     defaultCacheSize,
			expectedSort:      SortEntryOrder,
			expectedSlideshow: defaultSlideshowSeconds,
		},
		{
			name:              "Slideshow interval out of range",
			configJSON:        `{"slideshow_seconds": 0}`,
			expectedWidth:     defaultWidth,
			expectedHeight:    defaultHeight,
			expectedCache:     defaultCacheSize,
			expectedSort:      SortEntryOrder,
			expectedSlideshow: defaultSlideshowSeconds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := loadConfigFromPath(writeConfig(t, tt.configJSON))
			config := result.Config

			if result.Status != "OK" {
				t.Errorf("Expected status OK, got %s (%v)", result.Status, result.Warnings)
			}
			if config.WindowWidth != tt.expectedWidth {
				t.Errorf("Expected width %d, got %d", tt.expectedWidth, config.WindowWidth)
			}
			if config.WindowHeight != tt.expectedHeight {
				t.Errorf("Expected height %d, got %d", tt.expectedHeight, config.WindowHeight)
			}
			if config.CacheSize != tt.expectedCache {
				t.Errorf("Expected cache size %d, got %d", tt.expectedCache, config.CacheSize)
			}
			if config.SortMethod != tt.expectedSort {
				t.Errorf("Expected sort method %d, got %d", tt.expectedSort, config.SortMethod)
			}
			if config.SlideshowSeconds != tt.expectedSlideshow {
				t.Errorf("Expected slideshow %d, got %d", tt.expectedSlideshow, config.SlideshowSeconds)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nonexistent.json")

	result := loadConfigFromPath(configPath)

	if result.Status != "Default" {
		t.Errorf("Expected status Default, got %s", result.Status)
	}
	if !reflect.DeepEqual(result.Config, defaultConfig()) {
		t.Errorf("Default config mismatch.\nExpected: %+v\nGot: %+v", defaultConfig(), result.Config)
	}
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	result := loadConfigFromPath(writeConfig(t, `{"window_width": `))

	if !result.HasError || result.Status != "Error" {
		t.Errorf("Expected error status, got %s (HasError=%t)", result.Status, result.HasError)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("Expected one warning, got %v", result.Warnings)
	}
	if !reflect.DeepEqual(result.Config, defaultConfig()) {
		t.Errorf("Expected defaults after a parse error, got %+v", result.Config)
	}
}

func TestKeybindingMerge(t *testing.T) {
	result := loadConfigFromPath(writeConfig(t, `{"keybindings": {"next": ["KeyN"]}}`))

	if result.Status != "OK" {
		t.Fatalf("Expected status OK, got %s (%v)", result.Status, result.Warnings)
	}
	if got := result.Config.Keybindings["next"]; !reflect.DeepEqual(got, []string{"KeyN"}) {
		t.Errorf("Expected next bound to KeyN, got %v", got)
	}
	if got := result.Config.Keybindings["exit"]; !reflect.DeepEqual(got, []string{"KeyQ"}) {
		t.Errorf("Expected exit to keep its default binding, got %v", got)
	}
}

func TestInvalidBindingsFallBackToDefaults(t *testing.T) {
	tests := []struct {
		name       string
		configJSON string
		keys       bool
	}{
		{"Key conflict", `{"keybindings": {"next": ["KeyQ"]}}`, true},
		{"Unknown key", `{"keybindings": {"next": ["KeyNope"]}}`, true},
		{"Unknown modifier", `{"keybindings": {"next": ["Meta+KeyN"]}}`, true},
		{"Empty key", `{"keybindings": {"next": [""]}}`, true},
		{"Unknown mouse input", `{"mousebindings": {"next": ["TripleClick"]}}`, false},
		{"Unknown wheel direction", `{"mousebindings": {"zoom_in": ["Ctrl+WheelSideways"]}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := loadConfigFromPath(writeConfig(t, tt.configJSON))

			if result.Status != "Warning" {
				t.Errorf("Expected status Warning, got %s", result.Status)
			}
			if len(result.Warnings) == 0 {
				t.Error("Expected a warning message")
			}
			if tt.keys && !reflect.DeepEqual(result.Config.Keybindings, GetDefaultKeybindings()) {
				t.Errorf("Expected default keybindings, got %v", result.Config.Keybindings)
			}
			if !tt.keys && !reflect.DeepEqual(result.Config.Mousebindings, GetDefaultMousebindings()) {
				t.Errorf("Expected default mouse bindings, got %v", result.Config.Mousebindings)
			}
		})
	}
}

func TestDefaultBindingsAreValid(t *testing.T) {
	if err := validateKeybindings(GetDefaultKeybindings()); err != nil {
		t.Errorf("Default keybindings invalid: %v", err)
	}
	if err := validateMousebindings(GetDefaultMousebindings()); err != nil {
		t.Errorf("Default mouse bindings invalid: %v", err)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".qpv.json")

	config := defaultConfig()
	config.WindowWidth = 900
	config.AlwaysOnTop = true
	config.SortMethod = SortSimple
	config.Keybindings["next"] = []string{"KeyN", "Space"}

	saveConfigToPath(config, configPath)
	result := loadConfigFromPath(configPath)

	if result.Status != "OK" {
		t.Fatalf("Expected status OK, got %s (%v)", result.Status, result.Warnings)
	}
	if !reflect.DeepEqual(result.Config, config) {
		t.Errorf("Round trip mismatch.\nExpected: %+v\nGot: %+v", config, result.Config)
	}
}

func TestSaveConfigRejectsTinyWindow(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".qpv.json")

	config := defaultConfig()
	config.WindowWidth = 10
	saveConfigToPath(config, configPath)

	if _, err := os.Stat(configPath); !os.IsNotExist(err) {
		t.Errorf("Expected no config file to be written, stat err = %v", err)
	}
}
