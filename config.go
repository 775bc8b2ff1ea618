package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Window size constants
const (
	defaultWidth  = 1024
	defaultHeight = 720
	minWidth      = 400
	minHeight     = 300
)

const (
	defaultCacheSize        = 16
	defaultPreloadCount     = 1
	defaultSlideshowSeconds = 5
	defaultHelpFontSize     = 20.0
	defaultPanStep          = 50
)

// validateKeybindings checks key binding syntax and rejects two actions
// sharing one combination. "ctrl+KeyA" and "Ctrl+KeyA" are the same
// combination.
func validateKeybindings(keybindings map[string][]string) error {
	var firstErr error
	compiled := compileBindings(keybindings, parseKeyBinding, func(action, input string, err error) {
		if firstErr == nil {
			firstErr = fmt.Errorf("invalid key '%s' for action '%s': %w", input, action, err)
		}
	})
	if firstErr != nil {
		return firstErr
	}

	owner := make(map[KeyCombination]string)
	for action, combos := range compiled {
		for _, c := range combos {
			if existing, ok := owner[c]; ok && existing != action {
				return fmt.Errorf("key conflict: %s is bound to both '%s' and '%s'", c, existing, action)
			}
			owner[c] = action
		}
	}
	return nil
}

// validateMousebindings checks mouse binding syntax.
func validateMousebindings(mousebindings map[string][]string) error {
	var firstErr error
	compileBindings(mousebindings, parseMouseBinding, func(action, input string, err error) {
		if firstErr == nil {
			firstErr = fmt.Errorf("invalid mouse binding '%s' for action '%s': %w", input, action, err)
		}
	})
	return firstErr
}

// ConfigLoadResult contains the result of loading configuration
type ConfigLoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "OK", "Default", "Warning", "Error"
}

// Config is persisted as JSON in the user's home directory.
type Config struct {
	WindowWidth  int `json:"window_width"`
	WindowHeight int `json:"window_height"`

	AlwaysOnTop            bool `json:"always_on_top"`
	CheckerboardBackground bool `json:"checkerboard_background"`
	ShowCursorFullscreen   bool `json:"show_cursor_fullscreen"`

	SortMethod                int  `json:"sort_method"`
	CaseInsensitiveExtensions bool `json:"case_insensitive_extensions"`

	CacheSize      int  `json:"cache_size"`
	PreloadEnabled bool `json:"preload_enabled"`
	PreloadCount   int  `json:"preload_count"`

	SlideshowSeconds int  `json:"slideshow_seconds"`
	SlideshowCounter bool `json:"slideshow_counter"`

	// WheelZoom zooms with the plain wheel; otherwise Ctrl is required.
	WheelZoom bool `json:"wheel_zoom"`
	PanStep   int  `json:"pan_step"`

	HelpFontSize  float64             `json:"help_font_size"`
	Keybindings   map[string][]string `json:"keybindings"`
	Mousebindings map[string][]string `json:"mousebindings"`
	MouseSettings MouseSettings       `json:"mouse_settings"`
}

// configPathOverride is set by the -config flag.
var configPathOverride string

func getConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "qpv.json"
	}
	return filepath.Join(homeDir, ".qpv.json")
}

func loadConfig() ConfigLoadResult {
	return loadConfigFromPath(getConfigPath())
}

// defaultConfig returns the configuration used when no file exists.
func defaultConfig() Config {
	return Config{
		WindowWidth:            defaultWidth,
		WindowHeight:           defaultHeight,
		AlwaysOnTop:            false,
		CheckerboardBackground: false,
		ShowCursorFullscreen:   true,
		SortMethod:             SortEntryOrder,
		CacheSize:              defaultCacheSize,
		PreloadEnabled:         true,
		PreloadCount:           defaultPreloadCount,
		SlideshowSeconds:       defaultSlideshowSeconds,
		SlideshowCounter:       true,
		WheelZoom:              false,
		PanStep:                defaultPanStep,
		HelpFontSize:           defaultHelpFontSize,
		Keybindings:            GetDefaultKeybindings(),
		Mousebindings:          GetDefaultMousebindings(),
		MouseSettings:          GetDefaultMouseSettings(),
	}
}

func loadConfigFromPath(configPath string) ConfigLoadResult {
	config := defaultConfig()

	result := ConfigLoadResult{
		Config:   config,
		HasError: false,
		Warnings: []string{},
		Status:   "OK",
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		// Config file not found is not an error - use defaults
		result.Status = "Default"
		return result
	}

	if err := json.Unmarshal(data, &config); err != nil {
		logger.Warn().Err(err).Str("path", configPath).Msg("invalid config file, using defaults")
		result.HasError = true
		result.Status = "Error"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
		return result
	}

	if config.WindowWidth < minWidth {
		config.WindowWidth = defaultWidth
	}
	if config.WindowHeight < minHeight {
		config.WindowHeight = defaultHeight
	}

	if config.SortMethod < SortEntryOrder || config.SortMethod > SortSimple {
		config.SortMethod = SortEntryOrder
	}

	// Cache size (minimum 1, maximum 64)
	if config.CacheSize < 1 {
		config.CacheSize = defaultCacheSize
	} else if config.CacheSize > 64 {
		config.CacheSize = 64
	}

	// Preload count per direction (minimum 1, maximum 8)
	if config.PreloadCount < 1 {
		config.PreloadCount = defaultPreloadCount
	} else if config.PreloadCount > 8 {
		config.PreloadCount = 8
	}

	// Slideshow interval (1s to 1h)
	if config.SlideshowSeconds < 1 {
		config.SlideshowSeconds = defaultSlideshowSeconds
	} else if config.SlideshowSeconds > 3600 {
		config.SlideshowSeconds = 3600
	}

	if config.PanStep < 1 {
		config.PanStep = defaultPanStep
	}

	// Help font size (minimum 12px for readability)
	if config.HelpFontSize < 12.0 {
		config.HelpFontSize = defaultHelpFontSize
	}

	if config.MouseSettings.WheelSensitivity <= 0 {
		config.MouseSettings.WheelSensitivity = 1.0
	}
	if config.MouseSettings.DoubleClickTime <= 0 {
		config.MouseSettings.DoubleClickTime = GetDefaultMouseSettings().DoubleClickTime
	}

	config.Keybindings = mergeBindings(config.Keybindings, GetDefaultKeybindings())
	if err := validateKeybindings(config.Keybindings); err != nil {
		logger.Warn().Err(err).Msg("invalid keybindings detected, using defaults")
		config.Keybindings = GetDefaultKeybindings()
		result.Status = "Warning"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Keybinding errors: %v", err))
	}

	config.Mousebindings = mergeBindings(config.Mousebindings, GetDefaultMousebindings())
	if err := validateMousebindings(config.Mousebindings); err != nil {
		logger.Warn().Err(err).Msg("invalid mouse bindings detected, using defaults")
		config.Mousebindings = GetDefaultMousebindings()
		result.Status = "Warning"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Mouse binding errors: %v", err))
	}

	result.Config = config
	return result
}

// mergeBindings fills actions missing from configured with the defaults.
func mergeBindings(configured, defaults map[string][]string) map[string][]string {
	if configured == nil {
		return defaults
	}
	for action, inputs := range defaults {
		if _, exists := configured[action]; !exists {
			configured[action] = inputs
		}
	}
	return configured
}

func saveConfig(config Config) {
	saveConfigToPath(config, getConfigPath())
}

func saveConfigToPath(config Config, configPath string) {
	// Don't save if size is too small
	if config.WindowWidth < minWidth || config.WindowHeight < minHeight {
		logger.Warn().Int("width", config.WindowWidth).Int("height", config.WindowHeight).
			Msg("not saving config with invalid window size")
		return
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal config")
		return
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("failed to save config")
	}
}
