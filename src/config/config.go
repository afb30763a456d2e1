package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendSway = "sway"
	BackendX11  = "x11"

	ScalerNearest    = "nearest"
	ScalerBilinear   = "bilinear"
	ScalerCatmullRom = "catmullrom"
)

// LoadOptions overrides where the .env file is looked up. Tests use it to
// point at a temp file; the binary always uses the executable directory.
type LoadOptions struct {
	EnvPathOverride string
}

// Config holds ambient settings. Key bindings and viewport constants are
// fixed and not part of it.
type Config struct {
	EnvPath           string
	EnableFileLogging bool
	Backend           string
	SwaymsgPath       string
	GrimPath          string
	Scaler            string
	RenderWorkers     int
}

// Default returns the configuration used when no .env file is present.
func Default() *Config {
	return &Config{
		Backend:     BackendSway,
		SwaymsgPath: "swaymsg",
		GrimPath:    "grim",
		Scaler:      ScalerNearest,
	}
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

// LoadWithOptions starts from Default and applies values from a .env file
// next to the executable. The file is parsed with godotenv.Read so the
// process environment is neither consulted nor modified.
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	cfg := Default()

	envPath := strings.TrimSpace(opts.EnvPathOverride)
	if envPath == "" {
		envPath = resolveEnvPath()
	}
	if envPath == "" {
		return cfg, nil
	}

	values, err := godotenv.Read(envPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	cfg.EnvPath = envPath

	cfg.EnableFileLogging = strings.ToLower(values["ENABLE_FILE_LOGGING"]) == "true"
	cfg.Backend = resolveBackend(values["BACKEND"])
	cfg.SwaymsgPath = getWithDefault(values, "SWAYMSG_PATH", cfg.SwaymsgPath)
	cfg.GrimPath = getWithDefault(values, "GRIM_PATH", cfg.GrimPath)
	cfg.Scaler = resolveScaler(values["SCALER"])
	if v := values["RENDER_WORKERS"]; v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RenderWorkers = n
		}
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}

	exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}
	return ""
}

func getWithDefault(values map[string]string, key, defaultValue string) string {
	if v := strings.TrimSpace(values[key]); v != "" {
		return v
	}
	return defaultValue
}

func resolveBackend(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case BackendX11, "xorg":
		return BackendX11
	default:
		return BackendSway
	}
}

func resolveScaler(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case ScalerBilinear, "linear":
		return ScalerBilinear
	case ScalerCatmullRom, "catmull-rom", "smooth":
		return ScalerCatmullRom
	default:
		return ScalerNearest
	}
}
