package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the configuration file looked up next to the executable.
const FileName = "config.toml"

// AppConfig is the application configuration.
type AppConfig struct {
	Server    ServerConfig    `toml:"server"`
	Data      DataConfig      `toml:"data"`
	Auth      AuthConfig      `toml:"auth"`
	Import    ImportConfig    `toml:"import"`
	Narrative NarrativeConfig `toml:"narrative"`
	Log       LogConfig       `toml:"log"`
}

// ServerConfig is the HTTP server section.
type ServerConfig struct {
	Port        int      `toml:"port"`
	DevMode     bool     `toml:"dev_mode"`
	OpenBrowser bool     `toml:"open_browser"`
	CORSOrigins []string `toml:"cors_origins"`
}

// DataConfig locates the database and working directories.
type DataConfig struct {
	DataDir string `toml:"data_dir"`
	DBName  string `toml:"db_name"`
}

// AuthConfig holds the shared admin secret. An empty password rejects every
// admin request.
type AuthConfig struct {
	AdminPassword string `toml:"admin_password"`
}

// ImportConfig tunes spreadsheet ingestion.
type ImportConfig struct {
	MaxUploadMB int `toml:"max_upload_mb"`
	// Strategy is the default extraction strategy: fixed or assisted.
	Strategy           string `toml:"strategy"`
	InterpretMaxTokens int    `toml:"interpret_max_tokens"`
	// WatchPanel is the panel applied to files dropped into the inbox.
	WatchPanel string `toml:"watch_panel"`
}

// NarrativeConfig configures the text generator.
type NarrativeConfig struct {
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	MaxTokens      int    `toml:"max_tokens"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // text, json or logfmt
}

// LoadConfigInfo carries facts about where the configuration came from.
type LoadConfigInfo struct {
	Path          string
	FileFound     bool
	PortSpecified bool
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port: 3000,
		},
		Data: DataConfig{
			DataDir: "data",
			DBName:  "kpi.db",
		},
		Import: ImportConfig{
			MaxUploadMB:        50,
			Strategy:           "fixed",
			InterpretMaxTokens: 8192,
			WatchPanel:         "auto",
		},
		Narrative: NarrativeConfig{
			Model:          "claude-sonnet-4-20250514",
			MaxTokens:      500,
			TimeoutSeconds: 30,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}
	serverMap, ok := raw["server"].(map[string]any)
	if !ok {
		return false
	}
	_, ok = serverMap["port"]
	return ok
}

// GetExeDir returns the directory of the running executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath is config.toml next to the executable, or in the working
// directory when the executable path is unknown.
func DefaultPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, FileName)
}

// LoadConfigWithInfo loads path (DefaultPath when empty), falls back to the
// defaults when the file does not exist and applies environment overrides.
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, info, err
	default:
		info.FileFound = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
	}

	if applyEnv(config) {
		info.PortSpecified = true
	}
	return config, info, nil
}

// LoadConfig loads the configuration from path.
func LoadConfig(path string) (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo(path)
	return config, err
}

// applyEnv applies environment overrides and reports whether PORT was set.
func applyEnv(config *AppConfig) bool {
	portSet := false
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			config.Server.Port = p
			portSet = true
		}
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		config.Auth.AdminPassword = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		config.Narrative.APIKey = v
	}
	if v := os.Getenv("KPIBOARD_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	return portSet
}

// SaveConfig writes config to path.
func SaveConfig(config *AppConfig, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DataDir resolves the data directory. Relative paths are taken from the
// executable directory.
func DataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir)
}

// EnsureDataDir creates the data directory and its subdirectories.
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := DataDir(config)
	for _, subdir := range []string{"", "uploads", "inbox", "backups"} {
		if err := os.MkdirAll(filepath.Join(dataDir, subdir), 0755); err != nil {
			return "", err
		}
	}
	return dataDir, nil
}

// GetDataPath returns the path of filename inside a data subdirectory.
func GetDataPath(config *AppConfig, subdir, filename string) string {
	return filepath.Join(DataDir(config), subdir, filename)
}

// DBPath returns the database file path.
func DBPath(config *AppConfig) string {
	return GetDataPath(config, "", config.Data.DBName)
}

// MaxUploadBytes is the upload size ceiling.
func (c *AppConfig) MaxUploadBytes() int64 {
	if c.Import.MaxUploadMB <= 0 {
		return 50 << 20
	}
	return int64(c.Import.MaxUploadMB) << 20
}
