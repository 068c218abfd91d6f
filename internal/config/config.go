package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "ORBIT_SENTINEL_CONFIG"
	httpAddrEnv   = "ORBIT_SENTINEL_HTTP_ADDR"
	dbPathEnv     = "ORBIT_SENTINEL_DB_PATH"
	catalogURLEnv = "ORBIT_SENTINEL_CATALOG_URL"
	debrisURLEnv  = "ORBIT_SENTINEL_DEBRIS_URL"
	cacheDirEnv   = "ORBIT_SENTINEL_CACHE_DIR"
	logLevelEnv   = "ORBIT_SENTINEL_LOG_LEVEL"
	authTokenEnv  = "ORBIT_SENTINEL_AUTH_TOKEN"
)

// Config holds all settings of the service.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Database   DatabaseConfig   `yaml:"database"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Detection  DetectionConfig  `yaml:"detection"`
	Simulation SimulationConfig `yaml:"simulation"`
	LogLevel   string           `yaml:"logLevel"`
}

// HTTPConfig describes the listen address of the API server.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// AuthConfig enables optional bearer-token auth on the API.
type AuthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
}

// DatabaseConfig locates the conjunction store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CatalogConfig describes element set sources and local caching.
type CatalogConfig struct {
	SatelliteURL           string `yaml:"satelliteUrl"`
	DebrisURL              string `yaml:"debrisUrl"`
	CacheDir               string `yaml:"cacheDir"`
	MaxCachedFiles         int    `yaml:"maxCachedFiles"`
	FetchIntervalHours     int    `yaml:"fetchIntervalHours"`
	ObjectLimit            int    `yaml:"objectLimit"`
	RefreshIntervalSeconds int    `yaml:"refreshIntervalSeconds"`
}

// FetchInterval returns how often fresh catalog text is pulled.
func (c CatalogConfig) FetchInterval() time.Duration {
	return time.Duration(c.FetchIntervalHours) * time.Hour
}

// RefreshInterval returns the live-position cache refresh gate interval.
func (c CatalogConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

// DetectionConfig tunes periodic detection runs.
type DetectionConfig struct {
	WindowDays        int     `yaml:"windowDays"`
	StepMinutes       int     `yaml:"stepMinutes"`
	ThresholdKm       float64 `yaml:"thresholdKm"`
	MaxCandidates     int     `yaml:"maxCandidates"`
	RunTimeoutMinutes int     `yaml:"runTimeoutMinutes"`
}

// Window returns the detection look-ahead horizon.
func (d DetectionConfig) Window() time.Duration {
	return time.Duration(d.WindowDays) * 24 * time.Hour
}

// Step returns the closest-approach sampling interval.
func (d DetectionConfig) Step() time.Duration {
	return time.Duration(d.StepMinutes) * time.Minute
}

// RunTimeout returns the per-run deadline.
func (d DetectionConfig) RunTimeout() time.Duration {
	return time.Duration(d.RunTimeoutMinutes) * time.Minute
}

// SimulationConfig bounds the interactive one-vs-many path.
type SimulationConfig struct {
	MaxCandidates int `yaml:"maxCandidates"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. Invalid settings log a warning and fall back to defaults;
// Load never fails.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.validate()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(httpAddrEnv); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv(dbPathEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(catalogURLEnv); v != "" {
		c.Catalog.SatelliteURL = v
	}
	if v := os.Getenv(debrisURLEnv); v != "" {
		c.Catalog.DebrisURL = v
	}
	if v := os.Getenv(cacheDirEnv); v != "" {
		c.Catalog.CacheDir = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(authTokenEnv); v != "" {
		c.Auth.Token = v
		c.Auth.Enabled = true
	}
}

func (c *Config) validate() {
	def := defaultConfig()

	if c.Detection.WindowDays < 1 {
		log.Printf("config: invalid detection window %d days, using %d", c.Detection.WindowDays, def.Detection.WindowDays)
		c.Detection.WindowDays = def.Detection.WindowDays
	}
	if c.Detection.StepMinutes < 1 {
		log.Printf("config: invalid detection step %d minutes, using %d", c.Detection.StepMinutes, def.Detection.StepMinutes)
		c.Detection.StepMinutes = def.Detection.StepMinutes
	}
	if c.Detection.ThresholdKm <= 0 {
		log.Printf("config: invalid detection threshold %v km, using %v", c.Detection.ThresholdKm, def.Detection.ThresholdKm)
		c.Detection.ThresholdKm = def.Detection.ThresholdKm
	}
	if c.Catalog.ObjectLimit < 1 {
		c.Catalog.ObjectLimit = def.Catalog.ObjectLimit
	}
	if c.Catalog.FetchIntervalHours < 1 {
		c.Catalog.FetchIntervalHours = def.Catalog.FetchIntervalHours
	}
	if c.Catalog.RefreshIntervalSeconds < 1 {
		c.Catalog.RefreshIntervalSeconds = def.Catalog.RefreshIntervalSeconds
	}
	if c.Detection.RunTimeoutMinutes < 1 {
		c.Detection.RunTimeoutMinutes = def.Detection.RunTimeoutMinutes
	}
	if c.Auth.Enabled && c.Auth.Token == "" {
		log.Printf("config: auth enabled without a token, disabling auth")
		c.Auth.Enabled = false
	}
}

func mergeConfig(base, override Config) Config {
	if override.HTTP.Addr != "" {
		base.HTTP = override.HTTP
	}
	if override.Auth.Token != "" || override.Auth.Enabled {
		base.Auth = override.Auth
	}
	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.Catalog.SatelliteURL != "" {
		base.Catalog.SatelliteURL = override.Catalog.SatelliteURL
	}
	if override.Catalog.DebrisURL != "" {
		base.Catalog.DebrisURL = override.Catalog.DebrisURL
	}
	if override.Catalog.CacheDir != "" {
		base.Catalog.CacheDir = override.Catalog.CacheDir
	}
	if override.Catalog.MaxCachedFiles > 0 {
		base.Catalog.MaxCachedFiles = override.Catalog.MaxCachedFiles
	}
	if override.Catalog.FetchIntervalHours > 0 {
		base.Catalog.FetchIntervalHours = override.Catalog.FetchIntervalHours
	}
	if override.Catalog.ObjectLimit > 0 {
		base.Catalog.ObjectLimit = override.Catalog.ObjectLimit
	}
	if override.Catalog.RefreshIntervalSeconds > 0 {
		base.Catalog.RefreshIntervalSeconds = override.Catalog.RefreshIntervalSeconds
	}

	if override.Detection.WindowDays > 0 {
		base.Detection.WindowDays = override.Detection.WindowDays
	}
	if override.Detection.StepMinutes > 0 {
		base.Detection.StepMinutes = override.Detection.StepMinutes
	}
	if override.Detection.ThresholdKm > 0 {
		base.Detection.ThresholdKm = override.Detection.ThresholdKm
	}
	if override.Detection.MaxCandidates > 0 {
		base.Detection.MaxCandidates = override.Detection.MaxCandidates
	}
	if override.Detection.RunTimeoutMinutes > 0 {
		base.Detection.RunTimeoutMinutes = override.Detection.RunTimeoutMinutes
	}

	if override.Simulation.MaxCandidates > 0 {
		base.Simulation.MaxCandidates = override.Simulation.MaxCandidates
	}

	if override.LogLevel != "" {
		base.LogLevel = override.LogLevel
	}

	return base
}

func defaultConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Addr: ":8080"},
		Database: DatabaseConfig{Path: "orbit-sentinel.db"},
		Catalog: CatalogConfig{
			SatelliteURL:           "https://celestrak.org/NORAD/elements/gp.php?GROUP=active&FORMAT=tle",
			DebrisURL:              "https://celestrak.org/NORAD/elements/gp.php?GROUP=iridium-33-debris&FORMAT=tle",
			CacheDir:               "/tmp/orbit-sentinel/catalog",
			MaxCachedFiles:         5,
			FetchIntervalHours:     6,
			ObjectLimit:            20,
			RefreshIntervalSeconds: 30,
		},
		Detection: DetectionConfig{
			WindowDays:        7,
			StepMinutes:       10,
			ThresholdKm:       10,
			MaxCandidates:     64,
			RunTimeoutMinutes: 30,
		},
		Simulation: SimulationConfig{MaxCandidates: 50},
		LogLevel:   "info",
	}
}
