package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that YAML-serializes as "10s" 형식
type Duration time.Duration

// Std returns the standard library duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalYAML emits the human-readable form
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML accepts "10s" 형식 또는 초 단위 정수
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("기간 형식 아님: %q", s)
		}
		*d = Duration(parsed)
		return nil
	}
	var secs int64
	if err := value.Decode(&secs); err != nil {
		return fmt.Errorf("기간 형식 아님: %s", value.Value)
	}
	*d = Duration(time.Duration(secs) * time.Second)
	return nil
}

// Config represents ~/.saju/config.yaml
type Config struct {
	Version string       `yaml:"version"`
	Source  SourceConfig `yaml:"source"`
	Corpus  CorpusConfig `yaml:"corpus"`
	DB      DBConfig     `yaml:"db"`
	Cache   CacheConfig  `yaml:"cache"`
	Match   MatchConfig  `yaml:"match"`
	Server  ServerConfig `yaml:"server"`
}

// SourceConfig holds the primary calendar source settings
type SourceConfig struct {
	Endpoint       string   `yaml:"endpoint"`
	ServiceKey     string   `yaml:"service_key,omitempty"`
	Timeout        Duration `yaml:"timeout"`
	SolarCorrected bool     `yaml:"solar_corrected"` // 시주 태양시 보정 기본값
}

// CorpusConfig holds the rule-card corpus settings
type CorpusConfig struct {
	Path string `yaml:"path"` // YAML 말뭉치 경로 (비면 DB에서 로드)
}

// DBConfig holds database backend settings
type DBConfig struct {
	Type string `yaml:"type"` // sqlite | duckdb
	Path string `yaml:"path,omitempty"`
}

// CacheConfig holds cache TTL settings
type CacheConfig struct {
	ChartTTL  Duration `yaml:"chart_ttl"`
	SourceTTL Duration `yaml:"source_ttl"`
}

// MatchConfig holds match engine settings
type MatchConfig struct {
	PerSection    int  `yaml:"per_section"`
	ZeroTolerance bool `yaml:"zero_tolerance"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port int `yaml:"port"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Version: "0.1.0",
		Source: SourceConfig{
			Timeout:        Duration(10 * time.Second),
			SolarCorrected: true, // 한국 출생 기준
		},
		DB: DBConfig{
			Type: "sqlite",
		},
		Cache: CacheConfig{
			ChartTTL:  Duration(365 * 24 * time.Hour),
			SourceTTL: Duration(30 * 24 * time.Hour),
		},
		Match: MatchConfig{
			PerSection:    3,
			ZeroTolerance: true,
		},
		Server: ServerConfig{
			Port: 8280,
		},
	}
}

// Load reads the config file, filling omitted fields with defaults.
// 파일이 없으면 기본값 그대로
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("설정 파일 읽기 실패: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("설정 파일 파싱 실패: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes the config file
func Save(path string, cfg *Config) error {
	if err := EnsureHomeDir(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("설정 직렬화 실패: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("설정 파일 저장 실패: %w", err)
	}
	return nil
}

// normalize clamps zero/negative values back to defaults
func (c *Config) normalize() {
	def := Default()
	if c.Source.Timeout <= 0 {
		c.Source.Timeout = def.Source.Timeout
	}
	if c.Cache.ChartTTL <= 0 {
		c.Cache.ChartTTL = def.Cache.ChartTTL
	}
	if c.Cache.SourceTTL <= 0 {
		c.Cache.SourceTTL = def.Cache.SourceTTL
	}
	if c.Match.PerSection <= 0 {
		c.Match.PerSection = def.Match.PerSection
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		c.Server.Port = def.Server.Port
	}
	if c.DB.Type != "sqlite" && c.DB.Type != "duckdb" {
		c.DB.Type = def.DB.Type
	}
}
