package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Quality presets for downloads
type QualityPreset string

const (
	QualityBest   QualityPreset = "best"
	QualityMedium QualityPreset = "medium"
	QualityWorst  QualityPreset = "worst"
	Quality360p   QualityPreset = "360p"
	Quality480p   QualityPreset = "480p"
	Quality720p   QualityPreset = "720p"
	Quality1080p  QualityPreset = "1080p"
)

// Download engines
type Engine string

const (
	// EngineAuto uses the yt-dlp binary when available, the native client otherwise
	EngineAuto Engine = "auto"

	// EngineYTDLP forces the yt-dlp binary
	EngineYTDLP Engine = "ytdlp"

	// EngineNative forces the pure-Go client
	EngineNative Engine = "native"
)

// Default values
const (
	DefaultDownloadsDir  = "downloads"
	DefaultOutputDir     = "output"
	DefaultDurationHours = 10.0
	DefaultQuality       = QualityBest
	DefaultEngine        = EngineAuto
	DefaultPrivacy       = "public"
	DefaultCategoryID    = "22"
	DefaultSecretsFile   = "credentials.json"
	DefaultTokenFile     = "token.json"
)

// UploadSettings configures the optional YouTube upload of the result
type UploadSettings struct {
	ClientSecretsFile string `yaml:"client_secrets_file"`
	TokenFile         string `yaml:"token_file"`
	Privacy           string `yaml:"privacy"`
	CategoryID        string `yaml:"category_id"`
}

// Settings holds the full tool configuration
type Settings struct {
	DownloadsDir  string         `yaml:"downloads_dir"`
	OutputDir     string         `yaml:"output_dir"`
	DurationHours float64        `yaml:"duration_hours"`
	Quality       QualityPreset  `yaml:"quality"`
	Engine        Engine         `yaml:"engine"`
	Reencode      bool           `yaml:"reencode"`
	KeepOriginal  bool           `yaml:"keep_original"`
	Upload        UploadSettings `yaml:"upload"`
}

// Default returns settings matching the built-in defaults
func Default() *Settings {
	return &Settings{
		DownloadsDir:  DefaultDownloadsDir,
		OutputDir:     DefaultOutputDir,
		DurationHours: DefaultDurationHours,
		Quality:       DefaultQuality,
		Engine:        DefaultEngine,
		Upload: UploadSettings{
			ClientSecretsFile: DefaultSecretsFile,
			TokenFile:         DefaultTokenFile,
			Privacy:           DefaultPrivacy,
			CategoryID:        DefaultCategoryID,
		},
	}
}

// Load reads settings from a YAML file, layered over the defaults.
// A missing file is not an error: defaults are returned.
func Load(path string) (*Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return s, nil
}

// Save writes the settings to a YAML file
func (s *Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// Validate checks that the settings form a runnable configuration
func (s *Settings) Validate() error {
	if s.DurationHours <= 0 {
		return fmt.Errorf("duration must be positive, got: %v", s.DurationHours)
	}
	if s.DownloadsDir == "" {
		return fmt.Errorf("downloads directory must not be empty")
	}
	if s.OutputDir == "" {
		return fmt.Errorf("output directory must not be empty")
	}

	switch s.Quality {
	case QualityBest, QualityMedium, QualityWorst, Quality360p, Quality480p, Quality720p, Quality1080p:
	default:
		return fmt.Errorf("unknown quality preset: %s", s.Quality)
	}

	switch s.Engine {
	case EngineAuto, EngineYTDLP, EngineNative:
	default:
		return fmt.Errorf("unknown download engine: %s", s.Engine)
	}

	switch s.Upload.Privacy {
	case "public", "unlisted", "private":
	default:
		return fmt.Errorf("unknown privacy status: %s", s.Upload.Privacy)
	}

	return nil
}
