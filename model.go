package docchat

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/corvidae/docchat/document"
)

var (
	ErrInvalidDocumentFolder = errors.New("document folder does not exist or is not a directory")
	ErrEmptyQuestion         = errors.New("question is empty")
)

// DefaultTopK is the number of chunks retrieved per question when the
// caller does not ask for a specific count.
const DefaultTopK = 3

type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	str := d.Duration().String()
	return json.Marshal(str)
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	duration, err := time.ParseDuration(str)
	if err != nil {
		return err
	}

	*d = Duration(duration)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.Duration().String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	duration, err := time.ParseDuration(str)
	if err != nil {
		return err
	}

	*d = Duration(duration)
	return nil
}

type ChunkerConfig struct {
	Words   int `yaml:"words"`
	Overlap int `yaml:"overlap"`
}

type EmbedderConfig struct {
	BaseURL   string   `yaml:"baseURL"`
	APIKeyEnv string   `yaml:"apiKeyEnv"`
	Model     string   `yaml:"model"`
	Timeout   Duration `yaml:"timeout"`
}

type AnswererConfig struct {
	BaseURL    string   `yaml:"baseURL"`
	APIKeyEnv  string   `yaml:"apiKeyEnv"`
	Model      string   `yaml:"model"`
	Timeout    Duration `yaml:"timeout"`
	MaxRetries int      `yaml:"maxRetries"`
}

type Config struct {
	Documents string         `yaml:"documents"`
	Cache     string         `yaml:"cache"`
	TopK      int            `yaml:"topK"`
	Chunker   ChunkerConfig  `yaml:"chunker"`
	Embedder  EmbedderConfig `yaml:"embedder"`
	Answerer  AnswererConfig `yaml:"answerer"`
}

// LoadConfig reads a YAML config file and fills in defaults.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return Config{}, err
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

func (cfg *Config) ApplyDefaults() {
	if cfg.Documents == "" {
		cfg.Documents = "data/pdf"
	}
	if cfg.Cache == "" {
		cfg.Cache = "data/cache"
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.Chunker.Words <= 0 {
		cfg.Chunker.Words = document.DefaultChunkWords
	}
	if cfg.Chunker.Overlap < 0 {
		cfg.Chunker.Overlap = document.DefaultOverlapWords
	}
}
