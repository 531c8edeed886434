package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is read when neither a path nor CONFIG_PATH is given.
const DefaultPath = "config/config.toml"

type Prompts struct {
	Extraction string `toml:"extraction"`
	Cypher     string `toml:"cypher"`
	QA         string `toml:"qa"`
	// Instructions are appended to the extraction prompt verbatim.
	Instructions string `toml:"instructions"`
}

type LLMConfig struct {
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"`
	APIKey      string  `toml:"api_key"`
	BaseURL     string  `toml:"base_url"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float32 `toml:"temperature"`
}

type Neo4jConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
}

type ExtractionConfig struct {
	AllowedNodes           []string `toml:"allowed_nodes"`
	AllowedRelationships   []string `toml:"allowed_relationships"`
	NodeProperties         []string `toml:"node_properties"`
	RelationshipProperties []string `toml:"relationship_properties"`
	StrictMode             bool     `toml:"strict_mode"`
	IncludeSource          bool     `toml:"include_source"`
	BaseEntityLabel        bool     `toml:"base_entity_label"`
}

type QueryConfig struct {
	Verbose                 bool     `toml:"verbose"`
	ReturnIntermediateSteps bool     `toml:"return_intermediate_steps"`
	AllowMutatingStatements bool     `toml:"allow_mutating_statements"`
	ReturnDirect            bool     `toml:"return_direct"`
	TopK                    int      `toml:"top_k"`
	MaxContextTokens        int      `toml:"max_context_tokens"`
	IncludeTypes            []string `toml:"include_types"`
	ExcludeTypes            []string `toml:"exclude_types"`
}

type TimeoutConfig struct {
	Model Duration `toml:"model"`
	Store Duration `toml:"store"`
}

type ConcurrencyConfig struct {
	BulkIngest int `toml:"bulk_ingest"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type Config struct {
	LLM         LLMConfig         `toml:"llm"`
	Neo4j       Neo4jConfig       `toml:"neo4j"`
	Extraction  ExtractionConfig  `toml:"extraction"`
	Query       QueryConfig       `toml:"query"`
	Prompts     Prompts           `toml:"prompts"`
	Timeouts    TimeoutConfig     `toml:"timeouts"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
	Server      ServerConfig      `toml:"server"`
}

// Duration reads TOML strings such as "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration that works against a local Neo4j and Ollama.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "ollama",
			Model:     "llama3.1:8b",
			BaseURL:   "http://localhost:11434",
			MaxTokens: 2048,
		},
		Neo4j: Neo4jConfig{
			URI:      "bolt://localhost:7687",
			User:     "neo4j",
			Database: "neo4j",
		},
		Query: QueryConfig{
			AllowMutatingStatements: true,
			TopK:                    10,
		},
		Prompts: Prompts{
			Extraction: DefaultExtractionPrompt,
			Cypher:     DefaultCypherPrompt,
			QA:         DefaultQAPrompt,
		},
		Timeouts: TimeoutConfig{
			Model: Duration{60 * time.Second},
			Store: Duration{30 * time.Second},
		},
		Concurrency: ConcurrencyConfig{
			BulkIngest: 4,
		},
		Server: ServerConfig{
			Port: "8080",
		},
	}
}

// Load reads a TOML file on top of Default, so keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// Resolve loads path (or CONFIG_PATH, or DefaultPath) and applies the environment.
// A missing file is not an error when no path was asked for explicitly.
func Resolve(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}

	cfg, err := Load(path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = Default()
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with environment variables when they are set.
func ApplyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString("NEO4J_URI", &cfg.Neo4j.URI)
	setString("NEO4J_USERNAME", &cfg.Neo4j.User)
	setString("NEO4J_PASSWORD", &cfg.Neo4j.Password)
	setString("NEO4J_DATABASE", &cfg.Neo4j.Database)

	setString("LLM_PROVIDER", &cfg.LLM.Provider)
	setString("LLM_MODEL", &cfg.LLM.Model)
	setString("LLM_API_KEY", &cfg.LLM.APIKey)
	setString("LLM_BASE_URL", &cfg.LLM.BaseURL)

	setString("PORT", &cfg.Server.Port)

	if v := os.Getenv("ALLOW_MUTATING_STATEMENTS"); v != "" {
		allow, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid ALLOW_MUTATING_STATEMENTS %q: %w", v, err)
		}
		cfg.Query.AllowMutatingStatements = allow
	}

	if v := os.Getenv("EXTRACTION_ALLOWED_NODES"); v != "" {
		cfg.Extraction.AllowedNodes = splitList(v)
	}
	if v := os.Getenv("EXTRACTION_ALLOWED_RELATIONSHIPS"); v != "" {
		cfg.Extraction.AllowedRelationships = splitList(v)
	}

	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
