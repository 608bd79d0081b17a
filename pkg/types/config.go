package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pubnote/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// PubmedConfig holds settings for the PubMed E-utilities client.
type PubmedConfig struct {
	HTTPConfig `yaml:",inline"`

	// Email is the contact address attached to every E-utilities request,
	// as required by NCBI usage policy.
	Email string `json:"email" yaml:"email"`

	// APIKey is an optional NCBI API key that raises the allowed request rate.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxResults is the default maximum number of articles returned (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// Expanded toggles the verbose article format (all metadata fields)
	// versus the condensed one (title, year, truncated abstract).
	Expanded bool `json:"expanded" yaml:"expanded"`

	// CacheTTL is how long successful responses are reused (default 24h).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`

	// MinInterval is the minimum spacing between outbound requests
	// (default 340ms, three requests per second without an API key).
	MinInterval time.Duration `json:"min_interval" yaml:"min_interval"`
}

// AIConfig holds settings for components that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Temperature controls sampling randomness (default 1.0).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxRetries is the number of retry attempts for rate-limited API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// NoteConfig holds settings for Obsidian note export.
type NoteConfig struct {
	// VaultPath is the Obsidian vault root. Empty means discover it from
	// the OBSIDIAN_VAULT_PATH environment variable or common locations.
	VaultPath string `json:"vault_path,omitempty" yaml:"vault_path,omitempty"`

	// Folder is the subdirectory inside the vault for generated notes
	// (default "AI-Generated").
	Folder string `json:"folder" yaml:"folder"`

	// MaxConcepts is the number of key concepts to extract for linking (default 10).
	MaxConcepts int `json:"max_concepts" yaml:"max_concepts"`

	// FollowUps controls whether follow-up questions are generated.
	FollowUps bool `json:"follow_ups" yaml:"follow_ups"`
}

// StoreConfig holds settings for the local article library.
type StoreConfig struct {
	// DataDir is the base directory for the library (contains index/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
