package types

import "time"

// RetrievalConfig holds settings for the upstream patent search service.
// Per prd001-retrieval R5.1-R5.4.
type RetrievalConfig struct {
	// BaseURL is the service root. Empty uses the production endpoint.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// JWT is the bearer token presented to the service.
	JWT string `json:"jwt,omitempty" yaml:"jwt,omitempty"`

	// Timeout is the overall per-request timeout (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries is the retry budget for transient failures (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// UserAgent is the User-Agent header sent with requests
	// (e.g. "patent-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// EnrichConfig holds settings for the text-analysis collaborator.
// Per prd004-enrichment R1.2, R5.1-R5.3.
type EnrichConfig struct {
	// AuthURL is the OAuth2 client-credentials token endpoint. Empty uses
	// the production endpoint.
	AuthURL string `json:"auth_url" yaml:"auth_url"`

	// BaseURL is the chat API root. Empty uses the production endpoint.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// ClientID and ClientSecret are the OAuth2 client credentials.
	ClientID     string `json:"client_id,omitempty" yaml:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty" yaml:"client_secret,omitempty"`

	// Scope is the OAuth2 scope requested with each token (default
	// "GIGACHAT_API_PERS").
	Scope string `json:"scope" yaml:"scope"`

	// Model is the completion model identifier (default "GigaChat").
	Model string `json:"model" yaml:"model"`

	// Timeout is the per-request timeout (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// ArchiveConfig holds settings for the local patent archive.
// Per prd005-archive R1.2, R2.3.
type ArchiveConfig struct {
	// Dir is the archive directory (contains patents.db and exports).
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of recall results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
