package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:       HTTPConfig{Port: 8000},
		Database:   DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Embedding:  EmbeddingConfig{APIKey: "sk-emb"},
		Completion: CompletionConfig{APIKey: "sk-comp"},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_URLInsteadOfAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database = DatabaseConfig{URL: "redis://localhost:6379/0"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantMsg string
	}{
		{"invalid port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"port too big", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"missing database", func(c *Config) { c.Database = DatabaseConfig{} }, "database.url or database.addrs"},
		{"missing embedding key", func(c *Config) { c.Embedding.APIKey = "" }, "embedding.api_key"},
		{"missing completion key", func(c *Config) { c.Completion.APIKey = "" }, "completion.api_key"},
		{"default above max", func(c *Config) {
			c.Articles.DefaultSearchLimit = 50
			c.Articles.MaxSearchLimit = 10
		}, "default_search_limit"},
		{"negative cache ttl", func(c *Config) { c.Embedding.CacheTTLSec = -1 }, "cache_ttl_sec"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.ApplyDefaults()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tc.wantMsg)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Storage.KeyPrefix != "articles:" {
		t.Errorf("expected KeyPrefix='articles:', got %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Index.Name != "articles:vec:idx" {
		t.Errorf("expected index name derived from prefix, got %q", cfg.Index.Name)
	}
	if cfg.Articles.ListLimit != 1000 {
		t.Errorf("expected ListLimit=1000, got %d", cfg.Articles.ListLimit)
	}
	if cfg.Articles.DefaultSearchLimit != 5 || cfg.Articles.MaxSearchLimit != 100 {
		t.Errorf("unexpected search limits %d/%d", cfg.Articles.DefaultSearchLimit, cfg.Articles.MaxSearchLimit)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" || cfg.Embedding.Dimensions != 1536 {
		t.Errorf("unexpected embedding defaults: %+v", cfg.Embedding)
	}
	if cfg.Completion.Model != "gpt-4" || cfg.Completion.MaxTokens != 150 {
		t.Errorf("unexpected completion defaults: %+v", cfg.Completion)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("expected allow-all origins, got %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.CORS.AllowCredentials == nil || !*cfg.CORS.AllowCredentials {
		t.Error("expected credentials allowed by default")
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	deny := false
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 90, ShutdownSec: 5},
		CORS:     CORSConfig{AllowedOrigins: []string{"https://app.example.com"}, AllowCredentials: &deny},
		Index:    IndexConfig{Name: "custom-idx", HNSWM: 32, HNSWEFConstruct: 400},
		Storage:  StorageConfig{KeyPrefix: "custom:"},
		Articles: ArticlesConfig{ListLimit: 10},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 || cfg.HTTP.WriteTimeoutSec != 90 {
		t.Errorf("timeouts overridden: %+v", cfg.HTTP)
	}
	if cfg.Index.Name != "custom-idx" || cfg.Index.HNSWM != 32 {
		t.Errorf("index overridden: %+v", cfg.Index)
	}
	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Articles.ListLimit != 10 {
		t.Errorf("expected ListLimit=10, got %d", cfg.Articles.ListLimit)
	}
	if *cfg.CORS.AllowCredentials {
		t.Error("explicit allow_credentials=false was overridden")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("ARTICLES_TEST_SET", "value")
	t.Setenv("ARTICLES_TEST_EMPTY", "")

	tests := []struct {
		in   string
		want string
	}{
		{"${ARTICLES_TEST_SET}", "value"},
		{"${ARTICLES_TEST_SET:-fallback}", "value"},
		{"${ARTICLES_TEST_EMPTY:-fallback}", "fallback"},
		{"${ARTICLES_TEST_UNSET_123}", ""},
		{"prefix-${ARTICLES_TEST_SET}-suffix", "prefix-value-suffix"},
		{"no vars", "no vars"},
	}
	for _, tc := range tests {
		if got := string(expandEnvVars([]byte(tc.in))); got != tc.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	t.Setenv("ARTICLES_TEST_KEY", "sk-test")

	data := []byte(`
http:
  port: ${ARTICLES_TEST_PORT:-9000}
database:
  url: redis://localhost:6379/1
embedding:
  api_key: ${ARTICLES_TEST_KEY}
  cache_ttl_sec: 60
completion:
  api_key: ${ARTICLES_TEST_KEY}
  max_tokens: 200
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.HTTP.Port)
	}
	if cfg.Embedding.APIKey != "sk-test" || cfg.Completion.APIKey != "sk-test" {
		t.Error("api keys not expanded")
	}
	if cfg.Completion.MaxTokens != 200 || cfg.Embedding.CacheTTLSec != 60 {
		t.Errorf("unexpected values: %+v %+v", cfg.Completion, cfg.Embedding)
	}
}

func TestParse_MissingKeyFailsFast(t *testing.T) {
	_, err := Parse([]byte("http:\n  port: 8000\ndatabase:\n  addrs: [\"localhost:6379\"]\n"))
	if err == nil {
		t.Fatal("expected error for missing api keys")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("ARTICLES_DOTENV_TEST=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ARTICLES_DOTENV_TEST", "")
	_ = os.Unsetenv("ARTICLES_DOTENV_TEST")

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("ARTICLES_DOTENV_TEST"); got != "from-file" {
		t.Errorf("ARTICLES_DOTENV_TEST = %q, want from-file", got)
	}

	if err := loadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing file must be ignored, got %v", err)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}
