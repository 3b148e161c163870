// Package config loads .jsonlate.yaml.
//
// The file is optional. When it is missing every value falls back to its
// default; command-line flags override both. A typical file:
//
//	target_lang: de
//	strategies: [mymemory, libre, dictionary]
//	proxy: http://127.0.0.1:3128
//	dictionary: phrases.yaml
//	providers:
//	  libre:
//	    base_url: http://localhost:5000
//	    api_key: secret
//	    timeout: 8s
//	  mymemory:
//	    email: me@example.com
//	server:
//	  addr: 127.0.0.1:8088
//	reparse_delay: 300ms
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/minios-linux/jsonlate/langmeta"
	"github.com/minios-linux/jsonlate/translate"
)

// FileName is the default config file name.
const FileName = ".jsonlate.yaml"

// Defaults.
const (
	DefaultTargetLang   = "en"
	DefaultServerAddr   = "127.0.0.1:8088"
	DefaultReparseDelay = 300 * time.Millisecond
)

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// File is the top-level .jsonlate.yaml structure.
type File struct {
	// TargetLang is the language fields are translated into.
	TargetLang string `yaml:"target_lang,omitempty"`
	// Strategies lists strategy IDs in the order they are tried.
	Strategies []string `yaml:"strategies,omitempty"`
	// Providers holds per-provider overrides keyed by strategy ID.
	Providers map[string]Provider `yaml:"providers,omitempty"`
	// Proxy is an HTTP/HTTPS proxy URL used by all remote providers.
	Proxy string `yaml:"proxy,omitempty"`
	// Dictionary is a user phrase table, relative to the config file.
	Dictionary string `yaml:"dictionary,omitempty"`
	// Server configures `jsonlate serve`.
	Server Server `yaml:"server,omitempty"`
	// ReparseDelay is the quiet period before the workspace reparses
	// edited source text.
	ReparseDelay time.Duration `yaml:"reparse_delay,omitempty"`

	// dir is the directory the file was loaded from.
	dir string
}

// Provider overrides a remote provider's defaults.
type Provider struct {
	BaseURL string        `yaml:"base_url,omitempty"`
	APIKey  string        `yaml:"api_key,omitempty"`
	Email   string        `yaml:"email,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// Server configures the HTTP server.
type Server struct {
	Addr string `yaml:"addr,omitempty"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Default returns the configuration used when no file exists.
func Default() *File {
	f := &File{dir: "."}
	f.applyDefaults()
	return f
}

// Load reads .jsonlate.yaml from dir. A missing file yields Default().
func Load(dir string) (*File, error) {
	path := filepath.Join(dir, FileName)
	f, err := LoadPath(path)
	if err != nil {
		if os.IsNotExist(err) {
			d := Default()
			d.dir = dir
			return d, nil
		}
		return nil, err
	}
	return f, nil
}

// LoadPath reads and validates the config file at path. Unlike Load, a
// missing file is an error; the returned error satisfies os.IsNotExist.
func LoadPath(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.dir = filepath.Dir(path)
	return f, nil
}

// Parse decodes and validates config data.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	f.dir = "."
	f.applyDefaults()
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) applyDefaults() {
	if f.TargetLang == "" {
		f.TargetLang = DefaultTargetLang
	}
	if len(f.Strategies) == 0 {
		f.Strategies = slices.Clone(translate.DefaultOrder)
	}
	if f.Server.Addr == "" {
		f.Server.Addr = DefaultServerAddr
	}
	if f.ReparseDelay <= 0 {
		f.ReparseDelay = DefaultReparseDelay
	}
}

// Validate checks the target language and strategy IDs.
func (f *File) Validate() error {
	if !langmeta.IsSupported(f.TargetLang) {
		return fmt.Errorf("unsupported target_lang %q (supported: %s)",
			f.TargetLang, strings.Join(langmeta.Codes(), ", "))
	}

	seen := make(map[string]bool, len(f.Strategies))
	for _, id := range f.Strategies {
		if !slices.Contains(translate.DefaultOrder, id) {
			return fmt.Errorf("unknown strategy %q (known: %s)",
				id, strings.Join(translate.DefaultOrder, ", "))
		}
		if seen[id] {
			return fmt.Errorf("strategy %q listed twice", id)
		}
		seen[id] = true
	}

	for id := range f.Providers {
		if !slices.Contains(translate.DefaultOrder, id) {
			return fmt.Errorf("providers: unknown provider %q", id)
		}
	}
	return nil
}

// ApplyEnv overlays JSONLATE_TARGET_LANG, JSONLATE_PROXY and
// JSONLATE_LIBRE_API_KEY onto f and revalidates.
func (f *File) ApplyEnv() error {
	if v := os.Getenv("JSONLATE_TARGET_LANG"); v != "" {
		f.TargetLang = v
	}
	if v := os.Getenv("JSONLATE_PROXY"); v != "" {
		f.Proxy = v
	}
	if v := os.Getenv("JSONLATE_LIBRE_API_KEY"); v != "" {
		if f.Providers == nil {
			f.Providers = make(map[string]Provider)
		}
		p := f.Providers[translate.StrategyLibre]
		p.APIKey = v
		f.Providers[translate.StrategyLibre] = p
	}
	return f.Validate()
}

// DictionaryPath returns the user dictionary path resolved against the
// config file's directory, or "" when none is configured.
func (f *File) DictionaryPath() string {
	if f.Dictionary == "" {
		return ""
	}
	if filepath.IsAbs(f.Dictionary) {
		return f.Dictionary
	}
	return filepath.Join(f.dir, f.Dictionary)
}

// TranslateOptions converts the file into pipeline options. Dictionary and
// log callbacks are left for the caller.
func (f *File) TranslateOptions() translate.Options {
	opts := translate.Options{
		Order: slices.Clone(f.Strategies),
		Proxy: f.Proxy,
	}
	if len(f.Providers) > 0 {
		opts.Providers = make(map[string]translate.Provider, len(f.Providers))
		for id, p := range f.Providers {
			opts.Providers[id] = translate.Provider{
				BaseURL: p.BaseURL,
				APIKey:  p.APIKey,
				Email:   p.Email,
				Timeout: p.Timeout,
			}
		}
	}
	return opts
}
