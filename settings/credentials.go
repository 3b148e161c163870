// Package settings stores jsonlate user data outside any project.
//
// Everything lives in the XDG data directory:
//
//	$XDG_DATA_HOME/jsonlate/  (default: ~/.local/share/jsonlate/)
//
// Files stored:
//   - auth.json        provider credentials (LibreTranslate API key,
//     MyMemory contact email, custom endpoints)
//   - dictionary.yaml  user phrase table merged over the built-in one
//
// auth.json is a JSON object keyed by provider ID. Every entry currently
// has type "api". The file is written with 0600 permissions.
//
// Lookup order for provider keys:
//  1. command-line flag (highest priority)
//  2. environment variable (JSONLATE_LIBRE_API_KEY)
//  3. .jsonlate.yaml
//  4. this store
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const (
	dataDirName    = "jsonlate"
	fileName       = "auth.json"
	dictionaryName = "dictionary.yaml"
)

// TypeAPI marks an API key entry.
const TypeAPI = "api"

// Info is the credential entry stored per provider in auth.json.
type Info struct {
	Type string `json:"type"`

	Key string `json:"key,omitempty"`

	// Email is passed to MyMemory as the "de" parameter.
	Email string `json:"email,omitempty"`

	// BaseURL points a provider at a self-hosted instance.
	BaseURL string `json:"baseUrl,omitempty"`
}

// IsAPI returns true if this is an API key entry.
func (i *Info) IsAPI() bool {
	return i.Type == TypeAPI
}

// Store holds all provider credentials, keyed by provider ID.
type Store map[string]*Info

// IDs returns the provider IDs in the store, sorted.
func (s Store) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ---------------------------------------------------------------------------
// File paths
// ---------------------------------------------------------------------------

// dataDir respects $XDG_DATA_HOME and falls back to ~/.local/share.
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func filePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// FilePath returns the auth.json file path for display purposes.
func FilePath() string {
	p, err := filePath()
	if err != nil {
		return ""
	}
	return p
}

// DictionaryPath returns the path of the user phrase table. The file may
// not exist.
func DictionaryPath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dictionaryName), nil
}

// DataDir returns the jsonlate data directory path.
func DataDir() (string, error) {
	return dataDir()
}

// ---------------------------------------------------------------------------
// Load / Save
// ---------------------------------------------------------------------------

// Load reads the credential store from disk.
// Returns an empty store if the file doesn't exist or is invalid.
func Load() Store {
	path, err := filePath()
	if err != nil {
		return make(Store)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return make(Store)
	}

	var store Store
	if err := json.Unmarshal(data, &store); err != nil || store == nil {
		return make(Store)
	}
	return store
}

// Save writes the credential store to disk with 0600 permissions.
func Save(store Store) error {
	path, err := filePath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Get / Set / Remove
// ---------------------------------------------------------------------------

// Get returns the auth entry for a provider, or nil if not found.
func Get(providerID string) *Info {
	return Load()[providerID]
}

// Set stores an auth entry for a provider (upsert).
func Set(providerID string, info *Info) error {
	store := Load()
	store[providerID] = info
	return Save(store)
}

// Remove deletes credentials for a provider.
func Remove(providerID string) error {
	store := Load()
	if _, ok := store[providerID]; !ok {
		return nil
	}
	delete(store, providerID)
	return Save(store)
}

// RemoveAll removes all stored credentials.
func RemoveAll() error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing auth file: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// API key helpers
// ---------------------------------------------------------------------------

// SetAPIKey stores an API key for a provider, keeping any email and base
// URL already stored for it.
func SetAPIKey(providerID, key string) error {
	info := existingAPI(providerID)
	info.Key = key
	return Set(providerID, info)
}

// SetEmail stores the contact email for a provider.
func SetEmail(providerID, email string) error {
	info := existingAPI(providerID)
	info.Email = email
	return Set(providerID, info)
}

// SetBaseURL stores a custom endpoint for a provider.
func SetBaseURL(providerID, baseURL string) error {
	info := existingAPI(providerID)
	info.BaseURL = baseURL
	return Set(providerID, info)
}

func existingAPI(providerID string) *Info {
	if info := Get(providerID); info != nil && info.IsAPI() {
		cp := *info
		return &cp
	}
	return &Info{Type: TypeAPI}
}

// GetAPIKey retrieves the stored API key for a provider.
// Returns empty string if not found or not an API key entry.
func GetAPIKey(providerID string) string {
	info := Get(providerID)
	if info == nil || !info.IsAPI() {
		return ""
	}
	return info.Key
}

// GetEmail retrieves the stored contact email for a provider.
func GetEmail(providerID string) string {
	info := Get(providerID)
	if info == nil {
		return ""
	}
	return info.Email
}

// GetBaseURL retrieves the stored base URL for a provider.
func GetBaseURL(providerID string) string {
	info := Get(providerID)
	if info == nil {
		return ""
	}
	return info.BaseURL
}

// EnvVarForProvider returns the environment variable that overrides the
// stored API key for a provider, or "" if there is none.
func EnvVarForProvider(providerID string) string {
	switch providerID {
	case "libre":
		return "JSONLATE_LIBRE_API_KEY"
	default:
		return ""
	}
}

// ResolveAPIKey returns the first non-empty key from explicit, the
// provider's environment variable and the store.
func ResolveAPIKey(providerID, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := EnvVarForProvider(providerID); env != "" {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return GetAPIKey(providerID)
}

// MaskKey returns a masked version of a key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
