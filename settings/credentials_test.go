package settings

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDataDirAndFilePathUseXDGDataHome(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	dir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir() error: %v", err)
	}
	wantDir := filepath.Join(tmp, "jsonlate")
	if dir != wantDir {
		t.Fatalf("DataDir() = %q, want %q", dir, wantDir)
	}

	wantPath := filepath.Join(tmp, "jsonlate", "auth.json")
	if got := FilePath(); got != wantPath {
		t.Fatalf("FilePath() = %q, want %q", got, wantPath)
	}

	dict, err := DictionaryPath()
	if err != nil {
		t.Fatalf("DictionaryPath() error: %v", err)
	}
	if want := filepath.Join(tmp, "jsonlate", "dictionary.yaml"); dict != want {
		t.Fatalf("DictionaryPath() = %q, want %q", dict, want)
	}
}

func TestSaveLoadRemoveLifecycle(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	store := Store{
		"libre":    {Type: TypeAPI, Key: "apikey123456"},
		"mymemory": {Type: TypeAPI, Email: "me@example.com"},
	}
	if err := Save(store); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	path := filepath.Join(tmp, "jsonlate", "auth.json")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat auth.json: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("auth.json mode = %o, want 600", info.Mode().Perm())
	}

	loaded := Load()
	if got := loaded.IDs(); !reflect.DeepEqual(got, []string{"libre", "mymemory"}) {
		t.Fatalf("IDs() = %v", got)
	}
	if got := GetAPIKey("libre"); got != "apikey123456" {
		t.Fatalf("GetAPIKey(libre) = %q", got)
	}
	if got := GetEmail("mymemory"); got != "me@example.com" {
		t.Fatalf("GetEmail(mymemory) = %q", got)
	}

	if err := Remove("libre"); err != nil {
		t.Fatalf("Remove(libre) error: %v", err)
	}
	if got := GetAPIKey("libre"); got != "" {
		t.Fatalf("GetAPIKey after remove = %q, want empty", got)
	}
	if Get("mymemory") == nil {
		t.Fatalf("mymemory entry should remain after removing libre")
	}

	if err := Remove("missing-provider"); err != nil {
		t.Fatalf("Remove(missing) should be no-op, got: %v", err)
	}

	if err := RemoveAll(); err != nil {
		t.Fatalf("RemoveAll() error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("auth.json should be removed, stat err=%v", err)
	}
	if got := Load(); len(got) != 0 {
		t.Fatalf("Load() after RemoveAll should be empty, got=%#v", got)
	}
}

func TestLoadInvalidFileReturnsEmptyStore(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	dir := filepath.Join(tmp, "jsonlate")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "auth.json"), []byte("{not json"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if got := Load(); len(got) != 0 {
		t.Fatalf("Load() = %#v, want empty", got)
	}
}

func TestSettersPreserveOtherFields(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	if err := SetBaseURL("libre", "http://localhost:5000"); err != nil {
		t.Fatalf("SetBaseURL() error: %v", err)
	}
	if err := SetAPIKey("libre", "secret-key-1"); err != nil {
		t.Fatalf("SetAPIKey() error: %v", err)
	}
	if err := SetEmail("libre", "ops@example.com"); err != nil {
		t.Fatalf("SetEmail() error: %v", err)
	}

	got := Get("libre")
	want := &Info{Type: TypeAPI, Key: "secret-key-1", Email: "ops@example.com", BaseURL: "http://localhost:5000"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Get(libre) = %#v, want %#v", got, want)
	}
	if got := GetBaseURL("libre"); got != "http://localhost:5000" {
		t.Fatalf("GetBaseURL(libre) = %q", got)
	}
}

func TestResolveAPIKeyPriority(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	if err := SetAPIKey("libre", "stored-key"); err != nil {
		t.Fatalf("SetAPIKey() error: %v", err)
	}

	t.Setenv("JSONLATE_LIBRE_API_KEY", "env-key")

	if got := ResolveAPIKey("libre", "flag-key"); got != "flag-key" {
		t.Fatalf("flag should win, got %q", got)
	}
	if got := ResolveAPIKey("libre", ""); got != "env-key" {
		t.Fatalf("env should win over store, got %q", got)
	}

	t.Setenv("JSONLATE_LIBRE_API_KEY", "")
	if got := ResolveAPIKey("libre", ""); got != "stored-key" {
		t.Fatalf("stored key expected, got %q", got)
	}
}

func TestEnvVarForProviderAndMaskKey(t *testing.T) {
	cases := map[string]string{
		"libre":      "JSONLATE_LIBRE_API_KEY",
		"mymemory":   "",
		"google":     "",
		"dictionary": "",
	}
	for provider, want := range cases {
		if got := EnvVarForProvider(provider); got != want {
			t.Fatalf("EnvVarForProvider(%q) = %q, want %q", provider, got, want)
		}
	}

	if got := MaskKey("short"); got != "****" {
		t.Fatalf("MaskKey(short) = %q, want ****", got)
	}
	if got := MaskKey("12345678"); got != "****" {
		t.Fatalf("MaskKey(8 chars) = %q, want ****", got)
	}
	if got := MaskKey("123456789"); got != "1234...6789" {
		t.Fatalf("MaskKey(9 chars) = %q, want 1234...6789", got)
	}
}
