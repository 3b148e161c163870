package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/minios-linux/jsonlate/config"
	"github.com/minios-linux/jsonlate/jsondoc"
	"github.com/minios-linux/jsonlate/translate"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		percent int
		width   int
		want    string
	}{
		{
			name:    "clamps below zero",
			percent: -10,
			width:   4,
			want:    colorRed + "░░░░" + colorReset + "   0%",
		},
		{
			name:    "mid range uses yellow",
			percent: 50,
			width:   4,
			want:    colorYellow + "██░░" + colorReset + "  50%",
		},
		{
			name:    "clamps above hundred",
			percent: 120,
			width:   4,
			want:    colorGreen + "████" + colorReset + " 100%",
		},
	}

	for _, tc := range tests {
		if got := progressBar(tc.percent, tc.width); got != tc.want {
			t.Fatalf("%s: progressBar() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestOneLineAndDisplayPath(t *testing.T) {
	if got := oneLine("a\nb", 10); got != `a\nb` {
		t.Fatalf("oneLine(newline) = %q", got)
	}
	if got := oneLine("这是一位软件工程师的简介", 4); got != "这是一位..." {
		t.Fatalf("oneLine(truncate) = %q", got)
	}
	if got := displayPath(""); got != "(root)" {
		t.Fatalf("displayPath(empty) = %q", got)
	}
	if got := displayPath("a.b[0]"); got != "a.b[0]" {
		t.Fatalf("displayPath = %q", got)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "b", "c"); got != "b" {
		t.Fatalf("firstNonEmpty = %q, want b", got)
	}
	if got := firstNonEmpty("", ""); got != "" {
		t.Fatalf("firstNonEmpty(all empty) = %q", got)
	}
}

func TestReadInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(path, []byte(`{"a":"b"}`), 0644); err != nil {
		t.Fatalf("os.WriteFile() error: %v", err)
	}

	got, err := readInput(strings.NewReader("ignored"), []string{path})
	if err != nil || string(got) != `{"a":"b"}` {
		t.Fatalf("readInput(file) = %q, %v", got, err)
	}

	got, err = readInput(strings.NewReader("stdin"), []string{"-"})
	if err != nil || string(got) != "stdin" {
		t.Fatalf("readInput(-) = %q, %v", got, err)
	}

	if _, err := readInput(nil, []string{filepath.Join(dir, "missing.json")}); err == nil {
		t.Fatal("readInput(missing) should fail")
	}
}

func TestDescribeParseError(t *testing.T) {
	_, err := jsondoc.ParseString("{\n  \"a\": }")
	got := describeParseError(err)
	if !strings.Contains(got.Error(), "line 2") {
		t.Fatalf("describeParseError = %q, want line position", got)
	}

	if got := describeParseError(jsondoc.ErrEmpty); got.Error() != "The document is empty" {
		t.Fatalf("describeParseError(empty) = %q", got)
	}

	other := errors.New("boom")
	if got := describeParseError(other); got != other {
		t.Fatalf("describeParseError(other) = %v", got)
	}
}

func dictionaryPipeline(t *testing.T) *translate.Pipeline {
	t.Helper()
	p, err := translate.NewPipeline(translate.Options{Order: []string{translate.StrategyDictionary}})
	if err != nil {
		t.Fatalf("NewPipeline() error: %v", err)
	}
	return p
}

func TestRunTranslateWithDictionary(t *testing.T) {
	data := []byte(`{"title":"欢迎","menu":["保存","取消"],"n":3}`)

	got, err := runTranslate(context.Background(), dictionaryPipeline(t), data,
		[]string{"menu[1]", "title", "nope"}, false, "de", true)
	if err != nil {
		t.Fatalf("runTranslate() error: %v", err)
	}
	want := `{"title":"Willkommen","menu":["保存","Abbrechen"],"n":3}`
	if got != want {
		t.Fatalf("runTranslate() = %s, want %s", got, want)
	}

	got, err = runTranslate(context.Background(), dictionaryPipeline(t), data, nil, true, "fr", false)
	if err != nil {
		t.Fatalf("runTranslate(all) error: %v", err)
	}
	if !strings.Contains(got, `"Enregistrer"`) || !strings.Contains(got, "\n  \"n\": 3\n") {
		t.Fatalf("runTranslate(all) = %s", got)
	}
}

func TestRunTranslateErrors(t *testing.T) {
	p := dictionaryPipeline(t)

	if _, err := runTranslate(context.Background(), p, []byte(`{"a":`), nil, true, "en", false); err == nil ||
		!strings.Contains(err.Error(), "Invalid JSON") {
		t.Fatalf("invalid JSON error = %v", err)
	}
	if _, err := runTranslate(context.Background(), p, []byte(`{"n":1}`), nil, true, "en", false); err == nil {
		t.Fatal("document without strings should fail")
	}
	if _, err := runTranslate(context.Background(), p, []byte(`{"a":"x"}`), []string{"b"}, false, "en", false); err == nil ||
		err.Error() != "No fields selected" {
		t.Fatalf("empty selection error = %v", err)
	}
}

func TestBuildPipelineResolvesSettings(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)
	t.Setenv("JSONLATE_LIBRE_API_KEY", "")

	dictPath := filepath.Join(tmp, "extra.yaml")
	if err := os.WriteFile(dictPath, []byte("早上好:\n  en: Good morning\n"), 0644); err != nil {
		t.Fatalf("os.WriteFile() error: %v", err)
	}

	cfg := config.Default()
	p, err := buildPipeline(cfg, providerFlags{
		strategies: []string{"libre", "dictionary"},
		dictionary: dictPath,
	})
	if err != nil {
		t.Fatalf("buildPipeline() error: %v", err)
	}
	if got := strategyIDs(p); !reflect.DeepEqual(got, []string{"libre", "dictionary"}) {
		t.Fatalf("strategyIDs() = %v", got)
	}

	dict := p.Stages[1].Strategy.(*translate.Dictionary)
	if tr, ok := dict.Lookup("早上好", "en"); !ok || tr != "Good morning" {
		t.Fatalf("extra dictionary not merged: %q %v", tr, ok)
	}
	if tr, ok := dict.Lookup("你好", "en"); !ok || tr != "Hello" {
		t.Fatalf("built-in phrases lost: %q %v", tr, ok)
	}

	if _, err := buildPipeline(cfg, providerFlags{strategies: []string{"deepl"}}); !errors.Is(err, translate.ErrUnknownStrategy) {
		t.Fatalf("unknown strategy error = %v", err)
	}
	if _, err := buildPipeline(cfg, providerFlags{dictionary: filepath.Join(tmp, "missing.yaml")}); err == nil {
		t.Fatal("missing --dictionary should fail")
	}
}

func TestLoadDictionaryUserDataFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	dir := filepath.Join(tmp, "jsonlate")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "dictionary.yaml"), []byte("你好:\n  en: Hi there\n"), 0644); err != nil {
		t.Fatalf("os.WriteFile() error: %v", err)
	}

	dict, err := loadDictionary(config.Default(), "")
	if err != nil {
		t.Fatalf("loadDictionary() error: %v", err)
	}
	if tr, _ := dict.Lookup("你好", "en"); tr != "Hi there" {
		t.Fatalf("user dictionary should override built-in, got %q", tr)
	}
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestFormatCommand(t *testing.T) {
	out, err := runCLI(t, `{ "b": 1.50, "a": [ true, null ] }`, "format", "--compact")
	if err != nil {
		t.Fatalf("format error: %v", err)
	}
	if out != "{\"b\":1.50,\"a\":[true,null]}\n" {
		t.Fatalf("format output = %q", out)
	}

	if _, err := runCLI(t, `{"a":}`, "format"); err == nil {
		t.Fatal("format of invalid JSON should fail")
	}
}

func TestFieldsCommandJSON(t *testing.T) {
	out, err := runCLI(t, `{"a":{"b":["x"]},"c":"y"}`, "fields", "--json")
	if err != nil {
		t.Fatalf("fields error: %v", err)
	}
	want := `[
  {
    "path": "a.b[0]",
    "value": "x",
    "type": "string"
  },
  {
    "path": "c",
    "value": "y",
    "type": "string"
  }
]
`
	if out != want {
		t.Fatalf("fields output = %q, want %q", out, want)
	}
}

func TestDetectAndSampleCommands(t *testing.T) {
	out, err := runCLI(t, "", "detect", "Привет", "мир")
	if err != nil {
		t.Fatalf("detect error: %v", err)
	}
	if !strings.HasPrefix(out, "ru\t") {
		t.Fatalf("detect output = %q", out)
	}

	out, err = runCLI(t, "", "sample")
	if err != nil {
		t.Fatalf("sample error: %v", err)
	}
	if _, err := jsondoc.ParseString(out); err != nil {
		t.Fatalf("sample is not valid JSON: %v", err)
	}
}

func TestTranslateCommandOffline(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)
	output := filepath.Join(tmp, "out.json")

	_, err := runCLI(t, `{"greeting":"你好","count":5}`,
		"translate", "--select", "greeting", "--lang", "en", "--strategies", "dictionary", "-o", output)
	if err != nil {
		t.Fatalf("translate error: %v", err)
	}
	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(got) != "{\n  \"greeting\": \"Hello\",\n  \"count\": 5\n}\n" {
		t.Fatalf("output = %q", got)
	}

	if _, err := runCLI(t, `{"a":"b"}`, "translate"); err == nil {
		t.Fatal("translate without a selection should fail")
	}
	if _, err := runCLI(t, `{"a":"b"}`, "translate", "--all", "--lang", "xx"); err == nil {
		t.Fatal("translate into an unsupported language should fail")
	}
}
