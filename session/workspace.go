// Package session holds the state of one editing session: the source JSON
// text, the fields extracted from it, the user's selection, the target
// language and the translated result.
//
// Source edits are reparsed after a quiet period (ReparseDelay). A parse
// failure is recorded as a marker on the source and clears the field list;
// it is never reported as an error. The result document is independent of
// the source once produced: editing it never changes the source.
package session

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/minios-linux/jsonlate/debounce"
	"github.com/minios-linux/jsonlate/jsondoc"
	"github.com/minios-linux/jsonlate/langmeta"
	"github.com/minios-linux/jsonlate/translate"
)

// ReparseDelay is the default quiet period before edited source is parsed.
const ReparseDelay = 300 * time.Millisecond

// DefaultTargetLanguage is used until SetTargetLanguage is called.
const DefaultTargetLanguage = "en"

var (
	// ErrNoSelection is returned when a translation is requested with no
	// fields selected.
	ErrNoSelection = errors.New("no fields selected")
	// ErrFieldMissing is returned when a selected field disappears from the
	// field list while a translation is running.
	ErrFieldMissing = errors.New("selected field is no longer in the document")
	// ErrBusy is returned when a translation is already running.
	ErrBusy = errors.New("a translation is already running")
	// ErrSourceChanged is returned when the source is reparsed while a
	// translation is running and the selected field still exists.
	ErrSourceChanged = errors.New("source changed during translation")
	// ErrNoResult is returned by result operations before any translation
	// has completed.
	ErrNoResult = errors.New("no translation result")
	// ErrUnsupportedLanguage is returned by SetTargetLanguage.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

//go:embed example.json
var exampleJSON string

// Example returns the built-in example document as pretty JSON text.
func Example() string { return strings.TrimSpace(exampleJSON) }

// Option configures a Workspace.
type Option func(*Workspace)

// WithReparseDelay sets the debounce delay for SetSource.
func WithReparseDelay(d time.Duration) Option {
	return func(w *Workspace) { w.delay = d }
}

// WithTargetLanguage sets the initial target language.
func WithTargetLanguage(code string) Option {
	return func(w *Workspace) { w.target = langmeta.Normalize(code) }
}

// WithOnReparse registers fn to be called after every reparse.
func WithOnReparse(fn func()) Option {
	return func(w *Workspace) { w.onReparse = fn }
}

// Workspace is safe for concurrent use.
type Workspace struct {
	translator translate.Translator
	delay      time.Duration
	onReparse  func()
	debouncer  *debounce.Debouncer

	mu          sync.Mutex
	source      string
	doc         *jsondoc.Value
	fields      []jsondoc.Field
	fieldIndex  map[string]int
	generation  uint64
	marker      *jsondoc.ParseError
	selected    map[string]bool
	target      string
	result      *jsondoc.Value
	resultText  string
	resultMark  *jsondoc.ParseError
	translating bool
}

// NewWorkspace returns an empty workspace that translates with t.
func NewWorkspace(t translate.Translator, opts ...Option) *Workspace {
	w := &Workspace{
		translator: t,
		delay:      ReparseDelay,
		target:     DefaultTargetLanguage,
		selected:   make(map[string]bool),
		fieldIndex: make(map[string]int),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = debounce.New(w.delay, w.reparse)
	return w
}

// Close cancels a pending reparse. The workspace stays readable.
func (w *Workspace) Close() {
	w.debouncer.Stop()
}

// ---------------------------------------------------------------------------
// Source
// ---------------------------------------------------------------------------

// SetSource stores text and schedules a reparse after the reparse delay.
// Fields and selection keep their previous state until then.
func (w *Workspace) SetSource(text string) {
	w.mu.Lock()
	w.source = text
	w.mu.Unlock()
	w.debouncer.Trigger()
}

// SetSourceNow stores text and reparses it immediately.
func (w *Workspace) SetSourceNow(text string) {
	w.debouncer.Cancel()
	w.mu.Lock()
	w.source = text
	w.mu.Unlock()
	w.reparse()
}

// FlushReparse runs a pending reparse now. It reports whether one was
// pending.
func (w *Workspace) FlushReparse() bool {
	return w.debouncer.Flush()
}

// ReparsePending reports whether a reparse is scheduled.
func (w *Workspace) ReparsePending() bool {
	return w.debouncer.Pending()
}

// LoadExample replaces the source with the built-in example document.
func (w *Workspace) LoadExample() {
	w.SetSourceNow(Example())
}

// FormatSource reformats the source text (pretty or compact) and reparses
// it. Invalid source is left untouched and the parse error returned.
func (w *Workspace) FormatSource(compact bool) error {
	w.mu.Lock()
	src := w.source
	w.mu.Unlock()

	out, err := jsondoc.Format([]byte(src), compact)
	if err != nil {
		return err
	}
	w.SetSourceNow(string(out))
	return nil
}

// reparse rebuilds the field list from scratch and clears the selection.
func (w *Workspace) reparse() {
	w.mu.Lock()
	doc, err := jsondoc.ParseString(w.source)

	w.doc = nil
	w.fields = nil
	w.fieldIndex = make(map[string]int)
	w.selected = make(map[string]bool)
	w.marker = nil
	w.generation++

	if err != nil {
		var perr *jsondoc.ParseError
		if errors.As(err, &perr) {
			w.marker = perr
		}
	} else {
		w.doc = doc
		w.fields = jsondoc.ExtractFields(doc)
		for i, f := range w.fields {
			w.fieldIndex[f.Path] = i
		}
	}
	hook := w.onReparse
	w.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// Source returns the current source text.
func (w *Workspace) Source() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.source
}

// Fields returns the fields of the last successful parse.
func (w *Workspace) Fields() []jsondoc.Field {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]jsondoc.Field, len(w.fields))
	copy(out, w.fields)
	return out
}

// Marker returns the error of the last parse, or nil if it succeeded or the
// source is empty.
func (w *Workspace) Marker() *jsondoc.ParseError {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.marker
}

// ---------------------------------------------------------------------------
// Selection
// ---------------------------------------------------------------------------

// Toggle flips the selection of path. Unknown paths are ignored. It
// reports whether path is selected afterwards.
func (w *Workspace) Toggle(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.fieldIndex[path]; !ok {
		return false
	}
	if w.selected[path] {
		delete(w.selected, path)
		return false
	}
	w.selected[path] = true
	return true
}

// Select adds paths to the selection. Unknown paths are ignored.
func (w *Workspace) Select(paths ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range paths {
		if _, ok := w.fieldIndex[p]; ok {
			w.selected[p] = true
		}
	}
}

// SelectAll selects every field.
func (w *Workspace) SelectAll() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, f := range w.fields {
		w.selected[f.Path] = true
	}
}

// ClearSelection deselects every field.
func (w *Workspace) ClearSelection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selected = make(map[string]bool)
}

// Selected returns the selected paths in field order.
func (w *Workspace) Selected() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selectedLocked()
}

func (w *Workspace) selectedLocked() []string {
	var out []string
	for _, f := range w.fields {
		if w.selected[f.Path] {
			out = append(out, f.Path)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Target language
// ---------------------------------------------------------------------------

// SetTargetLanguage sets the language selected fields are translated into.
func (w *Workspace) SetTargetLanguage(code string) error {
	if !langmeta.IsSupported(code) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.target = langmeta.Normalize(code)
	return nil
}

// TargetLanguage returns the current target language code.
func (w *Workspace) TargetLanguage() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.target
}

// ---------------------------------------------------------------------------
// Translation
// ---------------------------------------------------------------------------

// Translating reports whether TranslateSelected is running.
func (w *Workspace) Translating() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.translating
}

// TranslateSelected translates the selected fields one by one, in field
// order, and replaces the result with the rebuilt document. onProgress, if
// set, is called after each field. Field values and the document are taken
// when the run starts; if the source is reparsed before the run finishes it
// fails with ErrFieldMissing or ErrSourceChanged. On any error the previous
// result is kept.
func (w *Workspace) TranslateSelected(ctx context.Context, onProgress func(done, total int)) ([]byte, error) {
	w.mu.Lock()
	if w.translating {
		w.mu.Unlock()
		return nil, ErrBusy
	}
	paths := w.selectedLocked()
	if len(paths) == 0 {
		w.mu.Unlock()
		return nil, ErrNoSelection
	}
	values := make([]string, len(paths))
	for i, p := range paths {
		values[i] = w.fields[w.fieldIndex[p]].Value
	}
	doc := w.doc
	gen := w.generation
	target := w.target
	w.translating = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.translating = false
		w.mu.Unlock()
	}()

	overrides := make(map[string]string, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := w.checkUnchanged(gen, path); err != nil {
			return nil, err
		}
		overrides[path] = w.translator.Translate(ctx, values[i], target)
		if onProgress != nil {
			onProgress(i+1, len(paths))
		}
	}

	// The last field may have been cut short.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := w.checkUnchanged(gen, paths[len(paths)-1]); err != nil {
		return nil, err
	}

	result := jsondoc.Reconstruct(doc, overrides)
	text, err := jsondoc.MarshalIndent(result)
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.generation != gen {
		return nil, ErrSourceChanged
	}
	w.result = result
	w.resultText = string(text)
	w.resultMark = nil
	return text, nil
}

// checkUnchanged reports whether the source was reparsed since generation
// gen. path names the field about to be translated.
func (w *Workspace) checkUnchanged(gen uint64, path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.generation == gen {
		return nil
	}
	if _, ok := w.fieldIndex[path]; !ok {
		return fmt.Errorf("%w: %s", ErrFieldMissing, path)
	}
	return fmt.Errorf("%w: %s", ErrSourceChanged, path)
}

// ---------------------------------------------------------------------------
// Result
// ---------------------------------------------------------------------------

// Result returns the result text, or "" before the first translation.
func (w *Workspace) Result() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.resultText
}

// ResultMarker returns the parse error of the last result edit, if any.
func (w *Workspace) ResultMarker() *jsondoc.ParseError {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.resultMark
}

// SetResultText stores an edit of the result. The text is kept even when
// it is not valid JSON; the parse error is returned and recorded as the
// result marker.
func (w *Workspace) SetResultText(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.result == nil && w.resultText == "" {
		return ErrNoResult
	}

	w.resultText = text
	doc, err := jsondoc.ParseString(text)
	if err != nil {
		var perr *jsondoc.ParseError
		if errors.As(err, &perr) {
			w.resultMark = perr
		}
		return err
	}
	w.result = doc
	w.resultMark = nil
	return nil
}

// FormatResult reformats the result text and stores the formatted form.
func (w *Workspace) FormatResult(compact bool) ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.result == nil && w.resultText == "" {
		return nil, ErrNoResult
	}

	out, err := jsondoc.Format([]byte(w.resultText), compact)
	if err != nil {
		return nil, err
	}
	w.resultText = string(out)
	w.resultMark = nil
	return out, nil
}

// Reset clears source, fields, selection and result. The target language
// is kept.
func (w *Workspace) Reset() {
	w.debouncer.Cancel()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.source = ""
	w.doc = nil
	w.fields = nil
	w.fieldIndex = make(map[string]int)
	w.generation++
	w.marker = nil
	w.selected = make(map[string]bool)
	w.result = nil
	w.resultText = ""
	w.resultMark = nil
}

// ---------------------------------------------------------------------------
// Snapshot
// ---------------------------------------------------------------------------

// State is a point-in-time copy of the workspace.
type State struct {
	Source         string              `json:"source"`
	Fields         []jsondoc.Field     `json:"fields"`
	Selected       []string            `json:"selected"`
	Marker         *jsondoc.ParseError `json:"marker,omitempty"`
	TargetLanguage string              `json:"targetLanguage"`
	Result         string              `json:"result,omitempty"`
	ResultMarker   *jsondoc.ParseError `json:"resultMarker,omitempty"`
	Translating    bool                `json:"translating"`
	ReparsePending bool                `json:"reparsePending"`
}

// Snapshot returns the current state.
func (w *Workspace) Snapshot() State {
	pending := w.debouncer.Pending()

	w.mu.Lock()
	defer w.mu.Unlock()
	fields := make([]jsondoc.Field, len(w.fields))
	copy(fields, w.fields)
	selected := w.selectedLocked()
	if selected == nil {
		selected = []string{}
	}
	return State{
		Source:         w.source,
		Fields:         fields,
		Selected:       selected,
		Marker:         w.marker,
		TargetLanguage: w.target,
		Result:         w.resultText,
		ResultMarker:   w.resultMark,
		Translating:    w.translating,
		ReparsePending: pending,
	}
}
