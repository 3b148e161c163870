// jsonlate — pick string fields of a JSON document and translate them,
// keeping the document's structure.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/minios-linux/jsonlate/clipboard"
	"github.com/minios-linux/jsonlate/config"
	"github.com/minios-linux/jsonlate/i18n"
	"github.com/minios-linux/jsonlate/jsondoc"
	"github.com/minios-linux/jsonlate/langmeta"
	"github.com/minios-linux/jsonlate/server"
	"github.com/minios-linux/jsonlate/session"
	"github.com/minios-linux/jsonlate/settings"
	"github.com/minios-linux/jsonlate/translate"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var configPath string

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jsonlate",
		Short: "Translate selected string fields of JSON documents",
		Long: `jsonlate — translate selected string fields of a JSON document.

The document structure is kept: key order, numbers, booleans, nulls and
unselected strings come out exactly as they went in.

Commands:
  fields      List the string fields of a document
  translate   Translate selected fields
  detect      Detect the language of a text
  languages   List supported target languages
  format      Pretty-print or minify a document
  sample      Print the example document
  serve       Run the HTTP API for an editor front-end
  auth        Manage provider credentials

Translation strategies (tried in order until one succeeds):
  mymemory    MyMemory translation memory (free, optional contact email)
  google      Google Translate public endpoint (5s timeout)
  libre       LibreTranslate (optional API key, self-hostable)
  dictionary  Local phrase dictionary`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ./"+config.FileName+")")

	root.AddCommand(
		newFieldsCmd(),
		newTranslateCmd(),
		newDetectCmd(),
		newLanguagesCmd(),
		newFormatCmd(),
		newSampleCmd(),
		newServeCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("jsonlate version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// fields
// ---------------------------------------------------------------------------

func newFieldsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "fields [file]",
		Short: "List the string fields of a document",
		Long: `List every string field of a JSON document with its path.

Paths use "." between object keys and "[i]" for array elements, e.g.
user.projects[0].name. These are the paths accepted by translate --select.
Reads stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			doc, err := jsondoc.Parse(data)
			if err != nil {
				return describeParseError(err)
			}
			fields := jsondoc.ExtractFields(doc)

			out := cmd.OutOrStdout()
			if asJSON {
				return writeFieldsJSON(out, fields)
			}
			if len(fields) == 0 {
				logInfo("%s", i18n.T("No string fields found"))
				return nil
			}
			printFields(out, fields)
			logInfo(i18n.N("%d field", "%d fields", len(fields)), len(fields))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print fields as a JSON array")
	return cmd
}

func writeFieldsJSON(w io.Writer, fields []jsondoc.Field) error {
	arr := jsondoc.NewArray()
	for _, f := range fields {
		arr.Items = append(arr.Items, jsondoc.NewObject(
			jsondoc.Member{Key: "path", Value: jsondoc.NewString(f.Path)},
			jsondoc.Member{Key: "value", Value: jsondoc.NewString(f.Value)},
			jsondoc.Member{Key: "type", Value: jsondoc.NewString(f.Type)},
		))
	}
	data, err := jsondoc.MarshalIndent(arr)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func printFields(w io.Writer, fields []jsondoc.Field) {
	width := 0
	for _, f := range fields {
		width = max(width, len(displayPath(f.Path)))
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%-*s  %s\n", width, displayPath(f.Path), oneLine(f.Value, 60))
	}
}

// displayPath shows the root string's empty path as "(root)".
func displayPath(p string) string {
	if p == "" {
		return "(root)"
	}
	return p
}

// oneLine flattens newlines and truncates to maxLen runes.
func oneLine(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", `\n`)
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}

// ---------------------------------------------------------------------------
// translate
// ---------------------------------------------------------------------------

// providerFlags are shared by translate and serve.
type providerFlags struct {
	strategies    []string
	proxy         string
	timeout       time.Duration
	libreURL      string
	libreKey      string
	myMemoryEmail string
	dictionary    string
	verbose       bool
}

func (p *providerFlags) register(fs *pflag.FlagSet) {
	fs.StringSliceVar(&p.strategies, "strategies", nil, "Strategy order (comma-separated): mymemory, google, libre, dictionary")
	fs.StringVar(&p.proxy, "proxy", "", "HTTP/HTTPS proxy URL (or JSONLATE_PROXY)")
	fs.DurationVar(&p.timeout, "timeout", 0, "Per-request timeout for remote providers (0 = provider default)")
	fs.StringVar(&p.libreURL, "libre-url", "", "LibreTranslate base URL")
	fs.StringVar(&p.libreKey, "libre-key", "", "LibreTranslate API key (or JSONLATE_LIBRE_API_KEY)")
	fs.StringVar(&p.myMemoryEmail, "mymemory-email", "", "Contact email sent to MyMemory for a higher quota")
	fs.StringVar(&p.dictionary, "dictionary", "", "Additional phrase dictionary (YAML)")
	fs.BoolVar(&p.verbose, "verbose", false, "Log every translation attempt")
}

func newTranslateCmd() *cobra.Command {
	var (
		pf      providerFlags
		selects []string
		all     bool
		lang    string
		output  string
		copyOut bool
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "translate [file]",
		Short: "Translate selected fields",
		Long: `Translate the selected string fields of a JSON document.

Fields are translated one at a time, in document order. Each field goes
through the strategy chain until a strategy returns a translation that
differs from the input; when every strategy fails the field keeps its
original text. Text already in the target language is left alone.

Examples:
  # Translate two fields into German
  jsonlate translate app.json --select title --select menu.items[0] --lang de

  # Translate everything, write to a file
  jsonlate translate app.json --all --lang ja -o app.ja.json

  # Offline: dictionary only
  jsonlate sample | jsonlate translate --all --strategies dictionary

  # Copy the result to the clipboard
  jsonlate translate app.json --all --copy`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(selects) == 0 {
				return errors.New(i18n.T("No fields selected") + " (--select or --all)")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if lang == "" {
				lang = cfg.TargetLang
			}
			if !langmeta.IsSupported(lang) {
				return fmt.Errorf("%s: %q", i18n.T("Unsupported language"), lang)
			}

			data, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			pipeline, err := buildPipeline(cfg, pf)
			if err != nil {
				return err
			}

			ctx, cancel := interruptContext()
			defer cancel()

			text, err := runTranslate(ctx, pipeline, data, selects, all, lang, compact)
			if err != nil {
				return err
			}
			return emitResult(ctx, cmd.OutOrStdout(), text, output, copyOut)
		},
	}

	cmd.Flags().StringArrayVarP(&selects, "select", "s", nil, "Field path to translate (repeatable)")
	cmd.Flags().BoolVar(&all, "all", false, "Translate every string field")
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Target language (default from config, then en)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result to a file instead of stdout")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Also copy the result to the clipboard")
	cmd.Flags().BoolVar(&compact, "compact", false, "Minify the result")
	pf.register(cmd.Flags())

	_ = cmd.RegisterFlagCompletionFunc("lang", completeLanguages)
	_ = cmd.RegisterFlagCompletionFunc("strategies", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return translate.DefaultOrder, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// runTranslate drives a workspace the way the editor does: load the
// source, select fields, translate them, read back the result.
func runTranslate(ctx context.Context, t translate.Translator, data []byte, selects []string, all bool, lang string, compact bool) (string, error) {
	ws := session.NewWorkspace(t, session.WithTargetLanguage(lang))
	defer ws.Close()

	ws.SetSourceNow(string(data))
	if m := ws.Marker(); m != nil {
		return "", describeParseError(m)
	}
	if len(ws.Fields()) == 0 {
		return "", errors.New(i18n.T("No string fields found"))
	}

	if all {
		ws.SelectAll()
	} else {
		ws.Select(selects...)
		known := make(map[string]bool)
		for _, p := range ws.Selected() {
			known[p] = true
		}
		for _, p := range selects {
			if !known[p] {
				logWarning(i18n.T("Unknown field path %q, skipping"), p)
			}
		}
	}

	total := len(ws.Selected())
	logInfo(i18n.N("Translating %d field into %s", "Translating %d fields into %s", total), total, langmeta.Resolve(lang).Name)

	start := time.Now()
	_, err := ws.TranslateSelected(ctx, func(done, total int) {
		fmt.Fprintf(os.Stderr, "\r  %s %d/%d", progressBar(done*100/total, 20), done, total)
		if done == total {
			fmt.Fprintln(os.Stderr)
		}
	})
	if err != nil {
		if errors.Is(err, session.ErrNoSelection) {
			return "", errors.New(i18n.T("No fields selected"))
		}
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr)
			return "", errors.New(i18n.T("Interrupted"))
		}
		return "", err
	}
	logSuccess(i18n.T("Done in %s"), time.Since(start).Round(time.Millisecond))

	out, err := ws.FormatResult(compact)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func emitResult(ctx context.Context, stdout io.Writer, text, output string, copyOut bool) error {
	if output != "" {
		if err := os.WriteFile(output, []byte(text+"\n"), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		logSuccess(i18n.T("Saved %s"), output)
	} else {
		fmt.Fprintln(stdout, text)
	}

	if copyOut {
		method, err := clipboard.Write(ctx, text, os.Stderr)
		if err != nil {
			logWarning(i18n.T("Could not copy to clipboard: %v"), err)
		} else {
			logSuccess(i18n.T("Copied to clipboard (%s)"), method)
		}
	}
	return nil
}

// progressBar renders percent as a colored bar of width cells followed by
// the right-aligned percentage.
func progressBar(percent, width int) string {
	percent = min(max(percent, 0), 100)
	filled := percent * width / 100

	color := colorRed
	switch {
	case percent >= 100:
		color = colorGreen
	case percent >= 50:
		color = colorYellow
	}
	return color + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + colorReset +
		fmt.Sprintf(" %3d%%", percent)
}

// ---------------------------------------------------------------------------
// detect / languages
// ---------------------------------------------------------------------------

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [text...]",
		Short: "Detect the language of a text",
		Long: `Detect the language of a text from its script and accented letters.

Detection is heuristic: Chinese, Japanese, Korean and Russian are recognized
by script; French, German and Spanish by accented letters; everything else
is reported as English. Reads stdin when no text is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				text = string(data)
			}
			code := translate.DetectLanguage(text)
			l := langmeta.Resolve(code)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s %s\n", code, l.Flag, l.Name)
			return nil
		},
	}
}

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "languages",
		Aliases: []string{"langs"},
		Short:   "List supported target languages",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, l := range langmeta.Supported() {
				fmt.Fprintf(out, "%-4s %s  %-10s %s\n", l.Code, l.Flag, l.Name, l.Native)
			}
		},
	}
}

func completeLanguages(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, l := range langmeta.Supported() {
		out = append(out, l.Code+"\t"+l.Name)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// ---------------------------------------------------------------------------
// format / sample
// ---------------------------------------------------------------------------

func newFormatCmd() *cobra.Command {
	var (
		compact bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Pretty-print or minify a document",
		Long: `Re-serialize a JSON document with two-space indentation, or minified
with --compact. Key order and number literals are preserved.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			out, err := jsondoc.Format(data, compact)
			if err != nil {
				return describeParseError(err)
			}
			if output != "" {
				if err := os.WriteFile(output, append(out, '\n'), 0644); err != nil {
					return fmt.Errorf("writing %s: %w", output, err)
				}
				logSuccess(i18n.T("Saved %s"), output)
				return nil
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", out)
			return err
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "Minify instead of pretty-printing")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func newSampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Print the example document",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), session.Example())
		},
	}
}

// ---------------------------------------------------------------------------
// serve
// ---------------------------------------------------------------------------

func newServeCmd() *cobra.Command {
	var (
		pf   providerFlags
		addr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for an editor front-end",
		Long: `Serve the jsonlate HTTP API.

Stateless endpoints:
  GET  /health, /api/languages
  POST /api/detect, /api/fields, /api/translate, /api/format

Workspace endpoints (one shared editing session):
  GET|DELETE /api/workspace
  PUT  /api/workspace/source, /selection, /target, /result
  POST /api/workspace/translate, /source/format, /result/format, /example`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
			pipeline, err := buildPipeline(cfg, pf)
			if err != nil {
				return err
			}

			ws := session.NewWorkspace(pipeline,
				session.WithReparseDelay(cfg.ReparseDelay),
				session.WithTargetLanguage(cfg.TargetLang),
			)
			defer ws.Close()

			httpServer := &http.Server{
				Addr:         addr,
				Handler:      server.New(pipeline, ws, cfg.TargetLang, log),
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 10 * time.Minute,
				IdleTimeout:  60 * time.Second,
			}

			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				<-sigCh
				log.Info("shutting down...")

				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				httpServer.Shutdown(shutdownCtx)
			}()

			log.Info("starting jsonlate", "addr", addr, "target", cfg.TargetLang, "strategies", strategyIDs(pipeline))
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, then "+config.DefaultServerAddr+")")
	pf.register(cmd.Flags())
	return cmd
}

func strategyIDs(p *translate.Pipeline) []string {
	ids := make([]string, len(p.Stages))
	for i, s := range p.Stages {
		ids[i] = s.Strategy.ID()
	}
	return ids
}

// ---------------------------------------------------------------------------
// auth
// ---------------------------------------------------------------------------

// authProviders can hold stored credentials.
var authProviders = []struct {
	id   string
	name string
	desc string
}{
	{translate.StrategyLibre, "LibreTranslate", "API key, custom instance URL"},
	{translate.StrategyMyMemory, "MyMemory", "contact email raises the daily quota"},
}

func isAuthProvider(id string) bool {
	for _, p := range authProviders {
		if p.id == id {
			return true
		}
	}
	return false
}

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage provider credentials",
		Long: `Manage credentials stored in ` + "$XDG_DATA_HOME/jsonlate/auth.json" + `.

Providers:
  libre      LibreTranslate API key and instance URL
  mymemory   MyMemory contact email

Google Translate and the local dictionary need no credentials.

Examples:
  jsonlate auth set --provider libre --key KEY --base-url http://localhost:5000
  jsonlate auth set --provider mymemory --email me@example.com
  jsonlate auth list
  jsonlate auth remove --provider libre
  jsonlate auth remove                      Remove all credentials`,
	}

	cmd.AddCommand(
		newAuthSetCmd(),
		newAuthListCmd(),
		newAuthRemoveCmd(),
	)
	return cmd
}

func completeAuthProviders(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	out := make([]string, 0, len(authProviders))
	for _, p := range authProviders {
		out = append(out, fmt.Sprintf("%s\t%s", p.id, p.name))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func newAuthSetCmd() *cobra.Command {
	var provider, key, email, baseURL string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store credentials for a provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isAuthProvider(provider) {
				return fmt.Errorf(i18n.T("Unknown provider '%s'. Run 'jsonlate auth list' to see providers."), provider)
			}
			if key == "" && email == "" && baseURL == "" {
				return errors.New(i18n.T("Nothing to store: pass --key, --email or --base-url"))
			}
			if key != "" {
				if err := settings.SetAPIKey(provider, key); err != nil {
					return err
				}
			}
			if email != "" {
				if err := settings.SetEmail(provider, email); err != nil {
					return err
				}
			}
			if baseURL != "" {
				if err := settings.SetBaseURL(provider, baseURL); err != nil {
					return err
				}
			}
			logSuccess(i18n.T("Credentials for %s saved to %s"), provider, settings.FilePath())
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider: libre, mymemory")
	cmd.Flags().StringVar(&key, "key", "", "API key")
	cmd.Flags().StringVar(&email, "email", "", "Contact email")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Custom instance URL")
	_ = cmd.MarkFlagRequired("provider")
	_ = cmd.RegisterFlagCompletionFunc("provider", completeAuthProviders)
	return cmd
}

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show stored credentials",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stderr, "\n%s%s%s\n", colorBlue, i18n.T("Stored Credentials"), colorReset)
			fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

			for _, p := range authProviders {
				entry := settings.Get(p.id)
				if entry == nil {
					fmt.Fprintf(os.Stderr, "  %-10s %s%s%s\n", p.id, colorRed, i18n.T("not configured"), colorReset)
					continue
				}
				fmt.Fprintf(os.Stderr, "  %-10s %s%s%s\n", p.id, colorGreen, i18n.T("configured"), colorReset)
				if entry.Key != "" {
					fmt.Fprintf(os.Stderr, "  %10s key:      %s\n", "", settings.MaskKey(entry.Key))
				}
				if entry.Email != "" {
					fmt.Fprintf(os.Stderr, "  %10s email:    %s\n", "", entry.Email)
				}
				if entry.BaseURL != "" {
					fmt.Fprintf(os.Stderr, "  %10s endpoint: %s\n", "", entry.BaseURL)
				}
			}

			fmt.Fprintf(os.Stderr, "\n  %s%s%s\n", colorYellow, i18n.T("Environment Variables"), colorReset)
			env := settings.EnvVarForProvider(translate.StrategyLibre)
			if v := os.Getenv(env); v != "" {
				fmt.Fprintf(os.Stderr, "  %s: %s%s%s\n", env, colorGreen, settings.MaskKey(v), colorReset)
			} else {
				fmt.Fprintf(os.Stderr, "  %s: %s%s%s\n", env, colorRed, i18n.T("not set"), colorReset)
			}
			fmt.Fprintln(os.Stderr)
		},
	}
}

func newAuthRemoveCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:     "remove",
		Aliases: []string{"rm"},
		Short:   "Remove stored credentials",
		Long: `Remove stored credentials for one provider, or for all providers when
--provider is not given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if provider == "" {
				if err := settings.RemoveAll(); err != nil {
					return err
				}
				logSuccess("%s", i18n.T("All stored credentials removed"))
				return nil
			}
			if !isAuthProvider(provider) {
				return fmt.Errorf(i18n.T("Unknown provider '%s'. Run 'jsonlate auth list' to see providers."), provider)
			}
			if err := settings.Remove(provider); err != nil {
				return err
			}
			logSuccess(i18n.T("%s credentials removed"), provider)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider to remove (default: all)")
	_ = cmd.RegisterFlagCompletionFunc("provider", completeAuthProviders)
	return cmd
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

func loadConfig() (*config.File, error) {
	var (
		cfg *config.File
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadPath(configPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildPipeline resolves provider settings (flag > env > config file >
// stored credentials) and the phrase dictionary, then builds the chain.
func buildPipeline(cfg *config.File, pf providerFlags) (*translate.Pipeline, error) {
	opts := cfg.TranslateOptions()
	if len(pf.strategies) > 0 {
		opts.Order = pf.strategies
	}
	if pf.proxy != "" {
		opts.Proxy = pf.proxy
	}
	if opts.Providers == nil {
		opts.Providers = make(map[string]translate.Provider)
	}

	libre := opts.Providers[translate.StrategyLibre]
	libre.APIKey = settings.ResolveAPIKey(translate.StrategyLibre, firstNonEmpty(pf.libreKey, libre.APIKey))
	libre.BaseURL = firstNonEmpty(pf.libreURL, libre.BaseURL, settings.GetBaseURL(translate.StrategyLibre))
	opts.Providers[translate.StrategyLibre] = libre

	mm := opts.Providers[translate.StrategyMyMemory]
	mm.Email = firstNonEmpty(pf.myMemoryEmail, mm.Email, settings.GetEmail(translate.StrategyMyMemory))
	mm.BaseURL = firstNonEmpty(mm.BaseURL, settings.GetBaseURL(translate.StrategyMyMemory))
	opts.Providers[translate.StrategyMyMemory] = mm

	if pf.timeout > 0 {
		for _, id := range []string{translate.StrategyMyMemory, translate.StrategyGoogle, translate.StrategyLibre} {
			p := opts.Providers[id]
			p.Timeout = pf.timeout
			opts.Providers[id] = p
		}
	}

	dict, err := loadDictionary(cfg, pf.dictionary)
	if err != nil {
		return nil, err
	}
	opts.Dictionary = dict

	opts.Verbose = pf.verbose
	opts.OnLog = logInfo
	opts.OnError = logWarning

	return translate.NewPipeline(opts)
}

// loadDictionary merges, in increasing priority, the built-in phrases, the
// user dictionary in the data directory, the config file's dictionary and
// the --dictionary flag. Only the user data file may be missing.
func loadDictionary(cfg *config.File, flagPath string) (*translate.Dictionary, error) {
	dict := translate.BuiltinDictionary()

	if p, err := settings.DictionaryPath(); err == nil {
		if _, statErr := os.Stat(p); statErr == nil {
			user, err := translate.LoadDictionaryFile(p)
			if err != nil {
				return nil, err
			}
			dict.Merge(user)
		}
	}

	for _, p := range []string{cfg.DictionaryPath(), flagPath} {
		if p == "" {
			continue
		}
		extra, err := translate.LoadDictionaryFile(p)
		if err != nil {
			return nil, err
		}
		dict.Merge(extra)
	}
	return dict, nil
}

// readInput reads the file named by args[0], or r when there is none or
// it is "-".
func readInput(r io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", args[0], err)
	}
	return data, nil
}

// describeParseError turns parse failures into user-facing errors.
func describeParseError(err error) error {
	if errors.Is(err, jsondoc.ErrEmpty) {
		return errors.New(i18n.T("The document is empty"))
	}
	var perr *jsondoc.ParseError
	if errors.As(err, &perr) {
		return fmt.Errorf(i18n.T("Invalid JSON at line %d, column %d: %s"), perr.Line, perr.Column, perr.Msg)
	}
	return err
}

// interruptContext is cancelled on the first Ctrl+C.
func interruptContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		select {
		case <-sigCh:
			logWarning("%s", i18n.T("Interrupted, stopping after the current field..."))
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
