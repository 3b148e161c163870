package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/minios-linux/jsonlate/langmeta"
)

// ---------------------------------------------------------------------------
// MyMemory
// ---------------------------------------------------------------------------

// MyMemory calls the MyMemory translation memory API.
type MyMemory struct {
	prov Provider
}

// NewMyMemory returns a MyMemory strategy.
func NewMyMemory(prov Provider) *MyMemory {
	return &MyMemory{prov: prov}
}

func (m *MyMemory) ID() string   { return StrategyMyMemory }
func (m *MyMemory) Name() string { return m.prov.Name }

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	// responseStatus is a number on success and sometimes a string on error.
	ResponseStatus  json.RawMessage `json:"responseStatus"`
	ResponseDetails string          `json:"responseDetails"`
}

func (m *MyMemory) Translate(ctx context.Context, text, source, target string) Result {
	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", source+"|"+target)
	if m.prov.Email != "" {
		q.Set("de", m.prov.Email)
	}
	endpoint := strings.TrimRight(m.prov.BaseURL, "/") + "/get?" + q.Encode()

	body, err := getBody(ctx, m.prov.httpClient(), endpoint)
	if err != nil {
		return Failed("%v", err)
	}

	var resp myMemoryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Failed("parsing response: %v", err)
	}

	status := strings.Trim(string(resp.ResponseStatus), `"`)
	if status != "200" {
		if resp.ResponseDetails != "" {
			return Failed("status %s: %s", status, resp.ResponseDetails)
		}
		return Failed("status %s", status)
	}

	translated := html.UnescapeString(resp.ResponseData.TranslatedText)
	switch {
	case translated == "":
		return Failed("empty translation")
	case strings.HasPrefix(strings.ToUpper(translated), "MYMEMORY WARNING"):
		return Failed("quota exceeded: %s", truncate(translated, 80))
	case translated == text:
		return Failed("echoed input")
	}
	return Succeeded(translated)
}

// ---------------------------------------------------------------------------
// Google Translate (public gtx endpoint)
// ---------------------------------------------------------------------------

// Google calls the keyless Google Translate endpoint used by browser
// extensions.
type Google struct {
	prov Provider
}

// NewGoogle returns a Google Translate strategy.
func NewGoogle(prov Provider) *Google {
	return &Google{prov: prov}
}

func (g *Google) ID() string   { return StrategyGoogle }
func (g *Google) Name() string { return g.prov.Name }

func (g *Google) Translate(ctx context.Context, text, source, target string) Result {
	if !langmeta.IsSupported(target) {
		return Failed("unsupported target language %q", target)
	}

	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", source)
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)
	endpoint := strings.TrimRight(g.prov.BaseURL, "/") + "/translate_a/single?" + q.Encode()

	body, err := getBody(ctx, g.prov.httpClient(), endpoint)
	if err != nil {
		return Failed("%v", err)
	}

	translated, err := parseGoogleResponse(body)
	if err != nil {
		return Failed("%v", err)
	}
	if translated == text {
		return Failed("echoed input")
	}
	return Succeeded(translated)
}

var errMalformedGoogle = errors.New("malformed Google Translate response")

// parseGoogleResponse joins the translated sentences of a gtx response:
//
//	[[["Hello","你好",null,null,10], ...], null, "zh-CN", ...]
func parseGoogleResponse(body []byte) (string, error) {
	var data []json.RawMessage
	if err := json.Unmarshal(body, &data); err != nil || len(data) == 0 {
		return "", errMalformedGoogle
	}

	var sentences [][]json.RawMessage
	if err := json.Unmarshal(data[0], &sentences); err != nil {
		return "", errMalformedGoogle
	}

	var b strings.Builder
	for _, s := range sentences {
		if len(s) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(s[0], &part); err != nil {
			continue
		}
		b.WriteString(part)
	}
	if b.Len() == 0 {
		return "", errMalformedGoogle
	}
	return b.String(), nil
}

// ---------------------------------------------------------------------------
// LibreTranslate
// ---------------------------------------------------------------------------

// Libre calls a LibreTranslate instance.
type Libre struct {
	prov Provider
}

// NewLibre returns a LibreTranslate strategy.
func NewLibre(prov Provider) *Libre {
	return &Libre{prov: prov}
}

func (l *Libre) ID() string   { return StrategyLibre }
func (l *Libre) Name() string { return l.prov.Name }

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

func (l *Libre) Translate(ctx context.Context, text, source, target string) Result {
	if !langmeta.IsSupported(source) || !langmeta.IsSupported(target) {
		return Failed("unsupported language pair %s -> %s", source, target)
	}

	endpoint := strings.TrimRight(l.prov.BaseURL, "/") + "/translate"
	body, err := postJSON(ctx, l.prov.httpClient(), endpoint, libreRequest{
		Q:      text,
		Source: source,
		Target: target,
		Format: "text",
		APIKey: l.prov.APIKey,
	})
	if err != nil {
		return Failed("%v", err)
	}

	var resp libreResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Failed("parsing response: %v", err)
	}
	switch {
	case resp.Error != "":
		return Failed("%s", resp.Error)
	case resp.TranslatedText == "":
		return Failed("empty translation")
	case resp.TranslatedText == text:
		return Failed("echoed input")
	}
	return Succeeded(resp.TranslatedText)
}
