package dataset

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

//go:embed data.json
var embeddedData []byte

// LoadError reports a dataset that could not be fetched or is unusable.
type LoadError struct {
	Source string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load dataset from %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("load dataset from %s: %s", e.Source, e.Reason)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Provider fetches the base dataset.
type Provider interface {
	Load(ctx context.Context) (*Dataset, error)
}

// ProviderFor picks a provider for source: http(s) URLs are fetched, other
// non-empty values are read as file paths, and an empty source selects the
// built-in taxonomy.
func ProviderFor(source string) Provider {
	switch {
	case source == "":
		return EmbeddedProvider{}
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return &HTTPProvider{URL: source}
	default:
		return FileProvider{Path: source}
	}
}

// EmbeddedProvider serves the built-in PMBOK process taxonomy. It carries
// no ITTO data; that comes from the user overlay.
type EmbeddedProvider struct{}

func (EmbeddedProvider) Load(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Source: "built-in", Reason: "cancelled", Err: err}
	}
	return Decode("built-in", embeddedData)
}

// FileProvider reads a dataset document from disk.
type FileProvider struct {
	Path string
}

func (f FileProvider) Load(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Source: f.Path, Reason: "cancelled", Err: err}
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, &LoadError{Source: f.Path, Reason: "read file", Err: err}
	}
	return Decode(f.Path, data)
}

// defaultHTTPTimeout bounds a dataset fetch when no client is supplied.
const defaultHTTPTimeout = 15 * time.Second

// HTTPProvider fetches a dataset document over HTTP, bypassing caches.
type HTTPProvider struct {
	URL    string
	Client *http.Client
}

func (h *HTTPProvider) Load(ctx context.Context) (*Dataset, error) {
	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, &LoadError{Source: h.URL, Reason: "build request", Err: err}
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &LoadError{Source: h.URL, Reason: "fetch", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &LoadError{Source: h.URL, Reason: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LoadError{Source: h.URL, Reason: "read body", Err: err}
	}
	return Decode(h.URL, data)
}

// Decode parses a dataset document, either bare or wrapped as
// {"dataset": {...}}, validates it, and derives each process's ITTOs from
// the document's own ITTO map.
func Decode(source string, data []byte) (*Dataset, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Source: source, Reason: "invalid JSON", Err: err}
	}

	body := json.RawMessage(data)
	if top, ok := doc.(map[string]any); ok {
		if inner, ok := top["dataset"]; ok {
			var wrapped struct {
				Dataset json.RawMessage `json:"dataset"`
			}
			if err := json.Unmarshal(data, &wrapped); err != nil {
				return nil, &LoadError{Source: source, Reason: "invalid JSON", Err: err}
			}
			doc, body = inner, wrapped.Dataset
		}
	}

	if err := validateDocument("dataset", datasetSchemaJSON, doc); err != nil {
		return nil, &LoadError{Source: source, Reason: "dataset has the wrong shape", Err: err}
	}

	var ds Dataset
	if err := json.Unmarshal(body, &ds); err != nil {
		return nil, &LoadError{Source: source, Reason: "decode dataset", Err: err}
	}
	if len(ds.Processes) == 0 {
		return nil, &LoadError{Source: source, Reason: "dataset has no processes"}
	}
	if err := Validate(&ds); err != nil {
		return nil, &LoadError{Source: source, Reason: "dataset failed validation", Err: err}
	}

	return Merge(&ds, NewOverlay()), nil
}
