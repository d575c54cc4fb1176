// Package document reads raw OpenAPI documents and writes transformed ones.
package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/msgdoc/internal/logger"
)

// Settings configures loading.
type Settings struct {
	// HTTPTimeout bounds each HTTP request.
	HTTPTimeout time.Duration
	// MaxRetries for transient HTTP failures (>=500, 429, or network errors).
	MaxRetries int
	// BackoffBase is the base delay for exponential backoff.
	BackoffBase time.Duration
	// AllowFileRefs permits file references when the root is a URL. Local
	// roots always allow them.
	AllowFileRefs bool
	// Strict turns every validation failure into an error.
	Strict bool
}

// DefaultSettings returns recommended defaults.
func DefaultSettings() Settings {
	return Settings{
		HTTPTimeout: 10 * time.Second,
		MaxRetries:  3,
		BackoffBase: 200 * time.Millisecond,
	}
}

// Option mutates Settings.
type Option func(*Settings)

func WithHTTPTimeout(d time.Duration) Option  { return func(s *Settings) { s.HTTPTimeout = d } }
func WithMaxRetries(n int) Option             { return func(s *Settings) { s.MaxRetries = n } }
func WithBackoffBase(d time.Duration) Option  { return func(s *Settings) { s.BackoffBase = d } }
func WithAllowFileRefs(allow bool) Option     { return func(s *Settings) { s.AllowFileRefs = allow } }
func WithStrictValidation(strict bool) Option { return func(s *Settings) { s.Strict = strict } }

// Load reads a raw document from a file path or an http/https URL. Swagger
// 2.0 input is converted to OpenAPI 3. file:// URLs are rejected.
func Load(ctx context.Context, input string, opts ...Option) (*openapi3.T, error) {
	if strings.TrimSpace(input) == "" {
		return nil, &Error{Code: InputError, Message: "document: input is empty"}
	}
	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}

	raw, location, base, err := read(ctx, input, settings)
	if err != nil {
		return nil, err
	}
	return decode(ctx, raw, location, base, settings)
}

// Parse decodes an in-memory document. location only labels errors.
func Parse(ctx context.Context, raw []byte, location string, opts ...Option) (*openapi3.T, error) {
	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	return decode(ctx, raw, location, nil, settings)
}

// read fetches the input bytes. base is the URL relative references resolve
// against.
func read(ctx context.Context, input string, settings Settings) ([]byte, string, *url.URL, error) {
	u, uerr := url.Parse(input)
	if uerr == nil && u.Scheme != "" && u.Host != "" {
		switch scheme := strings.ToLower(u.Scheme); scheme {
		case "http", "https":
		case "file":
			return nil, "", nil, &Error{Code: InputError, Message: "document: file:// URLs are blocked", Location: input}
		default:
			return nil, "", nil, &Error{Code: InputError, Message: fmt.Sprintf("document: unsupported URL scheme %q (only http/https allowed)", scheme), Location: input}
		}
		raw, err := fetchWithRetry(ctx, input, settings)
		if err != nil {
			return nil, "", nil, &Error{Code: NetworkError, Message: fmt.Sprintf("fetch %s: %v", input, err), Location: input, Cause: err}
		}
		return raw, input, u, nil
	}

	abs, err := filepath.Abs(input)
	if err != nil {
		return nil, "", nil, &Error{Code: InputError, Message: fmt.Sprintf("resolve path: %v", err), Location: input, Cause: err}
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, "", nil, &Error{Code: InputError, Message: fmt.Sprintf("read file %s: %v", abs, err), Location: abs, Cause: err}
	}
	return raw, abs, &url.URL{Path: filepath.ToSlash(abs)}, nil
}

func decode(ctx context.Context, raw []byte, location string, base *url.URL, settings Settings) (*openapi3.T, error) {
	version, err := detectVersion(raw)
	if err != nil {
		return nil, &Error{Code: ParseError, Message: err.Error(), Location: location, Cause: err}
	}

	allowFiles := settings.AllowFileRefs || (base != nil && base.Scheme == "")
	loader := newLoader(settings, allowFiles)

	var doc *openapi3.T
	switch version {
	case 3:
		if base != nil {
			doc, err = loader.LoadFromDataWithPath(raw, base)
		} else {
			doc, err = loader.LoadFromData(raw)
		}
		if err != nil {
			return nil, classify(err, location)
		}
	case 2:
		if fixed, changed, _ := rewriteV2(raw); changed {
			raw = fixed
		}
		doc, err = convertV2ToV3(raw)
		if err != nil {
			return nil, &Error{Code: ConversionError, Message: fmt.Sprintf("convert v2→v3: %v", err), Location: location, Cause: err}
		}
		if err := loader.ResolveRefsIn(doc, nil); err != nil {
			logger.Warn("resolve refs after conversion of %s: %v", location, err)
		}
	}

	if err := doc.Validate(ctx); err != nil {
		if settings.Strict || !tolerable(err) {
			return nil, classify(err, location)
		}
		logger.Debug("continuing despite validation error in %s: %v", location, err)
	}
	return doc, nil
}

func newLoader(settings Settings, allowFiles bool) *openapi3.Loader {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true
	client := &http.Client{Timeout: settings.HTTPTimeout}
	loader.ReadFromURIFunc = func(l *openapi3.Loader, uri *url.URL) ([]byte, error) {
		switch strings.ToLower(uri.Scheme) {
		case "", "file":
			if !allowFiles {
				return nil, fmt.Errorf("blocked file ref: %s", uri.String())
			}
			path := uri.Path
			if path == "" {
				path = uri.Opaque
			}
			return os.ReadFile(path)
		case "http", "https":
			resp, err := client.Get(uri.String())
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 400 {
				return nil, fmt.Errorf("http %d: %s", resp.StatusCode, uri.String())
			}
			return io.ReadAll(resp.Body)
		default:
			return nil, fmt.Errorf("unsupported ref scheme: %s", uri.Scheme)
		}
	}
	return loader
}

// detectVersion returns 3 for OpenAPI v3, 2 for Swagger v2, else an error.
func detectVersion(data []byte) (int, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return 0, fmt.Errorf("parse document: %w", err)
	}
	if s, _ := root["openapi"].(string); strings.HasPrefix(strings.TrimSpace(s), "3.") {
		return 3, nil
	}
	if s, _ := root["swagger"].(string); strings.HasPrefix(strings.TrimSpace(s), "2.") {
		return 2, nil
	}
	return 0, errors.New("document: missing or unknown version (expected 'openapi: 3.x' or 'swagger: 2.0')")
}

func convertV2ToV3(data []byte) (*openapi3.T, error) {
	var v2 openapi2.T
	if err := yaml.Unmarshal(data, &v2); err != nil {
		return nil, err
	}
	return openapi2conv.ToV3(&v2)
}

func fetchWithRetry(ctx context.Context, rawURL string, settings Settings) ([]byte, error) {
	client := &http.Client{Timeout: settings.HTTPTimeout}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = settings.BackoffBase
	if policy.InitialInterval <= 0 {
		policy.InitialInterval = 200 * time.Millisecond
	}
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.MaxElapsedTime = 0

	attempts := settings.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}

	var body []byte
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		b, retry, err := fetchOnce(ctx, client, rawURL)
		if err == nil {
			body = b
			return nil
		}
		if !retry {
			return backoff.Permanent(err)
		}
		logger.Debug("fetch %s attempt %d failed: %v", rawURL, attempt, err)
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(attempts-1)), ctx))
	if err != nil {
		return nil, err
	}
	return body, nil
}

// fetchOnce performs one GET. retry reports whether the failure is transient.
func fetchOnce(ctx context.Context, client *http.Client, rawURL string) (body []byte, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode < 300:
		body, err = io.ReadAll(resp.Body)
		return body, false, err
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("transient http error %d", resp.StatusCode)
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, false, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
}
