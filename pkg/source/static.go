package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/nzebi/dico/pkg/word"
)

const (
	staticName       = "static"
	defaultBulkName  = "words.json"
	defaultBulkLimit = 64 << 20
)

type StaticConfig struct {
	// BaseURL is where the application is deployed. A relative URL is
	// resolved against it.
	BaseURL string
	// URL of the bulk document. Empty means defaultBulkName next to BaseURL.
	URL string
	// Path reads the bulk document from the local file system instead.
	// It takes precedence over the URLs.
	Path string
	// Timeout of the HTTP request. Zero means no client side limit, the
	// loader still bounds each step.
	Timeout time.Duration
}

// Static reads the read-only bulk word list shipped with the application.
type Static struct {
	client *http.Client
	config *StaticConfig
	logger *zap.Logger
}

var _ Source = (*Static)(nil)

func NewStatic(client *http.Client, config *StaticConfig, logger *zap.Logger) *Static {
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Static{
		client: client,
		config: config,
		logger: logger,
	}
}

func (s *Static) Name() string {
	return staticName
}

// Fetch returns every usable record of the bulk document. Records without an
// id, headword or translation are skipped.
func (s *Static) Fetch(ctx context.Context) ([]*word.Word, error) {
	data, err := s.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, staticName, err)
	}
	words, skipped, err := word.DecodeRaw(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, staticName, err)
	}
	if skipped > 0 {
		s.logger.Debug("Skipped incomplete bulk records", zap.Int("skipped", skipped))
	}
	return words, nil
}

func (s *Static) read(ctx context.Context) ([]byte, error) {
	if s.config.Path != "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(s.config.Path)
		if err != nil {
			return nil, fmt.Errorf("can not read bulk file: %w", err)
		}
		return data, nil
	}
	bulkURL, err := s.bulkURL()
	if err != nil {
		return nil, err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, bulkURL, nil)
	if err != nil {
		return nil, fmt.Errorf("can not form request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	response, err := s.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected response code: %d", response.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(response.Body, defaultBulkLimit))
	if err != nil {
		return nil, fmt.Errorf("can not read response: %w", err)
	}
	return data, nil
}

// bulkURL resolves the configured URL against the base URL.
func (s *Static) bulkURL() (string, error) {
	ref := s.config.URL
	if ref == "" {
		ref = defaultBulkName
	}
	target, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid bulk url %q: %w", ref, err)
	}
	if !target.IsAbs() {
		if s.config.BaseURL == "" {
			return "", fmt.Errorf("relative bulk url %q without base url", ref)
		}
		base, err := url.Parse(s.config.BaseURL)
		if err != nil {
			return "", fmt.Errorf("invalid base url %q: %w", s.config.BaseURL, err)
		}
		target = base.ResolveReference(target)
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return "", fmt.Errorf("unsupported bulk url scheme %q", target.Scheme)
	}
	return target.String(), nil
}
