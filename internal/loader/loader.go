// Package loader fetches metrics snapshots from an HTTP endpoint or a local
// file. Failures never escape Load: an unavailable or malformed source reads
// as "no live data".
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/paradoxdash/internal/metrics"
	"github.com/ziadkadry99/paradoxdash/internal/telemetry"
)

var (
	// ErrUnavailable covers non-2xx responses, transport failures and
	// missing files.
	ErrUnavailable = errors.New("metrics unavailable")
	// ErrMalformed covers bodies that do not decode into a valid snapshot.
	ErrMalformed = errors.New("metrics malformed")
)

// DefaultMaxBytes caps the size of a metrics document.
const DefaultMaxBytes = 8 << 20

// Config configures a Loader.
type Config struct {
	Source   string        // http(s) URL, file:// URL or filesystem path
	Timeout  time.Duration // per-fetch timeout for HTTP sources
	MaxBytes int64
}

// Loader fetches snapshots from one configured source.
type Loader struct {
	source   string
	path     string // set for file sources
	client   *http.Client
	maxBytes int64
	logger   *zap.Logger
	metrics  *telemetry.Metrics
}

// New creates a Loader. logger and m may be nil.
func New(cfg Config, logger *zap.Logger, m *telemetry.Metrics) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	l := &Loader{
		source:   cfg.Source,
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
		logger:   logger,
		metrics:  m,
	}
	l.path, _ = filePath(cfg.Source)
	return l
}

// Source returns the configured source string.
func (l *Loader) Source() string { return l.source }

// FilePath returns the local path for file sources.
func (l *Loader) FilePath() (string, bool) {
	return l.path, l.path != ""
}

// Load fetches and validates a snapshot. It returns nil when the source is
// unavailable or the document is malformed; the failure is logged.
func (l *Loader) Load(ctx context.Context) *metrics.Snapshot {
	start := time.Now()
	s, err := l.Fetch(ctx)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		l.metrics.ObserveLoad(telemetry.OutcomeOK, elapsed.Seconds())
		l.logger.Debug("metrics loaded",
			zap.String("source", l.source), zap.Int("turns", len(s.Turns)), zap.Duration("elapsed", elapsed))
		return s
	case errors.Is(err, ErrMalformed):
		l.metrics.ObserveLoad(telemetry.OutcomeMalformed, elapsed.Seconds())
		l.logger.Warn("metrics malformed, keeping current data", zap.String("source", l.source), zap.Error(err))
	default:
		l.metrics.ObserveLoad(telemetry.OutcomeUnavailable, elapsed.Seconds())
		l.logger.Info("metrics not available, keeping current data", zap.String("source", l.source), zap.Error(err))
	}
	return nil
}

// Fetch reads the source once. Errors wrap ErrUnavailable or ErrMalformed.
func (l *Loader) Fetch(ctx context.Context) (*metrics.Snapshot, error) {
	body, err := l.read(ctx)
	if err != nil {
		return nil, err
	}
	s, err := metrics.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return s, nil
}

func (l *Loader) read(ctx context.Context) ([]byte, error) {
	if l.source == "" {
		return nil, fmt.Errorf("%w: no source configured", ErrUnavailable)
	}
	if l.path != "" {
		return l.readFile()
	}
	return l.readHTTP(ctx)
}

func (l *Loader) readHTTP(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return l.readLimited(resp.Body)
}

func (l *Loader) readFile() ([]byte, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer f.Close()
	return l.readLimited(f)
}

func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrUnavailable, err)
	}
	if int64(len(body)) > l.maxBytes {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", ErrMalformed, l.maxBytes)
	}
	return body, nil
}

// filePath resolves file:// URLs and plain paths. HTTP(S) sources return
// false.
func filePath(source string) (string, bool) {
	if source == "" {
		return "", false
	}
	lower := strings.ToLower(source)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return "", false
	}
	if strings.HasPrefix(lower, "file://") {
		u, err := url.Parse(source)
		if err != nil || u.Path == "" {
			return "", false
		}
		return u.Path, true
	}
	return source, true
}
