package catalog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/andybalholm/brotli"

	"github.com/jonathan/skillgap/internal/fetch"
)

// Options configures how a catalog source is read.
type Options struct {
	SFTP   SFTPOptions
	HTTP   *fetch.Options
	Logger *slog.Logger
}

// Load reads the catalog from source: a local path, an http(s) URL or an
// sftp:// URL. Sources ending in .br are brotli-compressed.
func Load(ctx context.Context, source string, opts Options) (*Catalog, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var (
		rc  io.ReadCloser
		err error
	)
	if strings.HasPrefix(source, "sftp://") {
		rc, err = openSFTP(ctx, source, opts.SFTP, logger)
	} else if fetch.IsURL(source) {
		rc, err = fetch.Open(ctx, source, opts.HTTP)
	} else {
		rc, err = os.Open(source)
	}
	if err != nil {
		return nil, &SourceError{Source: redact(source), Cause: err}
	}
	defer func() { _ = rc.Close() }()

	var r io.Reader = rc
	if strings.HasSuffix(strings.ToLower(source), ".br") {
		r = brotli.NewReader(rc)
	}

	c, err := Parse(r)
	if err != nil {
		return nil, err
	}

	logger.Info("course catalog loaded", "source", redact(source), "courses", c.Len())
	return c, nil
}
