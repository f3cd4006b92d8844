package fetcher

import (
	"context"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Fetcher downloads a remote resource.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// Opener resolves an input location to a reader. Plain paths and file://
// URLs are opened from disk; http(s):// and ftp:// are delegated to the
// configured fetchers.
type Opener struct {
	HTTP Fetcher
	FTP  Fetcher
}

// NewOpener creates an Opener backed by the default HTTP and FTP fetchers.
func NewOpener(httpOpts HTTPOptions, ftpOpts FTPOptions) *Opener {
	return &Opener{
		HTTP: NewHTTPFetcher(httpOpts),
		FTP:  NewFTPFetcher(ftpOpts),
	}
}

// Open returns a reader for location. The caller must close it.
func (o *Opener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, eris.New("fetcher: empty location")
	}

	scheme := ""
	if i := strings.Index(location, "://"); i > 0 {
		scheme = strings.ToLower(location[:i])
	}

	switch scheme {
	case "":
		return openFile(location)
	case "file":
		u, err := url.Parse(location)
		if err != nil {
			return nil, eris.Wrapf(err, "fetcher: parse %s", location)
		}
		return openFile(u.Path)
	case "http", "https":
		if o.HTTP == nil {
			return nil, eris.Errorf("fetcher: no http fetcher configured for %s", location)
		}
		zap.L().Debug("fetcher: downloading", zap.String("url", location))
		return o.HTTP.Download(ctx, location)
	case "ftp":
		if o.FTP == nil {
			return nil, eris.Errorf("fetcher: no ftp fetcher configured for %s", location)
		}
		zap.L().Debug("fetcher: downloading", zap.String("url", location))
		return o.FTP.Download(ctx, location)
	default:
		return nil, eris.Errorf("fetcher: unsupported scheme %q in %s", scheme, location)
	}
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: open %s", path)
	}
	return f, nil
}
