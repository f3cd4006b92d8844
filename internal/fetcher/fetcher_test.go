package fetcher

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	body string
	urls []string
}

func (f *fakeFetcher) Download(_ context.Context, url string) (io.ReadCloser, error) {
	f.urls = append(f.urls, url)
	return io.NopCloser(strings.NewReader(f.body)), nil
}

func TestOpener_Open(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payouts.csv")
	require.NoError(t, os.WriteFile(path, []byte("local"), 0o644))

	httpF := &fakeFetcher{body: "http"}
	ftpF := &fakeFetcher{body: "ftp"}
	o := &Opener{HTTP: httpF, FTP: ftpF}

	tests := []struct {
		location string
		want     string
	}{
		{path, "local"},
		{"file://" + path, "local"},
		{"https://cdn.example.com/payouts.csv", "http"},
		{"HTTP://cdn.example.com/payouts.csv", "http"},
		{"ftp://ftp.example.com/payouts.csv", "ftp"},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			rc, err := o.Open(context.Background(), tt.location)
			require.NoError(t, err)
			defer rc.Close() //nolint:errcheck
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
	assert.Len(t, httpF.urls, 2)
	assert.Len(t, ftpF.urls, 1)
}

func TestOpener_Errors(t *testing.T) {
	o := &Opener{}

	_, err := o.Open(context.Background(), "  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty location")

	_, err = o.Open(context.Background(), "s3://bucket/key.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scheme")

	_, err = o.Open(context.Background(), "https://example.com/a.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no http fetcher")

	_, err = o.Open(context.Background(), "ftp://example.com/a.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no ftp fetcher")

	_, err = o.Open(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetcher: open")
}

func TestNewOpener(t *testing.T) {
	o := NewOpener(HTTPOptions{}, FTPOptions{})
	assert.NotNil(t, o.HTTP)
	assert.NotNil(t, o.FTP)
}
