package pkgmgr

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/afero"

	"git-setup/internal/logger"
)

// Downloader saves the content at a URL to a file.
type Downloader interface {
	Download(ctx context.Context, url, destPath string) error
}

// HTTPDownloader downloads over HTTP into an afero filesystem.
type HTTPDownloader struct {
	Client *http.Client
	Fs     afero.Fs
}

// NewHTTPDownloader builds a downloader using http.DefaultClient.
func NewHTTPDownloader(fs afero.Fs) *HTTPDownloader {
	return &HTTPDownloader{Client: http.DefaultClient, Fs: fs}
}

// Download fetches url and writes the body to destPath.
func (d *HTTPDownloader) Download(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to GET %s: %w", url, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Error("[ERROR] Failed to close response body: %s\n", cerr)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: HTTP status %d", url, resp.StatusCode)
	}

	out, err := d.Fs.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", destPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			logger.Error("[ERROR] Failed to close destination file: %s\n", cerr)
		}
	}()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write response to file: %w", err)
	}

	logger.Debug("[DEBUG] Downloaded %s to: %s\n", url, destPath)
	return nil
}
