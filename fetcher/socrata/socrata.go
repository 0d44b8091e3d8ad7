package socrata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/jvilchesf/ny-realstates/config"
	"github.com/jvilchesf/ny-realstates/utils"
)

// Fetcher downloads the Job Application Filings CSV export from the NYC
// Open Data portal.
type Fetcher struct {
	cfg    *config.Config
	logger *utils.Logger
	client *http.Client
}

// New creates a ready-to-use Fetcher. The HTTP client carries no timeout:
// the export runs to hundreds of megabytes and transfer time depends on
// the link, not on us.
func New(cfg *config.Config, logger *utils.Logger) *Fetcher {
	return &Fetcher{
		cfg:    cfg,
		logger: logger,
		client: &http.Client{},
	}
}

// Fetch streams the export to dest in fixed-size chunks, reporting
// percentage progress when the server declares a Content-Length. When
// dest already exists no request is issued at all, so a rerun on the
// same day reuses the earlier download.
func (f *Fetcher) Fetch(ctx context.Context, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		f.logger.Info("[socrata] Raw data file already exists: %s", dest)
		return nil
	}

	f.logger.Info("[socrata] Downloading data from NYC Open Data Portal...")
	f.logger.Info("[socrata] This may take several minutes due to the large file size...")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.DatasetURL, nil)
	if err != nil {
		return fmt.Errorf("socrata: build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("socrata: get %q: %w", f.cfg.DatasetURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("socrata: get %q: unexpected status %s", f.cfg.DatasetURL, resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("socrata: create %s: %w", dest, err)
	}
	defer out.Close()

	chunkSize := f.cfg.DownloadChunkBytes
	if chunkSize <= 0 {
		chunkSize = 8192 // zero would spin on empty reads
	}

	totalSize := resp.ContentLength
	var downloaded int64
	buf := make([]byte, chunkSize)

	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return fmt.Errorf("socrata: write %s: %w", dest, writeErr)
			}
			downloaded += int64(n)
			if totalSize > 0 {
				f.logger.Progress("Progress: %.1f%%", float64(downloaded)/float64(totalSize)*100)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("socrata: read response: %w", readErr)
		}
	}
	if totalSize > 0 {
		f.logger.ProgressDone()
	}

	f.logger.Info("[socrata] Data downloaded successfully to %s", dest)
	return nil
}
