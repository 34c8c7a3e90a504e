// Package dataset acquires the three public datasets and stages the
// nine study images from them: download, archive extraction, image
// listing, selection and grayscale PNG staging.
//
// Acquisition is deliberately simple, matching the study script it
// reproduces: sequential blocking downloads with a fixed timeout, no
// retries and no integrity checking. A failed download is logged and
// the run continues with whatever data exists.
package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Browser-style agent; the NLM mirror rejects the Go default.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"

// Client downloads dataset archives over HTTP.
type Client struct {
	http *http.Client
	log  zerolog.Logger
}

// NewClient builds a download client with the given fixed socket
// timeout.
func NewClient(timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

// Download fetches url into dest. An existing destination is kept
// untouched and reported as success. The file is written via a .part
// temp name so an interrupted transfer never leaves a half archive
// that a later run would skip.
func (c *Client) Download(ctx context.Context, url, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		c.log.Debug().Str("file", filepath.Base(dest)).Msg("already downloaded")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create download dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	c.log.Info().Str("file", filepath.Base(dest)).Msg("downloading")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: unexpected status %s", resp.Status)
	}

	tmp := dest + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}

	written, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		return fmt.Errorf("failed to finalize download: %w", err)
	}

	c.log.Info().
		Str("file", filepath.Base(dest)).
		Int64("bytes", written).
		Msg("downloaded")
	return nil
}
