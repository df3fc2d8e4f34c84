package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantmind-br/claudeport/internal/ui"
)

// DefaultTimeout bounds a single installer download.
const DefaultTimeout = 15 * time.Minute

// Fetcher downloads the upstream installer.
type Fetcher struct {
	client *http.Client
	log    *zerolog.Logger
	quiet  bool
}

// New creates a Fetcher with the default HTTP client.
func New(log *zerolog.Logger, quiet bool) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: DefaultTimeout},
		log:    log,
		quiet:  quiet,
	}
}

// NewWithClient creates a Fetcher with a custom HTTP client (tests).
func NewWithClient(client *http.Client, log *zerolog.Logger) *Fetcher {
	return &Fetcher{client: client, log: log, quiet: true}
}

// Ensure makes the installer present at destPath. An existing file that
// passes verification is reused without touching the network; a cached file
// that fails the checksum is discarded and downloaded again. A fresh
// download streams through a progress bar into a temp file renamed only on
// success, and a mismatch on the freshly downloaded bytes is fatal.
func (f *Fetcher) Ensure(ctx context.Context, url, destPath, sum256 string) error {
	if _, err := os.Stat(destPath); err == nil {
		if err := f.verify(destPath, sum256); err == nil {
			f.log.Info().Str("path", destPath).Msg("installer already cached, skipping download")
			return nil
		}
		f.log.Warn().Str("path", destPath).Msg("cached installer failed checksum, re-downloading")
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("remove stale installer: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	f.log.Info().Str("url", url).Msg("downloading installer")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("download installer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download installer: unexpected status %s", resp.Status)
	}

	tmpPath := destPath + ".part"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create download file: %w", err)
	}

	var dst io.Writer = out
	var bar *ui.ProgressWriter
	if !f.quiet {
		bar = ui.NewProgressWriter(out, resp.ContentLength, "downloading "+filepath.Base(destPath))
		dst = bar
	}

	_, copyErr := io.Copy(dst, resp.Body)
	closeErr := out.Close()
	if bar != nil {
		bar.Close()
	}
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write installer: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close installer file: %w", closeErr)
	}

	if err := f.verify(tmpPath, sum256); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("move installer into cache: %w", err)
	}

	f.log.Info().Str("path", destPath).Msg("installer downloaded")
	return nil
}

// verify checks the file digest when a checksum is configured. Upstream
// publishes no digests, so an empty sum skips verification.
func (f *Fetcher) verify(path, sum256 string) error {
	if sum256 == "" {
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open installer for verification: %w", err)
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return fmt.Errorf("hash installer: %w", err)
	}

	got := hex.EncodeToString(h.Sum(nil))
	if !strings.EqualFold(got, sum256) {
		return fmt.Errorf("installer checksum mismatch: expected %s, got %s", sum256, got)
	}

	f.log.Debug().Str("sha256", got).Msg("installer checksum verified")
	return nil
}
