package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"mobility-insights-go/internal/logger"
)

var httpClient = &http.Client{Timeout: 2 * time.Minute}

var ErrEmptyBody = errors.New("empty body")

// Fetch downloads url into dest, retrying network and 5xx failures with
// exponential backoff until maxElapsed. 4xx responses fail immediately.
// The file is written to a temp file first and renamed on success.
func Fetch(ctx context.Context, url, dest string, maxElapsed time.Duration) error {
	log := logger.New().Component("fetch").WithField("url", url)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = maxElapsed

	attempt := 0
	var lastErr error
	op := func() error {
		attempt++
		err := download(ctx, url, dest)
		if err == nil {
			return nil
		}
		lastErr = err
		log.WithField("attempt", attempt).WithField("error", err.Error()).Warn("download attempt failed")
		return err
	}

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		if lastErr == nil {
			lastErr = err
		}
		return fmt.Errorf("fetch %s: %w", url, lastErr)
	}
	log.WithField("dest", dest).WithField("attempts", attempt).Info("dataset downloaded")
	return nil
}

func download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(b))
	}
	if resp.StatusCode >= 300 {
		// Permanent: don't retry on client errors
		return backoff.Permanent(fmt.Errorf("download failed: status %d", resp.StatusCode))
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".dataset-*")
	if err != nil {
		return backoff.Permanent(fmt.Errorf("create temp file: %w", err))
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	if n == 0 {
		return ErrEmptyBody
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return backoff.Permanent(fmt.Errorf("rename: %w", err))
	}
	return nil
}
