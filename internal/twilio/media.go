package twilio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-intake/constants"
)

// StatusError reports a non-success HTTP status from the media endpoint.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("media download returned HTTP %d", e.StatusCode)
}

// Downloader fetches provider media over authenticated HTTP GET and persists
// it under a timestamped name so concurrent submissions never collide.
type Downloader struct {
	client     *http.Client
	accountSID string
	authToken  string
	dir        string
	logger     *slog.Logger

	now func() time.Time
}

func NewDownloader(accountSID, authToken, dir string, timeout time.Duration, logger *slog.Logger) *Downloader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if dir == "" {
		dir = "./downloads"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Downloader{
		client:     &http.Client{Timeout: timeout},
		accountSID: accountSID,
		authToken:  authToken,
		dir:        dir,
		logger:     logger,
		now:        time.Now,
	}
}

// Download fetches mediaURL and writes the bytes to
// <dir>/resume_<unix-ts>.<ext>, deriving ext from the declared content type.
// fallbackSID is tried when the configured account SID is empty. Credentials
// missing entirely degrades to an unauthenticated GET.
func (d *Downloader) Download(ctx context.Context, mediaURL, contentType, fallbackSID string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return "", fmt.Errorf("build media request: %w", err)
	}

	sid := d.accountSID
	if sid == "" {
		sid = fallbackSID
	}
	if sid != "" && d.authToken != "" {
		req.SetBasicAuth(sid, d.authToken)
	} else {
		d.logger.Warn("twilio.media.no_credentials", "req_id", rid,
			"hint", "attempting unauthenticated download; provider may reject it")
	}

	d.logger.Info("twilio.media.request", "req_id", rid, "content_type", contentType)

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Error("twilio.media.send_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			d.logger.Warn("twilio.media.body_close_error", "req_id", rid, "error", cerr)
		}
	}()

	if resp.StatusCode/100 != 2 {
		d.logger.Error("twilio.media.bad_status", "req_id", rid, "status", resp.StatusCode,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", &StatusError{StatusCode: resp.StatusCode}
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	ext := constants.ExtFromContentType(contentType)
	path := filepath.Join(d.dir, fmt.Sprintf("resume_%d.%s", d.now().Unix(), ext))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}

	d.logger.Info("twilio.media.saved", "req_id", rid, "path", path, "bytes", n,
		"elapsed_ms", time.Since(start).Milliseconds())
	return path, nil
}
