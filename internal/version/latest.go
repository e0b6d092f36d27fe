package version

import (
	"context"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/sigwatch/sigwatch/internal/logger"
	"github.com/sigwatch/sigwatch/pkg/errors"
)

const latestReleaseURL = "https://api.github.com/repos/sigwatch/sigwatch/releases/latest"

type releaseResponse struct {
	TagName string `json:"tag_name"`
}

// Checker resolves the latest published release tag.
type Checker struct {
	client *resty.Client
	url    string
}

// NewChecker creates a checker against the public release endpoint.
func NewChecker() *Checker {
	return NewCheckerWithURL(latestReleaseURL)
}

// NewCheckerWithURL creates a checker against a custom endpoint, for
// tests and proxies.
func NewCheckerWithURL(url string) *Checker {
	return &Checker{
		client: resty.New(),
		url:    url,
	}
}

// LatestRelease returns the tag name of the latest release.
func (c *Checker) LatestRelease(ctx context.Context) (string, error) {
	var release releaseResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&release).
		Get(c.url)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFetchFailed, "failed to fetch latest release", err)
	}

	if resp.IsError() {
		return "", errors.Newf(errors.ErrCodeFetchFailed, "release request returned %s", resp.Status())
	}

	if release.TagName == "" {
		return "", errors.New(errors.ErrCodeParseFailed, "release response has no tag name")
	}

	return release.TagName, nil
}

// CheckForUpdate compares the running build against the latest release
// and logs when a newer one exists. Failures only log; startup never
// blocks on an unreachable release endpoint.
func (c *Checker) CheckForUpdate(ctx context.Context, log *logger.Logger) {
	latest, err := c.LatestRelease(ctx)
	if err != nil {
		log.Debug("update check failed", zap.Error(err))

		return
	}

	outdated, err := IsOutdated(GetVersion(), latest)
	if err != nil {
		log.Debug("update check failed", zap.Error(err))

		return
	}

	if outdated {
		log.Warn("a newer release is available",
			zap.String("current", GetVersion()),
			zap.String("latest", latest))
	}
}
