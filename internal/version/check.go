package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/sigwatch/sigwatch/pkg/errors"
)

// IsOutdated reports whether latest is a newer release than current.
//
// Rules:
//   - A "dev" build never counts as outdated; the check is skipped.
//   - Leading "v" prefixes are accepted on both sides.
//   - Pre-release ordering follows semver (1.2.0-rc.1 < 1.2.0).
func IsOutdated(current, latest string) (bool, error) {
	if strings.TrimPrefix(current, "v") == "dev" {
		return false, nil
	}

	currentVersion, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return false, errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid current version %q", current)
	}

	latestVersion, err := semver.NewVersion(strings.TrimPrefix(latest, "v"))
	if err != nil {
		return false, errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid latest version %q", latest)
	}

	return latestVersion.GreaterThan(currentVersion), nil
}
