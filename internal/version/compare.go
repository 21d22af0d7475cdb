package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/quantx-lab/quantx/pkg/errors"
)

// CheckConfigCompatibility checks if the engine version can run a config file
// written for the given config version. Returns nil if compatible.
//
// Compatibility rules:
//   - If either version is "main" (development build), the check is skipped
//   - Major versions must match exactly
//   - The engine minor version must be at least the config minor version
//   - Patch versions can differ
func CheckConfigCompatibility(engineVersion, configVersion string) error {
	engineVersion = strings.TrimPrefix(engineVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	// Skip version check for "main" (development builds)
	if engineVersion == "main" || configVersion == "main" {
		return nil
	}

	engineSemver, err := semver.NewVersion(engineVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid engine version '%s'", engineVersion)
	}

	configSemver, err := semver.NewVersion(configVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid config version '%s'", configVersion)
	}

	if engineSemver.Major() != configSemver.Major() {
		return errors.Newf(errors.ErrCodeInvalidVersion,
			"major version mismatch: engine is %d.x.x but config requires %d.x.x",
			engineSemver.Major(), configSemver.Major())
	}

	if engineSemver.Minor() < configSemver.Minor() {
		return errors.Newf(errors.ErrCodeInvalidVersion,
			"engine %d.%d.x is older than config version %d.%d.x",
			engineSemver.Major(), engineSemver.Minor(),
			configSemver.Major(), configSemver.Minor())
	}

	return nil
}
