package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-advisor/pkg/errors"
)

// CheckConfigCompatibility reports whether a config file written for
// configVersion can be read by a binary at binaryVersion.
//
// Major and minor versions must match; patch versions may differ. A "main"
// version on either side skips the check, as does an empty config version.
func CheckConfigCompatibility(binaryVersion, configVersion string) error {
	binaryVersion = strings.TrimPrefix(binaryVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if binaryVersion == "main" || configVersion == "main" || configVersion == "" {
		return nil
	}

	binary, err := semver.NewVersion(binaryVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeVersionMismatch, err, "invalid binary version '%s'", binaryVersion)
	}

	config, err := semver.NewVersion(configVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeVersionMismatch, err, "invalid config version '%s'", configVersion)
	}

	if binary.Major() != config.Major() {
		return errors.Newf(errors.ErrCodeVersionMismatch,
			"major version mismatch: advisorbot is %d.x.x but config requires %d.x.x",
			binary.Major(), config.Major())
	}

	if binary.Minor() != config.Minor() {
		return errors.Newf(errors.ErrCodeVersionMismatch,
			"minor version mismatch: advisorbot is %d.%d.x but config requires %d.%d.x",
			binary.Major(), binary.Minor(), config.Major(), config.Minor())
	}

	return nil
}
