package version

// Version is the advisorbot release. It is set at build time with
// -ldflags "-X github.com/rxtech-lab/argo-advisor/internal/version.Version=1.2.3".
// "main" marks a development build.
var Version = "main"

// GetVersion returns the current version.
func GetVersion() string {
	return Version
}
