package version

// Version is the current build version. It is set at build time using
// ldflags:
// -ldflags "-X github.com/sigwatch/sigwatch/internal/version.Version=v1.2.3"
// The default value "dev" indicates a development build.
var Version = "dev"

// GetVersion returns the current build version.
func GetVersion() string {
	return Version
}
