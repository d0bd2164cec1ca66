package version

// Version information set at build time via ldflags
var (
	Version = "dev"
	GitHash = "dev"
)

// GetVersion returns the version string shown in the title bar and -version
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	return GitHash
}

// GetUserAgent returns the user agent string for HTTP requests
func GetUserAgent() string {
	return "ytgoat " + GetVersion() + "; +https://github.com/jarv/ytgoat"
}
