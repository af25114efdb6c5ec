package web3

// Version is the library release.
const Version = "v1.2.0"

// Build information, set through -ldflags.
var (
	GitCommit string
	BuildDate string
)

// VersionInfo returns the release with the commit and build date when known.
func VersionInfo() string {
	info := "web3go " + Version
	if GitCommit != "" {
		info += " (" + GitCommit[:min(8, len(GitCommit))] + ")"
	}
	if BuildDate != "" {
		info += " built " + BuildDate
	}
	return info
}
