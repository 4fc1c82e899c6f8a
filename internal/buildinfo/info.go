package buildinfo

import "fmt"

var (
	// Version will be set via ldflags during build
	Version = "dev"
	// Commit will be set via ldflags during build
	Commit = "none"
	// Date will be set via ldflags during build
	Date = "unknown"
)

// GetUserAgent returns the identifier reported in logs and notifications
func GetUserAgent() string {
	return fmt.Sprintf("coc-java/%s", Version)
}
