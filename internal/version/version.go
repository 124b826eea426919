package version

// Set at build time via -ldflags "-X slashkit/internal/version.Version=...".
var (
	AppName = "slashkit"
	Version = "dev"
)
