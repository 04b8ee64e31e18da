package main

import (
	"os"

	"card-intake/cmd"

	"github.com/joho/godotenv"
)

// Version information - these will be set during build time via ldflags
var (
	Version   = "dev"     // Application version (e.g., "v1.2.3")
	GitCommit = "none"    // Git commit hash
	BuildTime = "unknown" // Build timestamp
)

func main() {
	// A .env in the working directory can supply CARD_INTAKE_* overrides
	_ = godotenv.Load()

	cmd.SetVersionInfo(Version, GitCommit, BuildTime)

	rootCmd := cmd.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
