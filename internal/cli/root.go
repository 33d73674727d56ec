package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/philippedeswert/syncfw/internal/logging"
	"github.com/philippedeswert/syncfw/pkg/config"
	"github.com/philippedeswert/syncfw/pkg/profile"
)

// BuildInfo contains build-time information
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

var buildInfo BuildInfo

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "syncfw-profiles",
	Short: "Inspect and manage device sync profiles",
	Long: `syncfw-profiles works directly on the profile store of the device
synchronization framework: the XML profile trees under the user overlay
directory and the system defaults, and the per-profile sync logs.

The store layers a user-writable primary directory over read-only system
defaults. Saves always go to the primary directory, so system profiles can
be overridden without touching them.`,
	Version: buildInfo.Version,
}

var rootFlags struct {
	primaryPath   string
	secondaryPath string
}

// Execute puts the build information into the version string and runs the
// root command. This is called by main.main().
func Execute(info BuildInfo) error {
	buildInfo = info
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
	return rootCmd.Execute()
}

func init() {
	bindStoreFlags(rootCmd.PersistentFlags())
}

func bindStoreFlags(flags *pflag.FlagSet) {
	flags.StringVar(&rootFlags.primaryPath, "primary-path", "",
		"Primary (user) profile directory, overrides PROFILE_PRIMARY_PATH")
	flags.StringVar(&rootFlags.secondaryPath, "secondary-path", "",
		"Secondary (system) profile directory, overrides PROFILE_SECONDARY_PATH")
	flags.StringP("log-level", "l", "", "Log level (debug, info, warn, error)")
}

// newManager builds a profile manager from the environment and flags.
func newManager(cmd *cobra.Command) (*profile.Manager, error) {
	cfg, err := config.NewDotEnvLoader().Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if rootFlags.primaryPath != "" {
		cfg.PrimaryPath = rootFlags.primaryPath
	}
	if rootFlags.secondaryPath != "" {
		cfg.SecondaryPath = rootFlags.secondaryPath
	}

	log, err := logging.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	manager := profile.NewManager(cfg.PrimaryPath, cfg.SecondaryPath)
	manager.SetLogger(log)
	return manager, nil
}
