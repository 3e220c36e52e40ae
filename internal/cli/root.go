package cli

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "apkstats",
		Short: "Collect AndroidManifest.xml statistics from decompiled Android packages",
		Long: `Apkstats scans directories of decompiled Android packages and extracts
a fixed set of facts from each AndroidManifest.xml: identity, component
counts, requested permissions, libraries and features, SDK constraints and
screen support flags.

Manifests may be decoded text XML or the binary XML found inside an APK.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(v, cmd); err != nil {
				return err
			}

			// Setup logging
			switch {
			case v.GetBool("trace"):
				logrus.SetLevel(logrus.TraceLevel)
			case v.GetBool("verbose"):
				logrus.SetLevel(logrus.DebugLevel)
			default:
				logrus.SetLevel(logrus.InfoLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("trace", false, "Enable trace logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML configuration file")

	// Add subcommands
	rootCmd.AddCommand(NewExtractCmd(v))
	rootCmd.AddCommand(NewManifestCmd(v))

	return rootCmd
}

// loadConfig binds the command's flags and APKSTATS_* environment variables
// into v, then reads the configuration file if one was given. Command line
// flags take precedence over the environment, then the file.
func loadConfig(v *viper.Viper, cmd *cobra.Command) error {
	v.SetEnvPrefix("APKSTATS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if cfg := v.GetString("config"); cfg != "" {
		v.SetConfigFile(cfg)
		if err := v.ReadInConfig(); err != nil {
			return err
		}
		logrus.Debugf("Loaded configuration from %s", v.ConfigFileUsed())
	}
	return nil
}
