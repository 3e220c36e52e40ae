package cli

import (
	"fmt"

	"github.com/ralt/apkstats/internal/manifest"
	"github.com/ralt/apkstats/internal/models"
	"github.com/ralt/apkstats/internal/output"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewManifestCmd creates the manifest command
func NewManifestCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest DIR",
		Short: "Print the manifest record of one decompiled package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(v.GetString("format"))
			if err != nil {
				return &models.StatsError{Type: models.ErrInvalidConfig, Err: err}
			}

			apk := models.NewApkFile("", args[0])
			data := models.NewApkData(apk)

			extractor, err := manifest.New(apk, data, manifest.WithFs(afero.NewOsFs()), manifest.WithLogger(logrus.StandardLogger()))
			if err != nil {
				return err
			}
			if _, err := extractor.Extract(); err != nil {
				data.Error = err.Error()
				if v.GetBool("strict") {
					return fmt.Errorf("extraction failed: %w", err)
				}
			}

			return output.Encode(cmd.OutOrStdout(), format, []*models.ApkData{data})
		},
	}

	cmd.Flags().StringP("format", "f", "json", "Record format (json, yaml)")
	cmd.Flags().Bool("strict", false, "Exit with an error when the manifest cannot be read")

	return cmd
}
