package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"addrvec/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "addrvec",
	Short: "Address embedding trainer - learn and compare address similarity",
	Long: `addrvec trains a character-level recurrent encoder on address strings
with a triplet cosine margin loss, so that differently spelled variants of
the same location land close together in embedding space. Trained models
are compared side by side with a classical edit-distance ratio.

Example usage:
  addrvec dataset .                            # Inspect the address data
  addrvec train .                              # Train and save the encoder
  addrvec compare "101 fake street" "101 fake st"
  addrvec embed .                              # Cache dataset embeddings
  addrvec search -q "101 fake st"              # Nearest cached addresses`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./addrvec.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "data directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
