package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"addrvec/internal/adapter/dataset"
	"addrvec/internal/adapter/sampler"
)

var datasetSample int

var datasetCmd = &cobra.Command{
	Use:   "dataset [path]",
	Short: "Inspect the address dataset",
	Long: `Load the address data files and print record and group statistics,
optionally with a preview of sampled training triplets.

Examples:
  addrvec dataset .
  addrvec dataset /path/to/data --sample 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDataset,
}

func init() {
	rootCmd.AddCommand(datasetCmd)
	datasetCmd.Flags().IntVar(&datasetSample, "sample", 0, "preview this many sampled triplets")
}

func runDataset(cmd *cobra.Command, args []string) error {
	path, err := resolveDataDir(args)
	if err != nil {
		return err
	}

	cfg := GetConfig()

	loader := newLoader(cfg)
	files, err := loader.Discover(path)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", path, err)
	}

	records, err := loadRecords(cfg, path)
	if err != nil {
		return err
	}

	stats := dataset.Stats(records, len(files))
	fmt.Printf("Dataset under %s:\n", path)
	fmt.Printf("  Files:          %d\n", stats.Files)
	fmt.Printf("  Records:        %d\n", stats.Records)
	fmt.Printf("  Groups:         %d\n", stats.Groups)
	fmt.Printf("  Usable anchors: %d\n", stats.UsableAnchors)

	if stats.Groups == 1 {
		fmt.Println("\nNote: all records share one group; negatives will be drawn from it too.")
	}

	if datasetSample > 0 {
		smp := sampler.New(cfg.Sampler.NegativesPerAnchor, cfg.Sampler.Seed)
		triplets, err := smp.Sample(records)
		if err != nil {
			return fmt.Errorf("triplet sampling failed: %w", err)
		}
		if datasetSample > len(triplets) {
			datasetSample = len(triplets)
		}
		fmt.Printf("\nSampled triplets (%d of %d):\n", datasetSample, len(triplets))
		for _, tr := range triplets[:datasetSample] {
			fmt.Printf("  anchor:   %s\n", tr.Anchor)
			fmt.Printf("  positive: %s\n", tr.Positive)
			fmt.Printf("  negative: %s\n\n", tr.Negative)
		}
	}

	return nil
}
