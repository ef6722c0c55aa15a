package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"addrvec/config"
	"addrvec/internal/adapter/store"
	"addrvec/internal/usecase"
)

var embedCmd = &cobra.Command{
	Use:   "embed [path]",
	Short: "Cache embeddings for every dataset address",
	Long: `Run every address in the dataset through the trained encoder and cache
the vectors in the model database, so 'addrvec search' can look up nearest
neighbors without re-encoding the dataset.

Examples:
  addrvec embed .
  addrvec embed /path/to/data`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, args []string) error {
	path, err := resolveDataDir(args)
	if err != nil {
		return err
	}

	cfg := GetConfig()

	records, err := loadRecords(cfg, path)
	if err != nil {
		return err
	}

	st, err := openModelStore(path, false)
	if err != nil {
		return err
	}
	defer st.Close()

	encoder, err := loadEncoder(st)
	if err != nil {
		return err
	}

	vectors, err := store.NewBoltVectorStore(st.DB(), encoder.Dimension())
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}

	fmt.Printf("Embedding %d addresses...\n", len(records))
	bar := newProgressBar(len(records), "[cyan]Embedding[reset]")

	embedUC := usecase.NewEmbedUseCase(encoder, vectors, 100)
	written, err := embedUC.Embed(records, func(done, total int) {
		bar.Set(done)
	})
	if err != nil {
		return fmt.Errorf("embedding failed: %w", err)
	}

	fmt.Printf("\nCached %d vectors in %s\n", written, config.ModelDBPath(path))
	return nil
}
