package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"addrvec/internal/adapter/store"
	"addrvec/internal/usecase"
)

var (
	searchQuery string
	searchTopK  int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find the nearest cached addresses",
	Long: `Embed a query address with the trained encoder and list the closest
cached dataset addresses by cosine similarity. Run 'addrvec embed' first to
populate the cache.

Examples:
  addrvec search -q "101 fake st"
  addrvec search -q "12 oak ave" --top-k 5 --json`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "query address (required)")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "number of results (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	searchCmd.MarkFlagRequired("query")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	st, err := openModelStore(GetRootDir(), false)
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

	cached, err := vectors.Count()
	if err != nil {
		return err
	}
	if cached == 0 {
		return fmt.Errorf("no cached vectors found. Run 'addrvec embed' first")
	}

	topK := cfg.Search.TopK
	if searchTopK > 0 {
		topK = searchTopK
	}

	searchUC := usecase.NewSearchUseCase(encoder, vectors)
	neighbors, err := searchUC.Search(searchQuery, topK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		output, _ := json.MarshalIndent(neighbors, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(neighbors) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	fmt.Printf("Found %d results for: %s\n\n", len(neighbors), searchQuery)
	for i, n := range neighbors {
		fmt.Printf("%2d. %-50s (score: %.3f", i+1, n.Address, n.Score)
		if n.Group != "" {
			fmt.Printf(", group: %s", n.Group)
		}
		fmt.Println(")")
	}

	return nil
}
