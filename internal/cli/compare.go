package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"addrvec/internal/usecase"
)

var compareJSON bool

var compareCmd = &cobra.Command{
	Use:   "compare ADDRESS_A ADDRESS_B",
	Short: "Compare two addresses with the trained encoder",
	Long: `Embed two raw address strings with the trained encoder and print their
cosine similarity next to the classical edit-distance ratio. No
normalization is applied: case and punctuation differences count.

Examples:
  addrvec compare "101 fake street" "101 fake st"
  addrvec compare "101 fake street" "12 oak avenue" --json`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "output as JSON")
}

func runCompare(cmd *cobra.Command, args []string) error {
	st, err := openModelStore(GetRootDir(), false)
	if err != nil {
		return err
	}
	defer st.Close()

	encoder, err := loadEncoder(st)
	if err != nil {
		return err
	}

	compareUC := usecase.NewCompareUseCase(encoder)
	cmp, err := compareUC.Compare(args[0], args[1])
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	if compareJSON {
		output, _ := json.MarshalIndent(cmp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("A: %s\n", cmp.A)
	fmt.Printf("B: %s\n", cmp.B)
	fmt.Printf("  Embedding cosine:    %.2f\n", cmp.Cosine)
	fmt.Printf("  Edit ratio (0-100):  %d\n", cmp.EditRatio)
	return nil
}
