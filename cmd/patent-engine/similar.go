package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var similarCmd = &cobra.Command{
	Use:   "similar [text...]",
	Short: "Find patents whose text resembles a fragment",
	Long: `Similar runs a text similarity search against the patent platform and
fetches the full document for every suggestion. Suggestions whose document
fetch fails are skipped: similarity results are leads, and padding them
with reconstructed or synthetic records would mislead.

The matcher answers poorly below roughly 50 words of input; shorter
fragments produce a warning. Use --file to read the fragment from a file.`,
	RunE: runSimilar,
}

func init() {
	addRetrievalFlags(similarCmd)
	similarCmd.Flags().Int("limit", 10, "maximum number of results")
	similarCmd.Flags().String("file", "", "read the text fragment from a file")
	similarCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(similarCmd)
}

func runSimilar(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading text file: %w", err)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("provide the text fragment as arguments or via --file")
	}

	limit, _ := cmd.Flags().GetInt("limit")
	client, _ := newRetrieveClient(cmd)

	out, err := client.SearchSimilar(context.Background(), text, limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	printPatentTable(os.Stdout, out.Patents)
	if out.Skipped > 0 {
		fmt.Fprintf(os.Stdout, "%d suggestion(s) skipped after fetch failures\n", out.Skipped)
	}
	return nil
}
