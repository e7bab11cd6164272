// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bkuznetsov/patent-engine/internal/archive"
	"github.com/bkuznetsov/patent-engine/pkg/types"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage the local patent archive (save, find, export)",
	Long: `Archive manages a local SQLite store of retrieved patents with a
full-text index over titles, abstracts, claims, and descriptions. Use
subcommands to save documents, query them back, or export.`,
}

// --- save subcommand ---

var archiveSaveCmd = &cobra.Command{
	Use:   "save [identifiers...]",
	Short: "Fetch patents and store them in the archive",
	Long: `Save fetches the full document for each identifier and upserts it into
the archive. Documents that degrade to reconstructed records are stored
as obtained, synthetic marker included.`,
	RunE: runArchiveSave,
}

func runArchiveSave(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more patent identifiers")
	}

	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	client, _ := newRetrieveClient(cmd)

	var patents []types.Patent
	for _, id := range args {
		out, err := client.FetchByID(context.Background(), id)
		if err != nil {
			return err
		}
		patents = append(patents, out.Patent)
	}

	summary, err := store.Save(context.Background(), patents)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Archived %d patent(s): %d inserted, %d updated, %d skipped\n",
		summary.Total(), summary.Inserted, summary.Updated, summary.Skipped)
	return nil
}

// --- find subcommand ---

var archiveFindCmd = &cobra.Command{
	Use:   "find [query]",
	Short: "Query the archive with full-text search and filters",
	Long: `Find searches the archive using FTS5 full-text search over title,
abstract, claims, and description, structured filters, or a combination
of both.`,
	RunE: runArchiveFind,
}

func runArchiveFind(cmd *cobra.Command, args []string) error {
	opts := archiveQueryOpts(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --ipc, or --author")
	}

	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	patents, err := store.Recall(context.Background(), opts)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(patents)
	}

	printPatentTable(os.Stdout, patents)
	return nil
}

// --- export subcommand ---

var archiveExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the archive to YAML or JSON",
	Long: `Export writes the archive (or a filtered subset) to export.yaml or
export.json inside the archive directory. Supports the same filter flags
as find for partial exports.`,
	RunE: runArchiveExport,
}

func runArchiveExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := archiveQueryOpts(cmd, args)
	dir := archiveDir(cmd)

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to", filepath.Join(dir, "export.yaml"))
	case "json":
		if err := store.ExportJSON(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to", filepath.Join(dir, "export.json"))
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- shared helpers ---

func archiveDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("archive-dir")
	if dir == "" {
		dir = viper.GetString("archive_dir")
	}
	if dir == "" {
		dir = "archive"
	}
	return dir
}

func openArchive(cmd *cobra.Command) (*archive.Store, error) {
	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults == 0 {
		maxResults = viper.GetInt("max_results")
	}

	return archive.NewStore(types.ArchiveConfig{
		Dir:        archiveDir(cmd),
		MaxResults: maxResults,
	})
}

func archiveQueryOpts(cmd *cobra.Command, args []string) archive.QueryOptions {
	query, _ := cmd.Flags().GetString("query")
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}

	ipc, _ := cmd.Flags().GetString("ipc")
	author, _ := cmd.Flags().GetString("author")
	limit, _ := cmd.Flags().GetInt("limit")

	return archive.QueryOptions{
		Query:      query,
		IPC:        ipc,
		Author:     author,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	archiveCmd.PersistentFlags().String("archive-dir", "", `archive directory (default "archive")`)
	archiveCmd.PersistentFlags().Int("max-results", 0, "maximum number of query results (default 20)")

	// Save drives the retrieval stack.
	addRetrievalFlags(archiveSaveCmd)

	// Find flags.
	archiveFindCmd.Flags().String("query", "", "full-text search query")
	archiveFindCmd.Flags().String("ipc", "", "filter by IPC classification code")
	archiveFindCmd.Flags().String("author", "", "filter by inventor name")
	archiveFindCmd.Flags().Int("limit", 0, "maximum number of results")
	archiveFindCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	archiveExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	archiveExportCmd.Flags().String("query", "", "full-text search query")
	archiveExportCmd.Flags().String("ipc", "", "filter by IPC classification code")
	archiveExportCmd.Flags().String("author", "", "filter by inventor name")
	archiveExportCmd.Flags().Int("limit", 0, "maximum number of results")

	archiveCmd.AddCommand(archiveSaveCmd, archiveFindCmd, archiveExportCmd)
	rootCmd.AddCommand(archiveCmd)
}
