package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bkuznetsov/patent-engine/internal/cascade"
	"github.com/bkuznetsov/patent-engine/internal/retrieve"
	"github.com/bkuznetsov/patent-engine/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [identifiers...]",
	Short: "Fetch full patent documents by identifier",
	Long: `Fetch retrieves the full document for each patent identifier. Transient
platform failures are retried; a document that cannot be fetched at all
degrades to a minimal record built from the identifier, never an error.`,
	RunE: runFetch,
}

func init() {
	addRetrievalFlags(fetchCmd)
	fetchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more patent identifiers")
	}

	client, _ := newRetrieveClient(cmd)

	var outputs []*retrieve.FetchOutput
	for _, id := range args {
		out, err := client.FetchByID(context.Background(), id)
		if err != nil {
			return err
		}
		outputs = append(outputs, out)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(outputs)
	}

	for i, out := range outputs {
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		printPatentDetails(os.Stdout, out.Patent)
		if out.Status == cascade.Degraded {
			fmt.Fprintf(os.Stdout, "Status:    degraded (%s)\n", out.Reason)
		}
	}
	return nil
}

func printPatentDetails(w io.Writer, p types.Patent) {
	fmt.Fprintf(w, "%s  %s\n", p.ID, p.Title)
	if !p.PublicationDate.IsZero() {
		fmt.Fprintf(w, "Published: %s\n", p.PublicationDate.Format("2006-01-02"))
	}
	if !p.ApplicationDate.IsZero() {
		fmt.Fprintf(w, "Filed:     %s\n", p.ApplicationDate.Format("2006-01-02"))
	}
	if len(p.Authors) > 0 {
		fmt.Fprintf(w, "Authors:   %s\n", strings.Join(p.Authors, "; "))
	}
	if len(p.PatentHolders) > 0 {
		fmt.Fprintf(w, "Holders:   %s\n", strings.Join(p.PatentHolders, "; "))
	}
	if len(p.IPCCodes) > 0 {
		fmt.Fprintf(w, "IPC:       %s\n", strings.Join(p.IPCCodes, ", "))
	}
	if p.Abstract != "" {
		fmt.Fprintf(w, "Abstract:  %s\n", p.Abstract)
	}
}
