package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// Search builds the CLI and runs a patent search. The query comes from the
// QUERY environment variable.
// See prd001-retrieval for full requirements.
func Search() error {
	mg.Deps(Build)
	query := os.Getenv("QUERY")
	if query == "" {
		return fmt.Errorf("set QUERY to the search text")
	}
	return runCLI("search", query)
}

// Fetch builds the CLI and retrieves one patent document. The identifier
// comes from the ID environment variable.
// See prd001-retrieval for full requirements.
func Fetch() error {
	mg.Deps(Build)
	id := os.Getenv("ID")
	if id == "" {
		return fmt.Errorf("set ID to the patent identifier")
	}
	return runCLI("fetch", id)
}

func runCLI(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
