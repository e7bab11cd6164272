// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/bkuznetsov/patent-engine/pkg/types"
)

const exportLimit = 100000

// ExportYAML writes matching archive records to dir/export.yaml (R4.1).
// It supports the same filters as Recall (R4.3).
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) error {
	patents, err := s.exportPatents(ctx, opts)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(patents)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dir, "export.yaml"), data, 0o644)
}

// ExportJSON writes matching archive records to dir/export.json (R4.2).
// It supports the same filters as Recall (R4.3).
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) error {
	patents, err := s.exportPatents(ctx, opts)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(patents, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dir, "export.json"), data, 0o644)
}

func (s *Store) exportPatents(ctx context.Context, opts QueryOptions) ([]types.Patent, error) {
	opts.MaxResults = exportLimit
	patents, err := s.Recall(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	// An empty archive exports as an empty list, not null.
	if patents == nil {
		patents = []types.Patent{}
	}
	return patents, nil
}
