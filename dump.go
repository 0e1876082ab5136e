package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mcc-sewer-dashboard/models"
	"mcc-sewer-dashboard/preprocessing"
	"mcc-sewer-dashboard/services"
)

type datasetDump struct {
	Dataset *models.Dataset     `json:"dataset"`
	Status  services.StatusView `json:"status"`
	Summary map[string]int      `json:"summary"`
}

func dumpCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the loaded dataset as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds := preprocessing.LoadDataset(a.cfg.DatasetOptions(), a.logger)
			s := services.NewSession(ds, models.GlobalFilter{})

			dump := datasetDump{
				Dataset: ds,
				Status:  services.BuildStatus(s),
				Summary: map[string]int{
					"manholes":     len(ds.Manholes),
					"pipes":        len(ds.Pipes),
					"source_pipes": len(ds.SourcePipes),
					"critical":     services.BuildSummary(s).CriticalCount,
				},
			}

			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("ensure output dir: %w", err)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create output file %s: %w", out, err)
			}
			defer f.Close()

			enc := json.NewEncoder(f)
			enc.SetIndent("", "  ")
			if err := enc.Encode(&dump); err != nil {
				return fmt.Errorf("write JSON: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Dataset written to %s\n", out)
			fmt.Fprintf(cmd.OutOrStdout(), "Summary: manholes=%d pipes=%d sources=%s/%s\n",
				len(ds.Manholes), len(ds.Pipes), ds.ManholeSource, ds.PipeSource)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "data/cache/dataset.json", "Path to write the JSON dump")
	return cmd
}
