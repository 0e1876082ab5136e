package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mcc-sewer-dashboard/export"
	"mcc-sewer-dashboard/metrics"
	"mcc-sewer-dashboard/models"
	"mcc-sewer-dashboard/services"
)

func exportCmd(a *app) *cobra.Command {
	var filter models.GlobalFilter
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every CSV export to the export directory and S3",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir != "" {
				a.cfg.Export.Dir = dir
			}
			ctx := cmd.Context()
			log := a.logger

			sinks := []export.Sink{export.DirSink{Dir: a.cfg.Export.Dir}}
			if a.cfg.Export.S3Bucket != "" {
				s3Sink, err := export.NewS3Sink(ctx, a.cfg.Export.S3Bucket, a.cfg.Export.S3Prefix, a.cfg.Export.S3Region)
				if err != nil {
					return err
				}
				sinks = append(sinks, s3Sink)
			}

			reg := metrics.NewRegistry()
			svc := services.NewDashboardService(services.NewDatasetCache(a.cfg.DatasetOptions(), reg, log), log)
			s, err := svc.Session(ctx, filter)
			if err != nil {
				return err
			}

			e := &export.Exporter{Sinks: sinks, Metrics: reg, Log: log}
			names, err := e.ExportAll(ctx, s, export.Filters{})
			if err != nil {
				return err
			}
			for _, w := range s.Dataset().Warnings {
				log.Warn("dataset warning", zap.String("warning", w))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d files: %v\n", len(names), names)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Zone, "zone", "", "Restrict exports to one zone")
	cmd.Flags().StringVar(&filter.Ward, "ward", "", "Restrict exports to one ward")
	cmd.Flags().StringVar(&dir, "dir", "", "Export directory, overrides export.dir")
	return cmd
}
