/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/gmaffy/binning-whisperer/binning"
)

var binningReportCmd = &cobra.Command{
	Use:   "binningReport",
	Short: "Regenerate the run report from existing artifacts",
	Long: `Re-runs reconciliation and log classification against a finished batch and
rewrites binning_summary.csv and binning_report.html, without submitting
anything.`,
	Run: func(cmd *cobra.Command, args []string) {
		params, _ := resolveParams(cmd)
		requireOutputDir(&params)
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		inv, err := binning.CollectInventory(params.ReadsDir, params.MegahitManifest, params.MetaspadesManifest)
		if err != nil {
			log.Fatalf("Inventory failed: %v", err)
		}
		pairs, err := binning.PairReads(inv.Forward, inv.Reverse)
		if err != nil {
			log.Fatalf("Read pairing failed: %v", err)
		}
		readSamples := lo.Map(pairs, func(pair binning.ReadPair, _ int) string { return pair.Sample })

		specs := []struct {
			name      string
			dirSuffix string
			manifest  []string
		}{
			{"megahit", binning.MegahitSuffix, inv.Megahit},
			{"metaspades", binning.MetaspadesSuffix, inv.Metaspades},
		}

		var summaries []binning.AssemblerSummary
		for _, spec := range specs {
			records, rErr := binning.ManifestRecords(spec.manifest, spec.name, spec.dirSuffix)
			if rErr != nil {
				log.Fatalf("Manifest %s failed: %v", spec.name, rErr)
			}
			manifestSamples := lo.Map(records, func(record binning.AssemblyRecord, _ int) string { return record.Sample })
			report := binning.MatchSamples(spec.name, readSamples, manifestSamples)

			binningDir := filepath.Join(params.OutputDir, spec.name+"_binning")
			jobs := binning.BuildJobs(logger, report.Matched, pairs, records, binningDir, params.LogDir)

			failed, cErr := binning.ClassifyLogs(logger, params.LogDir, spec.name, params.SampleTag)
			if cErr != nil {
				log.Fatalf("Classification for %s failed: %v", spec.name, cErr)
			}

			summary := binning.AssemblerSummary{
				Assembler:    spec.name,
				ReadSamples:  len(readSamples),
				Matched:      len(report.Matched),
				ReadsOnly:    len(report.ReadsOnly),
				AssemblyOnly: len(report.AssemblyOnly),
				Submitted:    countJobListLines(filepath.Join(params.OutputDir, spec.name+"_binning_jobs.txt")),
				Failed:       len(failed),
			}
			summary.MeanContigMB, summary.MedContigMB = binning.ContigSizeStats(jobs)
			summaries = append(summaries, summary)
		}

		if err := binning.WriteRunReport(params.OutputDir, summaries); err != nil {
			log.Fatalf("Writing report: %v", err)
		}
		fmt.Printf("Report written to %s\n", filepath.Join(params.OutputDir, "binning_report.html"))
	},
}

// countJobListLines reports how many jobs a previous run submitted; zero when
// the job list does not exist.
func countJobListLines(jobListPath string) int {
	body, err := os.ReadFile(jobListPath)
	if err != nil {
		return 0
	}
	count := 0
	for _, line := range strings.Split(string(body), "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

func init() {
	rootCmd.AddCommand(binningReportCmd)
	addBatchFlags(binningReportCmd)
}
