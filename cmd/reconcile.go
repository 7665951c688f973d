/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/gmaffy/binning-whisperer/binning"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Dry-run the sample matching",
	Long: `Reconciles the read inventory against both assembly manifests and prints the
matched samples and every mismatch, without generating or submitting anything.`,
	Run: func(cmd *cobra.Command, args []string) {
		params, _ := resolveParams(cmd)
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

		for _, spec := range []struct {
			name      string
			dirSuffix string
			manifest  []string
		}{
			{"megahit", binning.MegahitSuffix, inv.Megahit},
			{"metaspades", binning.MetaspadesSuffix, inv.Metaspades},
		} {
			records, rErr := binning.ManifestRecords(spec.manifest, spec.name, spec.dirSuffix)
			if rErr != nil {
				log.Fatalf("Manifest %s failed: %v", spec.name, rErr)
			}
			manifestSamples := lo.Map(records, func(record binning.AssemblyRecord, _ int) string { return record.Sample })

			report := binning.MatchSamples(spec.name, readSamples, manifestSamples)
			report.LogMismatches(logger)

			fmt.Printf("============================ %s ============================\n", spec.name)
			fmt.Printf("Matched (%d): %s\n", len(report.Matched), strings.Join(report.Matched, ", "))
			fmt.Printf("Reads without assembly (%d): %s\n", len(report.ReadsOnly), strings.Join(report.ReadsOnly, ", "))
			fmt.Printf("Assemblies without reads (%d): %s\n\n", len(report.AssemblyOnly), strings.Join(report.AssemblyOnly, ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
	addBatchFlags(reconcileCmd)
}
