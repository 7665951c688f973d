/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gmaffy/binning-whisperer/binning"
)

var classifyLogsCmd = &cobra.Command{
	Use:   "classifyLogs",
	Short: "Classify existing job logs",
	Long: `Scans the job logs of one assembler for the metawrap success marker and writes
the failed-sample list, without touching the scheduler. Useful for re-checking
a finished batch.`,
	Run: func(cmd *cobra.Command, args []string) {
		logDir, dErr := cmd.Flags().GetString("log_dir")
		if dErr != nil {
			log.Fatalf("Error getting log_dir flag: %v", dErr)
		}
		assembler, aErr := cmd.Flags().GetString("assembler")
		if aErr != nil {
			log.Fatalf("Error getting assembler flag: %v", aErr)
		}
		sampleTag, tErr := cmd.Flags().GetString("sample_tag")
		if tErr != nil {
			log.Fatalf("Error getting sample_tag flag: %v", tErr)
		}
		failedList, fErr := cmd.Flags().GetString("failed_list")
		if fErr != nil {
			log.Fatalf("Error getting failed_list flag: %v", fErr)
		}

		if logDir == "" || assembler == "" || failedList == "" {
			log.Fatalf("Please provide --log_dir, --assembler and --failed_list")
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		failed, err := binning.ClassifyLogs(logger, logDir, assembler, sampleTag)
		if err != nil {
			log.Fatalf("Classification failed: %v", err)
		}
		if err := binning.WriteFailedSampleList(failedList, failed); err != nil {
			log.Fatalf("Writing failed sample list: %v", err)
		}
		fmt.Printf("%d failed samples written to %s\n", len(failed), failedList)
	},
}

func init() {
	rootCmd.AddCommand(classifyLogsCmd)
	classifyLogsCmd.Flags().String("log_dir", "", "directory with per-job logs")
	classifyLogsCmd.Flags().String("assembler", "", "assembler name the logs belong to (megahit or metaspades)")
	classifyLogsCmd.Flags().String("sample_tag", "", "marker preceding the sample token in legacy job logs")
	classifyLogsCmd.Flags().String("failed_list", "", "output path for the failed-sample list")
}
