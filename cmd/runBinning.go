/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gmaffy/binning-whisperer/binning"
	"github.com/gmaffy/binning-whisperer/scheduler"
	"github.com/gmaffy/binning-whisperer/utils"
)

var runBinningCmd = &cobra.Command{
	Use:   "runBinning",
	Short: "Run the full binning batch",
	Long: `Reconciles reads with both assembly manifests, writes one job-list file per
assembler, submits each as an sbatch array, waits for completion and writes
per-assembler failed-sample lists. Interrupting the command stops the waiting,
not the submitted jobs.`,
	Run: func(cmd *cobra.Command, args []string) {
		params, pollInterval := resolveParams(cmd)
		requireOutputDir(&params)

		spotCheck, sErr := cmd.Flags().GetBool("spot_check")
		if sErr != nil {
			log.Fatalf("Error getting spot_check flag: %v", sErr)
		}
		params.SpotCheck = spotCheck

		if err := os.MkdirAll(params.OutputDir, 0755); err != nil {
			log.Fatalf("Error creating output directory %s: %v", params.OutputDir, err)
		}

		params.RunLogPath = filepath.Join(params.OutputDir, "binning_run.log")
		logger, logFile, lErr := utils.NewRunLogger(params.RunLogPath)
		if lErr != nil {
			log.Fatalf("Failed to open run log %s: %v", params.RunLogPath, lErr)
		}
		defer logFile.Close()

		fmt.Printf("Run log: %s\n\n----------------------------------------------------------\n\n", params.RunLogPath)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		slurm := scheduler.NewSlurm()
		waiter := &scheduler.PollWaiter{Poller: slurm, Interval: pollInterval, Logger: logger}

		if err := binning.RunBinning(ctx, logger, params, slurm, waiter); err != nil {
			log.Fatalf("Binning run failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runBinningCmd)
	addBatchFlags(runBinningCmd)
	runBinningCmd.Flags().Bool("spot_check", false, "parse the first record of every read file before generating jobs")
}
