/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "binning-whisperer",
	Short: "Batch metaWRAP binning on an HPC cluster",
	Long: `Batches metaWRAP binning jobs for metagenome assemblies on a SLURM cluster:
1.	Discovers paired read files and megahit/metaspades assembly manifests
2.	Reconciles the three inventories by sample
3.	Writes one job-list file per assembler and submits each as one sbatch array
4.	Waits for the arrays to drain
5.	Classifies every job log and writes per-assembler failed-sample lists
`,
	// Uncomment the following line if your bare application
	// has an action associated with it:
	// Run: func(cmd *cobra.Command, args []string) { },
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cfgFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config file ")
}
