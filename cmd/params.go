/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/gmaffy/binning-whisperer/binning"
	"github.com/gmaffy/binning-whisperer/utils"
)

// resolveParams merges the config file (when given with -c) with command
// flags; a flag the user set on the command line wins over the config value.
func resolveParams(cmd *cobra.Command) (binning.Params, time.Duration) {
	var cfg utils.Config
	if cfgFile != "" {
		var cErr error
		cfg, cErr = utils.ReadConfig(cfgFile)
		if cErr != nil {
			log.Fatalf("Error reading config file %s: %v", cfgFile, cErr)
		}
	}

	params := binning.Params{
		ReadsDir:           cfg.ReadsDir,
		MegahitManifest:    cfg.MegahitManifest,
		MetaspadesManifest: cfg.MetaspadesManifest,
		OutputDir:          cfg.OutputDir,
		LogDir:             cfg.LogDir,
		SampleTag:          cfg.SampleTag,
		Partition:          cfg.Partition,
		WallTime:           cfg.WallTime,
		Jobs:               binning.DefaultJobParams,
	}

	if cfg.Threads != "" {
		params.Jobs.Threads = atoiOrDie("threads", cfg.Threads)
	}
	if cfg.Memory != "" {
		params.Jobs.Memory = atoiOrDie("memory", cfg.Memory)
	}
	if cfg.MinContigLen != "" {
		params.Jobs.MinContigLen = atoiOrDie("min_contig_len", cfg.MinContigLen)
	}

	pollInterval := 60 * time.Second
	if cfg.PollInterval != "" {
		var pErr error
		pollInterval, pErr = time.ParseDuration(cfg.PollInterval)
		if pErr != nil {
			log.Fatalf("Bad poll_interval %q in config (want e.g. 60s): %v", cfg.PollInterval, pErr)
		}
	}

	overrideString(cmd, "reads", &params.ReadsDir)
	overrideString(cmd, "megahit_manifest", &params.MegahitManifest)
	overrideString(cmd, "metaspades_manifest", &params.MetaspadesManifest)
	overrideString(cmd, "output_dir", &params.OutputDir)
	overrideString(cmd, "log_dir", &params.LogDir)
	overrideString(cmd, "sample_tag", &params.SampleTag)
	overrideString(cmd, "partition", &params.Partition)
	overrideString(cmd, "wall_time", &params.WallTime)
	overrideInt(cmd, "threads", &params.Jobs.Threads)
	overrideInt(cmd, "memory", &params.Jobs.Memory)
	overrideInt(cmd, "min_contig_len", &params.Jobs.MinContigLen)

	if cmd.Flags().Changed("poll_interval") {
		d, dErr := cmd.Flags().GetDuration("poll_interval")
		if dErr != nil {
			log.Fatalf("Error getting poll_interval flag: %v", dErr)
		}
		pollInterval = d
	}

	if params.ReadsDir == "" {
		log.Fatalf("Please provide a reads directory via config (ReadsDir) or --reads")
	}
	if params.MegahitManifest == "" || params.MetaspadesManifest == "" {
		log.Fatalf("Please provide both assembly manifests via config or --megahit_manifest/--metaspades_manifest")
	}
	if params.WallTime == "" {
		params.WallTime = "48:00:00"
	}

	return params, pollInterval
}

// requireOutputDir is for the subcommands that write artifacts; reconcile
// runs without one.
func requireOutputDir(params *binning.Params) {
	if params.OutputDir == "" {
		log.Fatalf("Please provide an output directory via config (OutputDir) or --output_dir")
	}
	if params.LogDir == "" {
		params.LogDir = filepath.Join(params.OutputDir, "logs")
	}
}

func overrideString(cmd *cobra.Command, name string, target *string) {
	if !cmd.Flags().Changed(name) {
		return
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		log.Fatalf("Error getting %s flag: %v", name, err)
	}
	*target = value
}

func overrideInt(cmd *cobra.Command, name string, target *int) {
	if !cmd.Flags().Changed(name) {
		return
	}
	value, err := cmd.Flags().GetInt(name)
	if err != nil {
		log.Fatalf("Error getting %s flag: %v", name, err)
	}
	*target = value
}

func atoiOrDie(key string, value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("Bad %s value %q in config: %v", key, value, err)
	}
	return n
}

func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("reads", "i", "", "directory with <sample>_1.fastq / <sample>_2.fastq read files")
	cmd.Flags().String("megahit_manifest", "", "manifest listing megahit contig files, one per line")
	cmd.Flags().String("metaspades_manifest", "", "manifest listing metaspades contig files, one per line")
	cmd.Flags().StringP("output_dir", "o", "", "output directory for job lists, binning results and reports")
	cmd.Flags().String("log_dir", "", "directory for per-job logs (default <output_dir>/logs)")
	cmd.Flags().String("sample_tag", "", "marker preceding the sample token in legacy job logs")
	cmd.Flags().String("partition", "", "scheduler partition")
	cmd.Flags().String("wall_time", "", "wall-clock limit per job (default 48:00:00)")
	cmd.Flags().IntP("threads", "t", binning.DefaultJobParams.Threads, "threads per binning job")
	cmd.Flags().IntP("memory", "m", binning.DefaultJobParams.Memory, "memory per binning job (GB)")
	cmd.Flags().IntP("min_contig_len", "l", binning.DefaultJobParams.MinContigLen, "minimum contig length to bin")
	cmd.Flags().Duration("poll_interval", 60*time.Second, "scheduler poll interval")
}
