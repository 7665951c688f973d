package utils

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
)

type Config struct {
	ReadsDir           string
	MegahitManifest    string
	MetaspadesManifest string
	OutputDir          string
	LogDir             string
	SampleTag          string
	Partition          string

	Threads      string
	Memory       string
	MinContigLen string
	WallTime     string
	PollInterval string
}

func ReadConfig(configPath string) (Config, error) {
	configFile, err := os.Open(configPath)
	if err != nil {
		return Config{}, err
	}
	defer configFile.Close()
	var cfg Config

	scanner := bufio.NewScanner(configFile)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "ReadsDir":
			cfg.ReadsDir = value
		case "MegahitManifest":
			cfg.MegahitManifest = value
		case "MetaspadesManifest":
			cfg.MetaspadesManifest = value
		case "OutputDir":
			cfg.OutputDir = value
		case "LogDir":
			cfg.LogDir = value
		case "SampleTag":
			cfg.SampleTag = value
		case "Partition":
			cfg.Partition = value

		case "threads":
			cfg.Threads = value
		case "memory":
			cfg.Memory = value
		case "min_contig_len":
			cfg.MinContigLen = value
		case "wall_time":
			cfg.WallTime = value
		case "poll_interval":
			cfg.PollInterval = value
		}
	}

	if err := scanner.Err(); err != nil {
		return cfg, err
	}

	return cfg, nil

}

// RunCmdOutput runs a command and returns its combined stdout and stderr.
// The schedulers report conditions like an expired job id on stderr with a
// non-zero exit, so callers need both streams to tell those apart from real
// failures. The command is killed when ctx is cancelled.
func RunCmdOutput(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	return out.String(), err
}
