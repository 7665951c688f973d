package binning

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq/linear"
)

// Inventory holds the three raw file listings a run starts from. Forward and
// reverse correspond positionally (both come from the same lexicographic
// directory scan).
type Inventory struct {
	Forward    []string
	Reverse    []string
	Megahit    []string
	Metaspades []string
}

// CollectInventory lists the paired read files in readsDir (non-recursive)
// and reads both assembler manifests verbatim. Missing manifests and empty
// listings are fatal: nothing downstream can run without them.
func CollectInventory(readsDir string, megahitManifest string, metaspadesManifest string) (Inventory, error) {
	var inv Inventory

	entries, err := os.ReadDir(readsDir)
	if err != nil {
		return inv, fmt.Errorf("reads directory %s is not readable: %w", readsDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		trimmed := strings.TrimSuffix(name, GzipSuffix)
		switch {
		case strings.HasSuffix(trimmed, ForwardSuffix):
			inv.Forward = append(inv.Forward, filepath.Join(readsDir, name))
		case strings.HasSuffix(trimmed, ReverseSuffix):
			inv.Reverse = append(inv.Reverse, filepath.Join(readsDir, name))
		}
	}

	// os.ReadDir already sorts by name; keep the sort explicit since pairing
	// depends on it.
	sort.Strings(inv.Forward)
	sort.Strings(inv.Reverse)

	if len(inv.Forward) == 0 {
		return inv, fmt.Errorf("no forward read files (*%s) found in %s", ForwardSuffix, readsDir)
	}
	if len(inv.Reverse) == 0 {
		return inv, fmt.Errorf("no reverse read files (*%s) found in %s", ReverseSuffix, readsDir)
	}

	inv.Megahit, err = readManifest(megahitManifest)
	if err != nil {
		return inv, err
	}
	inv.Metaspades, err = readManifest(metaspadesManifest)
	if err != nil {
		return inv, err
	}

	return inv, nil
}

func readManifest(manifestPath string) ([]string, error) {
	manifestFile, err := os.Open(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("assembly manifest %s is not readable: %w", manifestPath, err)
	}
	defer manifestFile.Close()

	var lines []string
	scanner := bufio.NewScanner(manifestFile)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", manifestPath, err)
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("assembly manifest %s is empty", manifestPath)
	}
	return lines, nil
}

// SpotCheckReads parses the first record of each read file to catch
// truncated or misnamed fastq files before any jobs are generated.
func SpotCheckReads(paths []string) error {
	for _, path := range paths {
		if err := spotCheckFastq(path); err != nil {
			return err
		}
	}
	return nil
}

func spotCheckFastq(path string) error {
	fq, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open read file %s: %w", path, err)
	}
	defer fq.Close()

	var reader io.Reader = fq
	if strings.HasSuffix(path, GzipSuffix) {
		gzReader, err := gzip.NewReader(fq)
		if err != nil {
			return fmt.Errorf("cannot read gzip stream of %s: %w", path, err)
		}
		defer gzReader.Close()
		reader = gzReader
	}

	r := fastq.NewReader(reader, linear.NewQSeq("", nil, alphabet.DNA, alphabet.Sanger))
	sc := seqio.NewScanner(r)
	if !sc.Next() {
		if err := sc.Error(); err != nil {
			return fmt.Errorf("read file %s is not valid fastq: %w", path, err)
		}
		return fmt.Errorf("read file %s contains no records", path)
	}
	return nil
}
