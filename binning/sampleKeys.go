package binning

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Read pair and assembler naming conventions. Sample identity is derived
// entirely from these suffixes, so they are kept in one place.
const (
	ForwardSuffix    = "_1.fastq"
	ReverseSuffix    = "_2.fastq"
	GzipSuffix       = ".gz"
	MegahitSuffix    = "_megahit_out"
	MetaspadesSuffix = "_metaspades_out"
)

// ReadPair is one sample's forward/reverse read files.
type ReadPair struct {
	Sample  string
	Forward string
	Reverse string
}

// AssemblyRecord is one manifest line resolved to its sample.
type AssemblyRecord struct {
	Sample    string
	Assembler string
	Contigs   string
}

// InvalidSampleNameError reports a path that does not follow the expected
// naming convention. Extraction fails loudly instead of producing a
// malformed sample key.
type InvalidSampleNameError struct {
	Path   string
	Suffix string
}

func (e *InvalidSampleNameError) Error() string {
	return fmt.Sprintf("cannot extract sample id from %q: expected suffix %q", e.Path, e.Suffix)
}

// ExtractSampleID strips suffix from the basename of path. The suffix must
// be present and must not consume the whole name.
func ExtractSampleID(path string, suffix string) (string, error) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, suffix) {
		return "", &InvalidSampleNameError{Path: path, Suffix: suffix}
	}
	sample := strings.TrimSuffix(base, suffix)
	if sample == "" {
		return "", &InvalidSampleNameError{Path: path, Suffix: suffix}
	}
	return sample, nil
}

// readSampleID handles both plain and gzipped read files.
func readSampleID(path string, pairSuffix string) (string, error) {
	trimmed := strings.TrimSuffix(path, GzipSuffix)
	return ExtractSampleID(trimmed, pairSuffix)
}

// PairReads zips the positionally corresponding forward and reverse listings
// into ReadPairs. The two listings come from the same lexicographic directory
// scan, so entry i of each belongs to the same sample; this is verified and
// any disagreement is an error.
func PairReads(forward []string, reverse []string) ([]ReadPair, error) {
	if len(forward) != len(reverse) {
		return nil, fmt.Errorf("unbalanced read listings: %d forward vs %d reverse files", len(forward), len(reverse))
	}

	pairs := make([]ReadPair, 0, len(forward))
	for i := range forward {
		fwdSample, err := readSampleID(forward[i], ForwardSuffix)
		if err != nil {
			return nil, err
		}
		revSample, err := readSampleID(reverse[i], ReverseSuffix)
		if err != nil {
			return nil, err
		}
		if fwdSample != revSample {
			return nil, fmt.Errorf("read pairing mismatch at position %d: %q pairs with %q", i, forward[i], reverse[i])
		}
		pairs = append(pairs, ReadPair{Sample: fwdSample, Forward: forward[i], Reverse: reverse[i]})
	}
	return pairs, nil
}

// ManifestRecords resolves manifest lines to AssemblyRecords. Manifests list
// nested contig files, e.g. /data/S1_megahit_out/final.contigs.fa, so the
// sample is taken from the parent directory's basename, not the contig file.
func ManifestRecords(lines []string, assembler string, dirSuffix string) ([]AssemblyRecord, error) {
	records := make([]AssemblyRecord, 0, len(lines))
	for _, line := range lines {
		sample, err := ExtractSampleID(filepath.Dir(line), dirSuffix)
		if err != nil {
			return nil, err
		}
		records = append(records, AssemblyRecord{Sample: sample, Assembler: assembler, Contigs: line})
	}
	return records, nil
}
