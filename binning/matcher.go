package binning

import (
	"log/slog"

	"github.com/samber/lo"
)

// MatchReport is the outcome of reconciling the read inventory against one
// assembler's manifest. Matched preserves the read-sample order, so output
// is deterministic for identical inputs.
type MatchReport struct {
	Assembler    string
	Matched      []string
	ReadsOnly    []string
	AssemblyOnly []string
	Duplicates   []string
}

// MatchSamples intersects the read samples with one assembler's manifest
// samples. Samples present on only one side are reported, never fatal: a
// sample whose assembly failed upstream should not block the rest of the
// batch.
func MatchSamples(assembler string, readSamples []string, assemblySamples []string) MatchReport {
	assemblySet := make(map[string]struct{}, len(assemblySamples))
	for _, sample := range assemblySamples {
		assemblySet[sample] = struct{}{}
	}
	readSet := make(map[string]struct{}, len(readSamples))
	for _, sample := range readSamples {
		readSet[sample] = struct{}{}
	}

	matched := lo.Filter(readSamples, func(sample string, _ int) bool {
		_, ok := assemblySet[sample]
		return ok
	})
	readsOnly := lo.Filter(readSamples, func(sample string, _ int) bool {
		_, ok := assemblySet[sample]
		return !ok
	})
	assemblyOnly := lo.Filter(lo.Uniq(assemblySamples), func(sample string, _ int) bool {
		_, ok := readSet[sample]
		return !ok
	})

	return MatchReport{
		Assembler:    assembler,
		Matched:      matched,
		ReadsOnly:    readsOnly,
		AssemblyOnly: assemblyOnly,
		Duplicates:   lo.FindDuplicates(assemblySamples),
	}
}

// LogMismatches reports the asymmetric differences as warnings in the run
// log. None of these abort the run.
func (r MatchReport) LogMismatches(logger *slog.Logger) {
	for _, sample := range r.ReadsOnly {
		logger.Warn("SAMPLE MISMATCH", "ASSEMBLER", r.Assembler, "SAMPLE", sample, "REASON", "reads present but no assembly in manifest")
	}
	for _, sample := range r.AssemblyOnly {
		logger.Warn("SAMPLE MISMATCH", "ASSEMBLER", r.Assembler, "SAMPLE", sample, "REASON", "assembly in manifest but no read pair")
	}
	for _, sample := range r.Duplicates {
		logger.Warn("DUPLICATE MANIFEST SAMPLE", "ASSEMBLER", r.Assembler, "SAMPLE", sample, "POLICY", "first match wins")
	}
}
