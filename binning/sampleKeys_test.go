package binning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSampleID(t *testing.T) {
	sample, err := ExtractSampleID("/data/reads/S1_1.fastq", "_1.fastq")
	require.NoError(t, err)
	assert.Equal(t, "S1", sample)

	// Same path must always give the same key.
	again, err := ExtractSampleID("/data/reads/S1_1.fastq", "_1.fastq")
	require.NoError(t, err)
	assert.Equal(t, sample, again)
}

func TestExtractSampleIDFailsLoudly(t *testing.T) {
	var invalidErr *InvalidSampleNameError

	_, err := ExtractSampleID("/data/reads/S1.R1.fq", "_1.fastq")
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, "/data/reads/S1.R1.fq", invalidErr.Path)

	// Suffix consuming the whole basename is not a sample name either.
	_, err = ExtractSampleID("/data/_1.fastq", "_1.fastq")
	require.ErrorAs(t, err, &invalidErr)
}

func TestPairReads(t *testing.T) {
	pairs, err := PairReads(
		[]string{"/r/S1_1.fastq", "/r/S2_1.fastq.gz"},
		[]string{"/r/S1_2.fastq", "/r/S2_2.fastq.gz"},
	)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, ReadPair{Sample: "S1", Forward: "/r/S1_1.fastq", Reverse: "/r/S1_2.fastq"}, pairs[0])
	assert.Equal(t, "S2", pairs[1].Sample)
}

func TestPairReadsMismatch(t *testing.T) {
	_, err := PairReads(
		[]string{"/r/S1_1.fastq", "/r/S3_1.fastq"},
		[]string{"/r/S1_2.fastq", "/r/S2_2.fastq"},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read pairing mismatch")

	_, err = PairReads([]string{"/r/S1_1.fastq"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unbalanced")
}

func TestManifestRecordsUsesParentDirectory(t *testing.T) {
	records, err := ManifestRecords(
		[]string{"/asm/S1_megahit_out/final.contigs.fa", "/asm/S2_megahit_out/final.contigs.fa"},
		"megahit", MegahitSuffix,
	)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, AssemblyRecord{Sample: "S1", Assembler: "megahit", Contigs: "/asm/S1_megahit_out/final.contigs.fa"}, records[0])
	assert.Equal(t, "S2", records[1].Sample)
}

func TestManifestRecordsRejectsForeignNaming(t *testing.T) {
	var invalidErr *InvalidSampleNameError
	_, err := ManifestRecords(
		[]string{"/asm/S1_spades_dir/contigs.fasta"},
		"metaspades", MetaspadesSuffix,
	)
	require.ErrorAs(t, err, &invalidErr)
}
