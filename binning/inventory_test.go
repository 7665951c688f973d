package binning

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func fixtureInventory(t *testing.T) (string, string, string) {
	t.Helper()
	dir := t.TempDir()
	readsDir := filepath.Join(dir, "reads")
	require.NoError(t, os.MkdirAll(readsDir, 0755))

	for _, name := range []string{"S2_1.fastq", "S1_1.fastq", "S1_2.fastq", "S2_2.fastq", "notes.txt"} {
		writeFile(t, filepath.Join(readsDir, name), "")
	}
	// Subdirectories are never read files.
	require.NoError(t, os.MkdirAll(filepath.Join(readsDir, "S3_1.fastq"), 0755))

	megahit := filepath.Join(dir, "megahit_assemblies.txt")
	writeFile(t, megahit, "/asm/S1_megahit_out/final.contigs.fa\n\n/asm/S2_megahit_out/final.contigs.fa\n")
	metaspades := filepath.Join(dir, "metaspades_assemblies.txt")
	writeFile(t, metaspades, "/asm/S1_metaspades_out/contigs.fasta\n")

	return readsDir, megahit, metaspades
}

func TestCollectInventory(t *testing.T) {
	readsDir, megahit, metaspades := fixtureInventory(t)

	inv, err := CollectInventory(readsDir, megahit, metaspades)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(readsDir, "S1_1.fastq"),
		filepath.Join(readsDir, "S2_1.fastq"),
	}, inv.Forward)
	assert.Equal(t, []string{
		filepath.Join(readsDir, "S1_2.fastq"),
		filepath.Join(readsDir, "S2_2.fastq"),
	}, inv.Reverse)
	assert.Equal(t, []string{"/asm/S1_megahit_out/final.contigs.fa", "/asm/S2_megahit_out/final.contigs.fa"}, inv.Megahit)
	assert.Equal(t, []string{"/asm/S1_metaspades_out/contigs.fasta"}, inv.Metaspades)
}

func TestCollectInventoryMissingManifest(t *testing.T) {
	readsDir, megahit, _ := fixtureInventory(t)

	_, err := CollectInventory(readsDir, megahit, filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not readable")
}

func TestCollectInventoryEmptyManifest(t *testing.T) {
	readsDir, megahit, _ := fixtureInventory(t)
	empty := filepath.Join(t.TempDir(), "empty.txt")
	writeFile(t, empty, "\n\n")

	_, err := CollectInventory(readsDir, megahit, empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is empty")
}

func TestCollectInventoryNoReads(t *testing.T) {
	_, megahit, metaspades := fixtureInventory(t)
	emptyReads := t.TempDir()

	_, err := CollectInventory(emptyReads, megahit, metaspades)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no forward read files")
}

func TestSpotCheckReads(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "S1_1.fastq")
	writeFile(t, good, "@read1\nACGT\n+\nIIII\n")
	empty := filepath.Join(dir, "S2_1.fastq")
	writeFile(t, empty, "")

	require.NoError(t, SpotCheckReads([]string{good}))

	err := SpotCheckReads([]string{good, empty})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no records")
}
