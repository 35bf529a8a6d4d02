package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testGBK = `LOCUS       contig7              1500 bp    DNA     linear   BCT 01-JAN-2020
FEATURES             Location/Qualifiers
     gene            101..900
                     /locus_tag="ECX_0001"
     mRNA            101..900
                     /locus_tag="ECX_0001"
     CDS             101..900
                     /locus_tag="ECX_0001"
                     /product="DNA polymerase III subunit"
//
`

func TestRunConvert_WritesGFF3(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.gbk")
	outPath := filepath.Join(dir, "out.gff3")
	require.NoError(t, os.WriteFile(inPath, []byte(testGBK), 0o644))

	require.NoError(t, runConvert(inPath, outPath, "GenBank", zap.NewNop()))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "##gff-version 3", lines[0])
	assert.Equal(t, "contig7\tGenBank\tgene\t101\t900\t.\t+\t.\tID=ECX_0001", lines[1])
	assert.Equal(t, "contig7\tGenBank\tmRNA\t101\t900\t.\t+\t.\tID=ECX_0001.mRNA.1;Parent=ECX_0001", lines[2])
	assert.Equal(t, "contig7\tGenBank\tCDS\t101\t900\t.\t+\t0\tID=ECX_0001.mRNA.1.CDS.1;Parent=ECX_0001.mRNA.1", lines[3])
	assert.Equal(t, "contig7\tGenBank\texon\t101\t900\t.\t+\t.\tID=ECX_0001.mRNA.1.exon.1;Parent=ECX_0001.mRNA.1", lines[4])
}

func TestRunConvert_CustomSource(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.gbk")
	outPath := filepath.Join(dir, "out.gff3")
	require.NoError(t, os.WriteFile(inPath, []byte(testGBK), 0o644))

	require.NoError(t, runConvert(inPath, outPath, "RefSeq", zap.NewNop()))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "contig7\tRefSeq\tgene\t")
}

func TestRunConvert_MissingInput(t *testing.T) {
	dir := t.TempDir()
	err := runConvert(filepath.Join(dir, "nope.gbk"), filepath.Join(dir, "out.gff3"), "GenBank", zap.NewNop())
	require.Error(t, err)
}
