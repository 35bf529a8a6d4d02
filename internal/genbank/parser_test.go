package genbank

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singleRecord = `LOCUS       chr1                 1000 bp    DNA     linear   BCT 01-JAN-2020
DEFINITION  Test molecule, complete
            genome.
FEATURES             Location/Qualifiers
     source          1..1000
                     /organism="Escherichia coli"
                     /mol_type="genomic DNA"
     gene            1..1000
                     /locus_tag="g1"
     mRNA            1..1000
                     /locus_tag="g1"
     CDS             1..500
                     /locus_tag="g1"
                     /product="hypothetical membrane
                     transport protein"
                     /pseudo
ORIGIN
        1 acgtacgtac
//
`

func TestParser_SingleRecord(t *testing.T) {
	p := NewParserFromReader(strings.NewReader(singleRecord))

	rec, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "chr1", rec.MoleculeID)
	assert.Equal(t, int64(1000), rec.Length)
	assert.Equal(t, "Test molecule, complete genome.", rec.Definition)
	require.Len(t, rec.Features, 4)

	gene := rec.Features[1]
	assert.Equal(t, "gene", gene.Key)
	assert.Equal(t, int64(0), gene.Start)
	assert.Equal(t, int64(1000), gene.End)
	assert.Equal(t, StrandForward, gene.Strand)

	tag, ok := gene.Qualifier("locus_tag")
	require.True(t, ok)
	assert.Equal(t, "g1", tag)

	cds := rec.Features[3]
	product, ok := cds.Qualifier("product")
	require.True(t, ok)
	assert.Equal(t, "hypothetical membrane transport protein", product)

	// Flag qualifier with no value
	_, ok = cds.Qualifier("pseudo")
	assert.True(t, ok)

	// End of input
	rec, err = p.Next()
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestParser_MultiRecord(t *testing.T) {
	input := `LOCUS       plasmid1               200 bp    DNA     circular BCT 01-JAN-2020
FEATURES             Location/Qualifiers
     gene            complement(10..90)
                     /locus_tag="p1"
//
LOCUS       plasmid2               300 bp    DNA     circular BCT 01-JAN-2020
FEATURES             Location/Qualifiers
     gene            5..250
                     /locus_tag="p2"
//
`
	p := NewParserFromReader(strings.NewReader(input))

	rec1, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, rec1)
	assert.Equal(t, "plasmid1", rec1.MoleculeID)
	require.Len(t, rec1.Features, 1)
	assert.Equal(t, StrandReverse, rec1.Features[0].Strand)
	assert.Equal(t, int64(9), rec1.Features[0].Start)
	assert.Equal(t, int64(90), rec1.Features[0].End)

	rec2, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, rec2)
	assert.Equal(t, "plasmid2", rec2.MoleculeID)

	rec3, err := p.Next()
	require.NoError(t, err)
	assert.Nil(t, rec3)
}

func TestParser_MultilineLocation(t *testing.T) {
	input := `LOCUS       chr2                 5000 bp    DNA     linear   BCT 01-JAN-2020
FEATURES             Location/Qualifiers
     CDS             join(100..200,
                     300..400)
                     /locus_tag="x1"
//
`
	p := NewParserFromReader(strings.NewReader(input))

	rec, err := p.Next()
	require.NoError(t, err)
	require.Len(t, rec.Features, 1)
	assert.Equal(t, int64(99), rec.Features[0].Start)
	assert.Equal(t, int64(400), rec.Features[0].End)
	assert.Equal(t, StrandForward, rec.Features[0].Strand)
}

func TestParser_RepeatedQualifier(t *testing.T) {
	input := `LOCUS       chr3                 500 bp    DNA     linear   BCT 01-JAN-2020
FEATURES             Location/Qualifiers
     CDS             1..300
                     /locus_tag="y1"
                     /db_xref="GI:1234"
                     /db_xref="GeneID:5678"
//
`
	p := NewParserFromReader(strings.NewReader(input))

	rec, err := p.Next()
	require.NoError(t, err)
	require.Len(t, rec.Features, 1)
	assert.Equal(t, []string{"GI:1234", "GeneID:5678"}, rec.Features[0].Qualifiers["db_xref"])
}

func TestParser_EmptyInput(t *testing.T) {
	p := NewParserFromReader(strings.NewReader(""))
	rec, err := p.Next()
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		start   int64
		end     int64
		strand  int8
		wantErr bool
	}{
		{name: "simple range", input: "1..1000", start: 0, end: 1000, strand: StrandForward},
		{name: "single base", input: "42", start: 41, end: 42, strand: StrandForward},
		{name: "complement", input: "complement(3..9)", start: 2, end: 9, strand: StrandReverse},
		{name: "join", input: "join(1..50,60..100)", start: 0, end: 100, strand: StrandForward},
		{name: "complement of join", input: "complement(join(10..20,30..40))", start: 9, end: 40, strand: StrandReverse},
		{name: "join of complements", input: "join(complement(10..20),complement(30..40))", start: 9, end: 40, strand: StrandReverse},
		{name: "mixed orientation join", input: "join(complement(5..10),20..30)", start: 4, end: 30, strand: StrandUnknown},
		{name: "partial markers", input: "<1..>99", start: 0, end: 99, strand: StrandForward},
		{name: "order", input: "order(5..10,15..20)", start: 4, end: 20, strand: StrandForward},
		{name: "no coordinates", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, strand, err := parseLocation(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.start, start, "start")
			assert.Equal(t, tt.end, end, "end")
			assert.Equal(t, tt.strand, strand, "strand")
		})
	}
}
