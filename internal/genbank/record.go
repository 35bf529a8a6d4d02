// Package genbank provides GenBank flat-file parsing functionality.
package genbank

// Strand values for a feature location.
const (
	StrandForward int8 = 1
	StrandReverse int8 = -1
	StrandUnknown int8 = 0
)

// Record represents one entry of a GenBank flat file: a molecule
// (chromosome, contig or plasmid) and the features annotated on it.
type Record struct {
	MoleculeID string    // LOCUS name
	Definition string    // DEFINITION line, continuation lines joined
	Length     int64     // sequence length from the LOCUS line, 0 if absent
	Features   []Feature // features in file order
}

// Feature is a single entry of the FEATURES table.
// Coordinates are 0-based half-open [Start, End), converted from the
// 1-based inclusive spans used in the flat file.
type Feature struct {
	Key        string              // feature key, e.g. "gene", "mRNA", "CDS"
	Start      int64               // 0-based start
	End        int64               // exclusive end
	Strand     int8                // StrandForward, StrandReverse or StrandUnknown
	Qualifiers map[string][]string // qualifier key -> values in file order
}

// Qualifier returns the first value of the named qualifier and whether it
// was present. Flag qualifiers (no value) report ("", true).
func (f *Feature) Qualifier(name string) (string, bool) {
	vals, ok := f.Qualifiers[name]
	if !ok || len(vals) == 0 {
		return "", ok
	}
	return vals[0], true
}
