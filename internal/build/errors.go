package build

import (
	"fmt"

	"github.com/jorvis/gbk2gff3/internal/genbank"
)

// UnstrandedError reports a feature whose strand could not be decoded.
// The offending feature is carried for diagnostics.
type UnstrandedError struct {
	MoleculeID string
	Feature    genbank.Feature
}

func (e *UnstrandedError) Error() string {
	return fmt.Sprintf("unstranded %s feature at %s:%d-%d",
		e.Feature.Key, e.MoleculeID, e.Feature.Start, e.Feature.End)
}

// MissingQualifierError reports a feature lacking a qualifier required to
// synthesize its identifier.
type MissingQualifierError struct {
	FeatureKey string
	Qualifier  string
	MoleculeID string
}

func (e *MissingQualifierError) Error() string {
	return fmt.Sprintf("%s feature on %s has no /%s qualifier",
		e.FeatureKey, e.MoleculeID, e.Qualifier)
}

// OrderError reports a feature that appeared without its required open
// parent context (an mRNA before any gene, or a CDS before any mRNA).
type OrderError struct {
	FeatureKey string
	Wanted     string // the feature key that must be open
	MoleculeID string
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("%s feature on %s with no open %s context",
		e.FeatureKey, e.MoleculeID, e.Wanted)
}

// DuplicateIDError reports a synthesized transcript identifier colliding
// with one already in use.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("two different mRNAs found with same ID: %s", e.ID)
}
