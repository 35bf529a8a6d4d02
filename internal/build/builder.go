// Package build reconstructs gene/transcript/CDS hierarchies from flat
// GenBank feature streams.
package build

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jorvis/gbk2gff3/internal/feature"
	"github.com/jorvis/gbk2gff3/internal/genbank"
)

// GeneWriter is the sink for finalized gene subgraphs. Both the GFF3
// emitter and the DuckDB feature store implement it.
type GeneWriter interface {
	WriteGene(g *feature.Gene) error
}

// Builder consumes features in file order and groups them into gene
// subgraphs using the shared locus-tag convention: a gene's mRNA and CDS
// features follow it in the stream, so hierarchy is inferred purely from
// order. A completed gene is handed to the GeneWriter when the next gene
// begins or input ends.
type Builder struct {
	registry *feature.Registry
	out      GeneWriter
	logger   *zap.Logger

	gene       *feature.Gene       // currently open gene, nil if none
	transcript *feature.Transcript // currently open transcript, nil if none

	// Counters are keyed across the whole run, not per gene: transcript
	// numbering restarts only when the locus tag changes.
	rnaCountByLocus map[string]int
	cdsCountByRNA   map[string]int
}

// New creates a Builder writing finalized genes to out.
func New(out GeneWriter) *Builder {
	return &Builder{
		registry:        feature.NewRegistry(),
		out:             out,
		logger:          zap.NewNop(),
		rnaCountByLocus: make(map[string]int),
		cdsCountByRNA:   make(map[string]int),
	}
}

// SetLogger sets the logger used for skipped-feature warnings.
func (b *Builder) SetLogger(l *zap.Logger) {
	b.logger = l
}

// Registry exposes the molecule registry, mainly for inspection after a run.
func (b *Builder) Registry() *feature.Registry {
	return b.registry
}

// Run pumps every record from the parser through the builder and flushes
// the trailing gene. This is the whole conversion: single pass, strictly
// sequential, stops on the first fatal error.
func (b *Builder) Run(p *genbank.Parser) error {
	for {
		rec, err := p.Next()
		if err != nil {
			return fmt.Errorf("read record: %w", err)
		}
		if rec == nil {
			break
		}
		if err := b.Record(rec); err != nil {
			return err
		}
	}
	return b.Flush()
}

// Record processes all features of one molecule record in order.
func (b *Builder) Record(rec *genbank.Record) error {
	asm := b.registry.GetOrCreate(rec.MoleculeID)
	for i := range rec.Features {
		if err := b.Feature(asm, &rec.Features[i]); err != nil {
			return err
		}
	}
	return nil
}

// Feature advances the state machine by one feature.
func (b *Builder) Feature(asm *feature.Assembly, f *genbank.Feature) error {
	strand, err := decodeStrand(asm.ID, f)
	if err != nil {
		return err
	}
	loc := feature.Location{Assembly: asm, Start: f.Start, End: f.End, Strand: strand}

	switch f.Key {
	case "gene":
		return b.openGene(asm, f, loc)
	case "mRNA":
		return b.openTranscript(asm, f, loc)
	case "CDS":
		return b.addCodingRegion(asm, f, loc)
	default:
		b.logger.Warn("skipping unsupported feature",
			zap.String("molecule", asm.ID),
			zap.String("type", f.Key),
			zap.Int64("start", f.Start),
			zap.Int64("end", f.End))
		return nil
	}
}

// openGene flushes any open gene and starts a new one.
func (b *Builder) openGene(asm *feature.Assembly, f *genbank.Feature, loc feature.Location) error {
	if b.gene != nil {
		if err := b.out.WriteGene(b.gene); err != nil {
			return fmt.Errorf("write gene %s: %w", b.gene.ID, err)
		}
	}

	tag, err := locusTag(asm.ID, f)
	if err != nil {
		return err
	}

	b.gene = &feature.Gene{ID: tag, Location: loc}
	b.transcript = nil
	return nil
}

// openTranscript creates a transcript under the open gene.
func (b *Builder) openTranscript(asm *feature.Assembly, f *genbank.Feature, loc feature.Location) error {
	if b.gene == nil {
		return &OrderError{FeatureKey: "mRNA", Wanted: "gene", MoleculeID: asm.ID}
	}

	tag, err := locusTag(asm.ID, f)
	if err != nil {
		return err
	}

	b.rnaCountByLocus[tag]++
	id := fmt.Sprintf("%s.mRNA.%d", tag, b.rnaCountByLocus[tag])

	if _, seen := b.cdsCountByRNA[id]; seen {
		return &DuplicateIDError{ID: id}
	}
	b.cdsCountByRNA[id] = 0

	t := &feature.Transcript{ID: id, GeneID: b.gene.ID, Location: loc}
	b.gene.AddTranscript(t)
	b.transcript = t
	return nil
}

// addCodingRegion creates the paired CDS and exon under the open
// transcript. One counter drives both identifiers, so the pair always
// carries the same index.
func (b *Builder) addCodingRegion(asm *feature.Assembly, f *genbank.Feature, loc feature.Location) error {
	if b.transcript == nil {
		return &OrderError{FeatureKey: "CDS", Wanted: "mRNA", MoleculeID: asm.ID}
	}

	b.cdsCountByRNA[b.transcript.ID]++
	n := b.cdsCountByRNA[b.transcript.ID]

	product, _ := f.Qualifier("product")

	// Phase stays 0: the flat file carries no frame information and this
	// converter does not attempt to derive it.
	cds := &feature.CodingSegment{
		ID:           fmt.Sprintf("%s.CDS.%d", b.transcript.ID, n),
		TranscriptID: b.transcript.ID,
		Location:     loc,
		Phase:        0,
		Product:      product,
	}
	b.transcript.AddCodingSegment(cds)

	exon := &feature.Exon{
		ID:           fmt.Sprintf("%s.exon.%d", b.transcript.ID, n),
		TranscriptID: b.transcript.ID,
		Location:     loc,
	}
	b.transcript.AddExon(exon)
	return nil
}

// Flush writes the trailing open gene, if any. Call once after the last
// record; further features may be added after a Flush but the usual caller
// is Run.
func (b *Builder) Flush() error {
	if b.gene == nil {
		return nil
	}
	if err := b.out.WriteGene(b.gene); err != nil {
		return fmt.Errorf("write gene %s: %w", b.gene.ID, err)
	}
	b.gene = nil
	b.transcript = nil
	return nil
}

// decodeStrand validates a record strand. Anything other than forward or
// reverse is a fatal input error.
func decodeStrand(moleculeID string, f *genbank.Feature) (int8, error) {
	switch f.Strand {
	case genbank.StrandForward:
		return 1, nil
	case genbank.StrandReverse:
		return -1, nil
	default:
		return 0, &UnstrandedError{MoleculeID: moleculeID, Feature: *f}
	}
}

// locusTag extracts the required /locus_tag qualifier.
func locusTag(moleculeID string, f *genbank.Feature) (string, error) {
	tag, ok := f.Qualifier("locus_tag")
	if !ok || tag == "" {
		return "", &MissingQualifierError{FeatureKey: f.Key, Qualifier: "locus_tag", MoleculeID: moleculeID}
	}
	return tag, nil
}
