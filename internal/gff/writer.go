// Package gff serializes gene subgraphs as GFF3.
package gff

import (
	"bufio"
	"fmt"
	"io"

	"github.com/jorvis/gbk2gff3/internal/feature"
)

// DefaultSource is the source column written when none is configured.
const DefaultSource = "GenBank"

// Writer emits gene subgraphs in GFF3: one line per feature, tab-delimited,
// 1-based inclusive coordinates, ID/Parent attribute cross-references.
// Only one gene's worth of features is ever buffered.
type Writer struct {
	w      *bufio.Writer
	source string
}

// NewWriter creates a GFF3 writer with the default source column.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w), source: DefaultSource}
}

// SetSource overrides the source column literal.
func (gw *Writer) SetSource(source string) {
	if source != "" {
		gw.source = source
	}
}

// WriteHeader writes the GFF3 version pragma. Call once, before any gene.
func (gw *Writer) WriteHeader() error {
	_, err := gw.w.WriteString("##gff-version 3\n")
	return err
}

// WriteGene writes a gene and its full subgraph: the gene line, then each
// transcript followed by its CDS/exon pairs in discovery order.
func (gw *Writer) WriteGene(g *feature.Gene) error {
	if err := gw.writeLine("gene", g.Location, ".", g.ID, ""); err != nil {
		return err
	}
	for _, t := range g.Transcripts {
		if err := gw.writeLine("mRNA", t.Location, ".", t.ID, t.GeneID); err != nil {
			return err
		}
		for i, cds := range t.CodingSegments {
			phase := fmt.Sprintf("%d", cds.Phase)
			if err := gw.writeLine("CDS", cds.Location, phase, cds.ID, cds.TranscriptID); err != nil {
				return err
			}
			if i < len(t.Exons) {
				e := t.Exons[i]
				if err := gw.writeLine("exon", e.Location, ".", e.ID, e.TranscriptID); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// writeLine writes one GFF3 feature line, converting the stored half-open
// interval to 1-based inclusive coordinates.
func (gw *Writer) writeLine(ftype string, loc feature.Location, phase, id, parent string) error {
	attrs := "ID=" + id
	if parent != "" {
		attrs += ";Parent=" + parent
	}
	_, err := fmt.Fprintf(gw.w, "%s\t%s\t%s\t%d\t%d\t.\t%s\t%s\t%s\n",
		loc.Assembly.ID, gw.source, ftype, loc.Start+1, loc.End,
		strandChar(loc.Strand), phase, attrs)
	return err
}

// Flush flushes any buffered output to the underlying writer.
func (gw *Writer) Flush() error {
	return gw.w.Flush()
}

func strandChar(strand int8) string {
	if strand == -1 {
		return "-"
	}
	return "+"
}
