package feature

// Location places a feature on an assembly. Coordinates are 0-based
// half-open [Start, End); serialization converts to the 1-based inclusive
// convention on output.
type Location struct {
	Assembly *Assembly
	Start    int64
	End      int64
	Strand   int8 // +1 (forward) or -1 (reverse); always validated upstream
}

// IsForwardStrand returns true if the feature is on the forward strand.
func (l Location) IsForwardStrand() bool {
	return l.Strand == 1
}

// IsReverseStrand returns true if the feature is on the reverse strand.
func (l Location) IsReverseStrand() bool {
	return l.Strand == -1
}

// Gene is a top-level feature identified by its locus tag.
type Gene struct {
	ID          string // locus tag, unique per molecule
	Location    Location
	Transcripts []*Transcript // in discovery order
}

// AddTranscript appends a transcript to the gene.
func (g *Gene) AddTranscript(t *Transcript) {
	g.Transcripts = append(g.Transcripts, t)
}

// Transcript is an mRNA isoform of a gene. GeneID is a non-owning
// back-reference to the parent.
type Transcript struct {
	ID             string // synthesized: {locus_tag}.mRNA.{n}
	GeneID         string
	Location       Location
	CodingSegments []*CodingSegment // paired 1:1 with Exons, same order
	Exons          []*Exon
}

// AddCodingSegment appends a coding segment to the transcript.
func (t *Transcript) AddCodingSegment(c *CodingSegment) {
	t.CodingSegments = append(t.CodingSegments, c)
}

// AddExon appends an exon to the transcript.
func (t *Transcript) AddExon(e *Exon) {
	t.Exons = append(t.Exons, e)
}

// CodingSegment is the protein-coding span paired with one exon.
// TranscriptID is a non-owning back-reference to the parent.
type CodingSegment struct {
	ID           string // synthesized: {transcript_id}.CDS.{k}
	TranscriptID string
	Location     Location
	Phase        int    // reading-frame offset; always 0, see Builder
	Product      string // /product qualifier, empty if absent
}

// Exon is the transcribed span paired with one coding segment.
type Exon struct {
	ID           string // synthesized: {transcript_id}.exon.{k}
	TranscriptID string
	Location     Location
}
