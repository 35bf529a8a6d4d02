// Package store persists converted feature graphs in a DuckDB database.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/jorvis/gbk2gff3/internal/feature"
)

// FeatureStore writes gene subgraphs into a DuckDB features table for
// downstream SQL querying. It implements the same sink interface as the
// GFF3 writer, so the conversion pipeline is identical for both outputs.
type FeatureStore struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) a DuckDB database at the given path.
func Open(path string) (*FeatureStore, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return &FeatureStore{db: db, path: path}, nil
}

// CreateSchema creates the features table. Coordinates are stored 1-based
// inclusive, matching the GFF3 output.
func (s *FeatureStore) CreateSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS features (
			molecule  VARCHAR NOT NULL,
			id        VARCHAR NOT NULL,
			parent_id VARCHAR,
			type      VARCHAR NOT NULL,
			start     BIGINT NOT NULL,
			end_      BIGINT NOT NULL,
			strand    VARCHAR NOT NULL,
			phase     INTEGER,
			product   VARCHAR
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// WriteGene inserts a gene and all of its descendants.
func (s *FeatureStore) WriteGene(g *feature.Gene) error {
	if err := s.insert(g.Location, g.ID, "", "gene", nil, ""); err != nil {
		return err
	}
	for _, t := range g.Transcripts {
		if err := s.insert(t.Location, t.ID, t.GeneID, "mRNA", nil, ""); err != nil {
			return err
		}
		for i, cds := range t.CodingSegments {
			phase := cds.Phase
			if err := s.insert(cds.Location, cds.ID, cds.TranscriptID, "CDS", &phase, cds.Product); err != nil {
				return err
			}
			if i < len(t.Exons) {
				e := t.Exons[i]
				if err := s.insert(e.Location, e.ID, e.TranscriptID, "exon", nil, ""); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *FeatureStore) insert(loc feature.Location, id, parent, ftype string, phase *int, product string) error {
	strand := "+"
	if loc.IsReverseStrand() {
		strand = "-"
	}

	var parentVal, productVal sql.NullString
	if parent != "" {
		parentVal = sql.NullString{String: parent, Valid: true}
	}
	if product != "" {
		productVal = sql.NullString{String: product, Valid: true}
	}
	var phaseVal sql.NullInt32
	if phase != nil {
		phaseVal = sql.NullInt32{Int32: int32(*phase), Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO features (molecule, id, parent_id, type, start, end_, strand, phase, product)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, loc.Assembly.ID, id, parentVal, ftype, loc.Start+1, loc.End, strand, phaseVal, productVal)
	if err != nil {
		return fmt.Errorf("insert feature %s: %w", id, err)
	}
	return nil
}

// FeatureCount returns the number of stored features.
func (s *FeatureStore) FeatureCount() (int64, error) {
	var count int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM features").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count features: %w", err)
	}
	return count, nil
}

// CountByType returns feature counts grouped by type.
func (s *FeatureStore) CountByType() (map[string]int64, error) {
	rows, err := s.db.Query("SELECT type, COUNT(*) FROM features GROUP BY type")
	if err != nil {
		return nil, fmt.Errorf("count features by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var ftype string
		var n int64
		if err := rows.Scan(&ftype, &n); err != nil {
			return nil, err
		}
		counts[ftype] = n
	}
	return counts, rows.Err()
}

// Close closes the database connection.
func (s *FeatureStore) Close() error {
	return s.db.Close()
}
