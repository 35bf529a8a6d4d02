// Package feature provides the gene-graph data model for converted annotations.
package feature

// Assembly represents a molecule (chromosome, contig or plasmid) that
// features are placed on. Assemblies are never mutated after creation.
type Assembly struct {
	ID string // molecule identifier from the source record
}

// Registry maps molecule identifiers to Assembly instances, creating each
// one the first time it is referenced. It lives for the whole run.
type Registry struct {
	assemblies map[string]*Assembly
}

// NewRegistry creates an empty molecule registry.
func NewRegistry() *Registry {
	return &Registry{assemblies: make(map[string]*Assembly)}
}

// GetOrCreate returns the Assembly for the given molecule identifier,
// creating it on first sight.
func (r *Registry) GetOrCreate(moleculeID string) *Assembly {
	if a, ok := r.assemblies[moleculeID]; ok {
		return a
	}
	a := &Assembly{ID: moleculeID}
	r.assemblies[moleculeID] = a
	return a
}

// Len returns the number of distinct molecules seen so far.
func (r *Registry) Len() int {
	return len(r.assemblies)
}
