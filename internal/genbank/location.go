package genbank

import (
	"fmt"
	"strconv"
	"strings"
)

// parseLocation parses a GenBank location descriptor into a half-open span
// and a strand. Compound locations (join, order) collapse to the overall
// [min-1, max) span of their parts, matching how the rest of the pipeline
// treats a feature as one interval. Partial markers (< and >) are ignored.
//
// Strand is reverse when the whole location sits under complement(...),
// forward otherwise. A compound mixing complemented and plain parts has no
// single orientation and reports StrandUnknown.
func parseLocation(s string) (start, end int64, strand int8, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, StrandUnknown, fmt.Errorf("empty location")
	}

	strand = StrandForward
	inner := s
	if rest, ok := stripCall(inner, "complement"); ok {
		strand = StrandReverse
		inner = rest
	}
	for {
		if rest, ok := stripCall(inner, "join"); ok {
			inner = rest
			continue
		}
		if rest, ok := stripCall(inner, "order"); ok {
			inner = rest
			continue
		}
		break
	}

	// complement() nested inside a join means per-segment orientation; if
	// only some segments are complemented the overall strand is undefined.
	if strings.Contains(inner, "complement(") {
		if strand == StrandReverse {
			return 0, 0, StrandUnknown, fmt.Errorf("nested complement in location %q", s)
		}
		plain := false
		for _, part := range splitTopLevel(inner) {
			if !strings.HasPrefix(part, "complement(") {
				plain = true
			}
		}
		if plain {
			strand = StrandUnknown
		} else {
			strand = StrandReverse
		}
	}

	min, max, err := spanBounds(inner)
	if err != nil {
		return 0, 0, StrandUnknown, fmt.Errorf("location %q: %w", s, err)
	}
	return min - 1, max, strand, nil
}

// stripCall removes a leading name(...) wrapper, returning the inside.
func stripCall(s, name string) (string, bool) {
	if !strings.HasPrefix(s, name+"(") || !strings.HasSuffix(s, ")") {
		return s, false
	}
	return s[len(name)+1 : len(s)-1], true
}

// splitTopLevel splits on commas that are not inside parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth, last := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[last:i]))
				last = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[last:]))
	return parts
}

// spanBounds extracts every base number in the location body and returns
// the smallest and largest, both 1-based inclusive.
func spanBounds(s string) (min, max int64, err error) {
	found := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			continue
		}
		j := i
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		n, perr := strconv.ParseInt(s[i:j], 10, 64)
		if perr != nil {
			return 0, 0, perr
		}
		if !found || n < min {
			min = n
		}
		if !found || n > max {
			max = n
		}
		found = true
		i = j - 1
	}
	if !found {
		return 0, 0, fmt.Errorf("no coordinates found")
	}
	if min < 1 {
		return 0, 0, fmt.Errorf("coordinate %d below 1", min)
	}
	return min, max, nil
}
