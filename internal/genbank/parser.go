package genbank

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// featureKeyIndent is the column offset of feature keys in the FEATURES
// table; qualifier and continuation lines are indented deeper.
const featureKeyIndent = 5

// Parser reads molecule records from a GenBank flat file.
// It supports multi-entry files and is a single-pass, forward-only reader.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	peeked     *string // one line of pushback
}

// NewParser creates a new GenBank parser for the given file.
// Supports both plain and gzipped (.gbk.gz) files; "-" reads stdin.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open genbank file: %w", err)
	}

	p := &Parser{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	_, err = file.Read(buf)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read genbank file: %w", err)
	}

	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek genbank file: %w", err)
	}

	if buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) *Parser {
	return &Parser{reader: bufio.NewReader(r)}
}

// Next reads the next molecule record from the file.
// Returns nil, nil when there are no more records.
func (p *Parser) Next() (*Record, error) {
	// Scan forward to the next LOCUS line.
	var rec *Record
	for {
		line, ok, err := p.readLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		if strings.HasPrefix(line, "LOCUS") {
			rec, err = p.parseLocus(line)
			if err != nil {
				return nil, err
			}
			break
		}
	}

	for {
		line, ok, err := p.readLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			// Truncated record; return what was read.
			return rec, nil
		}

		switch {
		case line == "//":
			return rec, nil
		case strings.HasPrefix(line, "DEFINITION"):
			def, err := p.readContinued(strings.TrimSpace(line[len("DEFINITION"):]))
			if err != nil {
				return nil, err
			}
			rec.Definition = def
		case strings.HasPrefix(line, "FEATURES"):
			if err := p.parseFeatures(rec); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, "ORIGIN") || strings.HasPrefix(line, "CONTIG"):
			if err := p.skipToTerminator(); err != nil {
				return nil, err
			}
			return rec, nil
		}
	}
}

// parseLocus extracts the molecule identifier and length from a LOCUS line.
func (p *Parser) parseLocus(line string) (*Record, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, &ParseError{Line: p.lineNumber, Message: "LOCUS line missing molecule name"}
	}
	rec := &Record{MoleculeID: fields[1]}
	if len(fields) >= 4 && fields[3] == "bp" {
		if n, err := strconv.ParseInt(fields[2], 10, 64); err == nil {
			rec.Length = n
		}
	}
	return rec, nil
}

// parseFeatures reads the FEATURES table until the next top-level section.
func (p *Parser) parseFeatures(rec *Record) error {
	var cur *Feature

	for {
		line, ok, err := p.readLine()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		// A non-blank character in column 1 means the table is over.
		if line != "" && line[0] != ' ' {
			p.unread(line)
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		if isFeatureKeyLine(line) {
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return &ParseError{Line: p.lineNumber, Message: fmt.Sprintf("feature %q missing location", fields[0])}
			}
			loc, err := p.readLocation(fields[1])
			if err != nil {
				return err
			}
			start, end, strand, lerr := parseLocation(loc)
			if lerr != nil {
				return &ParseError{Line: p.lineNumber, Message: lerr.Error()}
			}
			rec.Features = append(rec.Features, Feature{
				Key:        fields[0],
				Start:      start,
				End:        end,
				Strand:     strand,
				Qualifiers: make(map[string][]string),
			})
			cur = &rec.Features[len(rec.Features)-1]
			continue
		}

		body := strings.TrimSpace(line)
		if !strings.HasPrefix(body, "/") {
			// Stray continuation without an open qualifier; ignore.
			continue
		}
		if cur == nil {
			return &ParseError{Line: p.lineNumber, Message: "qualifier before any feature key"}
		}
		if err := p.readQualifier(cur, body[1:]); err != nil {
			return err
		}
	}
}

// readLocation collects a location descriptor that may continue over
// multiple lines (continuations are indented and carry no slash).
func (p *Parser) readLocation(first string) (string, error) {
	loc := first
	for {
		line, ok, err := p.readLine()
		if err != nil {
			return "", err
		}
		if !ok {
			return loc, nil
		}
		body := strings.TrimSpace(line)
		if line == "" || line[0] != ' ' || isFeatureKeyLine(line) || strings.HasPrefix(body, "/") {
			p.unread(line)
			return loc, nil
		}
		loc += body
	}
}

// readQualifier parses one /key[=value] qualifier, consuming any
// continuation lines of a quoted value.
func (p *Parser) readQualifier(f *Feature, body string) error {
	key, value, hasValue := strings.Cut(body, "=")
	key = strings.TrimSpace(key)
	if key == "" {
		return &ParseError{Line: p.lineNumber, Message: "empty qualifier name"}
	}
	if !hasValue {
		f.Qualifiers[key] = append(f.Qualifiers[key], "")
		return nil
	}

	value = strings.TrimSpace(value)
	quoted := strings.HasPrefix(value, `"`)
	if quoted {
		value = value[1:]
		closed := strings.HasSuffix(value, `"`)
		for !closed {
			line, ok, err := p.readLine()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			cont := strings.TrimSpace(line)
			if line == "" || line[0] != ' ' || isFeatureKeyLine(line) || strings.HasPrefix(cont, "/") {
				p.unread(line)
				break
			}
			// Sequence qualifiers concatenate; prose joins with a space.
			if key == "translation" {
				value += cont
			} else {
				value += " " + cont
			}
			closed = strings.HasSuffix(value, `"`)
		}
		value = strings.TrimSuffix(value, `"`)
	}

	f.Qualifiers[key] = append(f.Qualifiers[key], value)
	return nil
}

// readContinued joins a header field with its indented continuation lines.
func (p *Parser) readContinued(first string) (string, error) {
	val := first
	for {
		line, ok, err := p.readLine()
		if err != nil {
			return "", err
		}
		if !ok {
			return val, nil
		}
		if !strings.HasPrefix(line, "    ") {
			p.unread(line)
			return val, nil
		}
		val += " " + strings.TrimSpace(line)
	}
}

// skipToTerminator discards lines (sequence data) until the // terminator.
func (p *Parser) skipToTerminator() error {
	for {
		line, ok, err := p.readLine()
		if err != nil {
			return err
		}
		if !ok || line == "//" {
			return nil
		}
	}
}

// isFeatureKeyLine reports whether a FEATURES table line introduces a new
// feature: key indented exactly to column 6.
func isFeatureKeyLine(line string) bool {
	if len(line) <= featureKeyIndent {
		return false
	}
	for i := 0; i < featureKeyIndent; i++ {
		if line[i] != ' ' {
			return false
		}
	}
	return line[featureKeyIndent] != ' '
}

// readLine returns the next line with the trailing newline removed.
// ok is false at end of input.
func (p *Parser) readLine() (line string, ok bool, err error) {
	if p.peeked != nil {
		line = *p.peeked
		p.peeked = nil
		return line, true, nil
	}
	line, rerr := p.reader.ReadString('\n')
	if rerr != nil {
		if rerr == io.EOF {
			if line == "" {
				return "", false, nil
			}
			p.lineNumber++
			return strings.TrimRight(line, "\r\n"), true, nil
		}
		return "", false, fmt.Errorf("read genbank line: %w", rerr)
	}
	p.lineNumber++
	return strings.TrimRight(line, "\r\n"), true, nil
}

// unread pushes one line back onto the input.
func (p *Parser) unread(line string) {
	p.peeked = &line
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseError represents an error during GenBank parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("genbank parse error at line %d: %s", e.Line, e.Message)
}
