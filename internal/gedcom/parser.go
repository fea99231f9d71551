package gedcom

import (
	"strconv"
	"strings"

	"github.com/oxidgene/oxidgene/internal/domain"
)

// Record is one node of the parsed GEDCOM tree. CONT and CONC continuation
// lines are folded into the owning record's Value during parsing, so Value
// always carries the complete, possibly multi-line payload.
type Record struct {
	Level    int
	XRef     string // "@I1@" on record-defining lines, empty otherwise
	Tag      string
	Value    string
	Line     int // 1-based source line, for warning messages
	Children []*Record
}

// Child returns the first child with the given tag, or nil.
func (r *Record) Child(tag string) *Record {
	for _, child := range r.Children {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}

// ChildValue returns the value of the first child with the given tag, or "".
func (r *Record) ChildValue(tag string) string {
	if child := r.Child(tag); child != nil {
		return child.Value
	}
	return ""
}

// ChildValuePtr returns the value of the first child with the given tag, or
// nil when the child is absent or empty.
func (r *Record) ChildValuePtr(tag string) *string {
	value := r.ChildValue(tag)
	if value == "" {
		return nil
	}
	return &value
}

// ChildrenWithTag returns every direct child with the given tag, in order.
func (r *Record) ChildrenWithTag(tag string) []*Record {
	var matches []*Record
	for _, child := range r.Children {
		if child.Tag == tag {
			matches = append(matches, child)
		}
	}
	return matches
}

// Parse decodes GEDCOM text into a forest of top-level records. Each line is
// `LEVEL [XREF] TAG [VALUE]`; a malformed level or an impossible level jump
// is fatal.
func Parse(input string) ([]*Record, error) {
	var roots []*Record
	var stack []*Record

	for number, raw := range strings.Split(input, "\n") {
		lineNo := number + 1
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		record, err := parseLine(strings.TrimLeft(line, " \t"), lineNo)
		if err != nil {
			return nil, err
		}

		// CONT appends a line break, CONC appends without one; both attach
		// to the record one level up.
		if record.Tag == "CONT" || record.Tag == "CONC" {
			if len(stack) == 0 || record.Level != stack[len(stack)-1].Level+1 {
				return nil, domain.GedcomError("line %d: %s without a parent line", lineNo, record.Tag)
			}
			parent := stack[len(stack)-1]
			if record.Tag == "CONT" {
				parent.Value += "\n" + record.Value
			} else {
				parent.Value += record.Value
			}
			continue
		}

		switch {
		case record.Level == 0:
			roots = append(roots, record)
			stack = stack[:0]
			stack = append(stack, record)
		case len(stack) == 0 || record.Level > stack[len(stack)-1].Level+1:
			return nil, domain.GedcomError("line %d: level %d does not follow from level %d", lineNo, record.Level, parentLevel(stack))
		default:
			for stack[len(stack)-1].Level >= record.Level {
				stack = stack[:len(stack)-1]
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, record)
			stack = append(stack, record)
		}
	}

	return roots, nil
}

func parentLevel(stack []*Record) int {
	if len(stack) == 0 {
		return -1
	}
	return stack[len(stack)-1].Level
}

func parseLine(line string, lineNo int) (*Record, error) {
	levelText, rest, found := strings.Cut(line, " ")
	if !found {
		levelText = line
		rest = ""
	}
	level, err := strconv.Atoi(levelText)
	if err != nil || level < 0 {
		return nil, domain.GedcomError("line %d: malformed level %q", lineNo, levelText)
	}

	record := &Record{Level: level, Line: lineNo}

	rest = strings.TrimLeft(rest, " ")
	if strings.HasPrefix(rest, "@") {
		xref, tail, ok := cutXref(rest)
		if !ok {
			return nil, domain.GedcomError("line %d: malformed cross-reference", lineNo)
		}
		record.XRef = xref
		rest = strings.TrimLeft(tail, " ")
	}

	tag, value, _ := strings.Cut(rest, " ")
	if tag == "" {
		return nil, domain.GedcomError("line %d: missing tag", lineNo)
	}
	record.Tag = strings.ToUpper(tag)
	record.Value = value
	return record, nil
}

// cutXref splits a leading "@TOKEN@" off the line remainder.
func cutXref(s string) (xref, tail string, ok bool) {
	end := strings.Index(s[1:], "@")
	if end < 0 {
		return "", "", false
	}
	return s[:end+2], s[end+2:], true
}
