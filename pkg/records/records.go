// Package records turns raw semicolon-delimited network rows into typed records.
//
// Row layout (five positional fields, "-" marks an empty column):
//
//	field0   field1        field2          field3        field4
//	owner    upstream id   downstream id   volume        leak percent
//
// A capacity row declares a factory's maximum volume:
//
//	-;Plant #1;-;4000;-
//
// A capture row feeds a factory from a source and carries the leak percentage
// of that edge:
//
//	-;Spring #7;Plant #1;120.5;3.2
package records

import (
	"strings"
)

const (
	// Empty is the marker for an unused column.
	Empty = "-"

	// Separator splits the columns of a row.
	Separator = ";"

	// MaxFields is the number of positional columns in a row.
	MaxFields = 5

	// MinFields is the number of columns below which a row is skipped.
	MinFields = 4
)

// Kind identifies how a row contributes to the registry.
type Kind int

const (
	Unclassified Kind = iota
	Capacity
	Capture
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case Capacity:
		return "capacity"
	case Capture:
		return "capture"
	default:
		return "unclassified"
	}
}

// Record is a classified row.
type Record struct {
	Kind Kind

	// UpstreamID is the source feeding FactoryID (capture rows only).
	UpstreamID string
	FactoryID  string

	// Volume is the declared capacity for capacity rows and the captured
	// volume for capture rows.
	Volume float64

	// LeakPercent is on a 0-100 scale (capture rows only).
	LeakPercent float64
}

// Split breaks a line into at most limit fields. The trailing line terminator
// is ignored and empty tokens are dropped, so "a;;b" yields two fields.
func Split(line string, limit int) []string {
	line = strings.TrimRight(line, "\r\n")

	fields := make([]string, 0, limit)
	for tok := range strings.SplitSeq(line, Separator) {
		if len(fields) == limit {
			break
		}
		if tok == "" {
			continue
		}
		fields = append(fields, tok)
	}
	return fields
}

// Classify maps split fields to a Record. Rows with fewer than MinFields
// fields or matching no pattern come back Unclassified.
func Classify(fields []string) Record {
	if len(fields) < MinFields {
		return Record{}
	}

	if fields[0] == Empty && fields[2] == Empty && fields[3] != Empty {
		return Record{
			Kind:      Capacity,
			FactoryID: fields[1],
			Volume:    ParseVolume(fields[3]),
		}
	}

	if len(fields) == MaxFields && fields[0] == Empty && fields[2] != Empty && fields[4] != Empty {
		return Record{
			Kind:        Capture,
			UpstreamID:  fields[1],
			FactoryID:   fields[2],
			Volume:      ParseVolume(fields[3]),
			LeakPercent: ParseVolume(fields[4]),
		}
	}

	return Record{}
}

// Edge is a parent-to-child link considered during network discovery.
type Edge struct {
	ParentID    string
	ChildID     string
	LeakPercent float64
}

// IsEdge reports whether a row describes a downstream link for the network
// rooted at rootID. Such rows have all five fields, a downstream id and a
// leak percentage, and are either unowned ("-" in field0) or owned by rootID
// itself.
func IsEdge(fields []string, rootID string) (Edge, bool) {
	if len(fields) != MaxFields || fields[2] == Empty || fields[4] == Empty {
		return Edge{}, false
	}
	if fields[0] != Empty && fields[0] != rootID {
		return Edge{}, false
	}
	return Edge{
		ParentID:    fields[1],
		ChildID:     fields[2],
		LeakPercent: ParseVolume(fields[4]),
	}, true
}
