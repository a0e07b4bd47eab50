package goals

import "strings"

// ColumnKind tags a header as a base metric or a named sub-component.
// Part columns exist for display breakdowns only and are never themselves
// goal-classified.
type ColumnKind int

const (
	KindBase ColumnKind = iota
	KindPartJ
	KindPartA
)

// Label is the classification of one column header, resolved once at
// payload-build time.
type Label struct {
	Base string
	Kind ColumnKind
}

// partMarkers lists the accepted single-letter part markers. Each marker can
// appear as a prefix ("J_Comments", "J Comments", "J-Comments"), as a suffix
// the same way, or parenthesized ("Comments (J)").
var partMarkers = map[byte]ColumnKind{
	'J': KindPartJ,
	'A': KindPartA,
}

var partSeparators = "_ -"

// ClassifyLabel strips any "Source:" tab prefix from a header and decides
// whether the remaining name is a base metric or a part column. For parts,
// Base holds the name with the marker removed.
func ClassifyLabel(header string) Label {
	name := header
	if i := strings.IndexByte(name, ':'); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Label{}
	}

	upper := strings.ToUpper(name)

	// Prefix marker: "J_", "J ", "J-" or the bare letter.
	if kind, ok := partMarkers[upper[0]]; ok {
		if len(name) == 1 {
			return Label{Kind: kind}
		}
		if strings.IndexByte(partSeparators, name[1]) >= 0 {
			return Label{Base: strings.TrimSpace(name[2:]), Kind: kind}
		}
	}

	// Parenthesized suffix: "(J)" / "(A)".
	if len(upper) >= 3 && strings.HasSuffix(upper, ")") {
		open := strings.LastIndexByte(upper, '(')
		if open >= 0 && open == len(upper)-3 {
			if kind, ok := partMarkers[upper[open+1]]; ok {
				return Label{Base: strings.TrimSpace(name[:open]), Kind: kind}
			}
		}
	}

	// Plain suffix marker: "_J", " J", "-J".
	if len(upper) >= 2 {
		last := upper[len(upper)-1]
		sep := name[len(name)-2]
		if kind, ok := partMarkers[last]; ok && strings.IndexByte(partSeparators, sep) >= 0 {
			return Label{Base: strings.TrimSpace(name[:len(name)-2]), Kind: kind}
		}
	}

	return Label{Base: name, Kind: KindBase}
}

// IsPart reports whether the label is a sub-component column.
func (l Label) IsPart() bool { return l.Kind != KindBase }
