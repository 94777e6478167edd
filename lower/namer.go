package lower

import (
	"fmt"
	"strings"
)

// namer generates unique identifiers for one program.
type namer struct {
	usedNames map[string]struct{}
	counters  map[string]uint32
	reserved  func(string) bool
}

func newNamer(reserved func(string) bool) *namer {
	return &namer{
		usedNames: make(map[string]struct{}),
		counters:  make(map[string]uint32),
		reserved:  reserved,
	}
}

// sanitize maps base onto [A-Za-z_][A-Za-z0-9_]* without double
// underscores, which several targets reserve.
func sanitize(base string) string {
	var b strings.Builder
	prevUnderscore := true
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		default:
			if !prevUnderscore {
				b.WriteByte('_')
				prevUnderscore = true
			}
		}
	}
	name := strings.TrimSuffix(b.String(), "_")
	if name == "" {
		return "unnamed"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "v" + name
	}
	return name
}

// call generates a unique name based on the given base.
// It escapes reserved words and adds numeric suffixes if needed.
func (n *namer) call(base string) string {
	escaped := sanitize(base)
	if n.reserved(escaped) {
		escaped = "_" + escaped
	}

	if _, used := n.usedNames[escaped]; !used {
		n.usedNames[escaped] = struct{}{}
		return escaped
	}

	for {
		n.counters[escaped]++
		candidate := fmt.Sprintf("%s_%d", escaped, n.counters[escaped])
		if _, used := n.usedNames[candidate]; !used && !n.reserved(candidate) {
			n.usedNames[candidate] = struct{}{}
			return candidate
		}
	}
}
