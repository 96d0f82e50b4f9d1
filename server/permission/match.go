package permission

import "strings"

// normaliseNode lower-cases a node and uses '.' as the only separator.
func normaliseNode(node string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(node), ":", "."))
}

// candidates returns the nodes matching node, from most to least specific:
// the node itself followed by its wildcard parents, ending with "*".
func candidates(node string) []string {
	segments := strings.Split(node, ".")
	out := make([]string, 0, len(segments)+1)
	out = append(out, node)
	for i := len(segments) - 1; i > 0; i-- {
		out = append(out, strings.Join(segments[:i], ".")+".*")
	}
	if node != "*" {
		out = append(out, "*")
	}
	return out
}

type nodeSet map[string]struct{}

func (s nodeSet) has(node string) bool {
	_, ok := s[node]
	return ok
}

// match resolves node against explicit grants and denials. The most specific
// match wins and a denial beats a grant of the same node.
func match(allow, deny nodeSet, node string) Tristate {
	node = normaliseNode(node)
	if node == "" {
		return Undefined
	}
	for _, candidate := range candidates(node) {
		if deny.has(candidate) {
			return False
		}
		if allow.has(candidate) {
			return True
		}
	}
	return Undefined
}

// Set is an immutable set of permission grants, used for issuers that are not
// backed by a Store, such as the console. Nodes prefixed with '-' are denials.
type Set struct {
	allow, deny nodeSet
}

// NewSet returns a Set holding the nodes passed. Malformed nodes are ignored.
func NewSet(nodes ...string) Set {
	s := Set{allow: nodeSet{}, deny: nodeSet{}}
	for _, node := range nodes {
		target := s.allow
		if n, ok := strings.CutPrefix(strings.TrimSpace(node), "-"); ok {
			node, target = n, s.deny
		}
		node = normaliseNode(node)
		if !ValidNode(node) {
			continue
		}
		target[node] = struct{}{}
	}
	return s
}

// Lookup returns the value the Set holds for node.
func (s Set) Lookup(node string) Tristate {
	return match(s.allow, s.deny, node)
}

// Len returns the number of grants and denials in the Set.
func (s Set) Len() int {
	return len(s.allow) + len(s.deny)
}
