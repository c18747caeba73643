package ast

// Kind tags the variant a Node holds.
type Kind int

const (
	KindNode Kind = iota // base of every kind, never set on a node

	// pseudo kinds, used for dispatch only
	KindSequence // an ordered list of sibling nodes
	KindLiteral  // parent of Char and Separator

	KindRoot
	KindSeparator
	KindChar
	KindGroup
	KindUnion
	KindOptional
	KindCapture
	KindSplat
	KindNamedSplat
	KindVariable
	KindExpression
	KindWithLookAhead
)

var kindNames = map[Kind]string{
	KindNode:          "node",
	KindSequence:      "sequence",
	KindLiteral:       "literal",
	KindRoot:          "root",
	KindSeparator:     "separator",
	KindChar:          "char",
	KindGroup:         "group",
	KindUnion:         "union",
	KindOptional:      "optional",
	KindCapture:       "capture",
	KindSplat:         "splat",
	KindNamedSplat:    "named_splat",
	KindVariable:      "variable",
	KindExpression:    "expression",
	KindWithLookAhead: "with_look_ahead",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// parents maps a kind to the kind it extends. Kinds missing from the
// table extend KindNode directly.
var parents = map[Kind]Kind{
	KindChar:       KindLiteral,
	KindSeparator:  KindLiteral,
	KindSplat:      KindCapture,
	KindNamedSplat: KindSplat,
	KindVariable:   KindCapture,
	KindExpression: KindGroup,
}

// Parent returns the kind k extends. The parent of KindNode is KindNode.
func (k Kind) Parent() Kind {
	if p, ok := parents[k]; ok {
		return p
	}
	return KindNode
}

// Ancestry lists k followed by every kind it extends, most specific first.
func (k Kind) Ancestry() []Kind {
	chain := []Kind{k}
	for k != KindNode {
		k = k.Parent()
		chain = append(chain, k)
	}
	return chain
}

// IsA reports whether k is other or extends it.
func (k Kind) IsA(other Kind) bool {
	for {
		if k == other {
			return true
		}
		if k == KindNode {
			return false
		}
		k = k.Parent()
	}
}
