package ast

// Operator describes how a URI template expression joins and encodes its variables.
type Operator struct {
	Separator     string // placed between variables and exploded values
	AllowReserved bool   // values may contain reserved characters unencoded
	Prefix        string // placed in front of the whole expression, if any
	Parametric    bool   // values are written as name=value
}

var operators = map[string]Operator{
	"":  {Separator: ","},
	"+": {Separator: ",", AllowReserved: true},
	"#": {Separator: ",", AllowReserved: true, Prefix: "#"},
	".": {Separator: ".", Prefix: "."},
	"/": {Separator: "/", Prefix: "/"},
	";": {Separator: ";", Prefix: ";", Parametric: true},
	"?": {Separator: "&", Prefix: "?", Parametric: true},
	"&": {Separator: "&", Prefix: "&", Parametric: true},
}

// LookupOperator returns the behavior of an expression operator token.
// Reserved tokens such as "=" or "!" are not supported.
func LookupOperator(token string) (Operator, bool) {
	op, ok := operators[token]
	return op, ok
}
