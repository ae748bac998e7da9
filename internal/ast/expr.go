package ast

import "fmt"

// ExprType identifies which concrete kind an Expr node is.
type ExprType int

const (
	ExprLiteral ExprType = iota
	ExprVariable
	ExprUnary
	ExprBinary
)

func (t ExprType) String() string {
	switch t {
	case ExprLiteral:
		return "LITERAL"
	case ExprVariable:
		return "VARIABLE"
	case ExprUnary:
		return "UNARY"
	case ExprBinary:
		return "BINARY"
	default:
		return "UNKNOWN"
	}
}

// Expr is the closed sum type {Literal, Variable, Unary, Binary} for
// parametric arithmetic expressions. Implementations are value types;
// pattern-match on Type() and use the matching As*() accessor rather than a
// type switch on concrete structs.
type Expr interface {
	Type() ExprType
	AsLiteral() LiteralExpr
	AsVariable() VariableExpr
	AsUnary() UnaryExpr
	AsBinary() BinaryExpr
	Loc() Location
	String() string
	Equal(o Expr) bool
}

// LiteralExpr is a numeric literal.
type LiteralExpr struct {
	Value    float64
	location Location
}

// NewLiteral builds a LiteralExpr at loc.
func NewLiteral(value float64, loc Location) LiteralExpr {
	return LiteralExpr{Value: value, location: loc}
}

func (e LiteralExpr) Type() ExprType             { return ExprLiteral }
func (e LiteralExpr) AsLiteral() LiteralExpr     { return e }
func (e LiteralExpr) AsVariable() VariableExpr   { panic("Type() is not ExprVariable") }
func (e LiteralExpr) AsUnary() UnaryExpr         { panic("Type() is not ExprUnary") }
func (e LiteralExpr) AsBinary() BinaryExpr       { panic("Type() is not ExprBinary") }
func (e LiteralExpr) Loc() Location              { return e.location }
func (e LiteralExpr) String() string             { return fmt.Sprintf("%g", e.Value) }

func (e LiteralExpr) Equal(o Expr) bool {
	if o == nil || o.Type() != ExprLiteral {
		return false
	}
	return e.Value == o.AsLiteral().Value
}

// VariableExpr is a named reference; Name is uppercased at parse time.
// IsSystem is true for "$"-prefixed system variables.
type VariableExpr struct {
	Name     string
	IsSystem bool
	location Location
}

// NewVariable builds a VariableExpr; name is uppercased.
func NewVariable(name string, isSystem bool, loc Location) VariableExpr {
	return VariableExpr{Name: upper(name), IsSystem: isSystem, location: loc}
}

func (e VariableExpr) Type() ExprType           { return ExprVariable }
func (e VariableExpr) AsLiteral() LiteralExpr   { panic("Type() is not ExprLiteral") }
func (e VariableExpr) AsVariable() VariableExpr { return e }
func (e VariableExpr) AsUnary() UnaryExpr       { panic("Type() is not ExprUnary") }
func (e VariableExpr) AsBinary() BinaryExpr     { panic("Type() is not ExprBinary") }
func (e VariableExpr) Loc() Location            { return e.location }

func (e VariableExpr) String() string {
	if e.IsSystem {
		return "$" + e.Name
	}
	return e.Name
}

func (e VariableExpr) Equal(o Expr) bool {
	if o == nil || o.Type() != ExprVariable {
		return false
	}
	other := o.AsVariable()
	return e.Name == other.Name && e.IsSystem == other.IsSystem
}

// UnaryOp is the set of supported unary operators.
type UnaryOp int

const (
	UnaryNegate UnaryOp = iota
	UnaryNot
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNegate:
		return "-"
	case UnaryNot:
		return "!"
	default:
		return "?"
	}
}

// UnaryExpr applies a prefix operator to a child expression.
type UnaryExpr struct {
	Op       UnaryOp
	Child    Expr
	location Location
}

// NewUnary builds a UnaryExpr at loc.
func NewUnary(op UnaryOp, child Expr, loc Location) UnaryExpr {
	return UnaryExpr{Op: op, Child: child, location: loc}
}

func (e UnaryExpr) Type() ExprType           { return ExprUnary }
func (e UnaryExpr) AsLiteral() LiteralExpr   { panic("Type() is not ExprLiteral") }
func (e UnaryExpr) AsVariable() VariableExpr { panic("Type() is not ExprVariable") }
func (e UnaryExpr) AsUnary() UnaryExpr       { return e }
func (e UnaryExpr) AsBinary() BinaryExpr     { panic("Type() is not ExprBinary") }
func (e UnaryExpr) Loc() Location            { return e.location }

func (e UnaryExpr) String() string {
	return fmt.Sprintf("(%s%s)", e.Op, e.Child.String())
}

func (e UnaryExpr) Equal(o Expr) bool {
	if o == nil || o.Type() != ExprUnary {
		return false
	}
	other := o.AsUnary()
	return e.Op == other.Op && e.Child.Equal(other.Child)
}

// BinaryOp is the set of supported binary operators, in precedence order
// multiplicative > additive.
type BinaryOp int

const (
	BinaryAdd BinaryOp = iota
	BinarySub
	BinaryMul
	BinaryDiv
)

func (op BinaryOp) String() string {
	switch op {
	case BinaryAdd:
		return "+"
	case BinarySub:
		return "-"
	case BinaryMul:
		return "*"
	case BinaryDiv:
		return "/"
	default:
		return "?"
	}
}

// BinaryExpr is a left-associative binary operation.
type BinaryExpr struct {
	Op       BinaryOp
	LHS      Expr
	RHS      Expr
	location Location
}

// NewBinary builds a BinaryExpr at loc.
func NewBinary(op BinaryOp, lhs, rhs Expr, loc Location) BinaryExpr {
	return BinaryExpr{Op: op, LHS: lhs, RHS: rhs, location: loc}
}

func (e BinaryExpr) Type() ExprType           { return ExprBinary }
func (e BinaryExpr) AsLiteral() LiteralExpr   { panic("Type() is not ExprLiteral") }
func (e BinaryExpr) AsVariable() VariableExpr { panic("Type() is not ExprVariable") }
func (e BinaryExpr) AsUnary() UnaryExpr       { panic("Type() is not ExprUnary") }
func (e BinaryExpr) AsBinary() BinaryExpr     { return e }
func (e BinaryExpr) Loc() Location            { return e.location }

func (e BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.LHS.String(), e.Op, e.RHS.String())
}

func (e BinaryExpr) Equal(o Expr) bool {
	if o == nil || o.Type() != ExprBinary {
		return false
	}
	other := o.AsBinary()
	return e.Op == other.Op && e.LHS.Equal(other.LHS) && e.RHS.Equal(other.RHS)
}
