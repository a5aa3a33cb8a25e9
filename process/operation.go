package process

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrDivisionByZero is returned when evaluating a division or modulo by zero.
var ErrDivisionByZero = errors.New("division by zero")

// ErrUnknownOperator is returned for operators outside + - * / %.
var ErrUnknownOperator = errors.New("unknown operator")

// Operator is an arithmetic operator of a process operation.
type Operator byte

// The supported operators.
const (
	OpAdd Operator = '+'
	OpSub Operator = '-'
	OpMul Operator = '*'
	OpDiv Operator = '/'
	OpMod Operator = '%'
)

// Operators lists all the supported operators.
var Operators = []Operator{OpAdd, OpSub, OpMul, OpDiv, OpMod}

// Operation is the work a process carries out. The result becomes visible
// once the process terminates successfully.
type Operation struct {
	Left     int
	Operator Operator
	Right    int
}

// Value is the outcome of an operation.
type Value int

func (v Value) String() string {
	return strconv.Itoa(int(v))
}

// Evaluate computes the operation.
func (o Operation) Evaluate() (Value, error) {
	switch o.Operator {
	case OpAdd:
		return Value(o.Left + o.Right), nil
	case OpSub:
		return Value(o.Left - o.Right), nil
	case OpMul:
		return Value(o.Left * o.Right), nil
	case OpDiv, OpMod:
		if o.Right == 0 {
			return 0, fmt.Errorf("%s: %w", o, ErrDivisionByZero)
		}

		if o.Operator == OpDiv {
			return Value(o.Left / o.Right), nil
		}

		return Value(o.Left % o.Right), nil
	case 0:
		return 0, nil
	default:
		return 0, fmt.Errorf("%q: %w", rune(o.Operator), ErrUnknownOperator)
	}
}

func (o Operation) String() string {
	if o.Operator == 0 {
		return "-"
	}

	return fmt.Sprintf("%d %c %d", o.Left, o.Operator, o.Right)
}
