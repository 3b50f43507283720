package ir

// rewriteNonSquare replaces a binary operation involving non-square
// matrices with a call to one of the __mulComp, __addComp, __divComp
// and __subComp helpers the emitter synthesizes. The accepted operand
// shapes are: two matrices of the same type, a left matrix with a
// scalar, or a right matrix with a scalar multiplicand. A scalar
// divisor becomes a multiplication by its reciprocal, and a scalar
// subtrahend an addition of its negation, so only the multiply and add
// helpers are needed for the scalar forms. Returns nil when the
// combination has no helper form.
func (b *Builder) rewriteNonSquare(op Operator, left, right Typed, leftNonSquare, rightNonSquare bool, loc SourceLoc) Typed {
	var funcName string
	switch op {
	case OpMul:
		funcName = "__mulComp"
	case OpDiv:
		funcName = "__divComp"
	case OpAdd:
		funcName = "__addComp"
	case OpSub:
		funcName = "__subComp"
	default:
		return nil
	}

	var node *Aggregate
	transformOperand := false
	switch {
	case leftNonSquare && rightNonSquare:
		if left.Type().Equal(right.Type()) {
			node = b.SetAggregateOperator(nil, OpFunctionCall, loc)
			node.SetType(right.Type())
		}
	case leftNonSquare:
		if !right.Type().IsArray() && !right.Type().IsVector() {
			node = b.SetAggregateOperator(nil, OpFunctionCall, loc)
			node.SetType(left.Type())
			switch op {
			case OpDiv:
				funcName = "__mulComp"
				transformOperand = true
			case OpSub:
				funcName = "__addComp"
				transformOperand = true
			}
		}
	default:
		// Right is the matrix; only multiplication by a scalar is
		// accepted.
		if !left.Type().IsArray() && !left.Type().IsVector() && op == OpMul {
			node = b.SetAggregateOperator(nil, OpFunctionCall, loc)
			node.SetType(right.Type())
		}
	}
	if node == nil {
		return nil
	}

	t := node.Type()
	t.Qualifier = QualTemporary
	node.SetType(t)

	node.Name = funcName + "(" + left.Type().Signature() + right.Type().Signature()
	node.PlainName = funcName

	child := right
	if transformOperand {
		switch op {
		case OpDiv:
			// L / s becomes L * (1/s).
			one := b.AddConstant(floatScalarType(), loc)
			one.SetFloat(0, 1)
			child = b.AddBinary(OpDiv, one, child, loc)
		case OpSub:
			// L - s becomes L + (-1*s).
			negOne := b.AddConstant(floatScalarType(), loc)
			negOne.SetFloat(0, -1)
			child = b.AddBinary(OpMul, negOne, child, loc)
		}
		if child == nil {
			return nil
		}
	}

	node.Children = append(node.Children, left, child)
	return node
}
