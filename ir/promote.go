package ir

// promote checks that the operand type is appropriate for the unary
// operator and stamps the node's type. Returns false when nothing makes
// sense.
func (n *Unary) promote(Sink) bool {
	switch n.Op {
	case OpLogicalNot:
		if n.Operand.Type().Basic != BasicBool {
			return false
		}
	case OpBitwiseNot:
		if n.Operand.Type().Basic != BasicInt {
			return false
		}
	case OpNegative, OpPostIncrement, OpPostDecrement, OpPreIncrement, OpPreDecrement:
		if n.Operand.Type().Basic == BasicBool {
			return false
		}

	case OpAny, OpAll, OpVectorLogicalNot:
		// Builtins are already type checked against their prototype.
		return true

	default:
		if n.Operand.Type().Basic != BasicFloat {
			return false
		}
	}

	n.SetType(n.Operand.Type())
	return true
}

// promote establishes the type of the binary operation and replaces the
// operator with the correct shape-specialized variant for the operands.
// Mismatched vector and matrix sizes are reconciled by inserting a
// down-conversion constructor on the larger operand, except that an
// assignment may never reshape its destination. Returns false when the
// operator cannot work on the operands.
func (n *Binary) promote(sink Sink) bool {
	left, right := n.Left, n.Right

	size := left.Type().Size
	if right.Type().Size < size {
		size = right.Type().Size
	}
	if size == 1 {
		size = left.Type().Size
		if right.Type().Size > size {
			size = right.Type().Size
		}
	}

	basic := left.Type().Basic

	// Arrays have to be exact matches.
	if (left.Type().IsArray() || right.Type().IsArray()) && !left.Type().Equal(right.Type()) {
		return false
	}

	// Base assumption: the result is the left operand's type as a
	// temporary, promoted to the higher of the two precisions.
	higherPrecision := HigherPrecision(left.Type().Precision, right.Type().Precision)
	base := left.Type()
	base.Qualifier = QualTemporary
	base.Precision = higherPrecision
	n.SetType(base)

	if left.Type().IsArray() {
		switch n.Op {
		case OpEqual, OpNotEqual:
			n.SetType(Type{Basic: BasicBool, Size: 1})
		case OpAssign:
			// The base type already carries the left operand's array
			// metadata.
		default:
			return false
		}
		return true
	}

	// All scalars. Code after this test assumes size > 1.
	if size == 1 {
		switch n.Op {
		case OpEqual, OpNotEqual, OpLessThan, OpGreaterThan, OpLessThanEqual, OpGreaterThanEqual:
			n.SetType(Type{Basic: BasicBool, Size: 1})

		case OpLogicalAnd, OpLogicalOr:
			if left.Type().Basic != BasicBool || right.Type().Basic != BasicBool {
				return false
			}
			n.SetType(Type{Basic: BasicBool, Size: 1})

		case OpRightShift, OpLeftShift, OpAnd, OpInclusiveOr, OpExclusiveOr:
			if left.Type().Basic != BasicInt || right.Type().Basic != BasicInt {
				return false
			}

		case OpModAssign, OpAndAssign, OpInclusiveOrAssign, OpExclusiveOrAssign,
			OpLeftShiftAssign, OpRightShiftAssign:
			if left.Type().Basic != BasicInt || right.Type().Basic != BasicInt {
				return false
			}
			fallthrough

		default:
			// Everything else needs matching types.
			if left.Type().Basic != right.Type().Basic ||
				left.Type().IsMatrix() != right.Type().IsMatrix() {
				return false
			}
		}
		return true
	}

	assignment := n.Op.IsAssignment()

	if (left.Type().Size != size && left.Type().Size != 1) ||
		(right.Type().Size != size && right.Type().Size != 1) {
		// Insert a constructor on the larger operand to make the sizes
		// match.
		if left.Type().Size > right.Type().Size {
			if assignment {
				sink.Push(SeverityError, n.Loc(), "cannot promote type")
				return false
			}

			convert := OpNull
			lt := left.Type()
			if lt.IsMatrix() {
				convert = matrixDownConstructor(right.Type().Size)
			} else if lt.IsVector() {
				convert = vectorConstructor(lt.Basic, right.Type().Size)
			}
			if convert == OpNull {
				sink.Push(SeverityInternalError, n.Loc(), "size 1 case should have been handled")
				return false
			}
			node := &Aggregate{Op: convert}
			node.SetLoc(left.Loc())
			node.SetType(Type{
				Basic:     lt.Basic,
				Precision: lt.Precision,
				Qualifier: QualTemporary,
				Size:      right.Type().Size,
				Matrix:    lt.Matrix,
			})
			node.Children = append(node.Children, left)
			left = node
			n.Left = left
			resultType := node.Type()
			resultType.Precision = higherPrecision
			n.SetType(resultType)
		} else {
			convert := OpNull
			rt := right.Type()
			if rt.IsMatrix() {
				convert = matrixDownConstructor(left.Type().Size)
			} else if rt.IsVector() {
				convert = vectorConstructor(rt.Basic, left.Type().Size)
			}
			if convert == OpNull {
				sink.Push(SeverityInternalError, n.Loc(), "size 1 case should have been handled")
				return false
			}
			node := &Aggregate{Op: convert}
			node.SetLoc(right.Loc())
			node.SetType(Type{
				Basic:     rt.Basic,
				Precision: rt.Precision,
				Qualifier: QualTemporary,
				Size:      left.Type().Size,
				Matrix:    rt.Matrix,
			})
			node.Children = append(node.Children, right)
			right = node
			n.Right = right
		}
	}

	switch n.Op {
	case OpMul:
		switch {
		case !left.Type().IsMatrix() && right.Type().IsMatrix():
			if left.Type().IsVector() {
				n.Op = OpVectorTimesMatrix
			} else {
				n.Op = OpMatrixTimesScalar
				n.SetType(Type{Basic: basic, Precision: higherPrecision, Qualifier: QualTemporary, Size: size, Matrix: true})
			}
		case left.Type().IsMatrix() && !right.Type().IsMatrix():
			if right.Type().IsVector() {
				n.Op = OpMatrixTimesVector
				n.SetType(Type{Basic: basic, Precision: higherPrecision, Qualifier: QualTemporary, Size: size})
			} else {
				n.Op = OpMatrixTimesScalar
			}
		case left.Type().IsMatrix() && right.Type().IsMatrix():
			n.Op = OpMatrixTimesMatrix
		case !left.Type().IsMatrix() && !right.Type().IsMatrix():
			if left.Type().IsVector() && right.Type().IsVector() {
				// Leave as component product.
			} else if left.Type().IsVector() || right.Type().IsVector() {
				n.Op = OpVectorTimesScalar
				n.SetType(Type{Basic: basic, Precision: higherPrecision, Qualifier: QualTemporary, Size: size})
			}
		default:
			sink.Push(SeverityInternalError, n.Loc(), "missing elses")
			return false
		}

	case OpMulAssign:
		switch {
		case !left.Type().IsMatrix() && right.Type().IsMatrix():
			if !left.Type().IsVector() {
				// The destination shape cannot grow to a matrix.
				return false
			}
			n.Op = OpVectorTimesMatrixAssign
		case left.Type().IsMatrix() && !right.Type().IsMatrix():
			if right.Type().IsVector() {
				return false
			}
			n.Op = OpMatrixTimesScalarAssign
		case left.Type().IsMatrix() && right.Type().IsMatrix():
			n.Op = OpMatrixTimesMatrixAssign
		case !left.Type().IsMatrix() && !right.Type().IsMatrix():
			if left.Type().IsVector() && right.Type().IsVector() {
				// Leave as component product.
			} else if left.Type().IsVector() || right.Type().IsVector() {
				if !left.Type().IsVector() {
					return false
				}
				n.Op = OpVectorTimesScalarAssign
				n.SetType(Type{Basic: basic, Precision: higherPrecision, Qualifier: QualTemporary, Size: size})
			}
		default:
			sink.Push(SeverityInternalError, n.Loc(), "missing elses")
			return false
		}

	case OpAssign:
		if left.Type().Size != right.Type().Size {
			// The right side is forced to match the destination shape.
			convert := OpNull
			lt, rt := left.Type(), right.Type()
			switch {
			case lt.IsMatrix():
				convert = matrixConstructor(lt.Size)
			case lt.IsVector():
				convert = vectorConstructor(rt.Basic, lt.Size)
			default:
				convert = scalarConstructor(rt.Basic)
			}
			if convert == OpNull {
				sink.Push(SeverityInternalError, n.Loc(), "bad assignment promotion")
				return false
			}
			qualifier := QualTemporary
			if rt.Qualifier == QualConst {
				qualifier = QualConst
			}
			node := &Aggregate{Op: convert}
			node.SetLoc(right.Loc())
			node.SetType(Type{
				Basic:     lt.Basic,
				Precision: lt.Precision,
				Qualifier: qualifier,
				Size:      lt.Size,
				Matrix:    lt.Matrix,
			})
			node.Children = append(node.Children, right)
			right = node
			n.Right = right
			size = right.Type().Size
		}
		fallthrough
	case OpMod, OpAdd, OpSub, OpDiv, OpAddAssign, OpSubAssign, OpDivAssign, OpModAssign:
		if n.Op == OpMod {
			basic = BasicFloat
		}
		if (left.Type().IsMatrix() && right.Type().IsVector()) ||
			(left.Type().IsVector() && right.Type().IsMatrix()) ||
			left.Type().Basic != right.Type().Basic {
			return false
		}
		n.SetType(Type{
			Basic:     basic,
			Precision: higherPrecision,
			Qualifier: QualTemporary,
			Size:      size,
			Matrix:    left.Type().IsMatrix() || right.Type().IsMatrix(),
		})

	case OpEqual, OpNotEqual, OpLessThan, OpGreaterThan, OpLessThanEqual, OpGreaterThanEqual:
		if (left.Type().IsMatrix() && right.Type().IsVector()) ||
			(left.Type().IsVector() && right.Type().IsMatrix()) ||
			left.Type().Basic != right.Type().Basic {
			return false
		}
		n.SetType(Type{Basic: BasicBool, Precision: higherPrecision, Qualifier: QualTemporary, Size: size})

	default:
		return false
	}

	// The resulting type of an assignment has to match the left
	// operand.
	if n.Op.IsAssignment() && !n.Type().Equal(left.Type()) {
		return false
	}
	return true
}

// promoteTernary lifts the scalar branches of a vector-condition ?: to
// vectors of the condition's size. Returns false when a branch is not
// an expression.
func (n *Selection) promoteTernary(Sink) bool {
	if !n.Cond.Type().IsVector() {
		return true
	}

	size := n.Cond.Type().Size
	trueBlock, tok := n.TrueBlock.(Typed)
	falseBlock, fok := n.FalseBlock.(Typed)
	if !tok || !fok {
		return false
	}
	if trueBlock.Type().Size == size && falseBlock.Type().Size == size {
		return true
	}

	higherPrecision := HigherPrecision(trueBlock.Type().Precision, falseBlock.Type().Precision)
	n.SetType(Type{
		Basic:     BasicFloat,
		Precision: higherPrecision,
		Qualifier: QualTemporary,
		Size:      size,
		Matrix:    n.Cond.Type().IsMatrix(),
	})

	broadcast := func(block Typed) *Aggregate {
		node := &Aggregate{Op: vectorConstructor(block.Type().Basic, size)}
		node.SetLoc(block.Loc())
		qualifier := QualTemporary
		if block.Type().Qualifier == QualConst {
			qualifier = QualConst
		}
		node.SetType(Type{
			Basic:     block.Type().Basic,
			Precision: higherPrecision,
			Qualifier: qualifier,
			Size:      size,
			Matrix:    n.Cond.Type().IsMatrix(),
		})
		node.Children = append(node.Children, block)
		return node
	}
	n.TrueBlock = broadcast(trueBlock)
	n.FalseBlock = broadcast(falseBlock)

	return true
}
