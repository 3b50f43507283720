package ir

// addConversion converts node toward the given type in the context of
// op. It returns the node unchanged when no conversion is needed, a
// folded Constant when the node is constant, a new conversion Unary
// otherwise, and nil when the conversion is impossible.
//
// For the explicit constructor operators the target basic type comes
// from the operator itself; for every other operator the conversion is
// the implicit one HLSL requires, toward the target's basic type.
func (b *Builder) addConversion(op Operator, typ Type, node Typed) Typed {
	if node == nil {
		return nil
	}

	switch node.Type().Basic {
	case BasicVoid,
		BasicSampler1D, BasicSampler2D, BasicSampler3D, BasicSamplerCube,
		BasicSampler1DShadow, BasicSampler2DShadow,
		BasicSamplerRect, BasicSamplerRectShadow:
		return nil
	}

	if typ.Equal(node.Type()) {
		return node
	}

	// Identical basic types: promotion handles shape and qualifier
	// differences, no conversion node is needed.
	if typ.Basic == node.Type().Basic {
		return node
	}

	if typ.IsStruct() || node.Type().IsStruct() {
		return nil
	}
	if typ.IsArray() || node.Type().IsArray() {
		return nil
	}

	var promoteTo BasicType
	switch op {
	case OpConstructBool:
		promoteTo = BasicBool
	case OpConstructFloat:
		promoteTo = BasicFloat
	case OpConstructInt:
		promoteTo = BasicInt
	default:
		promoteTo = typ.Basic
	}

	if c, ok := node.(*Constant); ok {
		return b.promoteConstant(promoteTo, c)
	}

	var newOp Operator
	switch promoteTo {
	case BasicFloat:
		switch node.Type().Basic {
		case BasicInt:
			newOp = OpConvIntToFloat
		case BasicBool:
			newOp = OpConvBoolToFloat
		default:
			b.sink.Push(SeverityInternalError, node.Loc(), "bad promotion node")
			return nil
		}
	case BasicBool:
		switch node.Type().Basic {
		case BasicInt:
			newOp = OpConvIntToBool
		case BasicFloat:
			newOp = OpConvFloatToBool
		default:
			b.sink.Push(SeverityInternalError, node.Loc(), "bad promotion node")
			return nil
		}
	case BasicInt:
		switch node.Type().Basic {
		case BasicBool:
			newOp = OpConvBoolToInt
		case BasicFloat:
			newOp = OpConvFloatToInt
		default:
			b.sink.Push(SeverityInternalError, node.Loc(), "bad promotion node")
			return nil
		}
	default:
		b.sink.Push(SeverityInternalError, node.Loc(), "bad promotion type")
		return nil
	}

	nt := node.Type()
	conv := &Unary{Op: newOp, Operand: node}
	conv.SetType(Type{
		Basic:     promoteTo,
		Precision: nt.Precision,
		Qualifier: QualTemporary,
		Size:      nt.Size,
		Matrix:    nt.Matrix,
		Array:     nt.Array,
		ArraySize: nt.ArraySize,
	})
	conv.SetLoc(node.Loc())
	return conv
}

// promoteConstant folds a basic-type conversion of a constant, casting
// every cell: int widens to float by value, bool becomes 0.0/1.0 as a
// float and 0/1 as an int, numeric values truth-test to bool, and float
// truncates to int.
func (b *Builder) promoteConstant(promoteTo BasicType, right *Constant) Typed {
	t := right.Type()
	left := b.AddConstant(Type{
		Basic:     promoteTo,
		Precision: t.Precision,
		Qualifier: t.Qualifier,
		Size:      t.Size,
		Matrix:    t.Matrix,
		Array:     t.Array,
		ArraySize: t.ArraySize,
	}, right.Loc())

	for i := 0; i != right.Count(); i++ {
		value := right.Value(i)
		switch promoteTo {
		case BasicFloat:
			switch value.Basic {
			case BasicInt:
				left.SetFloat(i, float32(value.Int))
			case BasicBool:
				if value.Bool {
					left.SetFloat(i, 1)
				} else {
					left.SetFloat(i, 0)
				}
			case BasicFloat:
				left.SetFloat(i, value.Float)
			default:
				b.sink.Push(SeverityInternalError, right.Loc(), "cannot promote")
				return nil
			}
		case BasicInt:
			switch value.Basic {
			case BasicInt:
				left.SetInt(i, value.Int)
			case BasicBool:
				if value.Bool {
					left.SetInt(i, 1)
				} else {
					left.SetInt(i, 0)
				}
			case BasicFloat:
				left.SetInt(i, int32(value.Float))
			default:
				b.sink.Push(SeverityInternalError, right.Loc(), "cannot promote")
				return nil
			}
		case BasicBool:
			switch value.Basic {
			case BasicInt:
				left.SetBool(i, value.Int != 0)
			case BasicBool:
				left.SetBool(i, value.Bool)
			case BasicFloat:
				left.SetBool(i, value.Float != 0)
			default:
				b.sink.Push(SeverityInternalError, right.Loc(), "cannot promote")
				return nil
			}
		default:
			b.sink.Push(SeverityInternalError, right.Loc(), "incorrect data type found")
			return nil
		}
	}

	return left
}
