package ir

// Builder constructs the typed intermediate representation. Parser
// productions call its Add methods during reduction; every method takes
// the source location of the construct and the fallible ones return nil
// when the operands cannot legally be combined. The builder is
// single-threaded and stateful: call order is the parser's reduction
// order and defines the tree.
type Builder struct {
	sink Sink
}

// NewBuilder returns a builder reporting to sink. A nil sink is
// replaced by a private DiagnosticList.
func NewBuilder(sink Sink) *Builder {
	if sink == nil {
		sink = &DiagnosticList{}
	}
	return &Builder{sink: sink}
}

// AddSymbol adds a terminal node for an identifier in an expression.
func (b *Builder) AddSymbol(id int, name string, info *SymbolInfo, typ Type, loc SourceLoc) *Symbol {
	node := &Symbol{ID: id, Name: name, Info: info}
	node.SetType(typ)
	node.SetLoc(loc)
	return node
}

// AddGlobalSymbol adds a terminal node for a module-scope identifier.
// The scope flag travels with the symbol into declarations, where
// Declaration.IsGlobal reads it back for the emission passes.
func (b *Builder) AddGlobalSymbol(id int, name string, info *SymbolInfo, typ Type, loc SourceLoc) *Symbol {
	node := b.AddSymbol(id, name, info, typ, loc)
	node.Global = true
	return node
}

// AddBinary connects two nodes with a new parent that does a binary
// operation on them. It applies the implicit HLSL coercions (numeric
// operands of logical operators truth-test to bool, bool operands of
// arithmetic widen to float, mod operands widen to float), unifies the
// operand basic types promoting toward float > int > bool, rewrites
// non-square matrix operations into helper calls, and promotes the
// result. Returns nil when the operands cannot be combined.
func (b *Builder) AddBinary(op Operator, left, right Typed, loc SourceLoc) Typed {
	if left == nil || right == nil {
		return nil
	}
	leftNonSquare := left.Type().IsNonSquareMatrix()
	rightNonSquare := right.Type().IsNonSquareMatrix()

	switch op {
	case OpLessThan, OpGreaterThan, OpLessThanEqual, OpGreaterThanEqual:
		if left.Type().IsMatrix() || left.Type().IsArray() || left.Type().Basic == BasicStruct {
			return nil
		}

	case OpLogicalOr, OpLogicalXor, OpLogicalAnd:
		if left.Type().IsMatrix() || left.Type().IsArray() {
			return nil
		}
		if left.Type().Basic != BasicBool {
			if left.Type().Basic != BasicInt && left.Type().Basic != BasicFloat {
				return nil
			}
			// HLSL truth-tests numeric operands.
			left = b.addConversion(OpConstructBool, retyped(left.Type(), BasicBool), left)
			if left == nil {
				return nil
			}
		}
		if right.Type().IsMatrix() || right.Type().IsArray() || right.Type().IsVector() {
			return nil
		}
		if right.Type().Basic != BasicBool {
			if right.Type().Basic != BasicInt && right.Type().Basic != BasicFloat {
				return nil
			}
			right = b.addConversion(OpConstructBool, retyped(right.Type(), BasicBool), right)
			if right == nil {
				return nil
			}
		}

	case OpAdd, OpSub, OpDiv, OpMul, OpMod:
		ltype := left.Type().Basic
		rtype := right.Type().Basic
		// A non-square matrix is carried as a struct but behaves as a
		// float object.
		if !leftNonSquare && ltype == BasicStruct {
			return nil
		}
		leftToFloat := ltype == BasicBool
		rightToFloat := rtype == BasicBool
		// HLSL defines % on floats; integer operands widen.
		if op == OpMod {
			leftToFloat = leftToFloat || ltype == BasicInt
			rightToFloat = rightToFloat || rtype == BasicInt
		}
		if leftToFloat {
			left = b.addConversion(OpConstructFloat, retyped(left.Type(), BasicFloat), left)
			if left == nil {
				return nil
			}
		}
		if rightToFloat {
			right = b.addConversion(OpConstructFloat, retyped(right.Type(), BasicFloat), right)
			if right == nil {
				return nil
			}
		}
	}

	// Unify the operand basic types, converting the weaker operand
	// toward the stronger one.
	if !(left.Type().IsStruct() && right.Type().IsStruct()) {
		useLeft := true
		if left.Type().Basic != BasicFloat && !leftNonSquare {
			if right.Type().Basic == BasicFloat || rightNonSquare {
				useLeft = false
			} else if left.Type().Basic != BasicInt && right.Type().Basic == BasicInt {
				useLeft = false
			}
		}
		if useLeft {
			if !rightNonSquare {
				var child Typed
				if leftNonSquare {
					child = b.addConversion(op, floatScalarType(), right)
				} else {
					child = b.addConversion(op, left.Type(), right)
				}
				switch {
				case child != nil:
					right = child
				case leftNonSquare:
					return nil
				default:
					child = b.addConversion(op, right.Type(), left)
					if child == nil {
						return nil
					}
					left = child
				}
			}
		} else {
			if !leftNonSquare {
				var child Typed
				if rightNonSquare {
					child = b.addConversion(op, floatScalarType(), left)
				} else {
					child = b.addConversion(op, right.Type(), left)
				}
				switch {
				case child != nil:
					left = child
				case rightNonSquare:
					return nil
				default:
					child = b.addConversion(op, left.Type(), right)
					if child == nil {
						return nil
					}
					right = child
				}
			}
		}
	} else if !left.Type().Equal(right.Type()) {
		return nil
	}

	if (leftNonSquare || rightNonSquare) && !left.Type().IsArray() && !right.Type().IsArray() {
		if call := b.rewriteNonSquare(op, left, right, leftNonSquare, rightNonSquare, loc); call != nil {
			return call
		}
	}

	node := &Binary{Op: op, Left: left, Right: right}
	if loc.Line == 0 {
		loc = right.Loc()
	}
	node.SetLoc(loc)
	if !node.promote(b.sink) {
		return nil
	}
	return node
}

// AddAssign connects two nodes through an assignment. Like AddBinary,
// except the conversion can only go from right to left: the destination
// type is authoritative. Compound assignments to a non-square matrix
// expand into a plain assignment of the corresponding helper call, with
// the destination shared between both sides.
func (b *Builder) AddAssign(op Operator, left, right Typed, loc SourceLoc) Typed {
	if left == nil || right == nil {
		return nil
	}
	leftNonSquare := left.Type().IsNonSquareMatrix()
	rightNonSquare := right.Type().IsNonSquareMatrix()

	child := right
	if !rightNonSquare {
		if leftNonSquare {
			child = b.addConversion(op, floatScalarType(), right)
		} else {
			child = b.addConversion(op, left.Type(), right)
		}
		if child == nil {
			return nil
		}
	}

	if leftNonSquare && op != OpAssign {
		var binOp Operator
		skip := false
		switch op {
		case OpMulAssign:
			binOp = OpMul
		case OpDivAssign:
			binOp = OpDiv
		case OpAddAssign:
			binOp = OpAdd
		case OpSubAssign:
			binOp = OpSub
		default:
			skip = true
		}
		if !skip {
			if opNode := b.AddBinary(binOp, left, right, loc); opNode != nil {
				child = opNode
				op = OpAssign
				left.AddRef()
			}
		}
	}

	node := &Binary{Op: op, Left: left, Right: child}
	if loc.Line == 0 {
		loc = left.Loc()
	}
	node.SetLoc(loc)
	if !node.promote(b.sink) {
		return nil
	}
	return node
}

// AddIndex connects two nodes through an index operator, where base is
// an array, vector, matrix or struct and index is a direct or indirect
// offset. The caller sets the type of the returned node.
func (b *Builder) AddIndex(op Operator, base, index Typed, loc SourceLoc) *Binary {
	node := &Binary{Op: op, Left: base, Right: index}
	if loc.Line == 0 {
		loc = index.Loc()
	}
	node.SetLoc(loc)
	return node
}

// AddUnary adds one node as the parent of another that it operates on.
// The explicit constructor operators delegate to the conversion engine
// and return the converted node directly, without a wrapping Unary.
func (b *Builder) AddUnary(op Operator, childNode Node, loc SourceLoc) Typed {
	child, ok := childNode.(Typed)
	if !ok {
		b.sink.Push(SeverityInternalError, loc, "bad type in AddUnary")
		return nil
	}

	switch op {
	case OpLogicalNot:
		t := child.Type()
		if t.Basic != BasicBool || t.IsMatrix() || t.IsArray() || t.IsVector() {
			return nil
		}
	case OpPostIncrement, OpPreIncrement, OpPostDecrement, OpPreDecrement, OpNegative:
		if child.Type().Basic == BasicStruct || child.Type().IsArray() {
			return nil
		}
	}

	newType := BasicVoid
	switch op {
	case OpConstructInt:
		newType = BasicInt
	case OpConstructBool:
		newType = BasicBool
	case OpConstructFloat:
		newType = BasicFloat
	}
	if newType != BasicVoid {
		t := retyped(child.Type(), newType)
		t.Qualifier = QualTemporary
		child = b.addConversion(op, t, child)
		if child == nil {
			return nil
		}
	}

	// For constructors it is all in the conversion.
	switch op {
	case OpConstructInt, OpConstructBool, OpConstructFloat:
		return child
	}

	node := &Unary{Op: op, Operand: child}
	if loc.Line == 0 {
		loc = child.Loc()
	}
	node.SetLoc(loc)
	if !node.promote(b.sink) {
		return nil
	}
	return node
}

// SetAggregateOperator is the safe way to change the operator on an
// aggregate. A node that is not an open aggregate is wrapped in a new
// one first; a nil node produces an empty aggregate.
func (b *Builder) SetAggregateOperator(node Node, op Operator, loc SourceLoc) *Aggregate {
	var agg *Aggregate
	if node != nil {
		existing, ok := node.(*Aggregate)
		if ok && existing.Op == OpNull {
			agg = existing
		} else {
			agg = &Aggregate{}
			agg.Children = append(agg.Children, node)
			if loc.Line == 0 {
				loc = node.Loc()
			}
		}
	} else {
		agg = &Aggregate{}
	}

	agg.Op = op
	if loc.Line != 0 {
		agg.SetLoc(loc)
	}
	return agg
}

// GrowAggregate combines two nodes into an aggregate. It works with nil
// operands and with a left node that is not yet an aggregate; it
// returns nil only when both nodes are nil.
func (b *Builder) GrowAggregate(left, right Node, loc SourceLoc) *Aggregate {
	if left == nil && right == nil {
		return nil
	}

	var agg *Aggregate
	if left != nil {
		agg, _ = left.(*Aggregate)
	}
	if agg == nil || agg.Op != OpNull {
		agg = &Aggregate{}
		if left != nil {
			agg.Children = append(agg.Children, left)
		}
	}
	if right != nil {
		agg.Children = append(agg.Children, right)
	}
	if loc.Line != 0 {
		agg.SetLoc(loc)
	}
	return agg
}

// MakeAggregate turns an existing node into a single-child aggregate,
// carrying over the node's type if it has one.
func (b *Builder) MakeAggregate(node Node, loc SourceLoc) *Aggregate {
	if node == nil {
		return nil
	}

	agg := &Aggregate{}
	if t, ok := node.(Typed); ok {
		agg.SetType(t.Type())
	}
	agg.Children = append(agg.Children, node)
	if loc.Line != 0 {
		agg.SetLoc(loc)
	} else {
		agg.SetLoc(node.Loc())
	}
	return agg
}

// AddSelection builds an if statement. An int or float condition is
// truth-tested to bool first; the two paths may be nil.
func (b *Builder) AddSelection(cond Typed, trueBlock, falseBlock Node, loc SourceLoc) *Selection {
	switch cond.Type().Basic {
	case BasicFloat, BasicInt:
		cond = b.addConversion(OpConstructBool, retyped(cond.Type(), BasicBool), cond)
	}

	node := &Selection{Cond: cond, TrueBlock: trueBlock, FalseBlock: falseBlock}
	node.SetLoc(loc)
	return node
}

// AddTernary builds a ?: expression. The condition is truth-tested to
// bool; the branch with the less precise basic type (bool < int <
// float) is promoted toward the other, trying the reverse direction if
// that fails. A vector condition broadcasts scalar branches to vectors
// of its size. Returns nil when the branches cannot be unified.
func (b *Builder) AddTernary(cond, trueBlock, falseBlock Typed, loc SourceLoc) Typed {
	if cond == nil || trueBlock == nil || falseBlock == nil {
		return nil
	}
	if cond.Type().Basic != BasicBool {
		cond = b.addConversion(OpConstructBool, retyped(cond.Type(), BasicBool), cond)
		if cond == nil {
			return nil
		}
	}

	// Promote toward the branch with the more precise basic type.
	promoteFromTrue := true
	switch trueBlock.Type().Basic {
	case BasicBool:
		if falseBlock.Type().Basic == BasicInt || falseBlock.Type().Basic == BasicFloat {
			promoteFromTrue = false
		}
	case BasicInt:
		if falseBlock.Type().Basic == BasicFloat {
			promoteFromTrue = false
		}
	}

	if promoteFromTrue {
		if child := b.addConversion(OpSequence, trueBlock.Type(), falseBlock); child != nil {
			falseBlock = child
		} else if child := b.addConversion(OpSequence, falseBlock.Type(), trueBlock); child != nil {
			trueBlock = child
		} else {
			return nil
		}
	} else {
		if child := b.addConversion(OpSequence, falseBlock.Type(), trueBlock); child != nil {
			trueBlock = child
		} else if child := b.addConversion(OpSequence, trueBlock.Type(), falseBlock); child != nil {
			falseBlock = child
		} else {
			return nil
		}
	}

	node := &Selection{Cond: cond, TrueBlock: trueBlock, FalseBlock: falseBlock}
	node.SetType(trueBlock.Type())
	node.SetLoc(loc)
	if !node.promoteTernary(b.sink) {
		return nil
	}
	return node
}

// AddComma chains two expressions with the comma operator. Two const
// operands collapse to the right one; otherwise the result is a comma
// aggregate typed as a temporary of the right operand's type.
func (b *Builder) AddComma(left, right Typed, loc SourceLoc) Typed {
	if left.Type().Qualifier == QualConst && right.Type().Qualifier == QualConst {
		return right
	}

	agg := b.GrowAggregate(left, right, loc)
	agg.Op = OpComma
	t := right.Type()
	t.Qualifier = QualTemporary
	agg.SetType(t)
	return agg
}

// AddConstant adds a constant terminal node of the given type. Cells
// are set through the node's SetFloat, SetInt and SetBool methods.
func (b *Builder) AddConstant(typ Type, loc SourceLoc) *Constant {
	node := &Constant{}
	node.SetType(typ)
	node.SetLoc(loc)
	return node
}

// SwizzleFields lists the selected component offsets of a swizzle.
type SwizzleFields struct {
	Offsets [4]int
	Num     int
}

// AddSwizzle builds the index sequence of a swizzle: an aggregate of
// const int constants enumerating the selected components. The
// enclosing index node consumes it.
func (b *Builder) AddSwizzle(fields SwizzleFields, loc SourceLoc) *Aggregate {
	node := &Aggregate{Op: OpSequence}
	node.SetLoc(loc)

	for i := 0; i < fields.Num; i++ {
		constant := b.AddConstant(Type{Basic: BasicInt, Qualifier: QualConst, Size: 1}, loc)
		constant.SetInt(0, int32(fields.Offsets[i]))
		node.Children = append(node.Children, constant)
	}
	return node
}

// AddLoop builds a loop statement. A for loop's step expression runs at
// the end of every iteration, so it is folded into the body: appended
// to an existing sequence, flattened if it is itself an aggregate, or
// wrapped together with a single-statement body into a new sequence.
func (b *Builder) AddLoop(kind LoopKind, cond, step Typed, body Node, loc SourceLoc) *Loop {
	if step != nil {
		if bodyAgg, ok := body.(*Aggregate); ok && bodyAgg.Op == OpSequence {
			if stepAgg, ok := step.(*Aggregate); ok {
				bodyAgg.Children = append(bodyAgg.Children, stepAgg.Children...)
			} else {
				bodyAgg.Children = append(bodyAgg.Children, step)
			}
		} else {
			seq := b.SetAggregateOperator(nil, OpSequence, loc)
			seq.Children = append(seq.Children, body)
			if stepAgg, ok := step.(*Aggregate); ok {
				seq.Children = append(seq.Children, stepAgg.Children...)
			} else {
				seq.Children = append(seq.Children, step)
			}
			body = seq
		}
		step = nil
	}

	node := &Loop{Kind: kind, Cond: cond, Step: step, Body: body}
	node.SetLoc(loc)
	return node
}

// AddBranch builds a control-transfer statement; expr is the value of a
// return and is nil for the other branch kinds.
func (b *Builder) AddBranch(op Operator, expr Typed, loc SourceLoc) *Branch {
	node := &Branch{Op: op, Expr: expr}
	node.SetLoc(loc)
	return node
}

// AddDeclaration declares a variable, optionally with an initializer.
// Returns nil when the initializing assignment cannot be built.
func (b *Builder) AddDeclaration(symbol *Symbol, initializer Typed, loc SourceLoc) *Declaration {
	decl := &Declaration{}
	decl.SetType(symbol.Type())
	decl.SetLoc(loc)

	if initializer == nil {
		decl.Decl = symbol
	} else {
		decl.Decl = b.AddAssign(OpAssign, symbol, initializer, loc)
	}
	if decl.Decl == nil {
		return nil
	}
	return decl
}

// GrowDeclaration appends another declarator to a declaration,
// converting a single declarator into a comma aggregate on first
// growth. Returns nil when the initializing assignment cannot be
// built.
func (b *Builder) GrowDeclaration(decl *Declaration, symbol *Symbol, initializer Typed) *Declaration {
	added := Typed(symbol)
	if initializer != nil {
		added = b.AddAssign(OpAssign, symbol, initializer, symbol.Loc())
		if added == nil {
			return nil
		}
	}

	if agg, ok := decl.Decl.(*Aggregate); ok {
		// Reopen the sequence so GrowAggregate extends it in place.
		agg.Op = OpNull
	} else {
		current := decl.Decl
		decl.Decl = b.MakeAggregate(current, current.Loc())
	}
	grown := b.GrowAggregate(decl.Decl, added, added.Loc())
	grown.Op = OpComma
	decl.Decl = grown
	return decl
}
