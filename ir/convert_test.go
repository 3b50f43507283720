package ir

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestConversionIdentity(t *testing.T) {
	b, _ := testBuilder(t)
	node := sym(b, "x", vecType(3))

	got := b.addConversion(OpAssign, vecType(3), node)
	if got != Typed(node) {
		t.Fatal("conversion to identical type must return the node unchanged")
	}
}

func TestConversionSameBasicType(t *testing.T) {
	// Shape differences are promotion's job; only the basic type drives
	// conversion.
	b, _ := testBuilder(t)
	node := sym(b, "x", floatType())

	got := b.addConversion(OpAssign, vecType(4), node)
	if got != Typed(node) {
		t.Fatal("same basic type must pass through without a conversion node")
	}
}

func TestConversionRejections(t *testing.T) {
	tests := []struct {
		name   string
		target Type
		source Type
	}{
		{"void source", floatType(), Type{Basic: BasicVoid, Size: 1}},
		{"sampler source", floatType(), Type{Basic: BasicSampler2D, Size: 1}},
		{"shadow sampler source", floatType(), Type{Basic: BasicSampler2DShadow, Size: 1}},
		{"struct target", NonSquareMatrixType(3, 4, PrecUndefined), intScalarType()},
		{"struct source", floatType(), Type{Basic: BasicStruct, Size: 1, TypeName: "s"}},
		{"array target", arrayOf(floatType(), 4), intScalarType()},
		{"array source", floatType(), arrayOf(intScalarType(), 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := testBuilder(t)
			node := sym(b, "x", tt.source)
			if got := b.addConversion(OpAssign, tt.target, node); got != nil {
				t.Errorf("addConversion() = %v, want nil", got)
			}
		})
	}
}

func TestConversionBuildsUnary(t *testing.T) {
	tests := []struct {
		name   string
		op     Operator
		target Type
		source Type
		wantOp Operator
	}{
		{"implicit int to float", OpAdd, floatType(), intScalarType(), OpConvIntToFloat},
		{"implicit bool to float", OpAdd, floatType(), boolScalarType(), OpConvBoolToFloat},
		{"implicit float to int", OpAssign, intScalarType(), floatType(), OpConvFloatToInt},
		{"implicit bool to int", OpAssign, intScalarType(), boolScalarType(), OpConvBoolToInt},
		{"explicit bool construct", OpConstructBool, boolScalarType(), intScalarType(), OpConvIntToBool},
		{"explicit bool from float", OpConstructBool, boolScalarType(), floatType(), OpConvFloatToBool},
		{"explicit int construct", OpConstructInt, intScalarType(), floatType(), OpConvFloatToInt},
		{"explicit float construct", OpConstructFloat, floatType(), boolScalarType(), OpConvBoolToFloat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, sink := testBuilder(t)
			node := sym(b, "x", tt.source)

			got := b.addConversion(tt.op, tt.target, node)
			if got == nil {
				t.Fatal("addConversion() = nil")
			}
			conv, ok := got.(*Unary)
			if !ok {
				t.Fatalf("addConversion() = %T, want *Unary", got)
			}
			be.Equal(t, conv.Op, tt.wantOp)
			be.Equal(t, conv.Type().Basic, tt.target.Basic)
			be.Equal(t, conv.Type().Qualifier, QualTemporary)
			if conv.Operand != Typed(node) {
				t.Error("conversion must wrap the original node")
			}
			be.Equal(t, sink.Count(), 0)
		})
	}
}

func TestConversionPreservesShape(t *testing.T) {
	shapes := []Type{
		vecType(3),
		matType(4),
		{Basic: BasicFloat, Size: 2},
	}
	for _, src := range shapes {
		b, _ := testBuilder(t)
		node := sym(b, "x", src)
		got := b.addConversion(OpConstructBool, retyped(src, BasicBool), node)
		if got == nil {
			t.Fatalf("addConversion(%v) = nil", src)
		}
		be.Equal(t, got.Type().Size, src.Size)
		be.Equal(t, got.Type().Matrix, src.Matrix)
		be.Equal(t, got.Type().Array, src.Array)
		be.Equal(t, got.Type().Precision, src.Precision)
	}
}

func TestConstantFolding(t *testing.T) {
	b, _ := testBuilder(t)

	t.Run("int to float", func(t *testing.T) {
		c := b.AddConstant(intScalarType(), testLoc(1))
		c.SetInt(0, 7)
		got := b.addConversion(OpAdd, floatType(), c)
		folded, ok := got.(*Constant)
		if !ok {
			t.Fatalf("got %T, want folded *Constant", got)
		}
		be.Equal(t, folded.Type().Basic, BasicFloat)
		be.Equal(t, folded.Value(0).Float, float32(7))
	})

	t.Run("float to int truncates", func(t *testing.T) {
		c := b.AddConstant(floatType(), testLoc(1))
		c.SetFloat(0, 3.9)
		got := b.addConversion(OpAssign, intScalarType(), c).(*Constant)
		be.Equal(t, got.Value(0).Int, int32(3))
	})

	t.Run("bool to float", func(t *testing.T) {
		c := b.AddConstant(boolScalarType(), testLoc(1))
		c.SetBool(0, true)
		got := b.addConversion(OpAdd, floatType(), c).(*Constant)
		be.Equal(t, got.Value(0).Float, float32(1))
	})

	t.Run("float to bool truth tests", func(t *testing.T) {
		c := b.AddConstant(vecType(2), testLoc(1))
		c.SetFloat(0, 0)
		c.SetFloat(1, 2.5)
		got := b.addConversion(OpConstructBool, Type{Basic: BasicBool, Size: 2}, c).(*Constant)
		be.Equal(t, got.Type().Size, uint8(2))
		be.Equal(t, got.Value(0).Bool, false)
		be.Equal(t, got.Value(1).Bool, true)
	})

	t.Run("int to bool to int round trip", func(t *testing.T) {
		c := b.AddConstant(intScalarType(), testLoc(1))
		c.SetInt(0, 1)
		asBool := b.addConversion(OpConstructBool, boolScalarType(), c).(*Constant)
		back := b.addConversion(OpConstructInt, intScalarType(), asBool).(*Constant)
		be.Equal(t, back.Value(0).Int, int32(1))
	})

	t.Run("matrix constant keeps every cell", func(t *testing.T) {
		c := b.AddConstant(Type{Basic: BasicInt, Size: 2, Matrix: true}, testLoc(1))
		for i := 0; i < 4; i++ {
			c.SetInt(i, int32(i+1))
		}
		got := b.addConversion(OpAdd, Type{Basic: BasicFloat, Size: 2, Matrix: true}, c).(*Constant)
		be.Equal(t, got.Count(), 4)
		for i := 0; i < 4; i++ {
			be.Equal(t, got.Value(i).Float, float32(i+1))
		}
	})
}
