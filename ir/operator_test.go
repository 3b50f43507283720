package ir

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestModifiesState(t *testing.T) {
	modifying := []Operator{
		OpPostIncrement, OpPostDecrement, OpPreIncrement, OpPreDecrement,
		OpAssign, OpAddAssign, OpSubAssign, OpMulAssign,
		OpVectorTimesMatrixAssign, OpVectorTimesScalarAssign,
		OpMatrixTimesScalarAssign, OpMatrixTimesMatrixAssign,
		OpDivAssign, OpModAssign, OpAndAssign, OpInclusiveOrAssign,
		OpExclusiveOrAssign, OpLeftShiftAssign, OpRightShiftAssign,
	}
	for _, op := range modifying {
		if !op.ModifiesState() {
			t.Errorf("%v.ModifiesState() = false, want true", op)
		}
	}

	preserving := []Operator{
		OpAdd, OpMul, OpEqual, OpLogicalAnd, OpFunctionCall, OpSequence,
		OpConstructFloat, OpNegative, OpIndexDirect,
	}
	for _, op := range preserving {
		if op.ModifiesState() {
			t.Errorf("%v.ModifiesState() = true, want false", op)
		}
	}
}

func TestIsConstructor(t *testing.T) {
	constructors := []Operator{
		OpConstructInt, OpConstructBool, OpConstructFloat,
		OpConstructVec2, OpConstructVec3, OpConstructVec4,
		OpConstructBVec2, OpConstructBVec3, OpConstructBVec4,
		OpConstructIVec2, OpConstructIVec3, OpConstructIVec4,
		OpConstructMat2, OpConstructMat3, OpConstructMat4,
		OpConstructStruct,
	}
	for _, op := range constructors {
		if !op.IsConstructor() {
			t.Errorf("%v.IsConstructor() = false, want true", op)
		}
	}

	if OpAdd.IsConstructor() || OpAssign.IsConstructor() || OpConvIntToFloat.IsConstructor() {
		t.Error("non-constructor operator classified as constructor")
	}
}

func TestIsAssignment(t *testing.T) {
	be.True(t, OpAssign.IsAssignment())
	be.True(t, OpMulAssign.IsAssignment())
	be.True(t, OpRightShiftAssign.IsAssignment())
	be.True(t, !OpAdd.IsAssignment())
	be.True(t, !OpPreIncrement.IsAssignment())
	be.True(t, !OpEqual.IsAssignment())
}

func TestVectorConstructor(t *testing.T) {
	tests := []struct {
		name  string
		basic BasicType
		size  uint8
		want  Operator
	}{
		{"vec2", BasicFloat, 2, OpConstructVec2},
		{"vec4", BasicFloat, 4, OpConstructVec4},
		{"ivec3", BasicInt, 3, OpConstructIVec3},
		{"bvec2", BasicBool, 2, OpConstructBVec2},
		{"bad size", BasicFloat, 5, OpNull},
		{"bad basic", BasicStruct, 3, OpNull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Equal(t, vectorConstructor(tt.basic, tt.size), tt.want)
		})
	}
}

func TestMatrixConstructors(t *testing.T) {
	be.Equal(t, matrixConstructor(3), OpConstructMat3)
	be.Equal(t, matrixDownConstructor(2), OpConstructMat2FromMat)
	be.Equal(t, matrixDownConstructor(3), OpConstructMat3FromMat)
	// Narrowing to order 4 never happens; the plain constructor stands in.
	be.Equal(t, matrixDownConstructor(4), OpConstructMat4)
}

func TestOperatorString(t *testing.T) {
	be.Equal(t, OpAdd.String(), "add")
	be.Equal(t, OpMatrixTimesVector.String(), "matrix-times-vector")
	be.Equal(t, OpConstructMat2FromMat.String(), "construct-mat2-from-mat")
	be.Equal(t, Operator(250).String(), "unknown")
}
