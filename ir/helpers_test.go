package ir

import "testing"

// testBuilder returns a builder with a capturing sink.
func testBuilder(t *testing.T) (*Builder, *DiagnosticList) {
	t.Helper()
	sink := &DiagnosticList{}
	return NewBuilder(sink), sink
}

func testLoc(line int) SourceLoc {
	return SourceLoc{File: "test.hlsl", Line: line}
}

func floatType() Type         { return Type{Basic: BasicFloat, Size: 1} }
func intScalarType() Type     { return Type{Basic: BasicInt, Size: 1} }
func boolScalarType() Type    { return Type{Basic: BasicBool, Size: 1} }
func vecType(size uint8) Type { return Type{Basic: BasicFloat, Size: size} }
func matType(size uint8) Type { return Type{Basic: BasicFloat, Size: size, Matrix: true} }

func arrayOf(t Type, n int) Type {
	t.Array = true
	t.ArraySize = n
	return t
}

func withPrecision(t Type, p Precision) Type {
	t.Precision = p
	return t
}

var testSymbolID int

func sym(b *Builder, name string, typ Type) *Symbol {
	testSymbolID++
	return b.AddSymbol(testSymbolID, name, nil, typ, testLoc(1))
}
