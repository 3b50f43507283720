package ir

import (
	"strconv"
	"strings"
)

// BasicType identifies the scalar category of a type.
type BasicType uint8

const (
	BasicVoid BasicType = iota
	BasicBool
	BasicInt
	BasicFloat
	BasicSampler1D
	BasicSampler2D
	BasicSampler3D
	BasicSamplerCube
	BasicSampler1DShadow
	BasicSampler2DShadow
	BasicSamplerRect       // ARB_texture_rectangle
	BasicSamplerRectShadow // ARB_texture_rectangle
	BasicStruct
)

func (b BasicType) String() string {
	switch b {
	case BasicVoid:
		return "void"
	case BasicBool:
		return "bool"
	case BasicInt:
		return "int"
	case BasicFloat:
		return "float"
	case BasicSampler1D:
		return "sampler1D"
	case BasicSampler2D:
		return "sampler2D"
	case BasicSampler3D:
		return "sampler3D"
	case BasicSamplerCube:
		return "samplerCube"
	case BasicSampler1DShadow:
		return "sampler1DShadow"
	case BasicSampler2DShadow:
		return "sampler2DShadow"
	case BasicSamplerRect:
		return "samplerRect"
	case BasicSamplerRectShadow:
		return "samplerRectShadow"
	case BasicStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// IsSampler reports whether b is one of the sampler kinds.
func (b BasicType) IsSampler() bool {
	switch b {
	case BasicSampler1D, BasicSampler2D, BasicSampler3D, BasicSamplerCube,
		BasicSampler1DShadow, BasicSampler2DShadow,
		BasicSamplerRect, BasicSamplerRectShadow:
		return true
	}
	return false
}

// Precision is the precision qualifier lattice: Undefined < Low <
// Medium < High.
type Precision uint8

const (
	PrecUndefined Precision = iota
	PrecLow
	PrecMedium
	PrecHigh
)

func (p Precision) String() string {
	switch p {
	case PrecLow:
		return "lowp"
	case PrecMedium:
		return "mediump"
	case PrecHigh:
		return "highp"
	default:
		return ""
	}
}

// HigherPrecision returns the more precise of the two.
func HigherPrecision(left, right Precision) Precision {
	if left > right {
		return left
	}
	return right
}

// Qualifier is the storage qualifier of a type.
type Qualifier uint8

const (
	QualTemporary Qualifier = iota
	QualConst
	QualIn
	QualOut
	QualInOut
	QualUniform
	QualAttribute
	QualVarying
	QualGlobal
)

func (q Qualifier) String() string {
	switch q {
	case QualTemporary:
		return "temporary"
	case QualConst:
		return "const"
	case QualIn:
		return "in"
	case QualOut:
		return "out"
	case QualInOut:
		return "inout"
	case QualUniform:
		return "uniform"
	case QualAttribute:
		return "attribute"
	case QualVarying:
		return "varying"
	case QualGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// StructField is one member of a struct type.
type StructField struct {
	Name string
	Type Type
}

// Type describes the type of a value in the tree.
//
// Size is the nominal size: 1 for a scalar, 2-4 for a vector, or the
// order N of an NxN matrix when Matrix is set. Struct types carry their
// member list in Fields and their declared name in TypeName.
type Type struct {
	Basic     BasicType
	Precision Precision
	Qualifier Qualifier
	Size      uint8
	Matrix    bool
	Array     bool
	ArraySize int
	TypeName  string
	Fields    []StructField
}

// IsScalar reports whether t has a single component and is neither a
// matrix nor a struct.
func (t Type) IsScalar() bool {
	return t.Size == 1 && !t.Matrix && t.Basic != BasicStruct
}

// IsVector reports whether t has 2-4 components and is not a matrix.
func (t Type) IsVector() bool {
	return t.Size > 1 && !t.Matrix
}

// IsMatrix reports whether t is a (square) matrix type.
func (t Type) IsMatrix() bool { return t.Matrix }

// IsArray reports whether t is an array type.
func (t Type) IsArray() bool { return t.Array }

// IsStruct reports whether t is a struct type.
func (t Type) IsStruct() bool { return t.Basic == BasicStruct }

// IsNonSquareMatrix reports whether t is the struct-of-column-vectors
// carrier of a matrix whose row and column counts differ. The decision
// is derived from the struct metadata alone: every field must be a float
// vector of one common size, and the field count must differ from that
// size.
func (t Type) IsNonSquareMatrix() bool {
	if t.Basic != BasicStruct || len(t.Fields) < 2 || len(t.Fields) > 4 {
		return false
	}
	rows := t.Fields[0].Type.Size
	if rows < 2 || rows > 4 {
		return false
	}
	for _, f := range t.Fields {
		ft := f.Type
		if !ft.IsVector() || ft.Basic != BasicFloat || ft.Size != rows {
			return false
		}
	}
	return len(t.Fields) != int(rows)
}

// NonSquareMatrixType builds the struct carrier for a cols x rows float
// matrix: a struct named float<cols>x<rows> whose fields are the column
// vectors.
func NonSquareMatrixType(cols, rows uint8, prec Precision) Type {
	fields := make([]StructField, cols)
	for i := range fields {
		fields[i] = StructField{
			Name: "_m" + strconv.Itoa(i),
			Type: Type{Basic: BasicFloat, Precision: prec, Size: rows},
		}
	}
	return Type{
		Basic:     BasicStruct,
		Precision: prec,
		Size:      1,
		TypeName:  "float" + strconv.Itoa(int(cols)) + "x" + strconv.Itoa(int(rows)),
		Fields:    fields,
	}
}

// Equal reports structural equality: basic type, shape and array
// metadata. Precision and storage qualifiers do not participate.
func (t Type) Equal(o Type) bool {
	if t.Basic != o.Basic || t.Size != o.Size || t.Matrix != o.Matrix || t.Array != o.Array {
		return false
	}
	if t.Array && t.ArraySize != o.ArraySize {
		return false
	}
	if t.Basic == BasicStruct {
		if t.TypeName != o.TypeName || len(t.Fields) != len(o.Fields) {
			return false
		}
		for i := range t.Fields {
			if t.Fields[i].Name != o.Fields[i].Name || !t.Fields[i].Type.Equal(o.Fields[i].Type) {
				return false
			}
		}
	}
	return true
}

// Signature returns the compact type signature used to mangle helper
// call names: a basic-type tag, an 'm' for matrices, the nominal size,
// and the array size in brackets.
func (t Type) Signature() string {
	var sb strings.Builder
	switch t.Basic {
	case BasicVoid:
		sb.WriteString("v")
	case BasicBool:
		sb.WriteString("b")
	case BasicInt:
		sb.WriteString("i")
	case BasicFloat:
		sb.WriteString("f")
	case BasicSampler1D:
		sb.WriteString("s1")
	case BasicSampler2D:
		sb.WriteString("s2")
	case BasicSampler3D:
		sb.WriteString("s3")
	case BasicSamplerCube:
		sb.WriteString("sC")
	case BasicSampler1DShadow:
		sb.WriteString("sS1")
	case BasicSampler2DShadow:
		sb.WriteString("sS2")
	case BasicSamplerRect:
		sb.WriteString("sR2")
	case BasicSamplerRectShadow:
		sb.WriteString("sSR2")
	case BasicStruct:
		sb.WriteString("struct-")
		sb.WriteString(t.TypeName)
		sb.WriteString("-")
	}
	if t.Basic != BasicStruct {
		if t.Matrix {
			sb.WriteByte('m')
		}
		sb.WriteByte('0' + t.Size)
	}
	if t.Array {
		sb.WriteByte('[')
		sb.WriteString(strconv.Itoa(t.ArraySize))
		sb.WriteByte(']')
	}
	return sb.String()
}

// String formats t the way the source language spells it, for
// diagnostics and tests.
func (t Type) String() string {
	var sb strings.Builder
	if t.Basic == BasicStruct {
		if t.TypeName != "" {
			sb.WriteString(t.TypeName)
		} else {
			sb.WriteString("struct")
		}
	} else {
		sb.WriteString(t.Basic.String())
		if t.Matrix {
			sb.WriteString(strconv.Itoa(int(t.Size)) + "x" + strconv.Itoa(int(t.Size)))
		} else if t.Size > 1 {
			sb.WriteString(strconv.Itoa(int(t.Size)))
		}
	}
	if t.Array {
		sb.WriteString("[" + strconv.Itoa(t.ArraySize) + "]")
	}
	return sb.String()
}

// retyped returns a copy of t with the basic type replaced, keeping
// precision, qualifier, shape and array metadata.
func retyped(t Type, basic BasicType) Type {
	return Type{
		Basic:     basic,
		Precision: t.Precision,
		Qualifier: t.Qualifier,
		Size:      t.Size,
		Matrix:    t.Matrix,
		Array:     t.Array,
		ArraySize: t.ArraySize,
	}
}

// floatScalarType is the anonymous float the rewriter and the
// conversion paths reach for.
func floatScalarType() Type {
	return Type{Basic: BasicFloat, Size: 1}
}
