// Package ir builds the typed intermediate representation for the
// HLSL to GLSL translator.
//
// The package is the subsystem the parser drives while reducing grammar
// productions. A Builder constructs the node graph, checks operand-type
// compatibility, inserts the implicit conversions HLSL semantics demand,
// rewrites operations that have no direct GLSL counterpart into helper
// calls, and assigns a final type to every expression node.
//
// # Structure
//
// The tree is a closed set of node variants:
//
//	Symbol | Constant | Unary | Binary | Aggregate | Selection | Loop | Branch | Declaration
//
// all implementing Node; expression nodes also implement Typed. The
// parser obtains nodes exclusively through Builder methods and owns the
// resulting tree until it hands it to Builder.Remove.
//
// # Non-square matrices
//
// GLSL (the targeted dialect) has no non-square matrix types. A type
// such as float3x4 is carried as a struct of column vectors, and binary
// operations on it are rewritten into calls to the __mulComp, __addComp,
// __divComp and __subComp helpers which the emitter later synthesizes.
//
// # Failure model
//
// A builder method that cannot legally combine its operands returns nil;
// the parser reports a localized error and decides whether to continue.
// Conditions the pre-checks should have made unreachable are pushed to
// the diagnostic Sink as internal errors.
package ir
