// Package errors provides structured error types for the comptr library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the foreign interface type and IID involved, a detail
// message and an optional cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseQuery, errors.KindUnsupported).
//		Interface("*IStream").
//		IID("{0000000C-0000-0000-C000-000000000046}").
//		Detail("interface type is not pointer-shaped").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NilPointer(errors.PhaseCreate, "*IStream", iid)
//	err := errors.Released(errors.PhaseClone, "*IStream")
//
// All errors implement the standard error interface and support errors.Is/As.
// Foreign status codes are never wrapped in an Error; they are returned to
// callers as-is.
package errors
