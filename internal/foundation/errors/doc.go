// Package errors provides the classified error primitives used across sitegen.
//
// Every fatal pipeline failure is surfaced as a ClassifiedError carrying a
// category (which phase family failed), a severity, a retry hint and a
// structured context map (phase, builder, group, file, ...). The CLI adapter
// turns categories into process exit codes so a failed or incomplete build is
// never reported as a success.
//
// Example usage:
//
//	err := errors.BuilderDataError("builder data step failed").
//		WithCause(cause).
//		WithContext(errors.KeyBuilder, "markdown").
//		WithContext(errors.KeyGroup, "*.md").
//		Build()
package errors
