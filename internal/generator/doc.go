// Package generator is the dispatch core of a site build.
//
// A Generator discovers source files, routes each file to a group keyed by
// the first matching builder pattern, lets every builder of every group
// contribute to a shared BuildContext, clears the output directory and
// finally asks each builder to render its group with the final context.
//
// Phases run strictly in order on the calling goroutine:
//
//	discover -> assemble -> data -> prepare_output -> build
//
// Any phase error aborts the build. A failure during build leaves a partially
// written output directory and is reported as an incomplete build.
package generator
