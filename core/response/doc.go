// Package response turns a gateway reply body into a single answer text.
//
// The gateway routes each request to a different inference backend, and
// each backend shapes its reply differently. [Matchers] lists one matcher
// per known shape in a fixed priority order; [Normalize] runs them in that
// order and keeps the first shape found. Bodies that are not valid JSON are
// repaired with jsonrepair before matching.
//
// A body that matches no shape, or whose matched text is blank, is not an
// error: [Normalize] returns a [Miss] whose String form is a diagnostic
// marker the caller can show in place of an answer.
package response
