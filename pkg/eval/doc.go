// Package eval embeds the Starlark interpreter with the container builtin
// predeclared.
//
// An Evaluator runs scripts with a configurable timeout, converts Go inputs
// into Starlark values and exported globals back into Go values, and logs
// each run under a unique run ID. The Predeclared helper builds the same
// environment for callers that drive the interpreter themselves, such as
// the REPL.
package eval
