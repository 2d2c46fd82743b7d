// Package wheelkore implements the core model of wheelmk: the [Target] a
// shared library is built for, the [Env] external commands run in, the [Trace]
// that follows the hook through its [Stage]s and the [BuildData] that is
// exchanged with the packaging frontend. The pipeline itself is implemented by
// the [wheelmk] package.
//
// [wheelmk]: https://pkg.go.dev/git.fractalqb.de/fractalqb/wheelmk
package wheelkore
