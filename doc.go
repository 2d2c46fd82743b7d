// Package wheelmk is a build hook that compiles a Go package into a C shared
// library and registers it as a platform specific file of a Python wheel. The
// library is loaded with ctypes, i.e. it does not depend on a particular Python
// ABI. Therefore the wheel is tagged "py3-none-<platform>".
//
// A [Hook] runs once per wheel build and goes through these stages:
//
//  1. Resolve the version to stamp into the library: the version passed by the
//     frontend, 'git describe', the repository read in-process or the
//     PKG-INFO of an unpacked sdist, whichever is found first.
//  2. Select the library file name for the target OS.
//  3. Run 'go build -buildmode=c-shared'. This is the only stage whose failure
//     fails the build.
//  4. On Linux, let auditwheel repair the library for a manylinux profile.
//  5. Register the library with the frontend's build data and remove the
//     generated C header.
//
// The frontend talks to the hook with the wheelmk command that reads and
// writes the build data as JSON:
//
//	module$ wheelmk --version "$VERSION" --build-data - --output - < build_data.json
package wheelmk
