package wheelkore

import (
	"runtime"
	"strings"
)

const (
	ExtDLL = ".dll"
	ExtSO  = ".so"
)

// Target is the platform a shared library is built for.
type Target struct {
	GOOS, GOARCH string
	Name         string // File name of the library: prefix + Ext
	Ext          string
}

// TargetFor selects the library file name for goos. Windows gets a DLL, every
// other OS gets a shared object. Darwin also uses ".so" because the library is
// loaded dynamically by file name and not linked against.
func TargetFor(goos, goarch, libPrefix string) Target {
	t := Target{GOOS: goos, GOARCH: goarch, Ext: ExtSO}
	if isWindows(goos) {
		t.Ext = ExtDLL
	}
	t.Name = libPrefix + t.Ext
	return t
}

func HostTarget(libPrefix string) Target {
	return TargetFor(runtime.GOOS, runtime.GOARCH, libPrefix)
}

func (t Target) IsLinux() bool { return t.GOOS == "linux" }

func (t Target) String() string {
	return t.GOOS + "/" + t.GOARCH + ":" + t.Name
}

func isWindows(goos string) bool {
	return strings.HasPrefix(strings.ToLower(goos), "win")
}
