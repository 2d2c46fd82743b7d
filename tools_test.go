package wheelmk

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"git.fractalqb.de/fractalqb/testerr"
	"git.fractalqb.de/fractalqb/wheelmk/wheelkore"
)

// fakeTool writes an executable shell script that stands in for an external
// tool.
func fakeTool(t *testing.T, name, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}
	exe := filepath.Join(t.TempDir(), name)
	testerr.Shall(os.WriteFile(exe, []byte("#!/bin/sh\n"+script), 0o755)).BeNil(t)
	return exe
}

// fakeGo writes the file given with -o and the C header next to it. Its
// arguments are written to the file named by $FAKE_GO_ARGS if set.
const fakeGo = `out=""
[ -n "$FAKE_GO_ARGS" ] && echo "$@" > "$FAKE_GO_ARGS"
while [ $# -gt 0 ]; do
	if [ "$1" = "-o" ]; then out="$2"; shift; fi
	shift
done
[ -n "$out" ] || exit 2
printf 'compiled' > "$out"
printf '/* header */' > "${out%.*}.h"
`

const failingGo = `echo "main.go:1:1: expected 'package'" >&2
exit 1
`

func testEnv(t *testing.T, tr *wheelkore.Trace) (env *wheelkore.Env, out *bytes.Buffer) {
	env = wheelkore.DefaultEnv(tr)
	out = new(bytes.Buffer)
	env.In = nil
	env.Out = out
	env.Err = out
	t.Cleanup(func() {
		if out.Len() > 0 {
			t.Logf("tool output:\n%s", out)
		}
	})
	return env, out
}
