package wheelkore

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
)

// Env is the environment external commands of the hook run in: standard I/O
// and the process environment variables. Sub environments inherit the
// variables of their parent and may override or delete them.
type Env struct {
	In       io.Reader
	Out, Err io.Writer

	vars    map[string]string
	delv    map[string]bool
	xenv    []string
	xenvErr error
	parent  *Env
}

// DefaultEnv uses the process's standard I/O and environment. CGO is always
// enabled because c-shared builds need it.
func DefaultEnv(tr *Trace) *Env {
	env := &Env{
		In:   os.Stdin,
		Out:  os.Stdout,
		Err:  os.Stderr,
		vars: make(map[string]string),
	}
	for _, evar := range os.Environ() {
		k, v, _ := strings.Cut(evar, "=")
		if k == "" {
			if tr != nil {
				tr.Debug("ignoring default `env`", `env`, evar)
			}
			continue
		}
		env.vars[k] = v
	}
	env.vars["CGO_ENABLED"] = "1"
	return env
}

func (e *Env) Sub() *Env {
	return &Env{
		In: e.In, Out: e.Out, Err: e.Err,
		parent: e,
	}
}

func (e *Env) Var(key string) (string, bool) {
	for e != nil {
		if e.vars != nil {
			if v, ok := e.vars[key]; ok {
				return v, true
			}
		}
		if e.delv != nil && e.delv[key] {
			break
		}
		e = e.parent
	}
	return "", false
}

func (e *Env) SetVar(key, val string) {
	if e.vars == nil {
		e.vars = make(map[string]string)
	}
	e.vars[key] = val
	if e.delv != nil {
		delete(e.delv, key)
	}
	e.clearXEnv()
}

// SetVars sets variables given as "key=value" strings. A string without '='
// sets key to the empty string.
func (e *Env) SetVars(env ...string) {
	for _, evar := range env {
		k, v, _ := strings.Cut(evar, "=")
		e.SetVar(k, v)
	}
}

func (e *Env) SetVarsMap(vars map[string]string) {
	if e.vars == nil {
		e.vars = make(map[string]string)
	}
	maps.Copy(e.vars, vars)
	if e.delv != nil {
		for k := range vars {
			delete(e.delv, k)
		}
	}
	e.clearXEnv()
}

func (e *Env) DelVar(key string) {
	delete(e.vars, key)
	if e.parent != nil {
		if e.delv == nil {
			e.delv = make(map[string]bool)
		}
		e.delv[key] = true
	}
	e.clearXEnv()
}

type NonXEnvKeys []string

func (e NonXEnvKeys) Error() string {
	return fmt.Sprintf("illegal exec env keys: %s", strings.Join(e, ", "))
}

func (NonXEnvKeys) Is(target error) bool {
	_, ok := target.(NonXEnvKeys)
	return ok
}

// ExecEnv returns the variables in the form used by [os/exec.Cmd.Env], sorted
// by key. Keys that cannot be passed to a process are reported with a
// NonXEnvKeys error while all other variables are still returned.
func (e *Env) ExecEnv() ([]string, error) {
	if e.xenv == nil {
		var errKeys []string
		vars := e.mergedVars()
		keys := slices.Sorted(maps.Keys(vars))
		e.xenv = make([]string, 0, len(keys))
		for _, k := range keys {
			switch {
			case k == "":
				errKeys = append(errKeys, `""`)
			case strings.ContainsRune(k, '='):
				errKeys = append(errKeys, k)
			default:
				e.xenv = append(e.xenv, k+"="+vars[k])
			}
		}
		if len(errKeys) > 0 {
			e.xenvErr = NonXEnvKeys(errKeys)
		}
	}
	return e.xenv, e.xenvErr
}

func (e *Env) clearXEnv() {
	e.xenv = nil
	e.xenvErr = nil
}

func (e *Env) mergedVars() map[string]string {
	if e.parent == nil {
		if e.vars == nil {
			return make(map[string]string)
		}
		return maps.Clone(e.vars)
	}
	mvs := e.parent.mergedVars()
	for k := range e.delv {
		delete(mvs, k)
	}
	maps.Copy(mvs, e.vars)
	return mvs
}
