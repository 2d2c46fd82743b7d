package wheelkore

import "context"

// An Operation is something the hook does by running an external command or
// by changing the file system.
type Operation interface {
	// The env is optional
	Describe(envHint *Env) string
	Do(ctx context.Context, tr *Trace, env *Env) error
}
