package wheelkore

import "fmt"

// Stage identifies one step of the build hook pipeline. Stages run in the
// order of their values.
type Stage uint

const (
	StageVersion Stage = iota
	StagePlatform
	StageCompile
	StageRepair
	StageRegister

	stageCount
)

var stageNames = [stageCount]string{
	"version",
	"platform",
	"compile",
	"repair",
	"register",
}

func (s Stage) String() string {
	if s < stageCount {
		return stageNames[s]
	}
	return fmt.Sprintf("stage-%d", uint(s))
}

func Stages() []Stage {
	res := make([]Stage, stageCount)
	for i := range res {
		res[i] = Stage(i)
	}
	return res
}
