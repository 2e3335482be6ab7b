package planner

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// EvaluateStopCondition 以 confidence 与 evidence_sources 为变量求值停止条件。
// 结果仅用于记录
func EvaluateStopCondition(cond string, confidence float64, sources int) (bool, error) {
	env := map[string]any{
		"confidence":       confidence,
		"evidence_sources": sources,
	}
	program, err := expr.Compile(cond, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("compile stop condition %q: %w", cond, err)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("run stop condition %q: %w", cond, err)
	}
	met, _ := out.(bool)
	return met, nil
}
