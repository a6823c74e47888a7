package scenario

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Script is a compiled zoom profile. The script reads the global `t`
// (simulated seconds) and must assign the global `zoom`.
type Script struct {
	compiled *tengo.Compiled
}

func CompileScript(src string) (*Script, error) {
	script := tengo.NewScript([]byte(src))
	_ = script.Add("t", 0.0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("scenario: compile zoom script: %w", err)
	}
	return &Script{compiled: compiled}, nil
}

// Eval runs the script for one point in time and returns the zoom factor
// it produced. Not safe for concurrent use; each goroutine compiles its
// own Script.
func (s *Script) Eval(t float64) (float64, error) {
	if err := s.compiled.Set("t", t); err != nil {
		return 0, fmt.Errorf("scenario: set script time: %w", err)
	}
	if err := s.compiled.Run(); err != nil {
		return 0, fmt.Errorf("scenario: run zoom script: %w", err)
	}
	if !s.compiled.IsDefined("zoom") {
		return 0, fmt.Errorf("scenario: zoom script assigned no zoom value")
	}
	return s.compiled.Get("zoom").Float(), nil
}
