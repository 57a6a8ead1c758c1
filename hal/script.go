package hal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ScriptOp selects what a ScriptStep does.
type ScriptOp uint8

const (
	ScriptPress ScriptOp = iota + 1
	ScriptWait
	ScriptTurn
)

// ScriptStep is one action of a scripted input session.
type ScriptStep struct {
	Op    ScriptOp
	Line  int // Pad index (PadUp..PadRight) for ScriptPress.
	Hold  time.Duration
	Steps int // encoder steps for ScriptTurn.
}

// DefaultScriptHold is how long a press is held when the script omits it.
const DefaultScriptHold = 60 * time.Millisecond

// ParseScript parses a comma-separated input script.
//
//	U, D, L, R        press a pad button for DefaultScriptHold
//	R:120             press Right for 120ms
//	W:500             wait 500ms
//	E+3, E-2          turn the encoder
//
// Whitespace around steps is ignored.
func ParseScript(s string) ([]ScriptStep, error) {
	var out []ScriptStep
	for _, raw := range strings.Split(s, ",") {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			continue
		}
		step, err := parseScriptStep(tok)
		if err != nil {
			return nil, fmt.Errorf("script: %q: %w", tok, err)
		}
		out = append(out, step)
	}
	return out, nil
}

func parseScriptStep(tok string) (ScriptStep, error) {
	head := strings.ToUpper(tok[:1])
	rest := tok[1:]

	if head == "E" {
		n, err := strconv.Atoi(rest)
		if err != nil {
			return ScriptStep{}, fmt.Errorf("encoder steps: %w", err)
		}
		return ScriptStep{Op: ScriptTurn, Steps: n}, nil
	}

	var d time.Duration
	switch {
	case rest == "":
	case strings.HasPrefix(rest, ":"):
		ms, err := strconv.Atoi(rest[1:])
		if err != nil {
			return ScriptStep{}, fmt.Errorf("duration: %w", err)
		}
		if ms < 0 {
			return ScriptStep{}, fmt.Errorf("negative duration")
		}
		d = time.Duration(ms) * time.Millisecond
	default:
		return ScriptStep{}, fmt.Errorf("unexpected %q", rest)
	}

	if head == "W" {
		if d == 0 {
			return ScriptStep{}, fmt.Errorf("wait needs a duration")
		}
		return ScriptStep{Op: ScriptWait, Hold: d}, nil
	}

	line, ok := map[string]int{"U": PadUp, "D": PadDown, "L": PadLeft, "R": PadRight}[head]
	if !ok {
		return ScriptStep{}, fmt.Errorf("unknown step")
	}
	if d == 0 {
		d = DefaultScriptHold
	}
	return ScriptStep{Op: ScriptPress, Line: line, Hold: d}, nil
}
