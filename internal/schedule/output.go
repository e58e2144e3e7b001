package schedule

import (
	"strings"

	"github.com/rcliao/simdeck/internal/diag"
	"github.com/rcliao/simdeck/internal/dynstate"
)

// outputState is the RFT or PLT flag of a well. Requests either fire at
// once and revert at the next step, repeat until switched off, or wait for
// the next time the well opens.
type outputState struct {
	active      *dynstate.State[bool]
	pendingOpen bool
}

func newOutputState() *outputState {
	return &outputState{active: dynstate.New(false)}
}

func (o *outputState) once(step int) {
	o.active.Set(step, true)
	o.active.Set(step+1, false)
}

func (o *outputState) repeat(step int) {
	o.active.Set(step, true)
	if o.active.Changed(step + 1) {
		o.active.Set(step+1, true)
	}
}

func (o *outputState) off(step int) {
	o.active.Set(step, false)
	o.pendingOpen = false
}

func (o *outputState) opened(step int) {
	if o.pendingOpen {
		o.pendingOpen = false
		o.once(step)
	}
}

// apply handles one WRFTPLT output setting. FOPN fires at once for a well
// that is open and otherwise waits for the next transition to open.
func (o *outputState) apply(step int, setting string, open bool) error {
	switch strings.ToUpper(setting) {
	case "NO":
		o.off(step)
	case "YES":
		o.once(step)
	case "REPT", "TIMESTEP":
		o.repeat(step)
	case "FOPN":
		if open {
			o.once(step)
		} else {
			o.pendingOpen = true
		}
	default:
		return diag.Format(diag.Semantic, diag.CodeInvalidValue, "unknown output setting %q", setting)
	}
	return nil
}
