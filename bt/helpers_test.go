package bt

import (
	"time"

	"github.com/milk9111/npcbrain/timer"
)

// scripted is a test leaf. It returns script[i] on its i-th tick and
// repeats the last entry once the script runs out.
type scripted struct {
	name   string
	script []Status
	ticks  int
	resets int
	exits  int
	trace  *[]string
}

func newScripted(name string, trace *[]string, script ...Status) *scripted {
	return &scripted{name: name, script: script, trace: trace}
}

func (p *scripted) Tick(*Context) Status {
	p.ticks++
	if p.trace != nil {
		*p.trace = append(*p.trace, p.name)
	}
	if len(p.script) == 0 {
		return Success
	}
	i := p.ticks - 1
	if i >= len(p.script) {
		i = len(p.script) - 1
	}
	return p.script[i]
}

func (p *scripted) Reset(*Context)  { p.resets++ }
func (p *scripted) OnExit(*Context) { p.exits++ }

func newTestContext() (*Context, *timer.ManualClock) {
	clock := timer.NewManualClock(time.Unix(1000, 0))
	return &Context{Clock: clock, DeltaTime: 1.0 / 60}, clock
}
