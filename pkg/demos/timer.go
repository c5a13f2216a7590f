package demos

import (
	"fmt"
	"time"

	"github.com/vango-dev/hooks/pkg/hooks"
)

// TimerProps configures Timer.
type TimerProps struct {
	Clock Clock
	Tick  time.Duration
}

// TimerView is the output of Timer.
type TimerView struct {
	Seconds int
	Running bool

	Toggle func()
	Reset  func()
}

// Display formats the elapsed time as mm:ss.
func (v TimerView) Display() string {
	return fmt.Sprintf("%02d:%02d", v.Seconds/60, v.Seconds%60)
}

func (v TimerView) String() string {
	state := "paused"
	if v.Running {
		state = "running"
	}
	return v.Display() + " " + state
}

// Timer counts ticks while running. The interval lives in an effect keyed
// on the running flag; its cleanup stops the interval when the timer is
// paused, reset or unmounted.
func Timer(in *hooks.Instance) any {
	props := hooks.PropsAs[TimerProps](in)
	seconds, setSeconds := hooks.UseState(in, 0)
	running, setRunning := hooks.UseState(in, false)

	hooks.UseEffect(in, func() hooks.Cleanup {
		if !running {
			return nil
		}
		return props.Clock.Every(props.Tick, func() {
			setSeconds.Update(func(s int) int { return s + 1 })
		})
	}, hooks.On(running))

	return TimerView{
		Seconds: seconds,
		Running: running,
		Toggle: func() {
			setRunning.Update(func(r bool) bool { return !r })
		},
		Reset: func() {
			setSeconds.Set(0)
			setRunning.Set(false)
		},
	}
}
