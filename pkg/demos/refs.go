package demos

import (
	"fmt"
	"strconv"

	"github.com/vango-dev/hooks/pkg/hooks"
)

// RenderCountView is the output of RenderCounter.
type RenderCountView struct {
	Text string

	// Commits is the number of renders committed before this one.
	Commits int

	// RefClicks is the click ref as read by this render.
	RefClicks int

	SetText  func(text string)
	ClickRef func()
}

func (v RenderCountView) String() string {
	return fmt.Sprintf("text=%q commits=%d refClicks=%d", v.Text, v.Commits, v.RefClicks)
}

// RenderCounter counts its commits in a ref from an effect with no
// dependency tuple. ClickRef bumps another ref, which never re-renders:
// the new count shows up on the next unrelated render.
func RenderCounter(in *hooks.Instance) any {
	text, setText := hooks.UseState(in, "")
	commits := hooks.UseRef(in, 0)
	clicks := hooks.UseRef(in, 0)

	hooks.UseEffect(in, func() hooks.Cleanup {
		commits.Set(commits.Current() + 1)
		return nil
	}, nil)

	return RenderCountView{
		Text:      text,
		Commits:   commits.Current(),
		RefClicks: clicks.Current(),
		SetText:   func(t string) { setText.Set(t) },
		ClickRef:  func() { clicks.Set(clicks.Current() + 1) },
	}
}

// PreviousView is the output of PreviousValue.
type PreviousView struct {
	Count    int
	Previous *int

	Increment func()
	Decrement func()
}

func (v PreviousView) String() string {
	prev := "N/A"
	if v.Previous != nil {
		prev = strconv.Itoa(*v.Previous)
	}
	return fmt.Sprintf("count=%d previous=%s", v.Count, prev)
}

// PreviousValue shows the count of the previous commit, kept in a ref that
// an effect updates after every commit.
func PreviousValue(in *hooks.Instance) any {
	count, setCount := hooks.UseState(in, 0)
	prev := hooks.UseRef[*int](in, nil)
	previous := prev.Current()

	hooks.UseEffect(in, func() hooks.Cleanup {
		c := count
		prev.Set(&c)
		return nil
	}, nil)

	return PreviousView{
		Count:     count,
		Previous:  previous,
		Increment: func() { setCount.Update(func(c int) int { return c + 1 }) },
		Decrement: func() { setCount.Update(func(c int) int { return c - 1 }) },
	}
}
