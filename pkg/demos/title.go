package demos

import (
	"fmt"
	"sync"

	"github.com/vango-dev/hooks/pkg/hooks"
)

// Document stands in for the page title two effects compete over.
type Document struct {
	mu      sync.Mutex
	title   string
	changes []string
}

// NewDocument returns a document with the given title.
func NewDocument(title string) *Document {
	return &Document{title: title}
}

// SetTitle replaces the title and records the change.
func (d *Document) SetTitle(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.title = title
	d.changes = append(d.changes, title)
}

// Title returns the current title.
func (d *Document) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.title
}

// Changes returns every title set so far, oldest first.
func (d *Document) Changes() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.changes...)
}

// TitleView is the output of DocumentTitle.
type TitleView struct {
	Title string
	Count int

	SetTitle  func(title string)
	Increment func()
	Decrement func()
}

func (v TitleView) String() string {
	return fmt.Sprintf("title=%q count=%d", v.Title, v.Count)
}

// DocumentTitle writes its document's title from two effects: one keyed on
// the title text, one on the count. Only the effect whose dependency changed
// runs, so the last writer wins.
func DocumentTitle(in *hooks.Instance) any {
	doc := hooks.PropsAs[*Document](in)
	title, setTitle := hooks.UseState(in, "Hooks Lab")
	count, setCount := hooks.UseState(in, 0)

	hooks.UseEffect(in, func() hooks.Cleanup {
		doc.SetTitle(title)
		return nil
	}, hooks.On(title))

	hooks.UseEffect(in, func() hooks.Cleanup {
		doc.SetTitle(fmt.Sprintf("Count: %d - Hooks Lab", count))
		return nil
	}, hooks.On(count))

	return TitleView{
		Title:     title,
		Count:     count,
		SetTitle:  func(t string) { setTitle.Set(t) },
		Increment: func() { setCount.Update(func(c int) int { return c + 1 }) },
		Decrement: func() { setCount.Update(func(c int) int { return c - 1 }) },
	}
}
