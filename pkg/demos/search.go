package demos

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/vango-dev/hooks/pkg/hooks"
)

// RowProps are the props of one ItemRow. OnSelect is a Callback handle, so
// a stable callback keeps the props shallow-equal across parent renders.
type RowProps struct {
	Label    string
	Selected bool
	OnSelect *hooks.Callback[func(label string)]
}

// RowView is the output of ItemRow.
type RowView struct {
	Label    string
	Selected bool
	Renders  int

	Select func()
}

func (v RowView) String() string {
	mark := " "
	if v.Selected {
		mark = "x"
	}
	return fmt.Sprintf("[%s] %s (renders=%d)", mark, v.Label, v.Renders)
}

// ItemRow renders one search result and counts its own renders.
func ItemRow(in *hooks.Instance) any {
	p := hooks.PropsAs[RowProps](in)
	renders := hooks.UseRef(in, 0)
	renders.Set(renders.Current() + 1)

	return RowView{
		Label:    p.Label,
		Selected: p.Selected,
		Renders:  renders.Current(),
		Select: func() {
			if p.OnSelect != nil {
				p.OnSelect.Fn()(p.Label)
			}
		},
	}
}

// SearchProps configures SearchList.
type SearchProps struct {
	Items []string

	// Ungated mounts rows without the props gate, so every parent render
	// re-renders every row.
	Ungated bool
}

// SearchView is the output of SearchList.
type SearchView struct {
	Query    string
	Selected string
	Clicks   int
	Rows     []RowView

	SetQuery func(q string)
	Click    func()
	Select   func(label string)
}

func (v SearchView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "query=%q selected=%q clicks=%d", v.Query, v.Selected, v.Clicks)
	for _, r := range v.Rows {
		b.WriteString("\n  ")
		b.WriteString(r.String())
	}
	return b.String()
}

// SearchList filters its items by a query and renders one ItemRow child per
// match. The filter is memoized on the query and the item slice, and the
// select handler is a stable callback, so unrelated parent state changes
// leave gated rows untouched.
func SearchList(in *hooks.Instance) any {
	props := hooks.PropsAs[SearchProps](in)
	query, setQuery := hooks.UseState(in, "")
	selected, setSelected := hooks.UseState(in, "")
	clicks, setClicks := hooks.UseState(in, 0)
	rows := hooks.UseRef[map[string]*hooks.Instance](in, nil)

	filtered := hooks.UseMemo(in, func() []string {
		q := strings.ToLower(query)
		var out []string
		for _, item := range props.Items {
			if strings.Contains(strings.ToLower(item), q) {
				out = append(out, item)
			}
		}
		return out
	}, hooks.On(query, props.Items))

	onSelect := hooks.UseCallback(in, func(label string) {
		setSelected.Set(label)
	}, hooks.On())

	hooks.UseEffect(in, func() hooks.Cleanup {
		return func() {
			for _, label := range slices.Sorted(maps.Keys(rows.Current())) {
				hooks.Unmount(rows.Current()[label])
			}
		}
	}, hooks.On())

	if rows.Current() == nil {
		rows.Set(make(map[string]*hooks.Instance))
	}
	children := rows.Current()
	sched := in.Scheduler()

	views := make([]RowView, 0, len(filtered))
	keep := make(map[string]bool, len(filtered))
	for _, label := range filtered {
		keep[label] = true
		p := RowProps{Label: label, Selected: label == selected, OnSelect: onSelect}

		row, ok := children[label]
		if !ok {
			opts := []hooks.MountOption{hooks.WithName("ItemRow:" + label)}
			if !props.Ungated {
				opts = append(opts, hooks.Memoized())
			}
			var err error
			if row, err = sched.Mount(ItemRow, p, opts...); err != nil {
				panic(err)
			}
			children[label] = row
		} else if err := sched.Update(row, p); err != nil {
			panic(err)
		}
		views = append(views, row.Output().(RowView))
	}

	for _, label := range slices.Sorted(maps.Keys(children)) {
		if !keep[label] {
			sched.Unmount(children[label])
			delete(children, label)
		}
	}

	return SearchView{
		Query:    query,
		Selected: selected,
		Clicks:   clicks,
		Rows:     views,
		SetQuery: func(q string) { setQuery.Set(q) },
		Click:    func() { setClicks.Update(func(c int) int { return c + 1 }) },
		Select: func(label string) {
			for _, r := range views {
				if r.Label == label {
					r.Select()
					return
				}
			}
		},
	}
}
