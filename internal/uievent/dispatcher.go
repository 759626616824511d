// Package uievent is a small, synchronous listener registry for widgets.
//
// Widgets never install ambient global handlers. A host owns one Dispatcher,
// feeds it the pointer/resize/scroll messages it receives, and widgets
// subscribe for as long as they need them (e.g. while a list is open),
// keeping the returned unsubscribe func and calling it on close/teardown.
//
// Everything runs on the bubbletea Update goroutine; there is no locking.
package uievent

import (
	tea "github.com/charmbracelet/bubbletea"
)

type Kind int

const (
	PointerDown Kind = iota
	Resize
	Scroll
)

func (k Kind) String() string {
	switch k {
	case PointerDown:
		return "pointerdown"
	case Resize:
		return "resize"
	case Scroll:
		return "scroll"
	default:
		return "unknown"
	}
}

type Event struct {
	Kind Kind

	// X, Y are the pointer cell for PointerDown and Scroll.
	X, Y int

	// Width, Height are the new viewport size for Resize.
	Width, Height int

	// Delta is the wheel direction for Scroll (-1 up, +1 down).
	Delta int
}

type Handler func(Event)

type subscription struct {
	id int
	fn Handler
}

type Dispatcher struct {
	nextID int
	subs   map[Kind][]subscription
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{subs: map[Kind][]subscription{}}
}

// Subscribe registers fn for events of kind and returns its unsubscribe func.
// Unsubscribing twice is harmless. A nil Dispatcher accepts subscriptions and
// never calls them.
func (d *Dispatcher) Subscribe(kind Kind, fn Handler) func() {
	if d == nil || fn == nil {
		return func() {}
	}
	if d.subs == nil {
		d.subs = map[Kind][]subscription{}
	}
	d.nextID++
	id := d.nextID
	d.subs[kind] = append(d.subs[kind], subscription{id: id, fn: fn})

	done := false
	return func() {
		if done {
			return
		}
		done = true
		list := d.subs[kind]
		for i := range list {
			if list[i].id == id {
				d.subs[kind] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if len(d.subs[kind]) == 0 {
			delete(d.subs, kind)
		}
	}
}

// Dispatch calls every handler subscribed to ev.Kind, in subscription order.
// Handlers may unsubscribe themselves (or others) while being dispatched.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	list := d.subs[ev.Kind]
	if len(list) == 0 {
		return
	}
	snapshot := make([]subscription, len(list))
	copy(snapshot, list)
	for _, s := range snapshot {
		if !d.subscribed(ev.Kind, s.id) {
			continue
		}
		s.fn(ev)
	}
}

func (d *Dispatcher) subscribed(kind Kind, id int) bool {
	for _, s := range d.subs[kind] {
		if s.id == id {
			return true
		}
	}
	return false
}

// Count reports how many handlers are subscribed to kind.
func (d *Dispatcher) Count(kind Kind) int {
	if d == nil {
		return 0
	}
	return len(d.subs[kind])
}

// FromTea translates a bubbletea message into a dispatcher event.
func FromTea(msg tea.Msg) (Event, bool) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return Event{Kind: Resize, Width: msg.Width, Height: msg.Height}, true
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return Event{Kind: Scroll, X: msg.X, Y: msg.Y, Delta: -1}, true
		case tea.MouseButtonWheelDown:
			return Event{Kind: Scroll, X: msg.X, Y: msg.Y, Delta: 1}, true
		}
		if msg.Action == tea.MouseActionPress {
			return Event{Kind: PointerDown, X: msg.X, Y: msg.Y}, true
		}
	}
	return Event{}, false
}
