// Package dropdown implements a searchable dropdown: a text input bound to a
// hidden value, backed by a fixed list of options, with incremental
// filtering, keyboard navigation, single-match auto-selection and
// viewport-aware placement of the option list.
//
// Dropdown is the widget's state machine and has no rendering; Model wraps it
// as a bubbletea component.
package dropdown

import (
	"strings"
	"unicode/utf8"

	"valentine/internal/uievent"

	"go.uber.org/zap"
)

// DefaultListRows is the height of the option list's scroll window.
const DefaultListRows = 8

// listChrome is the number of rows the list border adds around the options.
const listChrome = 2

type Option struct {
	Value string `json:"value" yaml:"value" mapstructure:"value"`
	Label string `json:"label" yaml:"label" mapstructure:"label"`
}

// Change is the notification emitted on every commit.
type Change struct {
	ContainerID string `json:"id"`
	Value       string `json:"value"`
}

type Key int

const (
	KeyOther Key = iota
	KeyDown
	KeyUp
	KeyEnter
	KeyEscape
)

type Config struct {
	// ID identifies the container in change notifications.
	ID string
	// MinChars is the query length (in runes) below which every option stays visible.
	MinChars int
	// Portaled lists are drawn above all sibling content and track the input's
	// screen position while open.
	Portaled bool
	Geometry Geometry
	// ListRows is the number of option rows visible at once.
	ListRows int
	// Placeholder is shown by the input while it is empty.
	Placeholder string

	// Dispatcher delivers outside clicks and resize/scroll events. Optional.
	Dispatcher *uievent.Dispatcher
	// OnChange receives every commit. Optional.
	OnChange func(Change)
	Logger   *zap.Logger
}

type Dropdown struct {
	cfg     Config
	log     *zap.Logger
	options []Option
	hidden  []bool

	text     string
	query    string
	active   int
	selected int
	open     bool
	torn     bool

	scroll   int
	anchor   Rect
	viewport Viewport
	pos      Position

	unsubs []func()
}

// New initializes a dropdown. When initialValue matches an option, that option
// becomes active and committed (without a notification); otherwise nothing is
// active or committed.
func New(cfg Config, options []Option, initialValue string) *Dropdown {
	if cfg.Geometry == (Geometry{}) {
		cfg.Geometry = CellGeometry
	}
	if cfg.ListRows <= 0 {
		cfg.ListRows = DefaultListRows
	}
	// The scroll window never holds more rows than the drawn box shows.
	if fit := cfg.Geometry.MaxHeight - listChrome; cfg.Geometry.MaxHeight > 0 && cfg.ListRows > fit {
		cfg.ListRows = max(fit, 1)
	}
	if cfg.MinChars < 0 {
		cfg.MinChars = 0
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	d := &Dropdown{
		cfg:      cfg,
		log:      log.With(zap.String("dropdown", cfg.ID)),
		options:  append([]Option(nil), options...),
		hidden:   make([]bool, len(options)),
		active:   -1,
		selected: -1,
	}
	for i, o := range d.options {
		if o.Value == initialValue {
			d.active = i
			d.selected = i
			d.text = o.Label
			break
		}
	}
	return d
}

func (d *Dropdown) ID() string { return d.cfg.ID }

func (d *Dropdown) Options() []Option { return append([]Option(nil), d.options...) }

// Text is what the input displays.
func (d *Dropdown) Text() string { return d.text }

// Query is the last filter term.
func (d *Dropdown) Query() string { return d.query }

func (d *Dropdown) ActiveIndex() int   { return d.active }
func (d *Dropdown) SelectedIndex() int { return d.selected }
func (d *Dropdown) IsOpen() bool       { return d.open }
func (d *Dropdown) TornDown() bool     { return d.torn }
func (d *Dropdown) Portaled() bool     { return d.cfg.Portaled }
func (d *Dropdown) ScrollOffset() int  { return d.scroll }
func (d *Dropdown) ListRows() int      { return d.cfg.ListRows }
func (d *Dropdown) Position() Position { return d.pos }
func (d *Dropdown) Anchor() Rect       { return d.anchor }

// Value returns the committed value, if any.
func (d *Dropdown) Value() (string, bool) {
	if d.selected < 0 || d.selected >= len(d.options) {
		return "", false
	}
	return d.options[d.selected].Value, true
}

func (d *Dropdown) Visible(i int) bool {
	return i >= 0 && i < len(d.options) && !d.hidden[i]
}

// VisibleIndices returns the indices of the options not filtered out, in order.
func (d *Dropdown) VisibleIndices() []int {
	out := make([]int, 0, len(d.options))
	for i := range d.options {
		if !d.hidden[i] {
			out = append(out, i)
		}
	}
	return out
}

func (d *Dropdown) VisibleCount() int {
	n := 0
	for i := range d.hidden {
		if !d.hidden[i] {
			n++
		}
	}
	return n
}

// Empty reports whether the "no results" indicator is shown.
func (d *Dropdown) Empty() bool { return d.VisibleCount() == 0 }

// SetAnchor records the input's bounding box. While a portaled list is open the
// list follows it.
func (d *Dropdown) SetAnchor(r Rect) {
	d.anchor = r
	if d.open {
		d.Reposition()
	}
}

func (d *Dropdown) SetViewport(vp Viewport) {
	d.viewport = vp
	if d.open {
		d.Reposition()
	}
}

// Contains reports whether (x, y) is inside the widget: the input, or the list
// while it is open (portaled or not).
func (d *Dropdown) Contains(x, y int) bool {
	if d.anchor.Contains(x, y) {
		return true
	}
	return d.open && d.ListRect().Contains(x, y)
}

// ListRect is the rectangle the open list occupies.
func (d *Dropdown) ListRect() Rect {
	h := d.listHeight()
	if d.pos.MaxHeight > 0 && h > d.pos.MaxHeight {
		h = d.pos.MaxHeight
	}
	return Rect{X: d.pos.Left, Y: d.pos.Top, W: d.pos.Width, H: h}
}

// listHeight is the natural height of the list block, border included. An
// empty list still shows its "no results" row.
func (d *Dropdown) listHeight() int {
	rows := d.VisibleCount()
	if rows < 1 {
		rows = 1
	}
	if rows > d.cfg.ListRows {
		rows = d.cfg.ListRows
	}
	return rows + listChrome
}

func (d *Dropdown) Open() {
	if d.torn || d.open {
		return
	}
	d.open = true

	disp := d.cfg.Dispatcher
	d.unsubs = append(d.unsubs, disp.Subscribe(uievent.PointerDown, func(ev uievent.Event) {
		if !d.Contains(ev.X, ev.Y) {
			d.Close()
		}
	}))
	if d.cfg.Portaled {
		d.unsubs = append(d.unsubs,
			disp.Subscribe(uievent.Resize, func(ev uievent.Event) {
				d.viewport.Width = ev.Width
				d.viewport.Height = ev.Height
				d.Reposition()
			}),
			disp.Subscribe(uievent.Scroll, func(uievent.Event) {
				d.Reposition()
			}),
		)
	}

	d.Reposition()
	d.ensureVisible()
}

func (d *Dropdown) Close() {
	if !d.open {
		return
	}
	d.open = false
	d.unsubscribeAll()
}

func (d *Dropdown) unsubscribeAll() {
	for _, unsub := range d.unsubs {
		unsub()
	}
	d.unsubs = nil
}

// Reposition recomputes where the open list is drawn.
func (d *Dropdown) Reposition() {
	if !d.open {
		return
	}
	// Until the host reports its size, a portaled list stays in flow.
	if !d.cfg.Portaled || d.viewport.Width <= 0 || d.viewport.Height <= 0 {
		d.pos = inFlow(d.anchor, d.cfg.Geometry)
		return
	}
	d.pos = Place(d.anchor, d.anchor.W, d.listHeight(), d.viewport, d.cfg.Geometry)
	if d.pos.Above {
		d.log.Debug("list flipped above input",
			zap.Int("top", d.pos.Top),
			zap.Int("viewportHeight", d.viewport.Height))
	}
}

// Filter sets the input text to query and recomputes which options are visible.
//
// A single remaining option whose value differs from the committed one is
// committed right away.
func (d *Dropdown) Filter(query string) {
	if d.torn {
		return
	}
	d.text = query
	d.query = query

	term := strings.ToLower(query)
	showAll := term == "" || utf8.RuneCountInString(term) < d.cfg.MinChars
	first := -1
	n := 0
	for i, o := range d.options {
		show := showAll || strings.Contains(strings.ToLower(o.Label), term)
		d.hidden[i] = !show
		if show {
			if first < 0 {
				first = i
			}
			n++
		}
	}

	d.active = first
	d.clampScroll()
	d.ensureVisible()
	if d.open {
		d.Reposition()
	}

	if n == 1 {
		cur, ok := d.Value()
		if !ok || cur != d.options[first].Value {
			d.Select(first)
		}
	}
}

// Move cycles the active option through the visible ones, wrapping around.
func (d *Dropdown) Move(delta int) {
	if d.torn || len(d.options) == 0 || delta == 0 {
		return
	}
	vis := d.VisibleIndices()
	n := len(vis)
	if n == 0 {
		return
	}
	cur := -1
	for i, idx := range vis {
		if idx == d.active {
			cur = i
			break
		}
	}
	var next int
	switch {
	case cur < 0 && delta > 0:
		next = 0
	case cur < 0:
		next = n - 1
	default:
		next = ((cur+delta)%n + n) % n
	}
	d.active = vis[next]
	d.ensureVisible()
}

// SetActive marks a visible option active (pointer hover).
func (d *Dropdown) SetActive(i int) {
	if d.torn || !d.Visible(i) {
		return
	}
	d.active = i
	d.ensureVisible()
}

// Select commits the option at index i and closes the list. Every call emits
// exactly one change notification.
func (d *Dropdown) Select(i int) {
	if d.torn || i < 0 || i >= len(d.options) {
		return
	}
	opt := d.options[i]
	d.selected = i
	d.text = opt.Label
	d.Close()

	d.log.Debug("option committed", zap.String("value", opt.Value))
	if d.cfg.OnChange != nil {
		d.cfg.OnChange(Change{ContainerID: d.cfg.ID, Value: opt.Value})
	}
}

// HandleKey applies a navigation key and reports whether it was consumed.
func (d *Dropdown) HandleKey(k Key) bool {
	if d.torn {
		return false
	}
	switch k {
	case KeyDown, KeyUp:
		if !d.open {
			d.Open()
		}
		if k == KeyDown {
			d.Move(1)
		} else {
			d.Move(-1)
		}
		return true
	case KeyEnter:
		if d.open && d.active >= 0 {
			d.Select(d.active)
			return true
		}
		return false
	case KeyEscape:
		d.Close()
		return true
	default:
		return false
	}
}

// ScrollBy moves the list window without changing the active option.
func (d *Dropdown) ScrollBy(delta int) {
	if d.torn {
		return
	}
	d.scroll += delta
	d.clampScroll()
}

// Teardown removes every listener the widget registered. The dropdown is inert
// afterwards.
func (d *Dropdown) Teardown() {
	if d.torn {
		return
	}
	d.open = false
	d.unsubscribeAll()
	d.torn = true
}

func (d *Dropdown) clampScroll() {
	maxScroll := d.VisibleCount() - d.cfg.ListRows
	if maxScroll < 0 {
		maxScroll = 0
	}
	if d.scroll > maxScroll {
		d.scroll = maxScroll
	}
	if d.scroll < 0 {
		d.scroll = 0
	}
}

// ensureVisible scrolls the list window so the active option is inside it.
func (d *Dropdown) ensureVisible() {
	if d.active < 0 || !d.Visible(d.active) {
		return
	}
	row := 0
	for i := 0; i < d.active; i++ {
		if !d.hidden[i] {
			row++
		}
	}
	if row < d.scroll {
		d.scroll = row
	} else if row >= d.scroll+d.cfg.ListRows {
		d.scroll = row - d.cfg.ListRows + 1
	}
}
