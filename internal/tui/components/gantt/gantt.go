package gantt

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/fieldplan/internal/constants"
	"github.com/julianstephens/fieldplan/internal/models"
	"github.com/julianstephens/fieldplan/internal/scheduler"
	"github.com/julianstephens/fieldplan/internal/utils"
)

// HeaderHeight is the number of lines drawn above the first row.
const HeaderHeight = 3

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	dayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	todayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	gridStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	todayCellStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	draggingStyle = lipgloss.NewStyle().
			Bold(true).
			Italic(true).
			Foreground(lipgloss.Color("231"))
)

// kindColors follows the palette of the activity kinds offered by forms.
// Unknown kinds get a stable color from fallbackColors.
var kindColors = map[models.ActivityKind]lipgloss.Color{
	"Nursery":          lipgloss.Color("71"),
	"Land Preparation": lipgloss.Color("137"),
	"Transplanting":    lipgloss.Color("35"),
	"Sowing":           lipgloss.Color("108"),
	"Fertilizing":      lipgloss.Color("178"),
	"Irrigation":       lipgloss.Color("39"),
	"Weeding":          lipgloss.Color("143"),
	"Pest Control":     lipgloss.Color("167"),
	"Harvest":          lipgloss.Color("214"),
}

var fallbackColors = []lipgloss.Color{"75", "141", "180", "110", "174", "150"}

// KindColor returns the bar color for an activity kind.
func KindColor(kind models.ActivityKind) lipgloss.Color {
	if c, ok := kindColors[kind]; ok {
		return c
	}
	h := fnv.New32a()
	h.Write([]byte(kind))
	return fallbackColors[h.Sum32()%uint32(len(fallbackColors))]
}

type Options struct {
	// ColumnWidth is the number of terminal cells per day.
	ColumnWidth int
	LabelWidth  int
	Today       time.Time
	// Plain draws bars with ASCII brackets instead of background colors,
	// for output that is piped or printed.
	Plain bool
}

func (o Options) normalized() Options {
	if o.ColumnWidth < 1 {
		o.ColumnWidth = constants.DefaultColumnWidth
	}
	if o.LabelWidth < 1 {
		o.LabelWidth = constants.RowLabelWidth
	}
	return o
}

// segment is a bar as drawn: during a drag the dragged bar is shown at its
// snapped column rather than its stored one.
type segment struct {
	bar     scheduler.PlacedBar
	start   int
	dragged bool
}

func (s segment) end(cols int) int {
	end := s.start + s.bar.Bar.ColumnSpan - 1
	if end > cols-1 {
		end = cols - 1
	}
	return end
}

// lane is one terminal line of a row. Bars of one subject that overlap in
// time are spread over several lanes.
type lane struct {
	subject string
	first   bool
	bars    []segment
}

func buildLanes(l scheduler.Layout, drag scheduler.DragState) []lane {
	var lanes []lane
	for _, row := range l.Rows {
		var rowLanes []lane
		for _, pb := range row.Bars {
			seg := segment{bar: pb, start: pb.Bar.ColumnStart}
			if drag.Phase == scheduler.DragDragging && drag.ActivityID == pb.Activity.ID {
				seg.start = drag.Column
				seg.dragged = true
			}
			placed := false
			for i := range rowLanes {
				if fits(rowLanes[i].bars, pb.Bar) {
					rowLanes[i].bars = append(rowLanes[i].bars, seg)
					placed = true
					break
				}
			}
			if !placed {
				rowLanes = append(rowLanes, lane{subject: row.Subject, bars: []segment{seg}})
			}
		}
		if len(rowLanes) == 0 {
			rowLanes = []lane{{subject: row.Subject}}
		}
		rowLanes[0].first = true
		lanes = append(lanes, rowLanes...)
	}
	return lanes
}

// fits packs by stored geometry so lanes do not reshuffle mid-drag.
func fits(segs []segment, b scheduler.Bar) bool {
	for _, s := range segs {
		o := s.bar.Bar
		if b.ColumnStart <= o.ColumnEnd() && o.ColumnStart <= b.ColumnEnd() {
			return false
		}
	}
	return true
}

// Model renders a month of activities and maps mouse positions back onto bars.
type Model struct {
	layout   scheduler.Layout
	drag     scheduler.DragState
	opts     Options
	lanes    []lane
	selected models.ActivityID
}

func New(opts Options) Model {
	return Model{opts: opts.normalized()}
}

// SetLayout replaces the drawn month. The selection is kept while its bar
// stays visible.
func (m *Model) SetLayout(l scheduler.Layout, drag scheduler.DragState) {
	m.layout = l
	m.drag = drag
	m.lanes = buildLanes(l, drag)
	if m.selected != "" {
		if _, ok := l.Find(m.selected); !ok {
			m.selected = ""
		}
	}
}

func (m *Model) SetOptions(opts Options) {
	m.opts = opts.normalized()
	m.lanes = buildLanes(m.layout, m.drag)
}

func (m Model) Options() Options { return m.opts }

func (m *Model) Select(id models.ActivityID) { m.selected = id }

// Selected returns the selected activity, if it is visible.
func (m Model) Selected() (models.ActivityID, bool) {
	return m.selected, m.selected != ""
}

// visible lists bar IDs in drawing order: top to bottom, then left to right.
func (m Model) visible() []models.ActivityID {
	var ids []models.ActivityID
	for _, ln := range m.lanes {
		for _, s := range ln.bars {
			ids = append(ids, s.bar.Activity.ID)
		}
	}
	return ids
}

// SelectNext moves the selection by delta bars, wrapping around.
func (m *Model) SelectNext(delta int) {
	ids := m.visible()
	if len(ids) == 0 {
		m.selected = ""
		return
	}
	cur := -1
	for i, id := range ids {
		if id == m.selected {
			cur = i
			break
		}
	}
	if cur < 0 {
		if delta < 0 {
			m.selected = ids[len(ids)-1]
		} else {
			m.selected = ids[0]
		}
		return
	}
	n := len(ids)
	m.selected = ids[((cur+delta)%n+n)%n]
}

// Height is the number of lines View produces.
func (m Model) Height() int {
	if m.layout.Empty {
		return HeaderHeight + 1
	}
	return HeaderHeight + len(m.lanes)
}

// ColumnAt maps a cell x to a day column.
func (m Model) ColumnAt(x int) (int, bool) {
	left := m.opts.LabelWidth + 1
	if x < left {
		return 0, false
	}
	col := (x - left) / m.opts.ColumnWidth
	if col >= m.layout.Window.Len() {
		return 0, false
	}
	return col, true
}

// HitTest returns the activity drawn at cell (x, y), relative to the top-left
// of the chart.
func (m Model) HitTest(x, y int) (models.ActivityID, bool) {
	li := y - HeaderHeight
	if li < 0 || li >= len(m.lanes) {
		return "", false
	}
	col, ok := m.ColumnAt(x)
	if !ok {
		return "", false
	}
	cols := m.layout.Window.Len()
	segs := m.lanes[li].bars
	// Later segments are drawn on top.
	for i := len(segs) - 1; i >= 0; i-- {
		if col >= segs[i].start && col <= segs[i].end(cols) {
			return segs[i].bar.Activity.ID, true
		}
	}
	return "", false
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) View() string {
	return render(m.layout, m.lanes, m.opts, m.selected)
}

// Render draws a layout once, without selection or drag state.
func Render(l scheduler.Layout, opts Options) string {
	opts = opts.normalized()
	return render(l, buildLanes(l, scheduler.DragState{}), opts, "")
}

func render(l scheduler.Layout, lanes []lane, opts Options, selected models.ActivityID) string {
	w := l.Window
	if w.Len() == 0 {
		return ""
	}
	cw := opts.ColumnWidth
	todayCol, hasToday := -1, false
	if !opts.Today.IsZero() {
		todayCol, hasToday = w.IndexOf(utils.Civil(opts.Today))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(w.Reference().Format("January 2006")))
	b.WriteByte('\n')

	// Day numbers, then weekday initials.
	pad := strings.Repeat(" ", opts.LabelWidth)
	var days, weekdays strings.Builder
	days.WriteString(pad + gridStyle.Render("│"))
	weekdays.WriteString(pad + gridStyle.Render("│"))
	for i, d := range w.Dates() {
		style := dayStyle
		if hasToday && i == todayCol {
			style = todayStyle
		}
		days.WriteString(style.Render(fitRight(fmt.Sprint(d.Day()), cw)))
		weekdays.WriteString(style.Render(fitRight(d.Weekday().String()[:1], cw)))
	}
	b.WriteString(days.String() + "\n")
	b.WriteString(weekdays.String())

	if l.Empty {
		b.WriteByte('\n')
		b.WriteString(emptyStyle.Render("No crops planned yet"))
		return b.String()
	}

	cols := w.Len()
	for _, ln := range lanes {
		b.WriteByte('\n')
		label := ""
		if ln.first {
			label = ln.subject
		}
		b.WriteString(labelStyle.Render(fitLeft(label, opts.LabelWidth-1)) + " " + gridStyle.Render("│"))

		// owner[c] is the index of the segment drawn in column c, or -1.
		owner := make([]int, cols)
		for c := range owner {
			owner[c] = -1
		}
		for i, s := range ln.bars {
			if s.dragged {
				continue
			}
			paint(owner, s, i, cols)
		}
		for i, s := range ln.bars {
			if s.dragged {
				paint(owner, s, i, cols)
			}
		}

		for c := 0; c < cols; {
			if owner[c] < 0 {
				cell := strings.Repeat(" ", cw)
				if hasToday && c == todayCol {
					cell = todayCellStyle.Render(cell)
				}
				b.WriteString(cell)
				c++
				continue
			}
			seg := ln.bars[owner[c]]
			run := c
			for run < cols && owner[run] == owner[c] {
				run++
			}
			b.WriteString(drawBar(seg, (run-c)*cw, opts, seg.bar.Activity.ID == selected))
			c = run
		}
	}
	return b.String()
}

func paint(owner []int, s segment, i, cols int) {
	for c := s.start; c <= s.end(cols); c++ {
		if c >= 0 {
			owner[c] = i
		}
	}
}

func drawBar(s segment, width int, opts Options, selected bool) string {
	a := s.bar.Activity
	if opts.Plain {
		if width < 2 {
			return strings.Repeat("#", width)
		}
		return "[" + fitLeftFill(a.Label(), width-2, '=') + "]"
	}

	style := barStyle.Background(KindColor(a.Kind))
	if selected {
		style = style.Inherit(selectedStyle)
	}
	if s.dragged {
		style = draggingStyle.Background(KindColor(a.Kind))
	}
	return style.Render(fitLeft(a.Label(), width))
}

func fitLeft(s string, w int) string {
	return fitLeftFill(s, w, ' ')
}

func fitLeftFill(s string, w int, fill rune) string {
	if w <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > w {
		if w == 1 {
			return string(r[:1])
		}
		return string(r[:w-1]) + "…"
	}
	return s + strings.Repeat(string(fill), w-len(r))
}

func fitRight(s string, w int) string {
	r := []rune(s)
	if len(r) >= w {
		return string(r[len(r)-w:])
	}
	return strings.Repeat(" ", w-len(r)) + s
}
