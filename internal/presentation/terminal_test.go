package presentation

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/flappyballoon/balloon/internal/game"
	"github.com/flappyballoon/balloon/pkg/core"
	"github.com/nsf/termbox-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridScreen is an in-memory Screen.
type gridScreen struct {
	w, h    int
	cells   [][]rune
	flushes int
}

func newGridScreen(w, h int) *gridScreen {
	s := &gridScreen{w: w, h: h}
	_ = s.Clear(termbox.ColorDefault, termbox.ColorDefault)
	return s
}

func (s *gridScreen) Size() (int, int) { return s.w, s.h }

func (s *gridScreen) SetCell(x, y int, ch rune, _, _ termbox.Attribute) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return
	}
	s.cells[y][x] = ch
}

func (s *gridScreen) Clear(_, _ termbox.Attribute) error {
	s.cells = make([][]rune, s.h)
	for y := range s.cells {
		s.cells[y] = []rune(strings.Repeat(" ", s.w))
	}
	return nil
}

func (s *gridScreen) Flush() error {
	s.flushes++
	return nil
}

func (s *gridScreen) row(y int) string { return string(s.cells[y]) }

func (s *gridScreen) count(ch rune) int {
	n := 0
	for _, row := range s.cells {
		for _, c := range row {
			if c == ch {
				n++
			}
		}
	}
	return n
}

func TestRender_IdleShowsStartMessage(t *testing.T) {
	screen := newGridScreen(40, 11)
	term := newTerminal(screen, nil, nil, nil, nil)

	term.Render(core.Snapshot{State: core.StateIdle, BestScore: 7, PlayerName: "alice", FieldWidth: 800, FieldHeight: 600})

	assert.Equal(t, 1, screen.flushes)
	assert.Contains(t, screen.row(0), "Best: 7")
	assert.Contains(t, screen.row(0), "Player: alice")
	assert.Contains(t, screen.row(5), StartMessage)
	assert.Equal(t, 0, screen.count(balloonRune))
}

func TestRender_RunningDrawsBalloonAndObstacles(t *testing.T) {
	screen := newGridScreen(80, 31)
	term := newTerminal(screen, nil, nil, nil, nil)

	term.Render(core.Snapshot{
		State:         core.StateRunning,
		Score:         3,
		PlayerVisible: true,
		Player:        core.Rect{Left: 100, Top: 300, Width: 20, Height: 20},
		Obstacles: []core.Rect{
			{Left: 400, Top: -100, Width: 50, Height: 200},
			{Left: 400, Top: 170, Width: 50, Height: 600},
		},
		FieldWidth:  800,
		FieldHeight: 600,
	})

	assert.Contains(t, screen.row(0), "Score: 3")
	assert.NotContains(t, screen.row(15), StartMessage)
	// 20x20 units at 0.1 cols/unit and 0.05 rows/unit is 2x1 cells.
	assert.Equal(t, 2, screen.count(balloonRune))
	assert.Equal(t, balloonRune, screen.cells[1+15][10])
	assert.Equal(t, obstacleRune, screen.cells[1][40])
	assert.Equal(t, ' ', screen.cells[1+6][40], "gap stays empty")
	assert.Equal(t, obstacleRune, screen.cells[30][44])
}

func TestRender_MicLevelBar(t *testing.T) {
	screen := newGridScreen(60, 10)
	term := newTerminal(screen, nil, nil, nil, nil)

	term.Render(core.Snapshot{State: core.StateRunning, MicAvailable: true, Level: 255, FieldWidth: 800, FieldHeight: 600})

	assert.Contains(t, screen.row(0), "Mic: on")
	assert.Equal(t, 16, screen.count(levelRune))
}

func TestRender_TinyScreen(t *testing.T) {
	screen := newGridScreen(10, 1)
	term := newTerminal(screen, nil, nil, nil, nil)

	term.Render(core.Snapshot{State: core.StateIdle, FieldWidth: 800, FieldHeight: 600})
	assert.Equal(t, 0, screen.flushes)
}

func TestProjection_Clips(t *testing.T) {
	p := projection{cols: 80, rows: 30, width: 800, height: 600}

	_, _, _, _, ok := p.cells(core.Rect{Left: -100, Top: 0, Width: 50, Height: 10})
	assert.False(t, ok, "fully off-screen")

	x0, y0, x1, y1, ok := p.cells(core.Rect{Left: 780, Top: 590, Width: 100, Height: 100})
	require.True(t, ok)
	assert.Equal(t, []int{78, 29, 79, 29}, []int{x0, y0, x1, y1})

	_, _, _, _, ok = projection{cols: 80, rows: 30}.cells(core.Rect{Width: 1, Height: 1})
	assert.False(t, ok)
}

func TestCommandFor(t *testing.T) {
	tests := []struct {
		ev   termbox.Event
		want game.Command
		ok   bool
	}{
		{termbox.Event{Type: termbox.EventKey, Key: termbox.KeyEnter}, game.CommandStart, true},
		{termbox.Event{Type: termbox.EventKey, Key: termbox.KeyEsc}, game.CommandQuit, true},
		{termbox.Event{Type: termbox.EventKey, Key: termbox.KeyCtrlC}, game.CommandQuit, true},
		{termbox.Event{Type: termbox.EventKey, Ch: 'q'}, game.CommandQuit, true},
		{termbox.Event{Type: termbox.EventKey, Ch: 'x'}, 0, false},
		{termbox.Event{Type: termbox.EventResize}, 0, false},
	}
	for _, tt := range tests {
		got, ok := commandFor(tt.ev)
		assert.Equal(t, tt.ok, ok)
		assert.Equal(t, tt.want, got)
	}
}

func scriptedPoll(events ...termbox.Event) func() termbox.Event {
	ch := make(chan termbox.Event, len(events))
	for _, e := range events {
		ch <- e
	}
	return func() termbox.Event {
		if e, ok := <-ch; ok {
			return e
		}
		return termbox.Event{Type: termbox.EventInterrupt}
	}
}

func TestCommands_StopsAfterQuit(t *testing.T) {
	poll := scriptedPoll(
		termbox.Event{Type: termbox.EventResize},
		termbox.Event{Type: termbox.EventKey, Key: termbox.KeyEnter},
		termbox.Event{Type: termbox.EventKey, Key: termbox.KeyEsc},
		termbox.Event{Type: termbox.EventKey, Key: termbox.KeyEnter},
	)
	term := newTerminal(newGridScreen(10, 10), poll, func() {}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []game.Command
	for cmd := range term.Commands(ctx) {
		got = append(got, cmd)
	}
	assert.Equal(t, []game.Command{game.CommandStart, game.CommandQuit}, got)
}

func TestCommands_InterruptedByContext(t *testing.T) {
	events := make(chan termbox.Event)
	poll := func() termbox.Event { return <-events }
	interrupt := func() { events <- termbox.Event{Type: termbox.EventInterrupt} }
	term := newTerminal(newGridScreen(10, 10), poll, interrupt, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cmds := term.Commands(ctx)
	cancel()

	select {
	case _, ok := <-cmds:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("commands channel not closed")
	}
}

func TestCommands_InterruptConsumedAfterQuit(t *testing.T) {
	events := make(chan termbox.Event)
	poll := func() termbox.Event { return <-events }
	interrupted := make(chan struct{})
	interrupt := func() {
		events <- termbox.Event{Type: termbox.EventInterrupt}
		close(interrupted)
	}
	closed := false
	term := newTerminal(newGridScreen(10, 10), poll, interrupt, func() { closed = true }, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cmds := term.Commands(ctx)

	events <- termbox.Event{Type: termbox.EventKey, Key: termbox.KeyEsc}
	assert.Equal(t, game.CommandQuit, <-cmds)
	_, ok := <-cmds
	assert.False(t, ok)

	cancel()
	select {
	case <-interrupted:
	case <-time.After(2 * time.Second):
		t.Fatal("interrupt blocked after quit")
	}

	term.Close()
	assert.True(t, closed)
}

func TestCommands_InputError(t *testing.T) {
	var buf bytes.Buffer
	poll := scriptedPoll(termbox.Event{Type: termbox.EventError})
	term := newTerminal(newGridScreen(10, 10), poll, func() {}, nil, slog.New(slog.NewTextHandler(&buf, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	for range term.Commands(ctx) {
	}
	assert.Contains(t, buf.String(), "Terminal input failed")
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	o := NewLogObserver(slog.New(slog.NewTextHandler(&buf, nil)))

	o.Render(core.Snapshot{State: core.StateIdle})
	o.Render(core.Snapshot{State: core.StateIdle})
	o.Render(core.Snapshot{State: core.StateRunning})
	o.Render(core.Snapshot{State: core.StateRunning, Score: 1})
	o.Render(core.Snapshot{State: core.StateIdle, BestScore: 1})

	out := buf.String()
	assert.Equal(t, 3, strings.Count(out, "msg=\"Game state\""))
	assert.Equal(t, 1, strings.Count(out, "msg=Point"))
	assert.Contains(t, out, "from=running to=idle")
}
