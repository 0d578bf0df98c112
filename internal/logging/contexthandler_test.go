package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/flappyballoon/balloon/internal/session"
	"github.com/flappyballoon/balloon/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestContextHandler_InjectsLiveSession(t *testing.T) {
	var buf bytes.Buffer
	sess := session.NewContext()
	logger := slog.New(NewContextHandler(slog.NewTextHandler(&buf, nil), SessionProvider(sess)))

	logger.Info("before login")
	sess.SetPlayer(core.Player{ID: 1, Username: "alice"})
	sess.NextRun()
	logger.Info("after login")

	out := buf.String()
	assert.Contains(t, out, "player=anonymous run=0")
	assert.Contains(t, out, "player=alice run=1")
}

func TestContextHandler_WithAttrsKeepsProvider(t *testing.T) {
	var buf bytes.Buffer
	provider := func() []slog.Attr { return []slog.Attr{slog.String("player", "bob")} }
	logger := slog.New(NewContextHandler(slog.NewTextHandler(&buf, nil), provider)).With("component", "game")

	logger.Info("tick")

	assert.Contains(t, buf.String(), "component=game")
	assert.Contains(t, buf.String(), "player=bob")
}

func TestContextHandler_WithGroupEmpty(t *testing.T) {
	h := NewContextHandler(slog.NewTextHandler(&bytes.Buffer{}, nil), nil)
	assert.Equal(t, h, h.WithGroup(""))
}

func TestContextHandler_RecordKeyWins(t *testing.T) {
	var buf bytes.Buffer
	provider := func() []slog.Attr { return []slog.Attr{slog.Int("run", 7), slog.String("player", "bob")} }
	logger := slog.New(NewContextHandler(slog.NewTextHandler(&buf, nil), provider))

	logger.Info("run submitted", "run", 3)

	out := buf.String()
	assert.Contains(t, out, "run=3")
	assert.NotContains(t, out, "run=7")
	assert.Contains(t, out, "player=bob")
}
