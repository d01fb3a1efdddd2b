package statusbar

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/blox/internal/theme"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newBar() (*StatusBar, *clock) {
	clk := &clock{t: time.Unix(100, 0)}
	cfg := DefaultConfig()
	cfg.Now = clk.now
	return New(cfg), clk
}

func TestDefaultText(t *testing.T) {
	sb, _ := newBar()
	sb.SetPageInfo("home", true)
	sb.SetMode("EDIT")
	sb.SetBreadcrumb([]string{"Body", "Hero"})
	sb.SetBlockCount(3)
	sb.SetHistory(History{CanUndo: true})

	left, right := sb.Text()
	assert.Equal(t, "home [+] -- EDIT | Body › Hero", left)
	assert.Equal(t, "3 blocks [u-]", right)
}

func TestFrozenHistoryIsShown(t *testing.T) {
	sb, _ := newBar()
	sb.SetHistory(History{Frozen: true})
	_, right := sb.Text()
	assert.Equal(t, "HISTORY FROZEN 0 blocks [--]", right)
}

func TestTemporaryMessageExpires(t *testing.T) {
	sb, clk := newBar()
	sb.SetPageInfo("home", false)
	sb.SetTemporaryMessage("Saved %d blocks", 4)

	left, right := sb.Text()
	assert.Equal(t, "Saved 4 blocks", left)
	assert.Empty(t, right)

	clk.t = clk.t.Add(5 * time.Second)
	left, _ = sb.Text()
	assert.Equal(t, "home", left)
}

func TestDrawRightAligned(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, sim.Init())
	defer sim.Fini()
	sim.SetSize(30, 3)

	sb, _ := newBar()
	sb.SetPageInfo("home", false)
	sb.SetBlockCount(2)
	sb.Draw(sim, 30, 3)
	sim.Show()

	r, _, style, _ := sim.GetContent(0, 2)
	assert.Equal(t, 'h', r)
	assert.Equal(t, DefaultConfig().StyleDefault, style)

	right := "2 blocks [--]"
	start := 30 - len(right)
	var got []rune
	for x := start; x < 30; x++ {
		r, _, _, _ := sim.GetContent(x, 2)
		got = append(got, r)
	}
	assert.Equal(t, right, string(got))
}

func TestSetThemeChangesStyles(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, sim.Init())
	defer sim.Fini()
	sim.SetSize(20, 2)

	sb, _ := newBar()
	sb.SetPageInfo("home", false)
	sb.SetTheme(theme.Light)
	sb.Draw(sim, 20, 2)
	sim.Show()

	_, _, style, _ := sim.GetContent(0, 1)
	assert.Equal(t, theme.Light.Styles[theme.StyleStatusBar], style)
}
