package interceptor

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/dynamic-lorebook/internal/config"
	"github.com/rcliao/dynamic-lorebook/internal/engine"
	"github.com/rcliao/dynamic-lorebook/internal/model"
)

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

type panicRand struct{}

func (panicRand) Float64() float64 { panic("entropy exhausted") }

func newTest(t *testing.T, r engine.Rand) (*Interceptor, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	return New(logger, engine.WithRand(r)), &buf
}

var dragonTurns = []model.Turn{
	{Text: "Hello."},
	{Text: "The dragon roared near the old castle.", IsUser: true},
}

var dragonBook = []model.SourceEntry{
	{ID: "1", Label: "Dragon Lore", PrimaryKeywords: []string{"dragon*"}, SecondaryKeywords: []string{"priority:5"}, Content: "Dragons are ancient."},
	{ID: "2", Label: "Castle", PrimaryKeywords: []string{"castle"}, SecondaryKeywords: []string{"trigger:ruins"}, Content: "Castles crumble."},
	{ID: "3", Label: "Ruins", SecondaryKeywords: []string{"tag:ruins", "priority:4"}, Content: "Ruins hide secrets."},
	{ID: "4", Label: "Dragon Lore [SHIFT:angry]", PrimaryKeywords: []string{"roar*"}, Content: "It is furious."},
}

func TestSelect(t *testing.T) {
	ic, _ := newTest(t, fixedRand(0))

	acts := ic.Select(dragonTurns, dragonBook, config.Default())

	require.Len(t, acts, 4)
	assert.Equal(t, "Dragons are ancient.", acts[0].Content)
	assert.Equal(t, model.Activation{Content: "It is furious.", IsShift: true, ParentTitle: "Dragon Lore", Priority: 5}, acts[1])
	assert.Equal(t, "Ruins hide secrets.", acts[2].Content)
	assert.Equal(t, "Castles crumble.", acts[3].Content)
}

func TestSelectDisabled(t *testing.T) {
	ic, _ := newTest(t, fixedRand(0))
	cfg := config.Default()
	cfg.Enabled = false

	acts := ic.Select(dragonTurns, dragonBook, cfg)
	assert.NotNil(t, acts)
	assert.Empty(t, acts)
}

func TestSelectMissingCollection(t *testing.T) {
	ic, _ := newTest(t, fixedRand(0))
	assert.Empty(t, ic.Select(dragonTurns, nil, config.Default()))
}

func TestSelectSanitizesConfig(t *testing.T) {
	ic, _ := newTest(t, fixedRand(0))
	cfg := config.Config{Enabled: true, ApplyLimit: 0, WindowDepth: 0}
	assert.Len(t, ic.Select(dragonTurns, dragonBook, cfg), 4)
}

func TestSelectWindowDepth(t *testing.T) {
	ic, _ := newTest(t, fixedRand(0))
	turns := append([]model.Turn{}, dragonTurns...)
	turns = append(turns, model.Turn{Text: "ok"}, model.Turn{Text: "sure"})

	cfg := config.Default()
	assert.Empty(t, ic.Select(turns, dragonBook, cfg))

	cfg.WindowDepth = 3
	assert.NotEmpty(t, ic.Select(turns, dragonBook, cfg))
}

func TestSelectRecoversPanic(t *testing.T) {
	ic, buf := newTest(t, panicRand{})

	var acts []model.Activation
	require.NotPanics(t, func() {
		acts = ic.Select(dragonTurns, dragonBook, config.Default())
	})
	assert.NotNil(t, acts)
	assert.Empty(t, acts)
	assert.Contains(t, buf.String(), "lore selection failed")
	assert.Contains(t, buf.String(), "entropy exhausted")
}

func TestExplain(t *testing.T) {
	ic, _ := newTest(t, fixedRand(0))
	res := ic.Explain(dragonTurns, dragonBook, config.Default())
	assert.Equal(t, []string{"ruins"}, res.RaisedTags)
	assert.Equal(t, 3, res.Candidates)
}

func TestSelectJSON(t *testing.T) {
	ic, buf := newTest(t, fixedRand(0))
	doc := `{"entries": {"0": {"uid": 0, "comment": "Dragon Lore", "key": ["dragon*"], "content": "Dragons are ancient."}}}`

	acts := ic.SelectJSON(dragonTurns, strings.NewReader(doc), config.Default())
	require.Len(t, acts, 1)
	assert.Equal(t, "0", acts[0].SourceID)

	acts = ic.SelectJSON(dragonTurns, strings.NewReader("{not json"), config.Default())
	assert.Empty(t, acts)
	assert.Contains(t, buf.String(), "no usable world info")
}

func TestIntercept(t *testing.T) {
	ic, _ := newTest(t, fixedRand(0))

	out := ic.Intercept(dragonTurns, dragonBook[:1], config.Default())

	require.Len(t, out, 3)
	assert.Equal(t, "Hello.", out[0].Text)
	assert.True(t, out[1].IsSystem)
	assert.Equal(t, "\n\n[Dynamic Lorebook Context]\n\nDragons are ancient.\n", out[1].Text)
	assert.Equal(t, dragonTurns[1], out[2])
}

func TestInterceptNothingSelected(t *testing.T) {
	ic, _ := newTest(t, fixedRand(1))
	book := []model.SourceEntry{{ID: "1", PrimaryKeywords: []string{"dragon"}, Probability: new(float64)}}
	assert.Equal(t, dragonTurns, ic.Intercept(dragonTurns, book, config.Default()))
}
