// Package interceptor is the host-facing entry point. It runs one selection
// per generation step and never lets a failure reach the host's turn pipeline.
package interceptor

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rcliao/dynamic-lorebook/internal/config"
	"github.com/rcliao/dynamic-lorebook/internal/engine"
	"github.com/rcliao/dynamic-lorebook/internal/inject"
	"github.com/rcliao/dynamic-lorebook/internal/lorebook"
	"github.com/rcliao/dynamic-lorebook/internal/model"
	"github.com/rcliao/dynamic-lorebook/internal/normalize"
)

// Interceptor wires the normalizer, loader, engine and injector together.
type Interceptor struct {
	logger *log.Logger
	engine *engine.Engine
	now    func() time.Time
}

// New creates an Interceptor. A nil logger uses log.Default().
func New(logger *log.Logger, opts ...engine.Option) *Interceptor {
	if logger == nil {
		logger = log.Default()
	}
	opts = append([]engine.Option{engine.WithLogger(logger)}, opts...)
	return &Interceptor{
		logger: logger,
		engine: engine.New(opts...),
		now:    time.Now,
	}
}

// Select returns the activations for the current conversation. A disabled
// config or a nil collection yields nothing; a panic anywhere in selection is
// logged and also yields nothing.
func (i *Interceptor) Select(turns []model.Turn, sources []model.SourceEntry, cfg config.Config) []model.Activation {
	return i.run(turns, sources, cfg).Activations
}

// Explain is Select with the full engine result, including raised tags.
func (i *Interceptor) Explain(turns []model.Turn, sources []model.SourceEntry, cfg config.Config) engine.Result {
	return i.run(turns, sources, cfg)
}

// SelectJSON decodes a world-info document from r and selects from it. A
// malformed document is logged and yields nothing.
func (i *Interceptor) SelectJSON(turns []model.Turn, r io.Reader, cfg config.Config) []model.Activation {
	sources, err := lorebook.DecodeWorldInfo(r)
	if err != nil {
		i.logger.Warn("no usable world info", "error", err)
		return []model.Activation{}
	}
	return i.Select(turns, sources, cfg)
}

// Intercept selects and returns turns with the compiled lore inserted before
// the last turn. When nothing is selected the turns are returned as given.
func (i *Interceptor) Intercept(turns []model.Turn, sources []model.SourceEntry, cfg config.Config) []model.Turn {
	acts := i.Select(turns, sources, cfg)
	out := inject.Insert(turns, inject.Compile(acts), i.now())
	i.logger.Debug("injected lore", "entries", len(acts))
	return out
}

func (i *Interceptor) run(turns []model.Turn, sources []model.SourceEntry, cfg config.Config) (res engine.Result) {
	res = engine.Result{Activations: []model.Activation{}, RaisedTags: []string{}}

	if !cfg.Enabled {
		i.logger.Debug("lorebook disabled, skipping")
		return res
	}
	if sources == nil {
		i.logger.Debug("no world info found")
		return res
	}

	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("lore selection failed", "error", fmt.Sprint(r))
			res = engine.Result{Activations: []model.Activation{}, RaisedTags: []string{}}
		}
	}()

	cfg = cfg.Sanitize()
	window := normalize.Window(turns, cfg.WindowDepth)
	entries := lorebook.Load(sources)
	out := i.engine.Select(entries, window, cfg.ApplyLimit)
	if out.Activations == nil {
		out.Activations = []model.Activation{}
	}
	return out
}
