package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"

	"github.com/szxp/iconsuite"
	"github.com/szxp/iconsuite/config"
)

const watchDebounce = 300 * time.Millisecond

// generator runs load and generate for one source file.
type generator struct {
	logger hclog.Logger
	ws     *iconsuite.Workspace
	cfg    config.Config
	custom string
	source string
}

func (g *generator) regenerate(ctx context.Context) error {
	g.logger.Debug("Read file", "path", g.source)
	data, err := os.ReadFile(g.source)
	if err != nil {
		return err
	}
	if err := g.ws.Load(ctx, data); err != nil {
		return err
	}

	targets, err := g.targets(g.ws.Side())
	if err != nil {
		return err
	}
	if err := g.ws.Generate(ctx, targets); err != nil {
		return err
	}

	v := g.ws.View()
	g.logger.Info("Generated", "source", g.source, "width", v.Width, "height", v.Height, "side", v.Side)
	for _, icon := range v.Icons {
		if icon.Skipped {
			g.logger.Info("Skipped, source too small", "size", icon.Size)
			continue
		}
		g.logger.Debug("Icon", "size", icon.Size, "url", icon.URL)
	}

	if dir := g.cfg.Output.Dir; dir != "" {
		if err := g.ws.WriteIcons(dir); err != nil {
			return err
		}
		g.logger.Info("Wrote icons", "dir", dir)
	}
	if path := g.cfg.Output.Bundle; path != "" {
		if err := g.writeBundle(path); err != nil {
			return err
		}
		g.logger.Info("Wrote bundle", "path", path)
	}
	return nil
}

// targets merges the configured sizes with the custom ones that fit side.
// Custom sizes that do not are reported and left out.
func (g *generator) targets(side int) (iconsuite.TargetSizes, error) {
	parsed, errs := iconsuite.ParseCustomSizes(g.custom)
	for _, e := range errs {
		g.logger.Warn("Ignoring custom size", "reason", e)
	}

	var candidates []float64
	for _, s := range append(append([]int(nil), g.cfg.CustomSizes...), parsed...) {
		candidates = append(candidates, float64(s))
	}
	valid, problems := iconsuite.ValidateCustomSizes(candidates, side)
	for _, p := range problems {
		g.logger.Warn("Ignoring custom size", "size", p.Size, "reason", p.Reason)
	}
	return iconsuite.NewTargetSizes(iconsuite.MergeSizes(g.cfg.Sizes, valid))
}

func (g *generator) writeBundle(path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create bundle: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return g.ws.WriteBundle(f, iconsuite.BundleOptions{
		Password: g.cfg.Output.Password,
		Favicon:  g.cfg.Output.Favicon,
	})
}

// watch regenerates whenever the source file is written or replaced. A
// change that fails to decode keeps the previous icons.
func (g *generator) watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer w.Close()

	source, err := filepath.Abs(g.source)
	if err != nil {
		return err
	}
	// Watch the directory: editors often replace the file instead of
	// writing it in place.
	if err := w.Add(filepath.Dir(source)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", source, err)
	}
	g.logger.Info("Watching", "path", source)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != source {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				debounce = time.After(watchDebounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			g.logger.Error("Watcher error", "error", err)

		case <-debounce:
			debounce = nil
			err := g.regenerate(ctx)
			var decodeErr *iconsuite.DecodeError
			switch {
			case errors.As(err, &decodeErr):
				g.logger.Warn("Source not decodable, keeping previous icons", "error", err)
			case err != nil:
				g.logger.Error("Regenerate", "error", err)
			}
		}
	}
}
