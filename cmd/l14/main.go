// Command l14 shows the rendered tables of a document in a window.
package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"louis14tables/internal/config"
	"louis14tables/internal/observability"
	"louis14tables/pkg/layout"
	"louis14tables/pkg/render"
	"louis14tables/pkg/resource"
)

const canvasHeight = 700

func main() {
	cfg, err := config.Load(viper.New(), os.Getenv("L14T_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	observability.InitializeLogger(cfg.Logger)
	defer observability.Sync()
	logger := observability.GetLogger()

	a := app.New()
	w := a.NewWindow("louis14tables")
	w.Resize(fyne.NewSize(float32(cfg.Layout.ViewportWidth), canvasHeight+68))

	canvasImg := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, cfg.Layout.ViewportWidth, canvasHeight)))
	canvasImg.FillMode = canvas.ImageFillOriginal

	status := widget.NewLabel("Enter a file path or URL and press Enter")
	guides := widget.NewCheck("Column guides", nil)

	srcEntry := widget.NewEntry()
	srcEntry.SetPlaceHolder("tables.html")
	var watcher *reloader
	var load func(src string)
	load = func(src string) {
		status.SetText("Loading " + src + "...")
		if watcher != nil {
			watcher.Watch(src)
		}
		go func() {
			target, err := renderSource(cfg, logger, src, guides.Checked)
			fyne.Do(func() {
				if err != nil {
					logger.Error("Render failed", zap.String("src", src), zap.Error(err))
					status.SetText("Error: " + err.Error())
					return
				}
				canvasImg.Image = target
				canvasImg.Refresh()
				status.SetText(src)
				w.SetTitle("louis14tables: " + src)
			})
		}()
	}
	srcEntry.OnSubmitted = load

	watcher, err = newReloader(logger, func(src string) { fyne.Do(func() { load(src) }) })
	if err != nil {
		logger.Warn("Live reload disabled", zap.Error(err))
	} else {
		defer watcher.Close()
	}
	guides.OnChanged = func(bool) {
		if srcEntry.Text != "" {
			load(srcEntry.Text)
		}
	}

	topBar := container.NewBorder(nil, nil, nil, guides, srcEntry)
	w.SetContent(container.NewBorder(topBar, status, nil, nil, canvasImg))

	// Keep focus on the entry; Tab freezes with no other focusable widget.
	w.Canvas().Focus(srcEntry)

	if len(os.Args) > 1 {
		srcEntry.SetText(os.Args[1])
		load(os.Args[1])
	}
	w.ShowAndRun()
}

// renderSource lays out and paints src with its scripts run afterwards.
func renderSource(cfg *config.Config, logger *zap.Logger, src string, guides bool) (*image.RGBA, error) {
	content, err := resource.Load(context.Background(), resource.NewFetcher(src), src)
	if err != nil {
		return nil, err
	}
	baseDir := ""
	if !resource.IsNetworkURL(src) {
		baseDir = filepath.Dir(src)
	}
	engineOpts, err := cfg.EngineOptions(logger, baseDir)
	if err != nil {
		return nil, err
	}

	renderOpts := []render.Option{render.WithFontPath(cfg.Text.FontPath)}
	if guides {
		renderOpts = append(renderOpts, render.WithColumnGuides())
	}
	tr := resource.NewTableRenderer(layout.NewEngine(engineOpts...), logger,
		resource.WithRenderOptions(renderOpts...),
		resource.WithScripts())

	target := image.NewRGBA(image.Rect(0, 0, cfg.Layout.ViewportWidth, canvasHeight))
	if err := tr.Render(content, target); err != nil {
		return nil, err
	}
	return target, nil
}

// reloader re-renders the current document when its file changes on disk.
// It watches the file's directory, since editors often replace files by
// renaming.
type reloader struct {
	logger  *zap.Logger
	watcher *fsnotify.Watcher
	reload  func(src string)

	mu      sync.Mutex
	current string
	dir     string
}

func newReloader(logger *zap.Logger, reload func(src string)) (*reloader, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	r := &reloader{logger: logger, watcher: watcher, reload: reload}
	go r.run()
	return r, nil
}

// Watch makes src the watched document. Network sources are not watched.
func (r *reloader) Watch(src string) {
	if resource.IsNetworkURL(src) {
		return
	}
	abs, err := filepath.Abs(src)
	if err != nil {
		return
	}
	dir := filepath.Dir(abs)

	r.mu.Lock()
	defer r.mu.Unlock()
	if dir != r.dir {
		if r.dir != "" {
			_ = r.watcher.Remove(r.dir)
		}
		if err := r.watcher.Add(dir); err != nil {
			r.logger.Warn("Cannot watch directory", zap.String("dir", dir), zap.Error(err))
			return
		}
		r.dir = dir
	}
	r.current = abs
}

func (r *reloader) run() {
	mask := fsnotify.Create | fsnotify.Write | fsnotify.Rename
	for {
		select {
		case evt, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			r.mu.Lock()
			current := r.current
			r.mu.Unlock()
			if evt.Op&mask == 0 || filepath.Clean(evt.Name) != current {
				continue
			}
			r.logger.Debug("Document changed", zap.String("event", evt.String()))
			r.reload(current)
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.logger.Warn("File watcher error", zap.Error(err))
		}
	}
}

func (r *reloader) Close() error {
	return r.watcher.Close()
}
