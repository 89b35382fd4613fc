// Package batch runs the load, derive, export pipeline over many scene
// files with a worker pool.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"fbx2json/internal/export"
	"fbx2json/internal/logging"
	"fbx2json/internal/metrics"
	"fbx2json/internal/preview"
	"fbx2json/internal/scenefile"
	"fbx2json/internal/tangent"
	"fbx2json/internal/texture"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir  string
	Workers    int
	Derive     bool
	BestEffort bool
	Indent     int
	SaveFormat string // empty: no converted copy

	PreviewFormat string // empty: no preview
	Preview       preview.Options
	Textures      texture.Resolver // may be nil

	Metrics  *metrics.Recorder // may be nil
	Logger   *slog.Logger
	Progress time.Duration // progress log interval, 0 means 2s
}

// Result holds the outcome of processing one input file.
type Result struct {
	Input    string
	Output   string
	Scene    string
	Preview  string
	Success  bool
	Error    string
	Applied  int
	Skipped  int
	Failures []string
	Warnings []string
}

// Run processes all inputs using a worker pool. Results are in input order.
// Canceling ctx stops handing out files; unprocessed inputs are reported as
// failed with the context error.
func Run(ctx context.Context, cfg Config, inputs []string) []Result {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Progress <= 0 {
		cfg.Progress = 2 * time.Second
	}

	total := len(inputs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.Progress)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					cfg.Logger.Info("progress", "done", p, "total", total, "rate", fmt.Sprintf("%.1f/s", float64(p)/elapsed))
				}
			}
		}
	}()

	// Worker pool
	itemChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range itemChan {
				results[idx] = processFile(ctx, cfg, inputs[idx])
				cfg.Metrics.File(results[idx].Success)
				processed.Add(1)
			}
		}()
	}

	// Send work
	sent := 0
send:
	for i := range inputs {
		select {
		case itemChan <- i:
			sent++
		case <-ctx.Done():
			break send
		}
	}
	close(itemChan)

	wg.Wait()
	close(done)

	for i := sent; i < total; i++ {
		results[i] = Result{Input: inputs[i], Error: ctx.Err().Error()}
	}
	return results
}

func processFile(ctx context.Context, cfg Config, input string) Result {
	res := Result{Input: input}
	log := cfg.Logger.With("input", input)
	fail := func(err error) Result {
		res.Error = err.Error()
		log.Warn("file failed", "error", err)
		return res
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	t := time.Now()
	s, err := scenefile.Load(input)
	cfg.Metrics.Since("load", t)
	if err != nil {
		return fail(err)
	}

	if cfg.Derive {
		t = time.Now()
		rep, err := tangent.DeriveScene(ctx, s, tangent.Options{BestEffort: cfg.BestEffort})
		cfg.Metrics.Since("derive", t)
		cfg.Metrics.ObserveReport(rep)
		res.Applied, res.Skipped = rep.Applied, rep.Skipped
		for _, f := range rep.Failures {
			res.Failures = append(res.Failures, f.Error())
		}
		if err != nil {
			return fail(err)
		}
		log.Debug("tangents derived", "applied", rep.Applied, "skipped", rep.Skipped, "failed", len(rep.Failures))
	}

	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))

	t = time.Now()
	doc := &export.Document{RootNode: export.ExportScene(s)}
	res.Output = filepath.Join(cfg.OutputDir, stem+".json")
	err = scenefile.WriteDocument(doc, res.Output, scenefile.FormatJSON, cfg.Indent)
	cfg.Metrics.Since("export", t)
	if err != nil {
		return fail(err)
	}

	if cfg.SaveFormat != "" {
		res.Scene = filepath.Join(cfg.OutputDir, stem+".scene."+cfg.SaveFormat)
		if err := scenefile.Save(s, res.Scene, cfg.SaveFormat, false); err != nil {
			return fail(err)
		}
	}

	if cfg.PreviewFormat != "" {
		t = time.Now()
		opts := cfg.Preview
		if cfg.Textures != nil {
			if tex := cfg.Textures.Resolve(stem); tex != nil {
				opts.Texture = tex
			}
		}
		r := preview.Render(s, opts)
		for _, fb := range r.Fallbacks {
			res.Warnings = append(res.Warnings, fb.Error())
		}
		res.Preview = filepath.Join(cfg.OutputDir, stem+"."+cfg.PreviewFormat)
		err := preview.WriteFile(res.Preview, r.Image, cfg.PreviewFormat)
		cfg.Metrics.Since("preview", t)
		if err != nil {
			return fail(err)
		}
	}

	res.Success = true
	log.Debug("file done", "output", res.Output)
	return res
}

// Summary counts successful and failed results.
func Summary(results []Result) (success, failed int) {
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
		}
	}
	return success, failed
}

// Inputs expands directories in paths to the scene documents they contain.
func Inputs(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if _, ferr := scenefile.FormatFor(path); ferr == nil {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
