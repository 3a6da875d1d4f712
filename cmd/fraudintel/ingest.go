package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"

	"github.com/toriana04/fraudintel"
	"github.com/toriana04/fraudintel/config"
	"github.com/toriana04/fraudintel/corpus"
	"github.com/toriana04/fraudintel/ingestion"
	"github.com/toriana04/fraudintel/insight"
)

func ingestCommand() *cli.Command {
	return &cli.Command{
		Name:  "ingest",
		Usage: "Scrape fraud articles and write a corpus CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output CSV path (default from config)",
			},
			&cli.BoolFlag{
				Name:  "upload",
				Usage: "Also upload the CSV to the configured storage bucket",
			},
			&cli.StringSliceFlag{
				Name:  "index",
				Usage: "Index page to crawl for article links; replaces configured seeds",
			},
			&cli.StringSliceFlag{
				Name:  "article",
				Usage: "Article URL to scrape; replaces configured seeds",
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "Disable progress bars",
			},
		},
		Action: ingestAction,
	}
}

func ingestAction(c *cli.Context) error {
	cfg := configOf(c)

	output := cfg.Ingestion.Output
	if c.IsSet("output") {
		output = c.String("output")
	}
	upload := cfg.Ingestion.Upload || c.Bool("upload")
	var store *corpus.BlobStore
	if upload {
		blob := cfg.Corpus.Blob
		if blob.BaseURL == "" || blob.Bucket == "" || blob.Object == "" {
			return config.ErrMissingBlobSettings
		}
		store = &corpus.BlobStore{BaseURL: blob.BaseURL, Bucket: blob.Bucket, APIKey: blob.APIKey}
	}

	seeds := cfg.Ingestion.Seeds
	if c.IsSet("index") || c.IsSet("article") {
		seeds = ingestion.Seeds{IndexPages: c.StringSlice("index"), Articles: c.StringSlice("article")}
	}

	var enricher ingestion.Enricher
	if cfg.AI.Enabled {
		provider, err := fraudintel.NewProvider(cfg.AI.Config())
		if err != nil {
			return err
		}
		defer provider.Close()
		analyst, err := insight.NewAnalyst(provider.Generator())
		if err != nil {
			return err
		}
		enricher = analyst
	}

	var opts []ingestion.Option
	if !c.Bool("no-progress") {
		bars := &stageBars{w: c.App.ErrWriter}
		defer bars.finish()
		opts = append(opts, ingestion.WithProgress(bars.update))
	}
	pipeline, err := fraudintel.NewIngestionPipeline(cfg, enricher, opts...)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	report, err := pipeline.Run(c.Context, seeds)
	if err != nil {
		return err
	}

	file, err := os.Create(output)
	if err != nil {
		return err
	}
	err = ingestion.WriteCSV(file, report)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	w := c.App.Writer
	scoreColor.Fprintf(w, "wrote %d articles to %s\n", len(report.Articles), output)
	fmt.Fprintf(w, "discovered %d candidate URLs\n", report.Discovered)
	reasons := make([]string, 0, len(report.Skipped))
	for reason := range report.Skipped {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		if n := report.Skipped[reason]; n > 0 {
			mutedColor.Fprintf(w, "  skipped %-14s %d\n", reason, n)
		}
	}

	if store != nil {
		object := cfg.Corpus.Blob.Object
		if err := ingestion.Publish(c.Context, store, object, report); err != nil {
			return err
		}
		fmt.Fprintf(w, "uploaded to %s/%s\n", cfg.Corpus.Blob.Bucket, object)
	}
	return nil
}

// stageBars shows one progress bar per pipeline stage.
type stageBars struct {
	w     io.Writer
	mu    sync.Mutex
	stage string
	bar   *progressbar.ProgressBar
}

func (s *stageBars) update(p ingestion.Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Stage != s.stage || s.bar == nil {
		s.finishLocked()
		s.stage = p.Stage
		s.bar = progressbar.NewOptions(p.Total,
			progressbar.OptionSetWriter(s.w),
			progressbar.OptionSetDescription(color.BlueString(p.Stage)),
			progressbar.OptionSetItsString("pages"),
			progressbar.OptionShowCount(),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(s.w) }),
		)
	}
	_ = s.bar.Set(p.Done)
}

func (s *stageBars) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finishLocked()
}

func (s *stageBars) finishLocked() {
	if s.bar != nil && !s.bar.IsFinished() {
		_ = s.bar.Finish()
	}
	s.bar = nil
}
