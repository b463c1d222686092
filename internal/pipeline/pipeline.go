package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ppiankov/vitalstats/internal/cache"
	"github.com/ppiankov/vitalstats/internal/model"
	"github.com/ppiankov/vitalstats/internal/sheet"
	"github.com/ppiankov/vitalstats/internal/source"
	"github.com/ppiankov/vitalstats/internal/util"
	"github.com/ppiankov/vitalstats/internal/worker"
)

// Getter retrieves the bytes behind a URL
type Getter interface {
	Fetch(ctx context.Context, rawURL string) (*FetchResult, error)
}

// Pipeline downloads and normalizes prompt spreadsheets
type Pipeline struct {
	getter Getter
	urls   *source.Builder
	logger *slog.Logger
	config *model.Config
}

// NewPipeline creates a pipeline with the HTTP stack described by cfg
func NewPipeline(cfg *model.Config, logger *slog.Logger) *Pipeline {
	client := NewHTTPClient(cfg.HTTP)

	var robots *util.RobotsChecker
	if cfg.Robots.Enabled {
		store := cache.NewMemoryCache(cfg.Robots.CacheTTL, 10*time.Minute)
		robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, client, store, cfg.Robots.CacheTTL)
	}

	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	fetcher := NewFetcher(client, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes, limiter, robots)

	return NewPipelineWithGetter(cfg, fetcher, logger)
}

// NewPipelineWithGetter creates a pipeline that downloads through getter
func NewPipelineWithGetter(cfg *model.Config, getter Getter, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	var baseURL string
	if cfg != nil {
		baseURL = cfg.Source.BaseURL
	}
	return &Pipeline{
		getter: getter,
		urls:   source.NewBuilder(baseURL),
		logger: logger,
		config: cfg,
	}
}

// Getter returns the downloader used by the pipeline
func (p *Pipeline) Getter() Getter {
	return p.getter
}

// URL returns the address of the spreadsheet for year and month
func (p *Pipeline) URL(year, month int) string {
	return p.urls.URL(year, month)
}

// MonthOptions controls a single download
type MonthOptions struct {
	Verbose     bool
	IgnoreError bool // turn a *FetchError into an empty result
}

// ReadPromptMonth downloads the sheet published for year and month and
// normalizes it. With IgnoreError a *FetchError yields no records and no
// error; decoding and parsing errors are always returned.
func (p *Pipeline) ReadPromptMonth(ctx context.Context, year, month int, opts MonthOptions) (model.Table, error) {
	url := p.urls.URL(year, month)
	if opts.Verbose {
		p.logger.Info("download", "url", url)
	} else {
		p.logger.Debug("download", "url", url)
	}

	result, err := p.getter.Fetch(ctx, url)
	if err != nil {
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) && opts.IgnoreError {
			if opts.Verbose {
				p.logger.Warn("download failed, skipping", "url", url, "error", err)
			}
			return model.Table{}, nil
		}
		return nil, err
	}

	records, err := sheet.Parse(result.Body, source.FormatFor(year))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}

	p.logger.Debug("parsed sheet",
		"url", url,
		"records", len(records),
		"last_modified", result.Meta.LastModified,
	)

	return records, nil
}

// Options controls a range aggregation. Zero fields take the pipeline's
// prompt configuration: YearFrom, Lang and both lag offsets. A zero lag
// offset therefore means the configured lag; callers that want a fixed
// end month set YearTo and MonthTo. YearTo or MonthTo left at zero are
// derived from Now and the lag.
type Options struct {
	YearFrom     int
	YearTo       int
	MonthTo      int
	MonthsOffset int
	DaysOffset   int
	Lang         model.Lang
	Verbose      bool
	IgnoreError  bool
	Now          func() time.Time
}

// DefaultOptions returns the options configured in cfg
func DefaultOptions(cfg model.PromptConfig) Options {
	return Options{
		YearFrom:     cfg.YearFrom,
		MonthsOffset: cfg.MonthsOffset,
		DaysOffset:   cfg.DaysOffset,
		Lang:         model.ParseLang(cfg.Lang),
		IgnoreError:  cfg.IgnoreError,
	}
}

// resolve fills zero fields from cfg and derives the end month
func (o Options) resolve(cfg model.PromptConfig) (Options, error) {
	if o.YearFrom == 0 {
		o.YearFrom = cfg.YearFrom
	}
	if o.YearFrom == 0 {
		o.YearFrom = model.DefaultConfig().Prompt.YearFrom
	}
	if o.MonthsOffset == 0 {
		o.MonthsOffset = cfg.MonthsOffset
	}
	if o.DaysOffset == 0 {
		o.DaysOffset = cfg.DaysOffset
	}
	if o.Lang == "" {
		o.Lang = model.ParseLang(cfg.Lang)
	}
	o.IgnoreError = o.IgnoreError || cfg.IgnoreError
	if o.Now == nil {
		o.Now = time.Now
	}

	if o.YearTo == 0 || o.MonthTo == 0 {
		last := LastPublished(o.Now(), o.MonthsOffset, o.DaysOffset)
		o.YearTo, o.MonthTo = last.Year(), int(last.Month())
	}

	if o.MonthTo < 1 || o.MonthTo > 12 {
		return o, fmt.Errorf("month_to must be between 1 and 12, got %d", o.MonthTo)
	}
	return o, nil
}

// promptConfig returns the prompt defaults the pipeline was built with
func (p *Pipeline) promptConfig() model.PromptConfig {
	if p.config == nil {
		return model.DefaultConfig().Prompt
	}
	return p.config.Prompt
}

// ReadPrompt downloads every sheet needed to cover YearFrom through
// (YearTo, MonthTo) and returns one deduplicated, sorted table.
//
// Each sheet holds three years, so December of every year from
// YearFrom+2 up to YearTo-1 is fetched, plus the (YearTo, MonthTo) sheet.
func (p *Pipeline) ReadPrompt(ctx context.Context, opts Options) (model.Table, error) {
	opts, err := opts.resolve(p.promptConfig())
	if err != nil {
		return nil, err
	}

	monthOpts := MonthOptions{Verbose: opts.Verbose, IgnoreError: opts.IgnoreError}
	p.logger.Debug("read prompt",
		"year_from", opts.YearFrom,
		"year_to", opts.YearTo,
		"month_to", opts.MonthTo,
		"lang", opts.Lang,
	)

	var all model.Table
	for year := opts.YearFrom + 2; year < opts.YearTo; year++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records, err := p.ReadPromptMonth(ctx, year, 12, monthOpts)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}

	records, err := p.ReadPromptMonth(ctx, opts.YearTo, opts.MonthTo, monthOpts)
	if err != nil {
		return nil, err
	}
	all = append(all, records...)

	table := all.Dedupe()
	table.Sort()
	table = table.FromYear(opts.YearFrom)

	return table.Translate(opts.Lang), nil
}

// ReadPrompt runs a range aggregation with a pipeline built from cfg.
// Zero fields of opts take their values from cfg.Prompt.
func ReadPrompt(ctx context.Context, cfg *model.Config, opts Options) (model.Table, error) {
	return NewPipeline(cfg, slog.Default()).ReadPrompt(ctx, opts)
}
