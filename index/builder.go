package index

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/vipresearch/bibchat/core"
)

// Builder turns the records of a document into a Catalog. Extraction of
// individual records runs on a worker pool; results are collected by record
// position so catalog order always equals document order.
type Builder struct {
	baseURL string
	pool    *ants.Pool
	logger  *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithBaseURL sets the page origin+path used to form entry anchor URLs.
func WithBaseURL(baseURL string) Option {
	return func(b *Builder) error {
		b.baseURL = strings.TrimSuffix(baseURL, "#")
		return nil
	}
}

// WithPoolSize sets the worker pool size for record extraction.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}
		if b.pool != nil {
			b.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		b.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates a catalog builder.
func NewBuilder(opts ...Option) (*Builder, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		pool:   pool,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			b.Release()
			return nil, err
		}
	}
	return b, nil
}

// Release releases the worker pool. The builder should not be used after
// calling Release.
func (b *Builder) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
}

// Build runs one full build pass over the source and returns a new catalog.
// Malformed records are logged and skipped; a source with zero records
// yields an empty catalog. The returned catalog is complete before any
// reader can see it, so publishing it is atomic.
func (b *Builder) Build(ctx context.Context, source RecordSource) (*Catalog, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}

	records, err := source.Records(ctx)
	if err != nil {
		return nil, err
	}

	// Position-indexed results so pool completion order cannot reorder
	// the catalog.
	extracted := make([]*core.Entry, len(records))
	var wg sync.WaitGroup

	for i, record := range records {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			entry, err := b.extract(record, i)
			if err != nil {
				b.logger.Warn("skipping entry record", "position", i, "id", record.ID, "err", err)
				return
			}
			extracted[i] = &entry
		}
		if err := b.pool.Submit(task); err != nil {
			// Pool is released or overloaded; extract inline rather
			// than losing the record.
			task()
		}
	}
	wg.Wait()

	entries := make([]core.Entry, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, entry := range extracted {
		if entry == nil {
			continue
		}
		// IDs must be unique within a catalog snapshot.
		if seen[entry.ID] {
			entry.ID = fmt.Sprintf("%s-%d", entry.ID, i)
			entry.URL = b.anchorURL(entry.ID)
		}
		seen[entry.ID] = true
		entries = append(entries, *entry)
	}

	catalog := NewCatalog(entries)
	b.logger.Info("indexed research entries", "records", len(records), "entries", catalog.Len())
	return catalog, nil
}

// extract maps one record to an Entry. Position is the record's index in
// document order, used for fallback identifiers.
func (b *Builder) extract(record EntryRecord, position int) (core.Entry, error) {
	citation := strings.TrimSpace(record.CitationText)
	if citation == "" {
		return core.Entry{}, ErrMissingCitation
	}

	id := strings.TrimSpace(record.ID)
	if id == "" {
		id = slugify(record.SourceTitle)
	}
	if id == "" {
		id = fmt.Sprintf("entry-%d", position)
	}

	// Title falls back to the leading citation segment before the first
	// period.
	title := strings.TrimSpace(record.SourceTitle)
	if title == "" {
		title, _, _ = strings.Cut(citation, ".")
		title = strings.TrimSpace(title)
	}
	title = core.Truncate(title, core.MaxTitleLen)

	annotation := strings.TrimSpace(record.AnnotationText)
	snippet := core.Truncate(annotation, core.MaxSnippetLen)
	context := strings.TrimSpace(record.SectionTitle)

	fullText := strings.ToLower(strings.Join([]string{
		title,
		citation,
		annotation,
		record.RawTags,
		context,
	}, " "))

	return core.Entry{
		ID:          id,
		Title:       title,
		Snippet:     snippet,
		URL:         b.anchorURL(id),
		Tags:        splitTags(record.RawTags),
		Context:     context,
		PaperAuthor: strings.TrimSpace(record.PaperAuthor),
		Contributor: strings.TrimSpace(record.Contributor),
		FullText:    fullText,
	}, nil
}

func (b *Builder) anchorURL(id string) string {
	return b.baseURL + "#" + id
}

// splitTags turns the comma-separated tag attribute into a deduplicated,
// trimmed, non-empty list preserving first-appearance order.
func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}
