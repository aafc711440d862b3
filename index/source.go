package index

import (
	"context"
	"encoding/json"
	"io"
	"os"
)

// EntryRecord is one structured entry tuple as yielded by a RecordSource.
// It mirrors the attributes and nested text of a bibliography entry node
// without any tree-walking specifics, so the builder is portable to any
// structured input.
type EntryRecord struct {
	// ID is the explicit identifier, if the source carries one.
	ID string `json:"id,omitempty"`
	// SourceTitle is the title attribute of the citation.
	SourceTitle string `json:"title,omitempty"`
	// SourceURL is the external link to the cited work.
	SourceURL string `json:"sourceUrl,omitempty"`
	// CitationText is the full citation text. Records without it are skipped.
	CitationText string `json:"citation"`
	// AnnotationText is the annotation body, if present.
	AnnotationText string `json:"annotation,omitempty"`
	// RawTags is the comma-separated tag attribute, uncleaned.
	RawTags string `json:"tags,omitempty"`
	// SectionTitle is the header text of the nearest ancestor section
	// carrying an identifier, if any.
	SectionTitle string `json:"section,omitempty"`
	// PaperAuthor and Contributor are optional attribution attributes.
	PaperAuthor string `json:"paperAuthor,omitempty"`
	Contributor string `json:"contributor,omitempty"`
}

// RecordSource yields the entry records of one document. Implementations
// must return records in document order; the catalog preserves that order
// and the relevance scorer uses it to break ties.
type RecordSource interface {
	Records(ctx context.Context) ([]EntryRecord, error)
}

// SliceSource is a RecordSource over an in-memory record slice.
type SliceSource []EntryRecord

// Records returns the records unchanged.
func (s SliceSource) Records(ctx context.Context) ([]EntryRecord, error) {
	return s, nil
}

// jsonSource reads a JSON array of entry records.
type jsonSource struct {
	r io.Reader
}

// NewJSONSource returns a RecordSource decoding a JSON array of entry
// records from r.
func NewJSONSource(r io.Reader) RecordSource {
	return &jsonSource{r: r}
}

func (s *jsonSource) Records(ctx context.Context) ([]EntryRecord, error) {
	var records []EntryRecord
	if err := json.NewDecoder(s.r).Decode(&records); err != nil {
		return nil, err
	}
	return records, nil
}

// fileSource reads a JSON feed from disk on every build pass, so a rebuild
// picks up feed changes.
type fileSource struct {
	path string
}

// NewFileSource returns a RecordSource reading a JSON feed file.
func NewFileSource(path string) RecordSource {
	return &fileSource{path: path}
}

func (s *fileSource) Records(ctx context.Context) ([]EntryRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewJSONSource(f).Records(ctx)
}
