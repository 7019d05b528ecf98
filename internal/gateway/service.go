package gateway

import (
	"context"
	"fmt"
)

// Extractor is the media-info extraction collaborator. Probe fetches metadata
// only; Resolve repeats the extraction (never served from cache, source URLs
// are time-limited) and picks one format.
type Extractor interface {
	Probe(ctx context.Context, url string) (*VideoMetadata, error)
	Resolve(ctx context.Context, url, formatID string) (*VideoMetadata, FormatDescriptor, error)
}

// Service applies the per-request pipeline shared by both endpoints:
// URL validation, metadata caching, and extraction.
type Service struct {
	extractor Extractor
	cache     *MetadataCache
}

// NewService returns a Service using the given extractor and cache.
func NewService(extractor Extractor, cache *MetadataCache) *Service {
	return &Service{extractor: extractor, cache: cache}
}

// Analyze validates url, serves fresh cached metadata when available, and
// otherwise extracts and caches. cached reports whether the result came from
// cache; concurrent misses for the same URL may both extract, the later
// overwrite is harmless.
func (s *Service) Analyze(ctx context.Context, url string) (meta *VideoMetadata, cached bool, err error) {
	if err := ValidateSourceURL(url); err != nil {
		return nil, false, err
	}

	if meta, ok := s.cache.Get(url); ok {
		return meta, true, nil
	}

	meta, err = s.extractor.Probe(ctx, url)
	if err != nil {
		return nil, false, err
	}
	meta = retainResolvable(meta)

	s.cache.Put(url, meta)
	return meta, false, nil
}

// PrepareDownload validates the inputs, resolves the chosen format with a
// fresh extraction, and returns the upstream source URL together with the
// attachment filename.
func (s *Service) PrepareDownload(ctx context.Context, url, formatID string) (*Download, error) {
	if err := ValidateSourceURL(url); err != nil {
		return nil, err
	}
	if formatID == "" {
		return nil, InputError("missing format")
	}

	meta, format, err := s.extractor.Resolve(ctx, url, formatID)
	if err != nil {
		return nil, err
	}
	if format.SourceURL == "" {
		return nil, NotFoundError("format not found")
	}

	return &Download{
		SourceURL: format.SourceURL,
		Filename:  downloadFilename(meta.ID, formatID, format.Ext),
	}, nil
}

// retainResolvable drops formats without a source URL. The extractor already
// discards them for the production backend; this keeps the guarantee
// independent of which Extractor is wired.
func retainResolvable(meta *VideoMetadata) *VideoMetadata {
	kept := make([]FormatDescriptor, 0, len(meta.Formats))
	for _, f := range meta.Formats {
		if f.SourceURL != "" {
			kept = append(kept, f)
		}
	}
	out := *meta
	out.Formats = kept
	return &out
}

// downloadFilename builds the attachment name, falling back to generic
// placeholders when a piece is unknown.
func downloadFilename(videoID, formatID, ext string) string {
	if videoID == "" {
		videoID = "video"
	}
	if ext == "" {
		ext = "mp4"
	}
	return fmt.Sprintf("canal-yt-%s-%s.%s", videoID, formatID, ext)
}
