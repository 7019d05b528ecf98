// Package extract adapts the ytdlp extraction library to the gateway's
// metadata model. The library's scraping internals are opaque here; this
// package only maps its output and classifies its failures.
package extract

import (
	"context"
	"fmt"

	"github.com/ytget/ytdlp/v2"

	"yt-gateway/internal/gateway"
)

// YTDLP extracts video metadata through the ytdlp library. Each call builds
// a fresh downloader; the library keeps no useful state between videos and
// source URLs are time-limited anyway.
type YTDLP struct{}

// NewYTDLP returns the production extractor.
func NewYTDLP() *YTDLP {
	return &YTDLP{}
}

// Probe implements gateway.Extractor. No media is fetched, only metadata.
func (y *YTDLP) Probe(ctx context.Context, url string) (*gateway.VideoMetadata, error) {
	return y.extract(ctx, url)
}

// Resolve implements gateway.Extractor: a fresh extraction followed by a
// lookup of the requested format id.
func (y *YTDLP) Resolve(ctx context.Context, url, formatID string) (*gateway.VideoMetadata, gateway.FormatDescriptor, error) {
	meta, err := y.extract(ctx, url)
	if err != nil {
		return nil, gateway.FormatDescriptor{}, err
	}
	format, ok := meta.Format(formatID)
	if !ok {
		return nil, gateway.FormatDescriptor{}, gateway.NotFoundError("format not found")
	}
	return meta, format, nil
}

func (y *YTDLP) extract(ctx context.Context, url string) (*gateway.VideoMetadata, error) {
	d := ytdlp.New()
	_, info, err := d.ResolveURL(ctx, url)
	if err != nil {
		return nil, gateway.ExtractionError(fmt.Sprintf("metadata extraction failed: %v", err))
	}
	return metadataFromInfo(info), nil
}
