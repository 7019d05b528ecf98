package extract

import (
	"fmt"
	"mime"
	"strconv"
	"strings"
	"unicode"

	"github.com/ytget/ytdlp/v2"
	"github.com/ytget/ytdlp/types"

	"yt-gateway/internal/gateway"
)

// metadataFromInfo converts the library's VideoInfo into the gateway model.
// Formats without a resolved source URL are dropped here, so neither endpoint
// ever sees them.
func metadataFromInfo(info *ytdlp.VideoInfo) *gateway.VideoMetadata {
	formats := make([]gateway.FormatDescriptor, 0, len(info.Formats))
	for _, f := range info.Formats {
		if desc, ok := formatFromYTDLP(f); ok {
			formats = append(formats, desc)
		}
	}

	return &gateway.VideoMetadata{
		ID:        info.ID,
		Title:     info.Title,
		Thumbnail: thumbnailURL(info.ID),
		Duration:  info.Duration,
		Uploader:  info.Author,
		Formats:   formats,
	}
}

// formatFromYTDLP maps one library format. ok is false when the format has
// no resolved source URL and must be discarded.
func formatFromYTDLP(f types.Format) (gateway.FormatDescriptor, bool) {
	if f.URL == "" {
		return gateway.FormatDescriptor{}, false
	}

	ext, vcodec, acodec := splitMimeType(f.MimeType)

	desc := gateway.FormatDescriptor{
		FormatID:   strconv.Itoa(f.Itag),
		Ext:        ext,
		VCodec:     vcodec,
		ACodec:     acodec,
		FormatNote: f.Quality,
		SourceURL:  f.URL,
	}

	if h := heightFromQuality(f.Quality); h > 0 {
		desc.Height = &h
	}
	if fps := fpsFromQuality(f.Quality); fps > 0 {
		desc.FPS = &fps
	}
	if f.Size > 0 {
		size := f.Size
		desc.Filesize = &size
	}
	if f.Bitrate > 0 {
		tbr := float64(f.Bitrate) / 1000
		desc.TBR = &tbr
	}

	return desc, true
}

// splitMimeType derives the container extension and the two codec fields from
// a MIME type like `video/mp4; codecs="avc1.64001F, mp4a.40.2"`. Audio-only
// and video-only formats get the CodecNone sentinel on the missing side.
func splitMimeType(mimeType string) (ext, vcodec, acodec string) {
	ext, vcodec, acodec = "mp4", gateway.CodecNone, gateway.CodecNone
	if mimeType == "" {
		return ext, vcodec, acodec
	}

	mediaType, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return ext, vcodec, acodec
	}

	kind, subtype, found := strings.Cut(mediaType, "/")
	if found && subtype != "" {
		ext = subtype
	}

	var codecs []string
	for _, c := range strings.Split(params["codecs"], ",") {
		if c = strings.TrimSpace(c); c != "" {
			codecs = append(codecs, c)
		}
	}

	switch {
	case kind == "audio" && len(codecs) > 0:
		acodec = codecs[0]
	case len(codecs) >= 2:
		vcodec, acodec = codecs[0], codecs[1]
	case len(codecs) == 1:
		vcodec = codecs[0]
	}
	return ext, vcodec, acodec
}

// heightFromQuality pulls the vertical resolution out of quality labels like
// "720p", "1080p60", or "hd720". Labels without digits ("medium") yield 0.
func heightFromQuality(quality string) int {
	digits := firstDigitRun(quality)
	if digits == "" {
		return 0
	}
	h, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return h
}

// fpsFromQuality reads the frame rate suffix of labels like "1080p60".
func fpsFromQuality(quality string) float64 {
	_, after, found := strings.Cut(strings.ToLower(quality), "p")
	if !found {
		return 0
	}
	digits := firstDigitRun(after)
	if digits == "" || digits != after {
		return 0
	}
	fps, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0
	}
	return fps
}

func firstDigitRun(s string) string {
	start := -1
	for i, r := range s {
		if unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return s[start:i]
		}
	}
	if start >= 0 {
		return s[start:]
	}
	return ""
}

// thumbnailURL synthesizes the standard thumbnail location for a video id.
func thumbnailURL(videoID string) string {
	if videoID == "" {
		return ""
	}
	return fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", videoID)
}
