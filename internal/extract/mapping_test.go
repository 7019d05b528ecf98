package extract

import (
	"testing"

	"github.com/ytget/ytdlp/v2"
	"github.com/ytget/ytdlp/types"

	"yt-gateway/internal/gateway"
)

func TestMetadataFromInfo(t *testing.T) {
	info := &ytdlp.VideoInfo{
		ID:       "abc123",
		Title:    "a video",
		Duration: 213,
		Author:   "someone",
		Formats: []types.Format{
			{Itag: 22, URL: "https://cdn.example/22", Quality: "720p", MimeType: `video/mp4; codecs="avc1.64001F, mp4a.40.2"`, Bitrate: 1200000, Size: 12_345_678},
			{Itag: 140, URL: "https://cdn.example/140", Quality: "medium", MimeType: `audio/mp4; codecs="mp4a.40.2"`},
			{Itag: 137, URL: "", Quality: "1080p", MimeType: `video/mp4; codecs="avc1.640028"`},
		},
	}

	meta := metadataFromInfo(info)

	if meta.ID != "abc123" || meta.Title != "a video" || meta.Duration != 213 || meta.Uploader != "someone" {
		t.Errorf("identity fields: %+v", meta)
	}
	if meta.Thumbnail != "https://i.ytimg.com/vi/abc123/hqdefault.jpg" {
		t.Errorf("Thumbnail = %q", meta.Thumbnail)
	}
	if len(meta.Formats) != 2 {
		t.Fatalf("formats without a source URL must be dropped, got %d formats", len(meta.Formats))
	}
	if _, ok := meta.Format("137"); ok {
		t.Error("itag 137 has no URL and must not be resolvable")
	}
}

func TestFormatFromYTDLP_video(t *testing.T) {
	desc, ok := formatFromYTDLP(types.Format{
		Itag:     22,
		URL:      "https://cdn.example/22",
		Quality:  "720p",
		MimeType: `video/mp4; codecs="avc1.64001F, mp4a.40.2"`,
		Bitrate:  1_200_000,
		Size:     12_345_678,
	})
	if !ok {
		t.Fatal("format with URL should be retained")
	}
	if desc.FormatID != "22" || desc.Ext != "mp4" {
		t.Errorf("FormatID/Ext = %q/%q", desc.FormatID, desc.Ext)
	}
	if desc.VCodec != "avc1.64001F" || desc.ACodec != "mp4a.40.2" {
		t.Errorf("codecs = %q/%q", desc.VCodec, desc.ACodec)
	}
	if desc.Height == nil || *desc.Height != 720 {
		t.Errorf("Height = %v", desc.Height)
	}
	if desc.Filesize == nil || *desc.Filesize != 12_345_678 {
		t.Errorf("Filesize = %v", desc.Filesize)
	}
	if desc.TBR == nil || *desc.TBR != 1200 {
		t.Errorf("TBR = %v", desc.TBR)
	}
	if desc.SourceURL != "https://cdn.example/22" {
		t.Errorf("SourceURL = %q", desc.SourceURL)
	}
}

func TestFormatFromYTDLP_audio_only(t *testing.T) {
	desc, ok := formatFromYTDLP(types.Format{
		Itag:     140,
		URL:      "https://cdn.example/140",
		Quality:  "medium",
		MimeType: `audio/webm; codecs="opus"`,
	})
	if !ok {
		t.Fatal("expected retained format")
	}
	if desc.VCodec != gateway.CodecNone {
		t.Errorf("audio-only VCodec = %q, want sentinel", desc.VCodec)
	}
	if desc.ACodec != "opus" {
		t.Errorf("ACodec = %q", desc.ACodec)
	}
	if desc.Ext != "webm" {
		t.Errorf("Ext = %q", desc.Ext)
	}
	if desc.Height != nil {
		t.Errorf("audio-only Height = %v, want nil", desc.Height)
	}
	if desc.Filesize != nil || desc.TBR != nil {
		t.Error("unreported size/bitrate should stay nil")
	}
}

func TestFormatFromYTDLP_video_only(t *testing.T) {
	desc, _ := formatFromYTDLP(types.Format{
		Itag:     137,
		URL:      "https://cdn.example/137",
		Quality:  "1080p60",
		MimeType: `video/mp4; codecs="avc1.640028"`,
	})
	if desc.ACodec != gateway.CodecNone {
		t.Errorf("video-only ACodec = %q, want sentinel", desc.ACodec)
	}
	if desc.Height == nil || *desc.Height != 1080 {
		t.Errorf("Height = %v, want 1080", desc.Height)
	}
	if desc.FPS == nil || *desc.FPS != 60 {
		t.Errorf("FPS = %v, want 60", desc.FPS)
	}
}

func TestSplitMimeType_degenerate(t *testing.T) {
	ext, vcodec, acodec := splitMimeType("")
	if ext != "mp4" || vcodec != gateway.CodecNone || acodec != gateway.CodecNone {
		t.Errorf("empty mime: %q %q %q", ext, vcodec, acodec)
	}

	ext, _, _ = splitMimeType("video/3gpp")
	if ext != "3gpp" {
		t.Errorf("ext = %q", ext)
	}
}

func TestHeightFromQuality(t *testing.T) {
	cases := map[string]int{
		"720p":    720,
		"1080p60": 1080,
		"hd720":   720,
		"medium":  0,
		"":        0,
	}
	for in, want := range cases {
		if got := heightFromQuality(in); got != want {
			t.Errorf("heightFromQuality(%q) = %d, want %d", in, got, want)
		}
	}
}
