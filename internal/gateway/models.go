package gateway

// CodecNone is the sentinel for a format that has no video or audio track
// on that side (matches what the front-end filters on).
const CodecNone = "none"

// FormatDescriptor is one selectable encoding of a video. Optional fields are
// pointers so they serialize as null when the extractor did not report them.
type FormatDescriptor struct {
	FormatID   string   `json:"format_id"`
	Ext        string   `json:"ext"`
	VCodec     string   `json:"vcodec"`
	ACodec     string   `json:"acodec"`
	Height     *int     `json:"height"`
	Filesize   *int64   `json:"filesize"`
	FPS        *float64 `json:"fps"`
	TBR        *float64 `json:"tbr"`
	FormatNote string   `json:"format_note,omitempty"`

	// SourceURL is the direct, time-limited media URL for this format.
	// Never exposed in API responses; formats without one are discarded
	// at extraction time.
	SourceURL string `json:"-"`
}

// VideoMetadata is the analyze response: identity plus the retained formats.
type VideoMetadata struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Thumbnail string             `json:"thumbnail"`
	Duration  int                `json:"duration"`
	Uploader  string             `json:"uploader"`
	Formats   []FormatDescriptor `json:"formats"`
}

// Format returns the descriptor with the given format id.
func (m *VideoMetadata) Format(id string) (FormatDescriptor, bool) {
	for _, f := range m.Formats {
		if f.FormatID == id {
			return f, true
		}
	}
	return FormatDescriptor{}, false
}

// Download is a prepared download: where to fetch the bytes from and what to
// call the file handed to the browser.
type Download struct {
	SourceURL string
	Filename  string
}
