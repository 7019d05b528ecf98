package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// RelayChunkSize is how much of the upstream body is read and forwarded at a
// time; the payload is never held in memory as a whole.
const RelayChunkSize = 64 * 1024

// relayUserAgent is sent upstream; media CDNs reject clients that do not
// look like a browser.
const relayUserAgent = "Mozilla/5.0"

// StreamProxy fetches a remote media stream and relays it to the caller
// incrementally. Its client follows redirects and has no overall timeout:
// a transfer may run as long as the download takes, bounded only by the
// caller's context.
type StreamProxy struct {
	client *http.Client
}

// NewStreamProxy returns a proxy using the given cookie jar for upstream
// requests. jar may be nil when no credential file is configured.
func NewStreamProxy(jar http.CookieJar) *StreamProxy {
	return &StreamProxy{client: &http.Client{Jar: jar}}
}

// Open issues the upstream GET and returns the response body once the status
// confirms success. The returned body is bound to ctx: closing the caller's
// connection cancels the upstream read.
func (p *StreamProxy) Open(ctx context.Context, sourceURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, ExtractionError("invalid source url")
	}
	req.Header.Set("User-Agent", relayUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, ExtractionError("upstream fetch failed")
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, ExtractionError(fmt.Sprintf("upstream returned status %d", resp.StatusCode))
	}
	return resp.Body, nil
}

// Relay copies src to dst in chunks of at most RelayChunkSize, flushing after
// each write so bytes reach the client as they arrive. An error mid-copy ends
// the stream; by then headers are committed and the client sees a short read.
func (p *StreamProxy) Relay(dst io.Writer, src io.Reader) error {
	flusher, _ := dst.(http.Flusher)
	buf := make([]byte, RelayChunkSize)
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, writeErr := dst.Write(buf[:n]); writeErr != nil {
				return writeErr
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}
