package gateway

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"yt-gateway/internal/platform/metrics"
	"yt-gateway/internal/verify"
)

//go:embed index.html
var indexHTML []byte

// Handler exposes the gateway HTTP endpoints using go-chi.
type Handler struct {
	svc             *Service
	verifier        verify.Verifier
	proxy           *StreamProxy
	analyzeLimiter  *Limiter
	downloadLimiter *Limiter
	appDomain       string
	log             *slog.Logger
	metrics         *metrics.Metrics
}

// HandlerConfig wires a Handler's collaborators.
// Metrics may be nil to disable metric recording (e.g. in tests).
type HandlerConfig struct {
	Service         *Service
	Verifier        verify.Verifier
	Proxy           *StreamProxy
	AnalyzeLimiter  *Limiter
	DownloadLimiter *Limiter
	AppDomain       string
	Log             *slog.Logger
	Metrics         *metrics.Metrics
}

// NewHandler returns a Handler using the given collaborators.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		svc:             cfg.Service,
		verifier:        cfg.Verifier,
		proxy:           cfg.Proxy,
		analyzeLimiter:  cfg.AnalyzeLimiter,
		downloadLimiter: cfg.DownloadLimiter,
		appDomain:       cfg.AppDomain,
		log:             cfg.Log,
		metrics:         cfg.Metrics,
	}
}

// Analyze handles POST /analyze. Body: { "url": "...", "captchaToken": "..." }.
// Pipeline order matters: the bot check runs strictly before the rate check
// so rejected bots never consume quota.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL          string `json:"url"`
		CaptchaToken string `json:"captchaToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, InputError("invalid request body"))
		return
	}

	url := strings.TrimSpace(body.URL)
	if url == "" || body.CaptchaToken == "" {
		h.writeError(w, InputError("missing parameters"))
		return
	}

	if strings.Contains(strings.ToLower(r.Header.Get("User-Agent")), "curl") {
		h.writeError(w, AuthorizationError("unauthorized agent"))
		return
	}

	ip := clientIP(r)
	if !h.analyzeLimiter.Allow(ip) {
		if h.metrics != nil {
			h.metrics.IncRateLimited()
		}
		h.writeError(w, RateLimitError("too many analyses, try again later"))
		return
	}

	ok, err := h.verifier.Verify(r.Context(), body.CaptchaToken, ip)
	if err != nil {
		h.log.Warn("verification unavailable, failing closed",
			slog.String("ip", ip),
			slog.String("error", err.Error()))
	}
	if err != nil || !ok {
		h.writeError(w, AuthorizationError("human verification failed"))
		return
	}

	meta, cached, err := h.svc.Analyze(r.Context(), url)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if h.metrics != nil {
		if cached {
			h.metrics.IncCacheHits()
		}
		h.metrics.IncAnalyses()
	}
	h.log.Debug("analyze served",
		slog.String("video_id", meta.ID),
		slog.Bool("cached", cached),
		slog.Int("formats", len(meta.Formats)))
	h.writeJSON(w, http.StatusOK, meta)
}

// Download handles GET /download?url=...&format_id=...&csrf=... and streams
// the chosen encoding as an attachment. The csrf parameter is accepted and
// unused.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get("Referer"), h.appDomain) {
		h.writeError(w, AuthorizationError("invalid referer"))
		return
	}

	ip := clientIP(r)
	if !h.downloadLimiter.Allow(ip) {
		if h.metrics != nil {
			h.metrics.IncRateLimited()
		}
		h.writeError(w, RateLimitError("too many downloads, try again later"))
		return
	}

	query := r.URL.Query()
	dl, err := h.svc.PrepareDownload(r.Context(), query.Get("url"), query.Get("format_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	upstream, err := h.proxy.Open(r.Context(), dl.SourceURL)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer upstream.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.Filename))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)

	if h.metrics != nil {
		h.metrics.IncDownloads()
	}

	// Past this point headers are committed; a failed relay just ends the
	// stream and the client sees a short download.
	if err := h.proxy.Relay(w, upstream); err != nil {
		h.log.Warn("download stream aborted",
			slog.String("ip", ip),
			slog.String("filename", dl.Filename),
			slog.String("error", err.Error()))
	}
}

// Index handles GET / with the embedded front-end page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("write response failed", slog.String("error", err.Error()))
	}
}

// writeError maps err to its status and a JSON {detail} body. Non-gateway
// errors answer 500 with a generic detail; the diagnostic stays in the log.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := StatusCode(err)
	if status == http.StatusInternalServerError {
		h.log.Error("internal error", slog.String("error", err.Error()))
	}
	h.writeJSON(w, status, map[string]string{"detail": Detail(err)})
}

// clientIP derives the rate-limit identity: the first X-Forwarded-For entry
// when present, otherwise the host part of the remote address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	if host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr)); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
