package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/tollgate/tollgate"
	"github.com/tollgate/tollgate/store"
)

const (
	downloadTokenTTL = 24 * time.Hour
	writeTokenTTL    = 15 * time.Minute
)

type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type HandlerConfig struct {
	Admin  AdminConfig
	Tokens *tollgate.TokenIssuer
	CORS   CORSConfig

	// PublicBaseURL is the bucket's own public URL, when the backing store
	// exposes one. Empty disables the direct-redirect endpoint.
	PublicBaseURL string
}

// Handler provides the gateway's HTTP handlers over a backing object store.
type Handler struct {
	config HandlerConfig
	store  store.ObjectStore
}

// NewHandler creates a Handler with the given configuration and store.
func NewHandler(config *HandlerConfig, st store.ObjectStore) *Handler {
	return &Handler{
		config: *config,
		store:  st,
	}
}

// Router returns the gateway's routes. Reads and token-bearing writes are
// open routes (the handlers check tokens themselves); token issuance,
// multipart control, and deletes sit behind the admin guard.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Group(func(r chi.Router) {
		r.Get("/api/files", h.handleFiles)
		r.Get("/api/object", h.handleObject)
		r.Get("/api/direct", h.handleDirect)
		r.Put("/api/upload", h.handlePut)
		r.Put("/api/multipart", h.handlePutPart)
	})

	r.Group(func(r chi.Router) {
		r.Use(AdminMiddleware(h.config.Admin))
		r.Get("/api/auth", h.handleAuth)
		r.Get("/api/download", h.handleSignDownload)
		r.Post("/api/upload", h.handleSignUpload)
		r.Post("/api/multipart", h.handleMultipart)
		r.Delete("/api/object", h.handleDelete)
	})

	return r
}

// tokensEnabled reports whether the token layer is active. With no secret
// configured the gateway runs open and token checks are skipped.
func (h *Handler) tokensEnabled() bool {
	return h.config.Tokens != nil && h.config.Tokens.Enabled()
}

// writeAuthorized checks a write request: admin credentials always work,
// and a valid capability token for payload works without credentials.
func (h *Handler) writeAuthorized(r *http.Request, payload string) bool {
	if h.config.Admin.Authorized(r) {
		return true
	}
	return h.tokensEnabled() && h.config.Tokens.Verify(payload, r.URL.Query().Get("token"))
}

func (h *Handler) handleAuth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleFiles(w http.ResponseWriter, r *http.Request) {
	objects, err := h.store.List(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"files": tollgate.BuildTree(objects)})
}

func (h *Handler) handleObject(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if !tollgate.IsValidKey(key) {
		HandleError(w, tollgate.BadRequest("missing or invalid key"))
		return
	}

	download := queryFlag(r, "download")
	if h.tokensEnabled() {
		payload := tollgate.ObjectPayload(key, download)
		if !h.config.Tokens.Verify(payload, r.URL.Query().Get("token")) {
			HandleError(w, tollgate.AuthError("missing or invalid token"))
			return
		}
	}

	// The size lookup is only needed to resolve ranges or to frame a forced
	// download; plain inline reads skip the extra round trip.
	rangeHeader := r.Header.Get("Range")
	total := int64(-1)
	contentType := ""
	if rangeHeader != "" || download {
		meta, err := h.store.Head(r.Context(), key)
		if err != nil {
			HandleError(w, err)
			return
		}
		total = meta.Size
		contentType = meta.ContentType
	}

	rng, err := tollgate.ResolveRange(rangeHeader, total)
	if err != nil {
		if total >= 0 {
			w.Header().Set("Content-Range", tollgate.UnsatisfiableContentRange(total))
		}
		HandleError(w, err)
		return
	}
	if rng == nil && download {
		if full, ok := tollgate.FullRange(total); ok {
			rng = &full
		}
	}

	obj, err := h.store.Get(r.Context(), key, rng)
	if err != nil {
		HandleError(w, err)
		return
	}
	defer obj.Body.Close()

	if contentType == "" {
		contentType = obj.ContentType
	}
	if contentType == "" {
		contentType = tollgate.GuessContentType(key)
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = tollgate.BaseName(key)
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Cache-Control", "no-store")
	if obj.ETag != "" {
		w.Header().Set("ETag", strconv.Quote(obj.ETag))
	}
	switch {
	case download:
		w.Header().Set("Content-Disposition", tollgate.ContentDisposition("attachment", filename))
	case r.URL.Query().Get("filename") != "" || tollgate.Previewable(contentType):
		w.Header().Set("Content-Disposition", tollgate.ContentDisposition("inline", filename))
	}

	if rng != nil {
		w.Header().Set("Content-Range", rng.ContentRange(total))
		w.Header().Set("Content-Length", strconv.FormatInt(rng.Length(), 10))
		w.WriteHeader(http.StatusPartialContent)
	} else {
		if obj.Size >= 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
		}
		w.WriteHeader(http.StatusOK)
	}

	if _, err := io.Copy(w, obj.Body); err != nil {
		// Headers are already on the wire; nothing to report to the client.
		return
	}
}

// handleDirect redirects to the object's public bucket URL, bypassing the
// gateway for stores that expose one. Objects behind a public URL are
// readable without a token, so the redirect itself carries no auth.
func (h *Handler) handleDirect(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if !tollgate.IsValidKey(key) {
		HandleError(w, tollgate.BadRequest("missing or invalid key"))
		return
	}
	base := strings.TrimSuffix(h.config.PublicBaseURL, "/")
	if base == "" {
		HandleError(w, tollgate.BadRequest("public base URL not configured"))
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, base+"/"+encodeKeyPath(key), http.StatusFound)
}

// encodeKeyPath escapes each key segment while keeping the separators.
func encodeKeyPath(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if !tollgate.IsValidKey(key) {
		HandleError(w, tollgate.BadRequest("missing or invalid key"))
		return
	}
	if err := h.store.Delete(r.Context(), key); err != nil {
		HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSignDownload issues a tokenized, shareable object URL. The origin
// comes from the request so the link works behind whatever host the caller
// reached the gateway on.
func (h *Handler) handleSignDownload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if !tollgate.IsValidKey(key) {
		HandleError(w, tollgate.BadRequest("missing or invalid key"))
		return
	}
	download := queryFlag(r, "download")
	filename := r.URL.Query().Get("filename")

	q := url.Values{}
	q.Set("key", key)
	if download {
		q.Set("download", "1")
	}
	if filename != "" {
		q.Set("filename", filename)
	}
	if h.tokensEnabled() {
		token, _ := h.config.Tokens.Issue(tollgate.ObjectPayload(key, download), downloadTokenTTL)
		q.Set("token", token)
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"url": requestOrigin(r) + "/api/object?" + q.Encode(),
	})
}

type signUploadRequest struct {
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
}

// handleSignUpload issues a tokenized direct-write URL, relative to the
// gateway root.
func (h *Handler) handleSignUpload(w http.ResponseWriter, r *http.Request) {
	var req signUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		HandleError(w, tollgate.BadRequest("invalid JSON body"))
		return
	}
	if !tollgate.IsValidKey(req.Key) {
		HandleError(w, tollgate.BadRequest("missing or invalid key"))
		return
	}

	q := url.Values{}
	q.Set("key", req.Key)
	if h.tokensEnabled() {
		token, _ := h.config.Tokens.Issue(tollgate.PutPayload(req.Key), writeTokenTTL)
		q.Set("token", token)
	}

	WriteJSON(w, http.StatusOK, map[string]string{"url": "/api/upload?" + q.Encode()})
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if !tollgate.IsValidKey(key) {
		HandleError(w, tollgate.BadRequest("missing or invalid key"))
		return
	}
	if !h.writeAuthorized(r, tollgate.PutPayload(key)) {
		HandleError(w, tollgate.AuthError("missing or invalid token"))
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = tollgate.GuessContentType(key)
	}

	etag, err := h.store.Put(r.Context(), key, contentType, r.ContentLength, r.Body)
	if err != nil {
		HandleError(w, err)
		return
	}
	if etag != "" {
		w.Header().Set("ETag", strconv.Quote(etag))
	}
	w.WriteHeader(http.StatusOK)
}

type multipartRequest struct {
	Action      string          `json:"action"`
	Key         string          `json:"key"`
	UploadID    string          `json:"uploadId"`
	PartNumber  int             `json:"partNumber"`
	Parts       []tollgate.Part `json:"parts"`
	ContentType string          `json:"contentType"`
}

// handleMultipart dispatches the multipart control actions. Each action is a
// single forward to the backing store; session state lives only there.
func (h *Handler) handleMultipart(w http.ResponseWriter, r *http.Request) {
	var req multipartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		HandleError(w, tollgate.BadRequest("invalid JSON body"))
		return
	}
	if !tollgate.IsValidKey(req.Key) {
		HandleError(w, tollgate.BadRequest("missing or invalid key"))
		return
	}

	switch req.Action {
	case "create":
		contentType := req.ContentType
		if contentType == "" {
			contentType = tollgate.GuessContentType(req.Key)
		}
		uploadID, err := h.store.CreateMultipart(r.Context(), req.Key, contentType)
		if err != nil {
			HandleError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"uploadId": uploadID})

	case "signPart":
		if req.UploadID == "" || req.PartNumber < 1 {
			HandleError(w, tollgate.BadRequest("signPart requires uploadId and partNumber"))
			return
		}
		q := url.Values{}
		q.Set("key", req.Key)
		q.Set("uploadId", req.UploadID)
		q.Set("partNumber", strconv.Itoa(req.PartNumber))
		if h.tokensEnabled() {
			payload := tollgate.PartPayload(req.Key, req.UploadID, req.PartNumber)
			token, _ := h.config.Tokens.Issue(payload, writeTokenTTL)
			q.Set("token", token)
		}
		WriteJSON(w, http.StatusOK, map[string]string{"url": "/api/multipart?" + q.Encode()})

	case "complete":
		if req.UploadID == "" {
			HandleError(w, tollgate.BadRequest("complete requires uploadId"))
			return
		}
		if len(req.Parts) == 0 {
			HandleError(w, tollgate.BadRequest("complete requires a non-empty part list"))
			return
		}
		if err := h.store.CompleteMultipart(r.Context(), req.Key, req.UploadID, req.Parts); err != nil {
			HandleError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})

	case "abort":
		if req.UploadID == "" {
			HandleError(w, tollgate.BadRequest("abort requires uploadId"))
			return
		}
		if err := h.store.AbortMultipart(r.Context(), req.Key, req.UploadID); err != nil {
			HandleError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})

	default:
		HandleError(w, tollgate.BadRequest("unknown multipart action"))
	}
}

func (h *Handler) handlePutPart(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	uploadID := r.URL.Query().Get("uploadId")
	partNumber, err := strconv.Atoi(r.URL.Query().Get("partNumber"))
	if !tollgate.IsValidKey(key) || uploadID == "" || err != nil || partNumber < 1 {
		HandleError(w, tollgate.BadRequest("part write requires key, uploadId, and partNumber"))
		return
	}
	if !h.writeAuthorized(r, tollgate.PartPayload(key, uploadID, partNumber)) {
		HandleError(w, tollgate.AuthError("missing or invalid token"))
		return
	}

	etag, err := h.store.UploadPart(r.Context(), key, uploadID, partNumber, r.ContentLength, r.Body)
	if err != nil {
		HandleError(w, err)
		return
	}
	if etag != "" {
		w.Header().Set("ETag", strconv.Quote(etag))
	}
	w.WriteHeader(http.StatusOK)
}

func queryFlag(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
