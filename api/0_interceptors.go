package api

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/fulldump/box"

	"github.com/fulldump/listassistant/api/apilistv1"
	"github.com/fulldump/listassistant/assistant"
	"github.com/fulldump/listassistant/database"
	"github.com/fulldump/listassistant/document"
)

var ErrUnavailable = errors.New("temporary unavailable")
var ErrPanic = errors.New("internal error")

func RecoverFromPanic(next box.H) box.H {
	return func(ctx context.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Println("ERROR: panic:", err)
				debug.PrintStack()
				box.SetError(ctx, ErrPanic)
			}
		}()
		next(ctx)
	}
}

func AccessLog(l *log.Logger) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			r := box.GetRequest(ctx)
			now := time.Now()
			defer func() {
				l.Println(now.UTC().Format(time.RFC3339Nano), formatRemoteAddr(r), r.Method, r.URL.String(), time.Since(now))
			}()

			next(ctx)
		}
	}
}

func formatRemoteAddr(r *http.Request) string {
	xorigin := strings.TrimSpace(strings.Split(
		r.Header.Get("X-Forwarded-For"), ",")[0])
	if xorigin != "" {
		return xorigin
	}

	i := strings.LastIndex(r.RemoteAddr, ":")
	if i < 0 {
		return r.RemoteAddr
	}
	return r.RemoteAddr[0:i]
}

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (p PrettyError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"error": struct {
			Message     string `json:"message"`
			Description string `json:"description"`
		}{
			p.Message,
			p.Description,
		},
	})
}

func (p PrettyError) MarshalTo(w io.Writer) error {
	return json.NewEncoder(w).Encode(p)
}

func InterceptorUnavailable(db *database.Database) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			status := db.GetStatus()
			if status == database.StatusOpening || status == database.StatusClosing {
				box.SetError(ctx, fmt.Errorf("%w: %s", ErrUnavailable, status))
				return
			}
			next(ctx)
		}
	}
}

// errorStatus maps domain errors to an http status and a description.
var errorStatus = []struct {
	err         error
	status      int
	description string
}{
	{ErrUnauthorized, http.StatusUnauthorized, "user is not authenticated"},
	{ErrUnavailable, http.StatusServiceUnavailable, "the server is not ready, try again later"},
	{database.ErrListNotFound, http.StatusNotFound, "list not found"},
	{assistant.ErrNotFound, http.StatusNotFound, "document not found"},
	{assistant.ErrNoMorePages, http.StatusNotFound, "every page has been fetched already"},
	{database.ErrListAlreadyExists, http.StatusConflict, "list already exists"},
	{assistant.ErrEpisodeConflict, http.StatusConflict, "another change is being applied, retry later"},
	{assistant.ErrPolicyMisconfiguration, http.StatusUnprocessableEntity, "options changed, fetch the list again"},
	{assistant.ErrKeyChanged, http.StatusBadRequest, "document keys can not be modified"},
	{database.ErrKeyImmutable, http.StatusBadRequest, "invalid options"},
	{database.ErrRemoveCriteria, http.StatusBadRequest, "nothing to remove"},
	{document.ErrInvalidJSON, http.StatusBadRequest, "Malformed JSON"},
	{document.ErrMissingKey, http.StatusBadRequest, "every document needs a key"},
	{document.ErrSectionOrder, http.StatusBadRequest, "invalid options"},
	{apilistv1.ErrNameRequired, http.StatusBadRequest, "invalid list"},
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}
		w := box.GetResponse(ctx)

		writeError := func(status int, description string) {
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{
					"message":     err.Error(),
					"description": description,
				},
			})
		}

		for _, e := range errorStatus {
			if errors.Is(err, e.err) {
				writeError(e.status, e.description)
				return
			}
		}

		if err == box.ErrResourceNotFound {
			writeError(http.StatusNotFound, fmt.Sprintf("resource '%s' not found", box.GetRequest(ctx).URL.String()))
			return
		}

		if err == box.ErrMethodNotAllowed {
			writeError(http.StatusMethodNotAllowed, fmt.Sprintf("method '%s' not allowed", box.GetRequest(ctx).Method))
			return
		}

		var syntaxError *json.SyntaxError
		var typeError *json.UnmarshalTypeError
		if errors.As(err, &syntaxError) || errors.As(err, &typeError) || err == io.EOF {
			writeError(http.StatusBadRequest, "Malformed JSON")
			return
		}

		log.Println("ERROR:", err.Error())
		writeError(http.StatusInternalServerError, "Unexpected error")
	}
}

// Compression gzips responses for clients that accept it.
func Compression(next box.H) box.H {
	return func(ctx context.Context) {
		r := box.GetRequest(ctx)
		if !compressible(r) {
			next(ctx)
			return
		}

		c := box.GetBoxContext(ctx)
		c.Response.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(c.Response)
		defer gz.Close()
		c.Response = gzipResponseWriter{Writer: gz, ResponseWriter: c.Response}

		next(ctx)
	}
}

// compressible skips images, already compressed, and /metrics, which
// negotiates its own encoding.
func compressible(r *http.Request) bool {
	if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
		return false
	}
	if r.URL.Path == "/metrics" {
		return false
	}
	mimeType := mime.TypeByExtension(filepath.Ext(r.URL.Path))
	return !strings.HasPrefix(mimeType, "image/")
}

type gzipResponseWriter struct {
	io.Writer
	http.ResponseWriter
}

func (w gzipResponseWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}
