// Package media serves GridFS payloads referenced by message and diary URLs.
package media

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"parallel/internal/common"
	"parallel/internal/dbmongo"
)

// FileSource is implemented by *dbmongo.MediaStorage.
type FileSource interface {
	DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, *dbmongo.MediaFile, error)
}

type HTTPServer struct {
	storage FileSource
	router  *mux.Router
	logger  *slog.Logger
}

func NewHTTPServer(storage FileSource, logger *slog.Logger) *HTTPServer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &HTTPServer{storage: storage, logger: logger}

	router := mux.NewRouter()
	router.HandleFunc("/media/{fileId}", s.serveFile).Methods(http.MethodGet)
	router.HandleFunc("/health", s.health).Methods(http.MethodGet)
	s.router = router

	return s
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *HTTPServer) serveFile(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["fileId"]

	reader, mediaFile, err := s.storage.DownloadFile(r.Context(), fileID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) || strings.Contains(err.Error(), "invalid file ID") {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		s.logger.ErrorContext(r.Context(), "media download failed", "file", fileID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", contentType(mediaFile))
	w.Header().Set("Content-Length", strconv.FormatInt(mediaFile.Size, 10))
	w.Header().Set("Cache-Control", "private, max-age=86400")

	if _, err := io.Copy(w, reader); err != nil {
		s.logger.WarnContext(r.Context(), "error streaming file", "file", fileID, "error", err)
	}
}

// contentType prefers the stored MIME type and falls back to the file extension.
func contentType(f *dbmongo.MediaFile) string {
	if f.MimeType != "" {
		return f.MimeType
	}
	switch strings.ToLower(filepath.Ext(f.Filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".m4a":
		return "audio/mp4"
	default:
		return "application/octet-stream"
	}
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
