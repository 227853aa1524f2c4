package dbmongo

import (
	"bytes"
	"context"
	"fmt"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"parallel/internal/common"
)

// MaxMediaSize caps a single upload.
const MaxMediaSize = 25 << 20

// Bucket is the part of *gridfs.Bucket used by MediaStorage.
type Bucket interface {
	UploadFromStream(filename string, source io.Reader, opts ...*options.UploadOptions) (primitive.ObjectID, error)
	OpenDownloadStream(fileID interface{}) (*gridfs.DownloadStream, error)
	Delete(fileID interface{}) error
}

type MediaStorage struct {
	gridFS  Bucket
	baseURL string
	logger  *slog.Logger
	now     func() time.Time
}

var _ common.MediaUploader = (*MediaStorage)(nil)

// NewMediaStorage serves uploaded files under baseURL, e.g.
// http://localhost:8081/media. A nil logger uses slog.Default().
func NewMediaStorage(bucket Bucket, baseURL string, logger *slog.Logger) *MediaStorage {
	if logger == nil {
		logger = slog.Default()
	}
	return &MediaStorage{
		gridFS:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		now:     time.Now,
	}
}

type MediaFile struct {
	ID         string               `json:"id"`
	Filename   string               `json:"filename"`
	MimeType   string               `json:"mime_type"`
	Size       int64                `json:"size"`
	FileType   common.MediaFileType `json:"file_type"`
	UploadedBy string               `json:"uploaded_by"`
	UploadedAt time.Time            `json:"uploaded_at"`
}

// Upload stores a message or diary payload and returns its public URL.
func (ms *MediaStorage) Upload(ctx context.Context, ownerID string, fileType common.MediaFileType, data []byte) (string, error) {
	if !fileType.IsValid() {
		return "", common.Validationf("unknown media type %q", fileType)
	}
	if len(data) == 0 {
		return "", common.Validationf("media payload cannot be empty")
	}

	filename := fmt.Sprintf("%s-%s-%d", fileType, ownerID, ms.now().UnixNano())
	file, err := ms.UploadFile(ctx, filename, "", fileType, ownerID, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return ms.URL(file.ID), nil
}

func (ms *MediaStorage) URL(fileID string) string {
	return ms.baseURL + "/" + fileID
}

// Remove deletes the file behind a URL previously returned by Upload.
func (ms *MediaStorage) Remove(ctx context.Context, url string) error {
	fileID, ok := strings.CutPrefix(url, ms.baseURL+"/")
	if !ok || fileID == "" {
		return common.Validationf("media URL %q is not served here", url)
	}
	return ms.DeleteFile(ctx, fileID)
}

// UploadFile streams content into GridFS. An empty mimeType is sniffed from
// the first bytes of content, and an empty fileType is derived from the MIME
// type.
func (ms *MediaStorage) UploadFile(ctx context.Context, filename, mimeType string, fileType common.MediaFileType, uploaderID string, content io.Reader) (*MediaFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limited := &countingReader{r: io.LimitReader(content, MaxMediaSize+1)}
	src := io.Reader(limited)
	if mimeType == "" {
		head := make([]byte, 512)
		n, err := io.ReadFull(limited, head)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return nil, fmt.Errorf("read media head: %w", err)
		}
		head = head[:n]
		mimeType = http.DetectContentType(head)
		src = io.MultiReader(bytes.NewReader(head), limited)
	}
	if fileType == "" {
		fileType = common.DetectFileType(mimeType)
	}
	uploadedAt := ms.now()

	metadata := bson.M{
		"file_type":   fileType.String(),
		"mime_type":   mimeType,
		"uploaded_by": uploaderID,
		"uploaded_at": uploadedAt,
	}

	id, err := ms.gridFS.UploadFromStream(filename, src, options.GridFSUpload().SetMetadata(metadata))
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	if limited.n > MaxMediaSize {
		if err := ms.gridFS.Delete(id); err != nil {
			ms.logger.Warn("failed to delete oversized upload", "file_id", id.Hex(), "error", err)
		}
		return nil, common.Validationf("media payload exceeds %d bytes", MaxMediaSize)
	}

	return &MediaFile{
		ID:         id.Hex(),
		Filename:   filename,
		MimeType:   mimeType,
		Size:       limited.n,
		FileType:   fileType,
		UploadedBy: uploaderID,
		UploadedAt: uploadedAt,
	}, nil
}

// DownloadFile opens a stream for fileID. The caller closes it.
func (ms *MediaStorage) DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, *MediaFile, error) {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid file ID: %w", err)
	}

	stream, err := ms.gridFS.OpenDownloadStream(objectID)
	if err != nil {
		if err == gridfs.ErrFileNotFound {
			return nil, nil, fmt.Errorf("media %s %w", fileID, common.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("download failed: %w", err)
	}

	fileInfo := stream.GetFile()
	var metadata bson.M
	if fileInfo.Metadata != nil {
		_ = bson.Unmarshal(fileInfo.Metadata, &metadata)
	}

	return stream, &MediaFile{
		ID:         fileID,
		Filename:   fileInfo.Name,
		MimeType:   getStringFromMap(metadata, "mime_type"),
		Size:       fileInfo.Length,
		FileType:   common.MediaFileType(getStringFromMap(metadata, "file_type")),
		UploadedBy: getStringFromMap(metadata, "uploaded_by"),
		UploadedAt: fileInfo.UploadDate,
	}, nil
}

func (ms *MediaStorage) DeleteFile(ctx context.Context, fileID string) error {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return fmt.Errorf("invalid file ID: %w", err)
	}
	if err := ms.gridFS.Delete(objectID); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return fmt.Errorf("media %s %w", fileID, common.ErrNotFound)
		}
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func getStringFromMap(m bson.M, key string) string {
	if m == nil {
		return ""
	}
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}
