package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// ImageStore stocke les photos du menu et renvoie leur URL publique.
type ImageStore interface {
	Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error)
}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageExtension renvoie l'extension associée au type MIME, false s'il n'est pas accepté.
func ImageExtension(contentType string) (string, bool) {
	ext, ok := allowedImageTypes[strings.ToLower(strings.TrimSpace(contentType))]
	return ext, ok
}

type MinIOImages struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewMinIOImages(client *minio.Client, endpoint, bucket string, useSSL bool) *MinIOImages {
	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	return &MinIOImages{
		client:  client,
		bucket:  bucket,
		baseURL: fmt.Sprintf("%s://%s/%s", scheme, endpoint, bucket),
	}
}

// Upload range l'objet sous menu/<uuid><ext> pour éviter les collisions de noms.
func (m *MinIOImages) Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error) {
	ext, ok := ImageExtension(contentType)
	if !ok {
		ext = strings.ToLower(path.Ext(filename))
	}
	object := "menu/" + uuid.NewString() + ext

	_, err := m.client.PutObject(ctx, m.bucket, object, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("minio put %s: %w", object, err)
	}
	return m.baseURL + "/" + object, nil
}
