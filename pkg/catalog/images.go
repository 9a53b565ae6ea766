package catalog

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/samvad-hq/catalog-sdk/pkg/httpclient"
)

// UploadImage stores an image on the catalog server and, on success, returns
// a body decodable into UploadImageResponse.
func (c *Client) UploadImage(ctx context.Context, in UploadImageInput) (*httpclient.Result, error) {
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.ImageBase64 = strings.TrimSpace(in.ImageBase64)
	if err := in.Validate(); err != nil {
		return nil, invalid("upload image", err)
	}
	return c.do(ctx, httpclient.MethodPost, "/upload-image", in, nil)
}

// EncodeImageDataURL wraps raw image bytes as data:<mime>;base64,<payload>.
// An empty mimeType is sniffed from the content.
func EncodeImageDataURL(mimeType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("image data is empty")
	}
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("unsupported image type %q", mimeType)
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// ImageDataURLFromFile reads an image file and returns it as a data URL.
func ImageDataURLFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image file: %w", err)
	}
	return EncodeImageDataURL(mime.TypeByExtension(strings.ToLower(filepath.Ext(path))), data)
}
