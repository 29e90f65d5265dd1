package llm

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/Veraticus/muster/internal/model"
)

// LoadImageFile reads an image from disk and encodes it for a prompt.
func LoadImageFile(path string) (model.Image, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user
	if err != nil {
		return model.Image{}, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	return ImageFromBytes(data)
}

// ImageFromBytes encodes raw image bytes, sniffing the MIME type.
func ImageFromBytes(data []byte) (model.Image, error) {
	if len(data) == 0 {
		return model.Image{}, fmt.Errorf("image is empty")
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return model.Image{}, fmt.Errorf("unsupported image type %q", mime)
	}
	return model.Image{
		MIMEType: mime,
		Data:     base64.StdEncoding.EncodeToString(data),
	}, nil
}
