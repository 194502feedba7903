package render

import (
	"bytes"
	"image"
	"image/png"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// normalizeImage sniffs the raster format and returns bytes in a form the
// PDF backend embeds natively. PNG, JPEG and GIF pass through; BMP, TIFF
// and WebP are decoded and re-encoded as PNG.
func normalizeImage(data []byte) ([]byte, string, error) {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG")):
		return data, "PNG", nil
	case bytes.HasPrefix(data, []byte("\xFF\xD8")):
		return data, "JPG", nil
	case bytes.HasPrefix(data, []byte("GIF8")):
		return data, "GIF", nil
	case bytes.HasPrefix(data, []byte("BM")):
		return reencode(data, bmp.Decode)
	case bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*")):
		return reencode(data, tiff.Decode)
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return reencode(data, webp.Decode)
	default:
		return nil, "", errors.New("unrecognized image format")
	}
}

func reencode(data []byte, decode func(io.Reader) (image.Image, error)) ([]byte, string, error) {
	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", errors.Wrap(err, "decode image")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", errors.Wrap(err, "encode png")
	}
	return buf.Bytes(), "PNG", nil
}
