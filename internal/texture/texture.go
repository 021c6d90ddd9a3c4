package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"

	"ely.by/appearance/internal/skin"
)

var ErrUnrenderable = errors.New("skin has no renderable size")

type decoder struct {
	name   string
	match  func(header []byte) bool
	decode func(r io.Reader) (image.Image, error)
}

// TGA has no magic bytes, so it is tried last and never through image.Decode:
// the tga package registers itself with an empty magic which matches any input.
var decoders = []decoder{
	{"png", hasPrefix("\x89PNG\r\n\x1a\n"), png.Decode},
	{"bmp", hasPrefix("BM"), bmp.Decode},
	{"webp", isWebP, webp.Decode},
	{"tga", func([]byte) bool { return true }, tga.Decode},
}

// Decode reads an uploaded texture. Supported formats are PNG, BMP, WebP and TGA.
func Decode(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("texture: unable to read image: %w", err)
	}

	for _, d := range decoders {
		if !d.match(data) {
			continue
		}

		img, err := d.decode(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("texture: unable to decode image: %w", err)
		}

		return img, d.name, nil
	}

	return nil, "", fmt.Errorf("texture: unable to decode image: %w", image.ErrFormat)
}

func hasPrefix(magic string) func(header []byte) bool {
	return func(header []byte) bool {
		return bytes.HasPrefix(header, []byte(magic))
	}
}

func isWebP(header []byte) bool {
	return len(header) >= 12 && string(header[0:4]) == "RIFF" && string(header[8:12]) == "WEBP"
}

// Render builds an image from the raw skin view
func Render(s *skin.Skin) (*image.NRGBA, error) {
	data := s.SkinData()
	width, height, ok := skin.SkinDimensions(len(data))
	if !ok {
		return nil, ErrUnrenderable
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, data)

	return img, nil
}

func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

func EncodeWebP(w io.Writer, img image.Image) error {
	return nativewebp.Encode(w, img, nil)
}
