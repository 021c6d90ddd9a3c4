package skin

import (
	"image"
	"image/color"
)

// PixelGrid is a source of non-premultiplied RGBA pixels
type PixelGrid interface {
	Width() int
	Height() int
	At(x, y int) color.NRGBA
}

// Pixels flattens the grid row by row, top to bottom and left to right,
// writing 4 bytes per pixel in the R, G, B, A order.
func Pixels(grid PixelGrid) []byte {
	width, height := grid.Width(), grid.Height()
	result := make([]byte, 0, width*height*pixelSize)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := grid.At(x, y)
			result = append(result, c.R, c.G, c.B, c.A)
		}
	}

	return result
}

// ImageGrid adapts an image.Image to the PixelGrid.
// Coordinates are relative to the image bounds origin.
func ImageGrid(img image.Image) PixelGrid {
	return &imageGrid{img: img, bounds: img.Bounds()}
}

type imageGrid struct {
	img    image.Image
	bounds image.Rectangle
}

func (g *imageGrid) Width() int {
	return g.bounds.Dx()
}

func (g *imageGrid) Height() int {
	return g.bounds.Dy()
}

func (g *imageGrid) At(x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(g.img.At(g.bounds.Min.X+x, g.bounds.Min.Y+y)).(color.NRGBA)
}

func (s *Skin) SetSkinImage(img image.Image) error {
	return s.SetSkinData(Pixels(ImageGrid(img)))
}

func (s *Skin) SetCapeImage(img image.Image) error {
	return s.SetCapeData(Pixels(ImageGrid(img)))
}

// SkinDimensions returns the width and height of a skin with the given raw length
func SkinDimensions(length int) (width int, height int, ok bool) {
	switch length {
	case SingleSkinSize:
		return 64, 32, true
	case DoubleSkinSize:
		return 64, 64, true
	case Skin128x64Size:
		return 128, 64, true
	case Skin128x128Size:
		return 128, 128, true
	}

	return 0, 0, false
}
