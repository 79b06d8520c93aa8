package preview

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fatih/color"
	"go.uber.org/zap"
)

var ErrEmptyImage = errors.New("image has no pixels")

type Renderer struct {
	logger *zap.Logger
}

func NewRenderer(logger *zap.Logger) *Renderer {
	return &Renderer{logger: logger}
}

func (r *Renderer) Decode(src io.Reader) (image.Image, error) {
	img, err := imaging.Decode(src)
	if err != nil {
		r.logger.Error("Failed to decode timeline image", zap.Error(err))
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Strip squeezes a color timeline into width columns of one row each and
// renders every column as a true-color terminal cell.
func (r *Renderer) Strip(img image.Image, width int) (string, error) {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return "", ErrEmptyImage
	}
	if width <= 0 || width > bounds.Dx() {
		width = bounds.Dx()
	}

	r.logger.Debug("Rendering timeline strip",
		zap.Int("source_width", bounds.Dx()),
		zap.Int("source_height", bounds.Dy()),
		zap.Int("width", width),
	)

	row := imaging.Resize(img, width, 1, imaging.Box)

	var b strings.Builder
	for x := 0; x < width; x++ {
		c := row.NRGBAAt(x, 0)
		b.WriteString(Block(int(c.R), int(c.G), int(c.B), 1))
	}

	return b.String(), nil
}

// Block is width cells painted with a 24-bit background color.
// Color is forced on so piped output keeps the cells.
func Block(r, g, b, width int) string {
	c := color.BgRGB(r, g, b)
	c.EnableColor()
	return c.Sprint(strings.Repeat(" ", width))
}
