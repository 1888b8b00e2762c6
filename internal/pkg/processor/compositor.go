package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Options holds the caption layout ratios, all relative to the source image width.
type Options struct {
	BufferScale float64 // horizontal margin
	FontScale   float64 // initial font size
	MinScale    float64 // font size floor before word wrap kicks in
	ShrinkRatio float64 // per-step font size reduction
	LineSpacing int     // extra pixels between wrapped lines
}

func DefaultOptions() Options {
	return Options{
		BufferScale: 0.03,
		FontScale:   1.0,
		MinScale:    0.05,
		ShrinkRatio: 0.9,
		LineSpacing: 4,
	}
}

type Compositor interface {
	// Compose stacks a caption band above the source image and returns the PNG bytes.
	// An empty filePath skips writing the result to disk.
	Compose(source []byte, caption string, filePath string) (*Result, error)
}

type Result struct {
	PNG        []byte
	Width      int
	Height     int
	BandHeight int
	FontSize   float64
	Lines      []string
}

type compositor struct {
	font *opentype.Font
	opts Options
}

func NewCompositor(f *opentype.Font, opts Options) Compositor {
	return &compositor{font: f, opts: opts}
}

func (c *compositor) Compose(source []byte, caption string, filePath string) (*Result, error) {
	src, err := imaging.Decode(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("failed to decode source image: %w", err)
	}

	out, lay, err := c.compose(src, caption)
	if err != nil {
		return nil, err
	}

	if filePath != "" {
		if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
			return nil, err
		}
		if err := imaging.Save(out, filePath); err != nil {
			return nil, fmt.Errorf("failed to save meme %s: %w", filePath, err)
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode meme: %w", err)
	}

	return &Result{
		PNG:        buf.Bytes(),
		Width:      out.Bounds().Dx(),
		Height:     out.Bounds().Dy(),
		BandHeight: lay.bandHeight,
		FontSize:   lay.fontSize,
		Lines:      lay.lines,
	}, nil
}

func (c *compositor) compose(src image.Image, caption string) (*image.NRGBA, *layout, error) {
	width := src.Bounds().Dx()
	if width <= 0 || src.Bounds().Dy() <= 0 {
		return nil, nil, fmt.Errorf("source image has no pixels")
	}

	lay, err := c.layout(caption, width)
	if err != nil {
		return nil, nil, err
	}
	defer lay.face.Close()

	logrus.WithFields(logrus.Fields{
		"font_size":   lay.fontSize,
		"lines":       len(lay.lines),
		"band_height": lay.bandHeight,
	}).Debug("Caption layout computed")

	band := imaging.New(width, lay.bandHeight, color.White)
	c.drawCaption(band, lay)

	out := imaging.New(width, src.Bounds().Dy()+lay.bandHeight, color.Transparent)
	out = imaging.Paste(out, band, image.Pt(0, 0))
	out = imaging.Paste(out, src, image.Pt(0, lay.bandHeight))

	return out, lay, nil
}

type layout struct {
	lines       []string
	fontSize    float64
	margin      int
	bandHeight  int
	blockHeight int
	ascent      int
	lineHeight  int
	face        font.Face
}

func (c *compositor) newFace(size float64) (font.Face, error) {
	face, err := opentype.NewFace(c.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face (size %.2f): %w", size, err)
	}
	return face, nil
}

// layout shrinks the font until the caption fits on one line; once the next step would go
// below the floor it keeps the current size and wraps words instead.
func (c *compositor) layout(caption string, width int) (*layout, error) {
	words := strings.Fields(caption)
	text := strings.Join(words, " ")

	margin := int(c.opts.BufferScale * float64(width))
	available := width - 2*margin
	size := c.opts.FontScale * float64(width)
	minSize := c.opts.MinScale * float64(width)

	face, err := c.newFace(size)
	if err != nil {
		return nil, err
	}

	lines := []string{text}
	for measure(face, text) > available {
		next := size * c.opts.ShrinkRatio
		if next < minSize {
			lines = wrapWords(face, words, available)
			break
		}
		face.Close()
		size = next
		if face, err = c.newFace(size); err != nil {
			return nil, err
		}
	}
	if text == "" {
		lines = nil
	}

	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	lineHeight := metrics.Height.Ceil() + c.opts.LineSpacing

	blockHeight := 0
	if len(lines) > 0 {
		blockHeight = ascent + metrics.Descent.Ceil() + (len(lines)-1)*lineHeight
	}

	return &layout{
		lines:       lines,
		fontSize:    size,
		margin:      margin,
		bandHeight:  blockHeight + int(size*0.1) + 2*margin,
		blockHeight: blockHeight,
		ascent:      ascent,
		lineHeight:  lineHeight,
		face:        face,
	}, nil
}

// wrapWords greedily fills each line while it still fits; a word wider than the line stays alone.
func wrapWords(face font.Face, words []string, available int) []string {
	if len(words) == 0 {
		return nil
	}

	lines := []string{words[0]}
	for _, word := range words[1:] {
		candidate := lines[len(lines)-1] + " " + word
		if measure(face, candidate) > available {
			lines = append(lines, word)
		} else {
			lines[len(lines)-1] = candidate
		}
	}
	return lines
}

func (c *compositor) drawCaption(band *image.NRGBA, lay *layout) {
	drawer := &font.Drawer{
		Dst:  band,
		Src:  image.NewUniform(color.Black),
		Face: lay.face,
	}

	top := (lay.bandHeight - lay.blockHeight) / 2
	for i, line := range lay.lines {
		x := (band.Bounds().Dx() - measure(lay.face, line)) / 2
		y := top + lay.ascent + i*lay.lineHeight
		drawer.Dot = fixed.P(x, y)
		drawer.DrawString(line)
	}
}

func measure(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}
