package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"
	"sync"

	"github.com/cryptomator/cryptomator-tray/internal/appearance"
)

// IconSize is the edge length of the rendered icon in pixels.
const IconSize = 22

var (
	glyphOnLight = color.NRGBA{R: 0x2b, G: 0x2b, B: 0x2b, A: 0xff}
	glyphOnDark  = color.NRGBA{R: 0xf2, G: 0xf2, B: 0xf2, A: 0xff}
)

// ImageFactory renders the padlock tray icon for the current theme. Images
// are cached per theme. It is safe for concurrent use.
type ImageFactory struct {
	theme  appearance.Provider
	encode func(png []byte) []byte

	mu    sync.Mutex
	cache map[appearance.Theme][]byte
}

// NewImageFactory creates a factory. A nil provider always renders for the
// light theme.
func NewImageFactory(theme appearance.Provider) *ImageFactory {
	return &ImageFactory{
		theme:  theme,
		encode: platformEncode,
		cache:  make(map[appearance.Theme][]byte),
	}
}

// LoadImage returns the icon in the platform's tray format.
func (f *ImageFactory) LoadImage() []byte {
	theme := appearance.Light
	if f.theme != nil {
		theme = f.theme.CurrentTheme()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if img, ok := f.cache[theme]; ok {
		return img
	}
	img := f.encode(renderPadlock(theme))
	f.cache[theme] = img
	return img
}

func renderPadlock(theme appearance.Theme) []byte {
	fg := glyphOnLight
	if theme == appearance.Dark {
		fg = glyphOnDark
	}

	img := image.NewNRGBA(image.Rect(0, 0, IconSize, IconSize))
	const (
		cx          = 11.0
		shackleY    = 9.5
		outerRadius = 6.0
		innerRadius = 4.0
		bodyTop     = 10
		bodyBottom  = 20
		bodyLeft    = 3
		bodyRight   = 19
	)
	for y := 0; y < IconSize; y++ {
		for x := 0; x < IconSize; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			inBody := x >= bodyLeft && x < bodyRight && y >= bodyTop && y < bodyBottom
			d := math.Hypot(px-cx, py-shackleY)
			inShackle := y < bodyTop && d <= outerRadius && d >= innerRadius
			keyhole := (x == 10 || x == 11) && y >= 13 && y <= 16
			if (inBody && !keyhole) || inShackle {
				img.SetNRGBA(x, y, fg)
			}
		}
	}

	var buf bytes.Buffer
	// Encoding an in-memory NRGBA image cannot fail.
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// wrapICO embeds a PNG image in a single-entry ICO container.
func wrapICO(pngData []byte, size int) []byte {
	const headerLen = 6 + 16
	var buf bytes.Buffer
	buf.Grow(headerLen + len(pngData))

	dim := uint8(size)
	if size >= 256 {
		dim = 0
	}
	header := struct {
		Reserved, Type, Count uint16
		Width, Height         uint8
		Colors, Reserved2     uint8
		Planes, BitCount      uint16
		Size, Offset          uint32
	}{
		Type:     1,
		Count:    1,
		Width:    dim,
		Height:   dim,
		Planes:   1,
		BitCount: 32,
		Size:     uint32(len(pngData)),
		Offset:   headerLen,
	}
	_ = binary.Write(&buf, binary.LittleEndian, header)
	buf.Write(pngData)
	return buf.Bytes()
}
