package photo

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"runtime"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

const (
	previewMaxWidth = 1024
	stampFontSize   = 22
	stampPadding    = 14
)

var (
	stampBg   = color.RGBA{R: 0, G: 0, B: 0, A: 150}
	stampText = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Preview downsizes the photo and stamps the given lines along its bottom edge.
func Preview(c Captured, lines []string) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(c.Data))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}

	img := scaleToWidth(src, previewMaxWidth)
	dc := gg.NewContextForImage(img)
	w, h := float64(dc.Width()), float64(dc.Height())

	if path := findFont(); path != "" {
		if err := dc.LoadFontFace(path, stampFontSize); err != nil {
			slog.Debug("preview font not loaded, using built-in face", slog.String("path", path), slog.Any("err", err))
		}
	}

	_, lineH := dc.MeasureString("Ay")
	lineH *= 1.4
	bandH := lineH*float64(len(lines)) + 2*stampPadding
	if len(lines) > 0 {
		dc.SetColor(stampBg)
		dc.DrawRectangle(0, h-bandH, w, bandH)
		dc.Fill()

		dc.SetColor(stampText)
		y := h - bandH + stampPadding + lineH*0.75
		for _, line := range lines {
			dc.DrawString(line, stampPadding, y)
			y += lineH
		}
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dc.Image(), &jpeg.Options{Quality: 82}); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return out.Bytes(), nil
}

func scaleToWidth(src image.Image, maxWidth int) image.Image {
	b := src.Bounds()
	if b.Dx() <= maxWidth {
		return src
	}
	height := b.Dy() * maxWidth / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

func findFont() string {
	var candidates []string
	if runtime.GOOS == "windows" {
		winRoot := os.Getenv("WINDIR")
		if winRoot == "" {
			winRoot = `C:\Windows`
		}
		candidates = []string{winRoot + `\Fonts\arialbd.ttf`, winRoot + `\Fonts\arial.ttf`}
	} else {
		candidates = []string{
			"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
			"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		}
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
