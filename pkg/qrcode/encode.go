package qr

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
)

type Format int

const (
	FormatPNG Format = iota
	FormatJPEG
	FormatBMP
)

const jpegQuality = 92

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatBMP:
		return "bmp"
	default:
		return "png"
	}
}

func (f Format) Extension() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return "." + f.String()
}

func (f Format) MimeType() string {
	return "image/" + f.String()
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "bmp":
		return FormatBMP, nil
	}
	return 0, fmt.Errorf("unknown image format %q", s)
}

// Encode writes img in the given format. JPEG has no alpha channel, so
// transparent pixels are flattened onto white first.
func Encode(img image.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatJPEG:
		b := img.Bounds()
		flat := imaging.Overlay(imaging.New(b.Dx(), b.Dy(), color.White), img, image.Pt(0, 0), 1)
		err = jpeg.Encode(&buf, flat, &jpeg.Options{Quality: jpegQuality})
	case FormatBMP:
		err = bmp.Encode(&buf, img)
	default:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(&buf, img)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", f, err)
	}
	return buf.Bytes(), nil
}

// DataURI embeds encoded image bytes in a data: URI.
func DataURI(data []byte, f Format) string {
	return "data:" + f.MimeType() + ";base64," + base64.StdEncoding.EncodeToString(data)
}
