package sheet

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/cdmi123/progress-report/internal/util"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// 签名图片按 4 倍分辨率栅格化, 保证打印清晰
const signatureScale = 4

var errEmptySignature = errors.New("empty signature")

// decodeBase64 接受纯 base64 或 data URI
func decodeBase64(data string) ([]byte, error) {
	data = strings.TrimSpace(data)
	if i := strings.Index(data, ","); i >= 0 && strings.HasPrefix(data, "data:") {
		data = data[i+1:]
	}
	data = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, data)
	if data == "" {
		return nil, errEmptySignature
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(data, "="))
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errEmptySignature
	}
	return raw, nil
}

func decodeImage(raw []byte) (image.Image, error) {
	ct, err := util.DetectImageType(raw, util.ImageMimeTypes)
	if err != nil {
		return nil, err
	}

	switch ct {
	case "image/jpeg":
		return jpeg.Decode(bytes.NewReader(raw))
	case "image/png":
		return png.Decode(bytes.NewReader(raw))
	default:
		return webp.Decode(bytes.NewReader(raw))
	}
}

// fit 在 boxW x boxH 内保持宽高比
func fit(w, h int, boxW, boxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	scale := boxW / float64(w)
	if s := boxH / float64(h); s < scale {
		scale = s
	}
	return float64(w) * scale, float64(h) * scale
}

// Signature 解码后的签名, 已缩放并铺白底, 编码为 PNG
type Signature struct {
	PNG    []byte
	Width  int
	Height int
}

// DecodeSignature 解码 base64/data URI 签名 (jpeg/png/webp) 并缩放到 boxW x boxH 点以内
func DecodeSignature(data string, boxW, boxH float64) (*Signature, error) {
	raw, err := decodeBase64(data)
	if err != nil {
		return nil, err
	}
	src, err := decodeImage(raw)
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	fw, fh := fit(b.Dx(), b.Dy(), boxW*signatureScale, boxH*signatureScale)
	w, h := int(fw+0.5), int(fh+0.5)
	if w < 1 || h < 1 {
		return nil, errEmptySignature
	}
	if w > b.Dx() || h > b.Dy() {
		w, h = b.Dx(), b.Dy()
	}

	scaled := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, b, draw.Over, nil)

	// 透明背景铺白, PDF 中不依赖 alpha 通道
	flat := imaging.Overlay(imaging.New(w, h, color.White), scaled, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.PNG); err != nil {
		return nil, err
	}
	return &Signature{PNG: buf.Bytes(), Width: w, Height: h}, nil
}
