package service

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	MaxImageBytes    = 10 * 1024 * 1024
	TargetImageBytes = 93 * 1024 * 1024 / 10

	thumbWidth  = 480
	thumbHeight = 320
)

var ErrImageTooLarge = fmt.Errorf("image is too large even after compression: %w", ErrTransform)

// compressionPass 描述一轮压缩：限制最大宽度后从 startQuality 逐步降低质量。
type compressionPass struct {
	maxWidth     int
	startQuality int
	minQuality   int
	step         int
	acceptBytes  int
}

// compressionLimits 控制压缩目标，测试中可以调小。
type compressionLimits struct {
	target int
	max    int
}

var defaultCompressionLimits = compressionLimits{target: TargetImageBytes, max: MaxImageBytes}

func (l compressionLimits) passes() []compressionPass {
	return []compressionPass{
		{maxWidth: 5000, startQuality: 85, minQuality: 40, step: 3, acceptBytes: l.target},
		{maxWidth: 3000, startQuality: 60, minQuality: 30, step: 5, acceptBytes: l.max},
	}
}

// transformedImage 是压缩后的 JPEG 及其缩略图。
type transformedImage struct {
	Data   []byte
	Thumb  []byte
	Width  int
	Height int
}

// decodeImage 解码图片并按 EXIF Orientation 摆正方向。
func decodeImage(raw []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w: %w", ErrTransform, err)
	}
	return applyOrientation(img, exifOrientation(raw)), nil
}

// exifOrientation returns the EXIF orientation tag, or 1 when absent.
func exifOrientation(raw []byte) int {
	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil || orientation < 1 || orientation > 8 {
		return 1
	}
	return orientation
}

// applyOrientation 按 EXIF 取值 2-8 翻转或旋转图片，5-8 会交换宽高。
func applyOrientation(src image.Image, orientation int) image.Image {
	if orientation <= 1 || orientation > 8 {
		return src
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dstW, dstH := w, h
	if orientation >= 5 {
		dstW, dstH = h, w
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	for y := 0; y < dstH; y++ {
		for x := 0; x < dstW; x++ {
			var sx, sy int
			switch orientation {
			case 2:
				sx, sy = w-1-x, y
			case 3:
				sx, sy = w-1-x, h-1-y
			case 4:
				sx, sy = x, h-1-y
			case 5:
				sx, sy = y, x
			case 6:
				sx, sy = y, h-1-x
			case 7:
				sx, sy = w-1-y, h-1-x
			case 8:
				sx, sy = w-1-y, x
			}
			dst.Set(x, y, src.At(bounds.Min.X+sx, bounds.Min.Y+sy))
		}
	}
	return dst
}

// transformImage 依次尝试各压缩轮次：轮次内逐步降低质量，体积达到该轮目标即返回；
// 一轮结束仍未达到目标但最小结果不超过上限时采用最小结果。所有轮次都超过上限时返回 ErrImageTooLarge。
func transformImage(raw []byte, limits compressionLimits) (*transformedImage, error) {
	src, err := decodeImage(raw)
	if err != nil {
		return nil, err
	}

	var smallest []byte
	for _, pass := range limits.passes() {
		flat := flatten(fitWidth(src, pass.maxWidth))

		var best []byte
		for q := pass.startQuality; q >= pass.minQuality; q -= pass.step {
			data, err := encodeJPEG(flat, q)
			if err != nil {
				return nil, err
			}
			if best == nil || len(data) < len(best) {
				best = data
			}
			if len(data) <= pass.acceptBytes {
				break
			}
		}

		if smallest == nil || len(best) < len(smallest) {
			smallest = best
		}
		if len(best) <= limits.max {
			return finishTransform(flat, best)
		}
	}

	return nil, fmt.Errorf("%.1fMB exceeds %.0fMB: %w", float64(len(smallest))/(1024*1024), float64(limits.max)/(1024*1024), ErrImageTooLarge)
}

func finishTransform(flat *image.RGBA, data []byte) (*transformedImage, error) {
	thumb, err := encodeJPEG(fillCrop(flat, thumbWidth, thumbHeight), 80)
	if err != nil {
		return nil, err
	}
	bounds := flat.Bounds()
	return &transformedImage{Data: data, Thumb: thumb, Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

func fitWidth(src image.Image, maxWidth int) image.Image {
	bounds := src.Bounds()
	if bounds.Dx() <= maxWidth {
		return src
	}
	height := bounds.Dy() * maxWidth / bounds.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

// flatten 将透明像素合成到白色背景上。
func flatten(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)
	return dst
}

// fillCrop scales src to cover width x height and crops the centre.
func fillCrop(src image.Image, width, height int) image.Image {
	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	var crop image.Rectangle
	if srcW*height > srcH*width {
		w := max(srcH*width/height, 1)
		offset := (srcW - w) / 2
		crop = image.Rect(bounds.Min.X+offset, bounds.Min.Y, bounds.Min.X+offset+w, bounds.Max.Y)
	} else {
		h := max(srcW*height/width, 1)
		offset := (srcH - h) / 2
		crop = image.Rect(bounds.Min.X, bounds.Min.Y+offset, bounds.Max.X, bounds.Min.Y+offset+h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w: %w", ErrTransform, err)
	}
	return buf.Bytes(), nil
}
