package ocr

import (
	"image"
	"image/color"
	"image/draw"
	"sort"
	"strconv"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
	xdraw "golang.org/x/image/draw"
)

// orientationTag values follow the EXIF specification: 1 is upright,
// 2-8 encode mirror and rotation combinations applied by the camera.
const orientationTag = "Orientation"

// readOrientation extracts the EXIF orientation from raw image bytes.
// Images without EXIF data, or with unparseable orientation entries,
// are treated as upright.
func readOrientation(raw []byte) int {
	rawExif, err := exif.SearchAndExtractExif(raw)
	if err != nil || rawExif == nil {
		return 1
	}
	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return 1
	}

	for _, entry := range entries {
		if entry.TagName != orientationTag {
			continue
		}
		// Formatted may carry trailing text; the leading field is the value.
		fields := strings.Fields(entry.Formatted)
		if len(fields) == 0 {
			return 1
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil || n < 1 || n > 8 {
			return 1
		}
		return n
	}
	return 1
}

// orient applies the EXIF orientation to the image so OCR always sees
// upright text. Orientation 1 returns the input unchanged.
func orient(img image.Image, orientation int) image.Image {
	if orientation <= 1 || orientation > 8 {
		return img
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	// Orientations 5-8 swap the axes.
	var dst *image.RGBA
	if orientation >= 5 {
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
	} else {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.At(b.Min.X+x, b.Min.Y+y)
			switch orientation {
			case 2: // mirrored horizontally
				dst.Set(w-1-x, y, c)
			case 3: // rotated 180
				dst.Set(w-1-x, h-1-y, c)
			case 4: // mirrored vertically
				dst.Set(x, h-1-y, c)
			case 5: // mirrored then rotated 270 CW
				dst.Set(y, x, c)
			case 6: // rotated 90 CW
				dst.Set(h-1-y, x, c)
			case 7: // mirrored then rotated 90 CW
				dst.Set(h-1-y, w-1-x, c)
			case 8: // rotated 270 CW
				dst.Set(y, w-1-x, c)
			}
		}
	}
	return dst
}

// grayscale converts the image to 8-bit grayscale.
func grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

// medianFilter applies a 3x3 median filter, the denoise pass receipt
// photographs need before OCR. Border pixels are copied unchanged.
func medianFilter(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	copy(dst.Pix, src.Pix)

	if w < 3 || h < 3 {
		return dst
	}

	window := make([]byte, 0, 9)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			window = window[:0]
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					window = append(window, src.GrayAt(x+dx, y+dy).Y)
				}
			}
			sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })
			dst.SetGray(x, y, color.Gray{Y: window[4]})
		}
	}
	return dst
}

// upscale doubles the image size when it is narrower than minWidth.
// Small phone photos of receipts produce glyphs below the size OCR
// engines recognize reliably.
func upscale(src *image.Gray, minWidth int) *image.Gray {
	b := src.Bounds()
	if b.Dx() >= minWidth {
		return src
	}
	dst := image.NewGray(image.Rect(0, 0, b.Dx()*2, b.Dy()*2))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
