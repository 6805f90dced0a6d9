package detection_test

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/smartjunction-oss/detection"
	"github.com/tsinghua-fib-lab/smartjunction-oss/entity"
)

// fill 在图像上画一个亮色矩形
func fill(img *image.Gray, x0, y0, w, h int) {
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			img.Pix[y*img.Stride+x] = 0xff
		}
	}
}

func frameOf(img *image.Gray) *entity.Frame {
	return &entity.Frame{Image: img}
}

func TestBlobDetectorEmptyFrame(t *testing.T) {
	d := detection.NewBlobDetector()
	img := image.NewGray(image.Rect(0, 0, 64, 48))
	assert.Equal(t, 0, d.Detect(frameOf(img)))
}

func TestBlobDetectorCountsSeparateBlobs(t *testing.T) {
	d := detection.NewBlobDetector()
	img := image.NewGray(image.Rect(0, 0, 64, 48))
	fill(img, 2, 2, 8, 8)
	fill(img, 20, 10, 8, 8)
	fill(img, 40, 30, 8, 8)
	assert.Equal(t, 3, d.Detect(frameOf(img)))
}

func TestBlobDetectorMergesTouchingBlobs(t *testing.T) {
	// two rectangles sharing an edge form one connected component
	d := detection.NewBlobDetector()
	img := image.NewGray(image.Rect(0, 0, 64, 48))
	fill(img, 10, 10, 8, 8)
	fill(img, 18, 10, 8, 8)
	assert.Equal(t, 1, d.Detect(frameOf(img)))
}

func TestBlobDetectorIgnoresSpeckles(t *testing.T) {
	// isolated bright pixels below min area are noise, not vehicles
	d := detection.NewBlobDetector()
	img := image.NewGray(image.Rect(0, 0, 64, 48))
	img.Pix[5*img.Stride+5] = 0xff
	img.Pix[30*img.Stride+50] = 0xff
	fill(img, 20, 20, 8, 8)
	assert.Equal(t, 1, d.Detect(frameOf(img)))
}

func TestBlobDetectorIgnoresDimPixels(t *testing.T) {
	// below-threshold regions never count
	d := detection.NewBlobDetector()
	img := image.NewGray(image.Rect(0, 0, 64, 48))
	for y := 10; y < 20; y++ {
		for x := 10; x < 20; x++ {
			img.Pix[y*img.Stride+x] = 0x40
		}
	}
	assert.Equal(t, 0, d.Detect(frameOf(img)))
}
