package uploads

import (
	"fmt"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// CaptureDate reads when a photo was taken from its EXIF block, preferring
// DateTimeOriginal over DateTime. Images without EXIF return an error.
func CaptureDate(path string) (*time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode exif: %w", err)
	}

	taken, err := x.DateTime()
	if err != nil {
		return nil, fmt.Errorf("read capture date: %w", err)
	}
	return &taken, nil
}
