package storage

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

const thumbnailWidth = 320

// ProcessImage decodes an uploaded image, re-encodes the original as JPEG
// and produces a width-bounded thumbnail. Videos and other media skip this
// path entirely.
func ProcessImage(data []byte) (original, thumbnail []byte, err error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, nil, fmt.Errorf("decode image: %w", err)
	}

	original, err = encodeJPEG(img)
	if err != nil {
		return nil, nil, err
	}

	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	thumbnail, err = encodeJPEG(thumb)
	if err != nil {
		return nil, nil, err
	}

	return original, thumbnail, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
