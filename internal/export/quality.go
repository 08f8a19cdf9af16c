package export

import (
	appErr "github.com/mirefly/paperdiary/internal/pkg/errors"
)

// Quality is the three-way fidelity/size tradeoff exposed to the user.
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

func ParseQuality(value string) (Quality, error) {
	switch Quality(value) {
	case QualityLow, QualityMedium, QualityHigh:
		return Quality(value), nil
	case "":
		return QualityMedium, nil
	}
	return "", appErr.ErrInvalid
}

type qualitySettings struct {
	// Scale magnifies the off-screen surface before rasterization.
	Scale float64
	// ImageType is the page encoding fed to the PDF ("JPEG" or "PNG").
	ImageType string
	// EncodeQuality is the lossy quality factor, 1.0 for lossless.
	EncodeQuality float64
}

// settings is the fixed quality-to-parameter mapping: low and medium
// trade fidelity for file size with lossy pages, high produces
// lossless pages at double magnification.
func (q Quality) settings() qualitySettings {
	switch q {
	case QualityLow:
		return qualitySettings{Scale: 1.0, ImageType: "JPEG", EncodeQuality: 0.7}
	case QualityHigh:
		return qualitySettings{Scale: 2.0, ImageType: "PNG", EncodeQuality: 1.0}
	default:
		return qualitySettings{Scale: 1.5, ImageType: "JPEG", EncodeQuality: 0.8}
	}
}
