package domain

import "fmt"

// Feature identifies one of the fixed generation capabilities.
type Feature string

const (
	FeatureArticleGenerator  Feature = "article-generator"
	FeatureImageGenerator    Feature = "image-generator"
	FeatureBackgroundRemover Feature = "background-remover"
	FeatureResumeAnalyzer    Feature = "resume-analyzer"
)

// AllFeatures lists every feature in a stable order (used for usage reports
// and config validation).
var AllFeatures = []Feature{
	FeatureArticleGenerator,
	FeatureImageGenerator,
	FeatureBackgroundRemover,
	FeatureResumeAnalyzer,
}

// ParseFeature converts a string to a Feature, validating it is known.
func ParseFeature(s string) (Feature, error) {
	f := Feature(s)
	if !f.Valid() {
		return "", fmt.Errorf("unknown feature %q: %w", s, ErrValidation)
	}
	return f, nil
}

// Valid reports whether the feature is one of the known values.
func (f Feature) Valid() bool {
	switch f {
	case FeatureArticleGenerator, FeatureImageGenerator, FeatureBackgroundRemover, FeatureResumeAnalyzer:
		return true
	}
	return false
}

// ProducesImage reports whether the feature's canonical output is an image
// (base64 blob) rather than text.
func (f Feature) ProducesImage() bool {
	return f == FeatureImageGenerator || f == FeatureBackgroundRemover
}

func (f Feature) String() string { return string(f) }
