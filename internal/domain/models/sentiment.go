package models

import "time"

// SentimentRecord is the dual sentiment estimate for one symbol's recent news.
// OverallScore is the mean of VaderScore and TextBlobPolarity; all aggregate
// figures are rounded to 4 decimals.
type SentimentRecord struct {
	Symbol              string    `json:"symbol"`
	NewsCount           int       `json:"news_count"`
	VaderScore          float64   `json:"vader_score"`
	TextBlobPolarity    float64   `json:"textblob_polarity"`
	TextBlobSubjectivity float64  `json:"textblob_subjectivity"`
	OverallScore        float64   `json:"overall_score"`
	ComputedAt          time.Time `json:"computed_at"`
}

// SentimentLabel is the display band for an overall score.
type SentimentLabel string

const (
	SentimentVeryPositive SentimentLabel = "very_positive"
	SentimentPositive     SentimentLabel = "positive"
	SentimentNeutral      SentimentLabel = "neutral"
	SentimentNegative     SentimentLabel = "negative"
	SentimentVeryNegative SentimentLabel = "very_negative"
)

// Label classifies the overall score into its display band.
// Band edges are a compatibility contract with existing consumers.
func (r SentimentRecord) Label() SentimentLabel {
	s := r.OverallScore
	switch {
	case s >= 0.1:
		return SentimentVeryPositive
	case s >= 0.05:
		return SentimentPositive
	case s > -0.05:
		return SentimentNeutral
	case s >= -0.1:
		return SentimentNegative
	default:
		return SentimentVeryNegative
	}
}
