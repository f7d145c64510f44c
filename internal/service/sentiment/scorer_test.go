package sentiment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franciiscocg/Trading212/internal/domain/models"
)

func fixedClock() func() time.Time {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestScoreEmptyInputIsNeutral(t *testing.T) {
	s := NewScorer().WithClock(fixedClock())

	rec := s.Score("AAPL", nil)
	assert.Equal(t, "AAPL", rec.Symbol)
	assert.Equal(t, 0, rec.NewsCount)
	assert.Equal(t, 0.0, rec.VaderScore)
	assert.Equal(t, 0.0, rec.TextBlobPolarity)
	assert.Equal(t, 0.0, rec.TextBlobSubjectivity)
	assert.Equal(t, 0.0, rec.OverallScore)
}

func TestScoreBlankTextsIgnored(t *testing.T) {
	s := NewScorer().WithClock(fixedClock())
	rec := s.Score("AAPL", []string{"", "", ""})
	assert.Equal(t, 0, rec.NewsCount)
	assert.Equal(t, 0.0, rec.OverallScore)
}

func TestScoreDeterminism(t *testing.T) {
	s := NewScorer().WithClock(fixedClock())
	texts := []string{
		"Apple reports strong quarterly earnings, beating analyst expectations",
		"Apple stock rises after positive analyst upgrades",
		"Apple faces supply chain challenges in China",
	}

	a := s.Score("AAPL", texts)
	b := s.Score("AAPL", texts)
	assert.Equal(t, a, b, "identical input must yield bit-identical output")
}

func TestScoreDirection(t *testing.T) {
	s := NewScorer().WithClock(fixedClock())

	up := s.Score("TSLA", []string{"Tesla stock surges on record deliveries and strong growth"})
	down := s.Score("TSLA", []string{"Tesla shares plunge after disappointing earnings miss and layoffs"})

	assert.Equal(t, 1, up.NewsCount)
	assert.Greater(t, up.OverallScore, 0.05)
	assert.Less(t, down.OverallScore, -0.05)
}

func TestScoreOverallIsMeanOfEstimates(t *testing.T) {
	s := NewScorer().WithClock(fixedClock())
	rec := s.Score("AAPL", []string{"Apple posts record profit growth"})

	// overall is the mean of the two polarity figures; all figures are
	// rounded to 4 decimals so allow rounding slack.
	mean := (rec.VaderScore + rec.TextBlobPolarity) / 2
	assert.InDelta(t, mean, rec.OverallScore, 0.0001)
	assert.GreaterOrEqual(t, rec.TextBlobSubjectivity, 0.0)
	assert.LessOrEqual(t, rec.TextBlobSubjectivity, 1.0)
}

func TestScoreBounds(t *testing.T) {
	s := NewScorer().WithClock(fixedClock())
	rec := s.Score("X", []string{
		"excellent outstanding great impressive win",
		"excellent outstanding great impressive win",
	})
	assert.LessOrEqual(t, rec.OverallScore, 1.0)
	assert.GreaterOrEqual(t, rec.OverallScore, -1.0)
}

func TestPatternNegationFlips(t *testing.T) {
	p := newPatternAnalyzer()

	pol, _ := p.Analyze("good news for investors")
	negPol, _ := p.Analyze("not good news for investors")
	require.Greater(t, pol, 0.0)
	assert.Less(t, negPol, 0.0)
}

func TestPatternUnknownWordsNeutral(t *testing.T) {
	p := newPatternAnalyzer()
	pol, subj := p.Analyze("quarterly filing deadline scheduled today")
	assert.Equal(t, 0.0, pol)
	assert.Equal(t, 0.0, subj)
}

func TestLabelBands(t *testing.T) {
	cases := []struct {
		score float64
		want  models.SentimentLabel
	}{
		{0.25, models.SentimentVeryPositive},
		{0.1, models.SentimentVeryPositive},
		{0.07, models.SentimentPositive},
		{0.05, models.SentimentPositive},
		{0.049, models.SentimentNeutral},
		{0.0, models.SentimentNeutral},
		{-0.049, models.SentimentNeutral},
		{-0.05, models.SentimentNegative},
		{-0.1, models.SentimentNegative},
		{-0.11, models.SentimentVeryNegative},
	}
	for _, tc := range cases {
		rec := models.SentimentRecord{OverallScore: tc.score}
		assert.Equal(t, tc.want, rec.Label(), "score %v", tc.score)
	}
}
