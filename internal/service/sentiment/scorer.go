package sentiment

import (
	"math"
	"time"

	"github.com/jonreiter/govader"

	"github.com/franciiscocg/Trading212/internal/domain/models"
)

// Scorer computes two independent sentiment estimates over a batch of news
// titles and combines them. Scoring is pure: identical input texts always
// produce identical scores; only ComputedAt depends on the clock.
type Scorer struct {
	vader   *govader.SentimentIntensityAnalyzer
	pattern *patternAnalyzer
	now     func() time.Time
}

// NewScorer creates a scorer with the default lexicons.
func NewScorer() *Scorer {
	return &Scorer{
		vader:   govader.NewSentimentIntensityAnalyzer(),
		pattern: newPatternAnalyzer(),
		now:     time.Now,
	}
}

// WithClock overrides the ComputedAt time source, for tests.
func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	s.now = now
	return s
}

// Score analyzes the given texts for symbol. Empty input is a defined
// outcome: all scores neutral and NewsCount zero, distinct from a fetch
// failure upstream.
func (s *Scorer) Score(symbol string, texts []string) models.SentimentRecord {
	rec := models.SentimentRecord{Symbol: symbol, ComputedAt: s.now()}

	var totalCompound, totalPolarity, totalSubjectivity float64
	count := 0
	for _, text := range texts {
		if text == "" {
			continue
		}
		vs := s.vader.PolarityScores(text)
		pol, subj := s.pattern.Analyze(text)

		totalCompound += vs.Compound
		totalPolarity += pol
		totalSubjectivity += subj
		count++
	}
	if count == 0 {
		return rec
	}

	avgCompound := totalCompound / float64(count)
	avgPolarity := totalPolarity / float64(count)
	avgSubjectivity := totalSubjectivity / float64(count)

	rec.NewsCount = count
	rec.VaderScore = round4(avgCompound)
	rec.TextBlobPolarity = round4(avgPolarity)
	rec.TextBlobSubjectivity = round4(avgSubjectivity)
	rec.OverallScore = round4(clamp((avgCompound+avgPolarity)/2, -1, 1))
	return rec
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
