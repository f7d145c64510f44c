package sentiment

import "strings"

// patternAnalyzer is a lexicon-based polarity/subjectivity estimator in the
// TextBlob pattern-lexicon style. It is the second, independently-implemented
// method paired with VADER; the two are averaged into the overall score.
// No Go port of the pattern lexicon exists, so a compact finance-leaning
// subset is embedded here.
type patternAnalyzer struct {
	lexicon map[string]patternEntry
}

type patternEntry struct {
	polarity     float64
	subjectivity float64
}

var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "neither": {}, "nor": {}, "without": {},
}

func newPatternAnalyzer() *patternAnalyzer {
	return &patternAnalyzer{lexicon: patternLexicon}
}

// Analyze returns average polarity in [-1,1] and subjectivity in [0,1] over
// the words of text that appear in the lexicon. A word directly preceded by
// a negation has its polarity inverted. Texts with no scored words are
// neutral and fully objective.
func (a *patternAnalyzer) Analyze(text string) (polarity, subjectivity float64) {
	words := tokenize(text)

	var polSum, subjSum float64
	scored := 0
	negate := false
	for _, w := range words {
		if _, ok := negations[w]; ok {
			negate = true
			continue
		}
		e, ok := a.lexicon[w]
		if !ok {
			negate = false
			continue
		}
		pol := e.polarity
		if negate {
			pol = -pol * 0.5
			negate = false
		}
		polSum += pol
		subjSum += e.subjectivity
		scored++
	}
	if scored == 0 {
		return 0, 0
	}
	return polSum / float64(scored), subjSum / float64(scored)
}

func tokenize(text string) []string {
	lower := strings.ToLower(text)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && r != '\''
	})
}

// patternLexicon maps words to (polarity, subjectivity), polarity in [-1,1]
// and subjectivity in [0,1]. Values follow the pattern lexicon's conventions
// for the general entries plus finance vocabulary common in headlines.
var patternLexicon = map[string]patternEntry{
	// general positive
	"good": {0.7, 0.6}, "great": {0.8, 0.75}, "excellent": {1.0, 1.0},
	"strong": {0.45, 0.55}, "positive": {0.4, 0.6}, "best": {1.0, 0.3},
	"better": {0.5, 0.5}, "impressive": {0.8, 0.9}, "solid": {0.4, 0.5},
	"successful": {0.65, 0.7}, "success": {0.65, 0.7}, "win": {0.8, 0.7},
	"wins": {0.8, 0.7}, "optimistic": {0.5, 0.7}, "confident": {0.5, 0.7},
	"happy": {0.8, 1.0}, "bullish": {0.6, 0.8}, "favorable": {0.5, 0.6},
	"promising": {0.55, 0.7}, "outstanding": {0.9, 0.9}, "robust": {0.45, 0.5},

	// general negative
	"bad": {-0.7, 0.65}, "poor": {-0.6, 0.6}, "terrible": {-1.0, 1.0},
	"weak": {-0.45, 0.55}, "negative": {-0.4, 0.6}, "worst": {-1.0, 0.3},
	"worse": {-0.5, 0.5}, "disappointing": {-0.6, 0.7}, "loss": {-0.4, 0.3},
	"losses": {-0.4, 0.3}, "fail": {-0.65, 0.6}, "fails": {-0.65, 0.6},
	"failed": {-0.65, 0.6}, "failure": {-0.65, 0.6}, "bearish": {-0.6, 0.8},
	"pessimistic": {-0.5, 0.7}, "unfavorable": {-0.5, 0.6}, "crisis": {-0.7, 0.6},
	"fraud": {-0.8, 0.7}, "scandal": {-0.7, 0.7}, "lawsuit": {-0.4, 0.4},

	// finance movement / results
	"beat": {0.5, 0.6}, "beats": {0.5, 0.6}, "beating": {0.5, 0.6},
	"surge": {0.6, 0.6}, "surges": {0.6, 0.6}, "soar": {0.65, 0.65},
	"soars": {0.65, 0.65}, "rally": {0.5, 0.55}, "rallies": {0.5, 0.55},
	"jump": {0.4, 0.5}, "jumps": {0.4, 0.5}, "rise": {0.35, 0.4},
	"rises": {0.35, 0.4}, "gain": {0.4, 0.4}, "gains": {0.4, 0.4},
	"growth": {0.45, 0.4}, "record": {0.4, 0.4}, "upgrade": {0.5, 0.5},
	"upgrades": {0.5, 0.5}, "upgraded": {0.5, 0.5}, "profit": {0.45, 0.4},
	"profits": {0.45, 0.4}, "expand": {0.3, 0.4}, "expands": {0.3, 0.4},
	"recover": {0.4, 0.5}, "recovery": {0.4, 0.5}, "momentum": {0.3, 0.5},

	"miss": {-0.45, 0.55}, "misses": {-0.45, 0.55}, "missed": {-0.45, 0.55},
	"plunge": {-0.65, 0.6}, "plunges": {-0.65, 0.6}, "crash": {-0.75, 0.65},
	"crashes": {-0.75, 0.65}, "tumble": {-0.55, 0.55}, "tumbles": {-0.55, 0.55},
	"drop": {-0.4, 0.45}, "drops": {-0.4, 0.45}, "fall": {-0.4, 0.45},
	"falls": {-0.4, 0.45}, "fell": {-0.4, 0.45}, "slump": {-0.55, 0.55},
	"slumps": {-0.55, 0.55}, "decline": {-0.4, 0.45}, "declines": {-0.4, 0.45},
	"downgrade": {-0.5, 0.5}, "downgrades": {-0.5, 0.5}, "downgraded": {-0.5, 0.5},
	"cut": {-0.3, 0.4}, "cuts": {-0.3, 0.4}, "layoffs": {-0.55, 0.5},
	"warning": {-0.4, 0.5}, "warns": {-0.4, 0.5}, "risk": {-0.3, 0.5},
	"risks": {-0.3, 0.5}, "concern": {-0.35, 0.55}, "concerns": {-0.35, 0.55},
	"delay": {-0.3, 0.4}, "delays": {-0.3, 0.4}, "challenge": {-0.25, 0.5},
	"challenges": {-0.25, 0.5}, "probe": {-0.35, 0.45}, "investigation": {-0.35, 0.45},
	"volatile": {-0.3, 0.6}, "uncertainty": {-0.35, 0.6}, "recession": {-0.6, 0.5},
}
