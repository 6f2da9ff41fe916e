package detector

import (
	"context"
	"math"
	"strings"
	"unicode"
)

const localModelVersion = "heuristic-v1"

// LocalProvider scores text with a deterministic statistical heuristic, a
// stand-in for a hosted model: machine text tends to have low vocabulary
// diversity, uniform sentence lengths and a high repeated-bigram rate.
// It needs no network access and is always healthy.
type LocalProvider struct{}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

func (p *LocalProvider) Name() string { return "local" }

func (p *LocalProvider) Health(ctx context.Context) error { return nil }

func (p *LocalProvider) Detect(ctx context.Context, text string, threshold float64) (*Result, error) {
	score := p.score(text)
	isAI := score >= threshold

	// Confidence grows with distance from the decision boundary.
	confidence := math.Abs(score-threshold) * 2
	if confidence > 1 {
		confidence = 1
	}

	return &Result{
		IsAI:       isAI,
		Score:      score,
		Confidence: confidence,
		Label:      labelFor(isAI),
		Provider:   p.Name(),
		Details: map[string]interface{}{
			"model":     localModelVersion,
			"threshold": threshold,
		},
	}, nil
}

// score maps the text onto [0,1]. Higher means more machine-like.
func (p *LocalProvider) score(text string) float64 {
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	// Type-token ratio: low diversity pushes the score up.
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	diversity := float64(len(unique)) / float64(len(words))

	// Repeated bigram rate.
	var repeated float64
	if len(words) > 1 {
		bigrams := make(map[string]int, len(words)-1)
		for i := 0; i < len(words)-1; i++ {
			bigrams[words[i]+" "+words[i+1]]++
		}
		for _, n := range bigrams {
			if n > 1 {
				repeated += float64(n - 1)
			}
		}
		repeated /= float64(len(words) - 1)
	}

	// Sentence length uniformity: low variance reads as machine-like.
	uniformity := sentenceUniformity(text)

	score := 0.45*(1-diversity) + 0.25*repeated + 0.30*uniformity
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func sentenceUniformity(text string) float64 {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	var lengths []float64
	for _, s := range sentences {
		if n := len(strings.Fields(s)); n > 0 {
			lengths = append(lengths, float64(n))
		}
	}
	if len(lengths) < 2 {
		return 0.5
	}

	var mean float64
	for _, l := range lengths {
		mean += l
	}
	mean /= float64(len(lengths))

	var variance float64
	for _, l := range lengths {
		variance += (l - mean) * (l - mean)
	}
	variance /= float64(len(lengths))

	// Coefficient of variation folded into [0,1]; low variation -> high score.
	cv := math.Sqrt(variance) / mean
	if cv > 1 {
		cv = 1
	}
	return 1 - cv
}
