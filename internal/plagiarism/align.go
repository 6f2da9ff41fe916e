package plagiarism

import (
	"strings"
	"unicode"

	"github.com/rim-zghida/plagiasm-detector/internal/models"
)

// Chunk alignment parameters: source text is cut into windows of chunkWords
// words, and each window is matched against every same-size window of the
// target. Windows overlapping at least minOverlap (Jaccard over lowercased
// tokens) become match spans.
const (
	chunkWords = 24
	minOverlap = 0.5
)

type token struct {
	text   string
	offset int // byte offset in the original text
}

// AlignChunks extracts the ordered match spans between two texts. Spans are
// ordered by source offset; each source window contributes at most its
// best-scoring target window.
func AlignChunks(source, target string) models.MatchSpans {
	srcTokens := tokenizeOffsets(source)
	tgtTokens := tokenizeOffsets(target)
	if len(srcTokens) == 0 || len(tgtTokens) == 0 {
		return nil
	}

	var spans models.MatchSpans
	for start := 0; start < len(srcTokens); start += chunkWords {
		end := start + chunkWords
		if end > len(srcTokens) {
			end = len(srcTokens)
		}
		window := srcTokens[start:end]

		bestScore, bestStart := 0.0, -1
		for tStart := 0; tStart+len(window) <= len(tgtTokens); tStart++ {
			score := jaccard(window, tgtTokens[tStart:tStart+len(window)])
			if score > bestScore {
				bestScore, bestStart = score, tStart
			}
		}
		if bestScore < minOverlap || bestStart < 0 {
			continue
		}

		srcFrom := window[0].offset
		srcTo := window[len(window)-1].offset + len(window[len(window)-1].text)
		spans = append(spans, models.MatchSpan{
			SourceOffset: srcFrom,
			TargetOffset: tgtTokens[bestStart].offset,
			Length:       srcTo - srcFrom,
			Text:         source[srcFrom:srcTo],
			Score:        bestScore,
		})
	}
	return spans
}

func tokenizeOffsets(text string) []token {
	var tokens []token
	start := -1
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, token{text: strings.ToLower(text[start:i]), offset: start})
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{text: strings.ToLower(text[start:]), offset: start})
	}
	return tokens
}

func jaccard(a, b []token) float64 {
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t.text] = struct{}{}
	}
	union := make(map[string]struct{}, len(a)+len(b))
	for k := range set {
		union[k] = struct{}{}
	}
	var inter int
	seen := make(map[string]struct{}, len(b))
	for _, t := range b {
		union[t.text] = struct{}{}
		if _, ok := set[t.text]; ok {
			if _, dup := seen[t.text]; !dup {
				inter++
				seen[t.text] = struct{}{}
			}
		}
	}
	if len(union) == 0 {
		return 0
	}
	return float64(inter) / float64(len(union))
}
