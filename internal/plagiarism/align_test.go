package plagiarism

import (
	"strings"
	"testing"
)

func TestAlignChunks_IdenticalTexts(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog near the river bank today ", 4)

	spans := AlignChunks(text, text)
	if len(spans) == 0 {
		t.Fatal("identical texts must produce match spans")
	}

	prev := -1
	for _, span := range spans {
		if span.Score != 1 {
			t.Fatalf("identical window scored %v, want 1", span.Score)
		}
		if span.SourceOffset <= prev {
			t.Fatalf("spans not ordered by source offset: %d after %d", span.SourceOffset, prev)
		}
		prev = span.SourceOffset
		if got := text[span.SourceOffset : span.SourceOffset+span.Length]; got != span.Text {
			t.Fatalf("span text %q does not match source slice %q", span.Text, got)
		}
	}
}

func TestAlignChunks_UnrelatedTexts(t *testing.T) {
	source := "apples oranges pears grapes melons cherries plums peaches"
	target := "voltage current resistance capacitance inductance impedance frequency phase"

	if spans := AlignChunks(source, target); len(spans) != 0 {
		t.Fatalf("unrelated texts produced %d spans", len(spans))
	}
}

func TestAlignChunks_EmptyInputs(t *testing.T) {
	if spans := AlignChunks("", "some text here"); spans != nil {
		t.Fatal("empty source must produce no spans")
	}
	if spans := AlignChunks("some text here", ""); spans != nil {
		t.Fatal("empty target must produce no spans")
	}
}

func TestAlignChunks_CopiedSection(t *testing.T) {
	source := "alpha beta gamma delta epsilon zeta"
	target := "one two three four five six seven " + source

	spans := AlignChunks(source, target)
	if len(spans) != 1 {
		t.Fatalf("expected 1 span for a copied section, got %d", len(spans))
	}
	span := spans[0]
	if span.SourceOffset != 0 {
		t.Fatalf("source offset = %d, want 0", span.SourceOffset)
	}
	if want := strings.Index(target, "alpha"); span.TargetOffset != want {
		t.Fatalf("target offset = %d, want %d", span.TargetOffset, want)
	}
	if span.Text != source {
		t.Fatalf("span text = %q, want the whole source", span.Text)
	}
}

func TestTokenizeOffsets(t *testing.T) {
	tokens := tokenizeOffsets("Hello, world! 42")
	want := []struct {
		text   string
		offset int
	}{
		{"hello", 0},
		{"world", 7},
		{"42", 14},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		if tokens[i].text != w.text || tokens[i].offset != w.offset {
			t.Fatalf("token %d = %+v, want %+v", i, tokens[i], w)
		}
	}
}

func TestJaccard(t *testing.T) {
	toks := func(s string) []token {
		var out []token
		for _, w := range strings.Fields(s) {
			out = append(out, token{text: w})
		}
		return out
	}

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "a b c d", "a b c d", 1},
		{"disjoint", "a b c", "x y z", 0},
		{"half", "a b c d", "a b x y", 1.0 / 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jaccard(toks(tt.a), toks(tt.b)); got != tt.want {
				t.Fatalf("jaccard(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
