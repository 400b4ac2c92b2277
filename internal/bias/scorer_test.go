package bias

import "testing"

func TestScorer_Score_SentenceCount(t *testing.T) {
	scorer := NewScorer()

	text := "Beautiful is better than ugly. Explicit is better than implicit. Simple is better than complex."
	sentences := scorer.Score(text)

	if len(sentences) != 3 {
		t.Fatalf("expected 3 sentences, got %d: %#v", len(sentences), sentences)
	}

	for i, s := range sentences {
		if s.Subjectivity < 0 || s.Subjectivity > 1 {
			t.Errorf("sentence %d: subjectivity %f out of [0,1]", i, s.Subjectivity)
		}
		if s.Text == "" {
			t.Errorf("sentence %d: empty text", i)
		}
	}
}

func TestScorer_Score_EmptyInput(t *testing.T) {
	scorer := NewScorer()

	for _, input := range []string{"", "   ", "\n\n", "\t \n"} {
		if got := scorer.Score(input); len(got) != 0 {
			t.Errorf("input %q: expected empty result, got %d sentences", input, len(got))
		}
	}
}

func TestScorer_Score_Deterministic(t *testing.T) {
	scorer := NewScorer()

	text := "I absolutely hate this terrible product! It was made in 2019."
	first := scorer.Score(text)
	second := scorer.Score(text)

	if len(first) != len(second) {
		t.Fatalf("sentence count differs between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("sentence %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestScorer_Score_SubjectiveOutscoresFactual(t *testing.T) {
	scorer := NewScorer()

	subjective := scorer.Score("I absolutely hate this horrible, disgusting disaster!")
	factual := scorer.Score("The meeting is scheduled for Tuesday at noon.")

	if len(subjective) != 1 || len(factual) != 1 {
		t.Fatalf("expected one sentence each, got %d and %d", len(subjective), len(factual))
	}
	if subjective[0].Subjectivity <= factual[0].Subjectivity {
		t.Errorf("expected subjective score %f > factual score %f",
			subjective[0].Subjectivity, factual[0].Subjectivity)
	}
}

func TestScorer_Score_Clamped(t *testing.T) {
	scorer := NewScorer()

	// Dense subjective vocabulary plus emphasis must still land inside [0,1].
	loaded := scorer.Score("Horrible horrible horrible awful terrible disgusting!!! Amazing!!!")
	for i, s := range loaded {
		if s.Subjectivity < 0 || s.Subjectivity > 1 {
			t.Errorf("sentence %d: subjectivity %f out of [0,1]", i, s.Subjectivity)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "terminal punctuation",
			text: "First one. Second one! Third one?",
			want: []string{"First one.", "Second one!", "Third one?"},
		},
		{
			name: "abbreviation kept whole",
			text: "Dr. Smith disagreed. So did Mr. Jones.",
			want: []string{"Dr. Smith disagreed.", "So did Mr. Jones."},
		},
		{
			name: "decimals kept whole",
			text: "2.50s: The rate hit 3.5 percent. Nobody noticed.",
			want: []string{"2.50s: The rate hit 3.5 percent.", "Nobody noticed."},
		},
		{
			name: "newline is a boundary",
			text: "line without punctuation\nanother line",
			want: []string{"line without punctuation", "another line"},
		},
		{
			name: "trailing text without terminator",
			text: "An unfinished thought",
			want: []string{"An unfinished thought"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitSentences(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d sentences, got %d: %#v", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("sentence %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}
