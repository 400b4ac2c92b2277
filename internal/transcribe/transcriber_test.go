package transcribe

import "testing"

func TestBlob(t *testing.T) {
	tests := []struct {
		name     string
		segments []Segment
		want     string
	}{
		{
			name:     "empty",
			segments: nil,
			want:     "",
		},
		{
			name:     "single segment",
			segments: []Segment{{Start: 0, End: 2.5, Text: " Hello there. "}},
			want:     "2.50s: Hello there.",
		},
		{
			name: "multiple segments keep order",
			segments: []Segment{
				{Start: 0, End: 1.337, Text: "First thing."},
				{Start: 1.337, End: 4, Text: "Second thing."},
			},
			want: "1.34s: First thing.\n2.66s: Second thing.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Blob(tt.segments); got != tt.want {
				t.Errorf("Blob() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSegment_Duration(t *testing.T) {
	seg := Segment{Start: 1.5, End: 4.0}
	if got := seg.Duration(); got != 2.5 {
		t.Errorf("Duration() = %v, want 2.5", got)
	}
}
