package main

import "testing"

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "watch URL",
			input: "https://www.youtube.com/watch?v=1gfdp6V1Epc",
			want:  "1gfdp6V1Epc",
		},
		{
			name:  "short URL",
			input: "https://youtu.be/1gfdp6V1Epc",
			want:  "1gfdp6V1Epc",
		},
		{
			name:  "watch URL with extra parameters",
			input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "bare ID passes through",
			input: "1gfdp6V1Epc",
			want:  "1gfdp6V1Epc",
		},
		{
			name:  "bare ID with surrounding whitespace",
			input: "  1gfdp6V1Epc ",
			want:  "1gfdp6V1Epc",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractVideoID(tt.input); got != tt.want {
				t.Errorf("extractVideoID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
