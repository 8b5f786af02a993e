package util

import "testing"

func TestSanitizePostgresText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "plain utf8",
			input: "transformer uses attention",
			want:  "transformer uses attention",
		},
		{
			name:  "null byte removed",
			input: "trans\x00former",
			want:  "transformer",
		},
		{
			name:  "invalid utf8 removed",
			input: string([]byte{'o', 0xfe, 'k'}),
			want:  "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizePostgresText(tt.input); got != tt.want {
				t.Fatalf("unexpected sanitized value: got %q, want %q", got, tt.want)
			}
		})
	}
}
