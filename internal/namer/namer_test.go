package namer

import "testing"

func TestToken(t *testing.T) {
	tests := []struct {
		name    string
		caption string
		want    string
	}{
		{"simple phrase", "a cat sitting", "ACatSitting"},
		{"two words", "mountain sunset", "MountainSunset"},
		{"punctuation stripped", "a dog, running!", "ADogRunning"},
		{"mixed case input", "A Dog RUNNING", "ADogRunning"},
		{"digits kept", "4 cats on a roof", "4CatsOnARoof"},
		{"slashes and quotes", `sunset over the "bay" / harbor`, "SunsetOverTheBayHarbor"},
		{"hyphenated splits", "close-up of a flower", "CloseUpOfAFlower"},
		{"empty", "", ""},
		{"punctuation only", "?!...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Token(tt.caption); got != tt.want {
				t.Errorf("Token(%q) = %q, want %q", tt.caption, got, tt.want)
			}
		})
	}
}
