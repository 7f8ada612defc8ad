package youtubeurl

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch url with extra params", "https://youtube.com/watch?list=x&v=dQw4w9WgXcQ&t=10", "dQw4w9WgXcQ"},
		{"short url", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"embed url", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"unrelated url", "https://example.com/video", ""},
		{"short id too short", "https://youtu.be/abc", ""},
		{"invalid characters", "https://youtu.be/dQw4w9Wg!cQ", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.url); got != tt.want {
				t.Errorf("Extract(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
