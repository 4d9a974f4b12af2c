package platform

import "testing"

func TestIsValidYouTubeURL(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"http://youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", true},
		{"  https://youtu.be/dQw4w9WgXcQ  ", true},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", true},
		{"https://vimeo.com/12345", false},
		{"https://youtube.com/", false},
		{"not a url", false},
		{"", false},
	}

	for _, test := range tests {
		if result := IsValidYouTubeURL(test.url); result != test.expected {
			t.Errorf("IsValidYouTubeURL(%q) = %v, expected %v", test.url, result, test.expected)
		}
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url      string
		expected string
		wantErr  bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", false},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/watch?list=PL123", "", true},
		{"https://www.youtube.com/", "", true},
	}

	for _, test := range tests {
		id, err := ExtractVideoID(test.url)
		if test.wantErr {
			if err == nil {
				t.Errorf("ExtractVideoID(%q) expected error, got %q", test.url, id)
			}
			continue
		}
		if err != nil {
			t.Errorf("ExtractVideoID(%q) unexpected error: %v", test.url, err)
			continue
		}
		if id != test.expected {
			t.Errorf("ExtractVideoID(%q) = %q, expected %q", test.url, id, test.expected)
		}
	}
}
