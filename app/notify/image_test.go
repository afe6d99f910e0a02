package notify

import (
	"testing"
)

func TestFirstImageURL(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		expected string
		found    bool
	}{
		{
			name:     "simple image",
			fragment: `<img src="https://x/a.png">`,
			expected: "https://x/a.png",
			found:    true,
		},
		{
			name:     "first image in document order wins",
			fragment: `<p><img src="https://x/first.png"></p><img src="https://x/second.png">`,
			expected: "https://x/first.png",
			found:    true,
		},
		{
			name:     "nested image",
			fragment: `<div><p>text</p><figure><img src="http://x/pic.jpg" alt="pic"></figure></div>`,
			expected: "http://x/pic.jpg",
			found:    true,
		},
		{
			name:     "entity-escaped markup",
			fragment: `&lt;img src=&quot;https://x/escaped.png&quot;&gt;`,
			expected: "https://x/escaped.png",
			found:    true,
		},
		{
			name:     "no image",
			fragment: `<p>just text</p>`,
			found:    false,
		},
		{
			name:     "image without src",
			fragment: `<img alt="no source">`,
			found:    false,
		},
		{
			name:     "relative src is rejected",
			fragment: `<img src="/images/a.png">`,
			found:    false,
		},
		{
			name:     "non-http scheme is rejected",
			fragment: `<img src="data:image/png;base64,AAAA">`,
			found:    false,
		},
		{
			name:     "empty fragment",
			fragment: ``,
			found:    false,
		},
		{
			name:     "malformed markup does not fail",
			fragment: `<div><img src="https://x/a.png"<p>broken`,
			expected: "https://x/a.png",
			found:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstImageURL(tt.fragment)
			if ok != tt.found {
				t.Fatalf("Expected found=%v, got: %v (url: %q)", tt.found, ok, got)
			}
			if ok && got != tt.expected {
				t.Errorf("Expected URL %q, got: %q", tt.expected, got)
			}
		})
	}
}
