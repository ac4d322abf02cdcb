package issue2html

import (
	"html"
	"strings"
	"testing"
)

func TestEscapeHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "all special characters",
			input: `&<>"'`,
			want:  "&amp;&lt;&gt;&quot;&#39;",
		},
		{
			name:  "plain text unchanged",
			input: "hello world",
			want:  "hello world",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "script tag",
			input: `<script>alert("x")</script>`,
			want:  "&lt;script&gt;alert(&quot;x&quot;)&lt;/script&gt;",
		},
		{
			name:  "unicode preserved",
			input: "статус → done 🙂",
			want:  "статус → done 🙂",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := EscapeHTML(tt.input); got != tt.want {
				t.Errorf("EscapeHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Escaped output must contain no raw special characters, and decoding the
// entities must yield back the original string.
func TestEscapeHTML_RoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`a & b < c > d " e ' f`,
		`<img src="x" onerror='alert(1)'>`,
		"&&&&",
		`"'"'`,
	}

	for _, input := range inputs {
		escaped := EscapeHTML(input)
		for _, raw := range []string{"<", ">", `"`, "'"} {
			if strings.Contains(escaped, raw) {
				t.Errorf("EscapeHTML(%q) = %q still contains %q", input, escaped, raw)
			}
		}
		if decoded := html.UnescapeString(escaped); decoded != input {
			t.Errorf("round trip of %q = %q", input, decoded)
		}
	}
}

func TestSanitizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "https allowed",
			input: "https://example.com/a",
			want:  "https://example.com/a",
		},
		{
			name:  "http allowed",
			input: "http://example.com",
			want:  "http://example.com",
		},
		{
			name:  "data allowed",
			input: "data:image/png;base64,AAAA",
			want:  "data:image/png;base64,AAAA",
		},
		{
			name:  "bare fragment allowed",
			input: "#section-2",
			want:  "#section-2",
		},
		{
			name:  "javascript rejected",
			input: "javascript:alert(1)",
			want:  "#",
		},
		{
			name:  "javascript mixed case rejected",
			input: "JaVaScRiPt:alert(1)",
			want:  "#",
		},
		{
			name:  "vbscript rejected",
			input: "vbscript:msgbox",
			want:  "#",
		},
		{
			name:  "file scheme rejected",
			input: "file:///etc/passwd",
			want:  "#",
		},
		{
			name:  "relative path rejected",
			input: "images/pic.png",
			want:  "#",
		},
		{
			name:  "empty returns hash",
			input: "",
			want:  "#",
		},
		{
			name:  "whitespace only returns hash",
			input: "   ",
			want:  "#",
		},
		{
			name:  "query characters escaped",
			input: "https://example.com/?a=1&b=2",
			want:  "https://example.com/?a=1&amp;b=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeURL(tt.input); got != tt.want {
				t.Errorf("SanitizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFragment_StripsScripts(t *testing.T) {
	t.Parallel()

	got := sanitizeFragment(`<p>ok</p><script>alert(1)</script><span class="mention mention-user">jdoe</span>`)
	if strings.Contains(got, "<script") {
		t.Errorf("script survived sanitization: %q", got)
	}
	if !strings.Contains(got, `class="mention mention-user"`) {
		t.Errorf("mention span lost its class: %q", got)
	}
}
