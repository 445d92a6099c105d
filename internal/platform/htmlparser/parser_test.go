package htmlparser

import (
	"strings"
	"testing"
)

func TestParse_Title(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"simple title", `<html><head><title>Hello World</title></head><body></body></html>`, "Hello World"},
		{"no title", `<html><body><p>text</p></body></html>`, ""},
		{"title with whitespace", `<html><head><title>  Padded  </title></head></html>`, "Padded"},
		{"first title wins", `<html><head><title>First</title></head><body><title>Second</title></body></html>`, "First"},
	}

	p := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := p.Parse([]byte(tt.html), "https://example.com/")
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if out.Title != tt.want {
				t.Errorf("Title = %q, want %q", out.Title, tt.want)
			}
		})
	}
}

func TestParse_SkipsScriptStyleNoscript(t *testing.T) {
	html := `<html><body>
		<script>var secretKeywordZZZ = 1;</script>
		<style>.secretKeywordZZZ { color: red }</style>
		<noscript>secretKeywordZZZ fallback text</noscript>
		<p>visible content here</p>
	</body></html>`

	p := New()
	out, err := p.Parse([]byte(html), "https://example.com/")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if strings.Contains(out.Text, "secretKeywordZZZ") {
		t.Errorf("Text contains script/style/noscript content: %q", out.Text)
	}
	if !strings.Contains(out.Text, "visible content here") {
		t.Errorf("Text missing visible content: %q", out.Text)
	}
	for _, kw := range out.Keywords {
		if strings.Contains(kw, "secretkeywordzzz") {
			t.Errorf("keywords leaked script/style/noscript content: %v", out.Keywords)
		}
	}
}

func TestParse_Links(t *testing.T) {
	html := `<html><body>
		<a href="https://example.com/a">A</a>
		<a href="/b">B</a>
		<a>no href</a>
	</body></html>`

	p := New()
	out, err := p.Parse([]byte(html), "https://example.com/")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []string{"https://example.com/a", "/b"}
	if len(out.Links) != len(want) {
		t.Fatalf("Links = %v, want %v", out.Links, want)
	}
	for i := range want {
		if out.Links[i] != want[i] {
			t.Errorf("Links[%d] = %q, want %q", i, out.Links[i], want[i])
		}
	}
}

func TestParse_Keywords(t *testing.T) {
	html := `<html><body><p>
		apple apple apple banana banana cherry the and for but
	</p></body></html>`

	p := New()
	out, err := p.Parse([]byte(html), "https://example.com/")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(out.Keywords) == 0 {
		t.Fatal("expected at least one keyword")
	}
	if out.Keywords[0] != "apple" {
		t.Errorf("Keywords[0] = %q, want %q (most frequent)", out.Keywords[0], "apple")
	}
	for _, kw := range out.Keywords {
		if stopWords[kw] {
			t.Errorf("keyword %q is a stop word", kw)
		}
	}
}

func TestParse_KeywordsCapAtTen(t *testing.T) {
	var sb strings.Builder
	words := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel", "india", "juliet", "kilo", "lima"}
	for _, w := range words {
		sb.WriteString(w + " ")
	}
	p := New()
	out, err := p.Parse([]byte("<html><body><p>"+sb.String()+"</p></body></html>"), "https://example.com/")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(out.Keywords) > 10 {
		t.Errorf("got %d keywords, want at most 10", len(out.Keywords))
	}
}

func TestParse_MalformedHTML(t *testing.T) {
	tests := []string{
		`<html><body><a href="/test">Link</body></html>`,
		``,
		`<div><a href="/outer"><span><a href="/inner">Inner</a></span></a></div>`,
	}
	p := New()
	for _, h := range tests {
		if _, err := p.Parse([]byte(h), "https://example.com/"); err != nil {
			t.Errorf("Parse(%q) error = %v, want nil", h, err)
		}
	}
}

func TestParse_WhitespaceCollapsed(t *testing.T) {
	html := "<html><body><p>hello   \n\n  world</p></body></html>"
	p := New()
	out, err := p.Parse([]byte(html), "https://example.com/")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !strings.Contains(out.Text, "hello world") {
		t.Errorf("Text = %q, want whitespace collapsed to single spaces", out.Text)
	}
}
