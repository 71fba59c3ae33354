package htmlutil

import "testing"

const page = `<!DOCTYPE html>
<html><head>
<title>  Jane Doe
  | Example </title>
<meta content="Jane (@jane) on Example" property="og:title">
<meta name="description" content="Jane&#39;s page">
<meta property="og:description" content="og description">
<meta name="twitter:image" content="https://cdn.example.com/tw.jpg">
</head>
<body><h1>Heading</h1><span data-e2e="followers-count">1.2M</span></body></html>`

func TestExtract(t *testing.T) {
	doc, err := Parse([]byte(page))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got, want := Meta(doc, "og:title"), "Jane (@jane) on Example"; got != want {
		t.Errorf("Meta(og:title) = %q, want %q", got, want)
	}
	if got, want := Meta(doc, "OG:TITLE"), "Jane (@jane) on Example"; got != want {
		t.Errorf("Meta is case sensitive: %q", got)
	}
	if got := Meta(doc, "og:missing"); got != "" {
		t.Errorf("Meta(og:missing) = %q, want empty", got)
	}
	if got, want := Title(doc), "Jane (@jane) on Example"; got != want {
		t.Errorf("Title() = %q, want %q", got, want)
	}
	if got, want := Description(doc), "Jane's page"; got != want {
		t.Errorf("Description() = %q, want %q", got, want)
	}
	if got, want := Image(doc), "https://cdn.example.com/tw.jpg"; got != want {
		t.Errorf("Image() = %q, want %q", got, want)
	}
	if got, want := Text(doc, `[data-e2e="followers-count"]`), "1.2M"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestTitleFallbacks(t *testing.T) {
	doc, err := Parse([]byte(`<html><head><title>Plain
	Title</title></head></html>`))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := Title(doc), "Plain Title"; got != want {
		t.Errorf("Title() = %q, want %q", got, want)
	}

	doc, err = Parse([]byte(`<html><body><h1> Only heading </h1></body></html>`))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := Title(doc), "Only heading"; got != want {
		t.Errorf("Title() = %q, want %q", got, want)
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Sorry, this page isn't available.", true},
		{"Couldn't find this account", true},
		{"404 Not Found", true},
		{"Jane Doe - 12 followers", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsNotFound(tt.text); got != tt.want {
			t.Errorf("IsNotFound(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

