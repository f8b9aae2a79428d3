package markdown

import (
	"strings"
	"testing"
)

func TestFromHTML_Basic(t *testing.T) {
	in := `<div><h2>About the role</h2><p>We build <strong>things</strong>.</p><ul><li>Go</li><li>SQL</li></ul></div>`
	out, err := FromHTML(in)
	if err != nil {
		t.Fatalf("FromHTML failed: %v", err)
	}
	if !strings.Contains(out, "## About the role") {
		t.Errorf("heading not converted: %q", out)
	}
	if !strings.Contains(out, "**things**") {
		t.Errorf("bold not converted: %q", out)
	}
	if !strings.Contains(out, "- Go") {
		t.Errorf("list not converted: %q", out)
	}
}

func TestFromHTML_StripsScriptsAndAttributes(t *testing.T) {
	in := `<div onclick="evil()"><script>alert(1)</script><p class="x" style="color:red">Hi</p><a href="/a" data-track="1">link</a></div>`
	out, err := FromHTML(in)
	if err != nil {
		t.Fatalf("FromHTML failed: %v", err)
	}
	if strings.Contains(out, "alert") {
		t.Errorf("script content leaked into markdown: %q", out)
	}
	if !strings.Contains(out, "Hi") || !strings.Contains(out, "link") {
		t.Errorf("content lost during sanitization: %q", out)
	}
}
