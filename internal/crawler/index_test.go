package crawler

import (
	"strings"
	"testing"
)

const testBaseURL = "https://resources.allsetlearning.com/chinese/grammar/"

// TestParseIndexPage tests grammar-point URL extraction from level indexes.
func TestParseIndexPage(t *testing.T) {
	t.Parallel()

	t.Run("extracts redirect anchors from wikitables", func(t *testing.T) {
		t.Parallel()

		markup := `<html><body>
<table class="wikitable">
<tr><td><a class="mw-redirect" title="Negation with bu" href="/chinese/grammar/ABC">不</a></td></tr>
<tr><td><a class="mw-redirect" title="Measure word ge" href="/chinese/grammar/DEF">个</a></td></tr>
</table>
</body></html>`

		urls, err := ParseIndexPage(strings.NewReader(markup), testBaseURL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{
			testBaseURL + "Negation_with_bu",
			testBaseURL + "Measure_word_ge",
		}
		if len(urls) != len(want) {
			t.Fatalf("expected %d urls, got %d", len(want), len(urls))
		}
		for i, u := range want {
			if urls[i] != u {
				t.Errorf("urls[%d] = %q, want %q", i, urls[i], u)
			}
		}
	})

	t.Run("ignores anchors outside wikitables", func(t *testing.T) {
		t.Parallel()

		markup := `<html><body>
<a class="mw-redirect" title="Sidebar link">x</a>
<table class="wikitable">
<tr><td><a class="mw-redirect" title="Negation with bu">不</a></td></tr>
</table>
</body></html>`

		urls, err := ParseIndexPage(strings.NewReader(markup), testBaseURL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(urls) != 1 {
			t.Errorf("expected 1 url, got %d: %v", len(urls), urls)
		}
	})

	t.Run("deduplicates repeated links preserving order", func(t *testing.T) {
		t.Parallel()

		markup := `<html><body>
<table class="wikitable">
<tr><td><a class="mw-redirect" title="Negation with bu">不</a></td></tr>
<tr><td><a class="mw-redirect" title="Measure word ge">个</a></td></tr>
<tr><td><a class="mw-redirect" title="Negation with bu">不 again</a></td></tr>
</table>
</body></html>`

		urls, err := ParseIndexPage(strings.NewReader(markup), testBaseURL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(urls) != 2 {
			t.Fatalf("expected 2 urls, got %d", len(urls))
		}
		if urls[0] != testBaseURL+"Negation_with_bu" {
			t.Errorf("urls[0] = %q", urls[0])
		}
	})

	t.Run("anchors without titles are skipped", func(t *testing.T) {
		t.Parallel()

		markup := `<html><body>
<table class="wikitable">
<tr><td><a class="mw-redirect">no title</a></td></tr>
</table>
</body></html>`

		urls, err := ParseIndexPage(strings.NewReader(markup), testBaseURL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(urls) != 0 {
			t.Errorf("expected no urls, got %v", urls)
		}
	})
}
