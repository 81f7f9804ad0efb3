package crawler

import (
	"errors"
	"strings"
	"testing"

	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/model"
)

const testPageURL = "https://resources.allsetlearning.com/chinese/grammar/Test_point"

// pointPage wraps body content in a minimal grammar-point page.
func pointPage(body string) string {
	return `<html><head><title>wiki</title></head><body>
<h1>Negation with "bu"</h1>
<p>One way to negate a verb is with 不.</p>
` + body + `
</body></html>`
}

// TestParserParse tests normalization of grammar-point pages.
func TestParserParse(t *testing.T) {
	t.Parallel()

	t.Run("extracts title, structure, and explanation", func(t *testing.T) {
		t.Parallel()

		markup := pointPage(`
<div class="jiegou">Subj. + 不 + Verb</div>
<div class="liju"><ul>
<li>我 不 知道。<span class="pinyin">wǒ bù zhīdào</span><span class="trans">I don't know.</span></li>
</ul></div>`)

		record, err := NewParser(testPageURL, model.LevelA1).Parse(strings.NewReader(markup))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if record.Title != `Negation with "bu"` {
			t.Errorf("Title = %q", record.Title)
		}
		if record.StructurePattern != "Subj. + 不 + Verb" {
			t.Errorf("StructurePattern = %q", record.StructurePattern)
		}
		if record.Explanation == "" {
			t.Error("expected explanation")
		}
		if record.Level != model.LevelA1 {
			t.Errorf("Level = %q", record.Level)
		}
		if record.SourceURL != testPageURL {
			t.Errorf("SourceURL = %q", record.SourceURL)
		}
	})

	t.Run("isolates hanzi from annotated spans", func(t *testing.T) {
		t.Parallel()

		markup := pointPage(`
<div class="liju"><ul>
<li>我 不 知道。<span class="pinyin">wǒ bù zhīdào</span><span class="trans">I don't know.</span><span class="expl">very common</span></li>
</ul></div>`)

		record, err := NewParser(testPageURL, model.LevelA1).Parse(strings.NewReader(markup))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(record.Examples) != 1 {
			t.Fatalf("expected 1 example, got %d", len(record.Examples))
		}

		turn := record.Examples[0].Turns[0]
		if turn.Hanzi != "我不知道。" {
			t.Errorf("Hanzi = %q", turn.Hanzi)
		}
		if turn.Pinyin != "wǒ bù zhīdào" {
			t.Errorf("Pinyin = %q", turn.Pinyin)
		}
		if turn.Translation != "I don't know." {
			t.Errorf("Translation = %q", turn.Translation)
		}
		if turn.Notes != "very common" {
			t.Errorf("Notes = %q", turn.Notes)
		}
	})

	t.Run("keeps examples with missing pinyin and translation", func(t *testing.T) {
		t.Parallel()

		markup := pointPage(`
<div class="liju"><ul>
<li>他 不 是 老师。</li>
</ul></div>`)

		record, err := NewParser(testPageURL, model.LevelA1).Parse(strings.NewReader(markup))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(record.Examples) != 1 {
			t.Fatalf("expected 1 example, got %d", len(record.Examples))
		}

		turn := record.Examples[0].Turns[0]
		if turn.Hanzi != "他不是老师。" {
			t.Errorf("Hanzi = %q", turn.Hanzi)
		}
		if turn.Pinyin != "" || turn.Translation != "" {
			t.Errorf("expected empty pinyin/translation, got %q / %q", turn.Pinyin, turn.Translation)
		}
	})

	t.Run("labels correct and incorrect examples", func(t *testing.T) {
		t.Parallel()

		markup := pointPage(`
<div class="liju"><ul>
<li class="o">我 不 去。</li>
<li class="x">我 没 去。</li>
<li>我 想 去。</li>
</ul></div>`)

		record, err := NewParser(testPageURL, model.LevelA1).Parse(strings.NewReader(markup))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(record.Examples) != 3 {
			t.Fatalf("expected 3 examples, got %d", len(record.Examples))
		}

		wantLabels := []model.ExampleLabel{model.LabelCorrect, model.LabelIncorrect, model.LabelNone}
		for i, want := range wantLabels {
			if record.Examples[i].Label != want {
				t.Errorf("Examples[%d].Label = %v, want %v", i, record.Examples[i].Label, want)
			}
		}
	})

	t.Run("groups dialog lines into one example", func(t *testing.T) {
		t.Parallel()

		markup := pointPage(`
<div class="liju"><ul class="dialog">
<li><span class="speaker">A:</span>你 去 吗？<span class="pinyin">nǐ qù ma?</span><span class="trans">Are you going?</span></li>
<li><span class="speaker">B:</span>我 不 去。<span class="pinyin">wǒ bù qù.</span><span class="trans">I'm not going.</span></li>
</ul></div>`)

		record, err := NewParser(testPageURL, model.LevelA2).Parse(strings.NewReader(markup))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(record.Examples) != 1 {
			t.Fatalf("expected 1 dialog example, got %d", len(record.Examples))
		}

		dialog := record.Examples[0]
		if dialog.Kind != model.ExampleDialog {
			t.Errorf("Kind = %v, want dialog", dialog.Kind)
		}
		if len(dialog.Turns) != 2 {
			t.Fatalf("expected 2 turns, got %d", len(dialog.Turns))
		}
		if dialog.Turns[0].Speaker != "A:" || dialog.Turns[1].Speaker != "B:" {
			t.Errorf("speakers = %q, %q", dialog.Turns[0].Speaker, dialog.Turns[1].Speaker)
		}
		if dialog.Turns[1].Hanzi != "我不去。" {
			t.Errorf("Turns[1].Hanzi = %q", dialog.Turns[1].Hanzi)
		}
	})

	t.Run("skips dialog lines without speaker labels", func(t *testing.T) {
		t.Parallel()

		markup := pointPage(`
<div class="liju"><ul class="dialog">
<li><span class="speaker">A:</span>你 去 吗？</li>
<li>我 不 去。</li>
</ul></div>`)

		record, err := NewParser(testPageURL, model.LevelA2).Parse(strings.NewReader(markup))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(record.Examples) != 1 {
			t.Fatalf("expected 1 example, got %d", len(record.Examples))
		}
		if len(record.Examples[0].Turns) != 1 {
			t.Errorf("expected malformed line to be dropped, got %d turns", len(record.Examples[0].Turns))
		}
	})

	t.Run("multiple example blocks accumulate", func(t *testing.T) {
		t.Parallel()

		markup := pointPage(`
<div class="liju"><ul><li>一 个 人。</li></ul></div>
<div class="liju"><ul><li>两 个 人。</li><li>三 个 人。</li></ul></div>`)

		record, err := NewParser(testPageURL, model.LevelA1).Parse(strings.NewReader(markup))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(record.Examples) != 3 {
			t.Errorf("expected 3 examples, got %d", len(record.Examples))
		}
	})

	t.Run("page without title is unrecognized layout", func(t *testing.T) {
		t.Parallel()

		markup := `<html><body><div class="liju"><ul><li>我。</li></ul></div></body></html>`

		_, err := NewParser(testPageURL, model.LevelA1).Parse(strings.NewReader(markup))

		var ne *NormalizeError
		if !errors.As(err, &ne) {
			t.Fatalf("expected *NormalizeError, got %v", err)
		}
		if ne.Kind != KindUnrecognizedLayout {
			t.Errorf("Kind = %v, want KindUnrecognizedLayout", ne.Kind)
		}
	})

	t.Run("page with no content is empty", func(t *testing.T) {
		t.Parallel()

		markup := `<html><body><h1>Some point</h1></body></html>`

		_, err := NewParser(testPageURL, model.LevelA1).Parse(strings.NewReader(markup))

		var ne *NormalizeError
		if !errors.As(err, &ne) {
			t.Fatalf("expected *NormalizeError, got %v", err)
		}
		if ne.Kind != KindEmptyPage {
			t.Errorf("Kind = %v, want KindEmptyPage", ne.Kind)
		}
	})

	t.Run("explanation-only page is a valid record", func(t *testing.T) {
		t.Parallel()

		markup := pointPage("")

		record, err := NewParser(testPageURL, model.LevelB1).Parse(strings.NewReader(markup))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(record.Examples) != 0 {
			t.Errorf("expected no examples, got %d", len(record.Examples))
		}
		if record.Explanation == "" {
			t.Error("expected explanation to be kept")
		}
	})
}

// TestFailureReason tests report bucket mapping.
func TestFailureReason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "unrecognized layout",
			err:  &NormalizeError{Kind: KindUnrecognizedLayout, URL: testPageURL},
			want: "unrecognized_layout",
		},
		{
			name: "empty page",
			err:  &NormalizeError{Kind: KindEmptyPage, URL: testPageURL},
			want: "empty_page",
		},
		{
			name: "unknown error",
			err:  errors.New("boom"),
			want: "other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FailureReason(tt.err); got != tt.want {
				t.Errorf("FailureReason() = %q, want %q", got, tt.want)
			}
		})
	}
}
