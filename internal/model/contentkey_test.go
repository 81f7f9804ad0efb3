package model

import "testing"

// TestContentKeyStability tests that the content key depends only on the
// title and hanzi text.
func TestContentKeyStability(t *testing.T) {
	t.Parallel()

	t.Run("same title and hanzi produce the same key", func(t *testing.T) {
		t.Parallel()

		a := ContentKey("Negation with bu", "我不知道。")
		b := ContentKey("Negation with bu", "我不知道。")

		if a != b {
			t.Errorf("expected identical keys, got %q and %q", a, b)
		}
	})

	t.Run("key survives whitespace-only hanzi edits", func(t *testing.T) {
		t.Parallel()

		a := ContentKey("Negation with bu", "我 不 知道。")
		b := ContentKey("Negation with bu", "我不知道。")

		if a != b {
			t.Errorf("expected whitespace-insensitive keys, got %q and %q", a, b)
		}
	})

	t.Run("different hanzi produce different keys", func(t *testing.T) {
		t.Parallel()

		a := ContentKey("Negation with bu", "我不知道。")
		b := ContentKey("Negation with bu", "我不去。")

		if a == b {
			t.Error("expected different keys for different hanzi")
		}
	})

	t.Run("key is namespaced by title", func(t *testing.T) {
		t.Parallel()

		a := ContentKey("Negation with bu", "我不知道。")
		b := ContentKey("Negation with mei", "我不知道。")

		if a == b {
			t.Error("expected different keys for different titles")
		}
	})

	t.Run("turn boundaries matter", func(t *testing.T) {
		t.Parallel()

		// Two turns "AB" + "C" must not collide with "A" + "BC".
		a := ContentKey("Dialog", "你好吗", "很好")
		b := ContentKey("Dialog", "你好", "吗很好")

		if a == b {
			t.Error("expected turn boundaries to affect the key")
		}
	})
}

// TestNormalizeHanzi tests whitespace stripping and unicode normalization.
func TestNormalizeHanzi(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text unchanged",
			input: "我不知道。",
			want:  "我不知道。",
		},
		{
			name:  "ascii spaces stripped",
			input: "我 不 知道。",
			want:  "我不知道。",
		},
		{
			name:  "ideographic spaces stripped",
			input: "我　不　知道。",
			want:  "我不知道。",
		},
		{
			name:  "tabs and newlines stripped",
			input: "我\t不\n知道。",
			want:  "我不知道。",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeHanzi(tt.input); got != tt.want {
				t.Errorf("NormalizeHanzi(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
