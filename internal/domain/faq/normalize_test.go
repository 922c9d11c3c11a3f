package faq

import "testing"

func TestNormalizeSearchTerm(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{name: "trims whitespace", in: "  Hello World  ", out: "hello world"},
		{name: "keeps punctuation", in: "What's, the price?", out: "what's, the price?"},
		{name: "collapses tabs and newlines", in: "free\t\n for   everyone", out: "free for everyone"},
		{name: "empty", in: "   ", out: ""},
	}

	for _, tc := range cases {
		if got := normalizeSearchTerm(tc.in); got != tc.out {
			t.Fatalf("%s: expected %q got %q", tc.name, tc.out, got)
		}
	}
}

func TestMatchesVisibleTextOnly(t *testing.T) {
	item := FAQ{Question: "<p>Is it <strong>free</strong>?</p>", Answer: "<p>Yes, for everyone.</p>"}

	if !Matches(item, "free") {
		t.Fatalf("expected question text to match")
	}
	if !Matches(item, "everyone") {
		t.Fatalf("expected answer text to match")
	}
	if Matches(item, "strong") {
		t.Fatalf("markup must not match")
	}
	if !Matches(item, "") {
		t.Fatalf("empty term matches everything")
	}
}
