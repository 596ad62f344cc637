// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package features

import (
	"reflect"
	"testing"
)

func TestTextExtractor_Extract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  TextVector
	}{
		{
			name:  "empty input",
			input: "",
			want:  TextVector{},
		},
		{
			name:  "whitespace only",
			input: "   \t\n",
			want:  TextVector{},
		},
		{
			name:  "lowercases and counts",
			input: "Red cotton DRESS, red trim",
			want:  TextVector{"red": 2, "cotton": 1, "dress": 1, "trim": 1},
		},
		{
			name:  "drops stopwords and short tokens",
			input: "a dress for the x of it",
			want:  TextVector{"dress": 1},
		},
		{
			name:  "splits on punctuation and keeps digits",
			input: "size-10/12 wool_blend",
			want:  TextVector{"size": 1, "10": 1, "12": 1, "wool": 1, "blend": 1},
		},
		{
			name:  "strips html markup",
			input: "<p>Silk <b>scarf</b></p><script>var x = 1;</script>",
			want:  TextVector{"silk": 1, "scarf": 1},
		},
		{
			name:  "decodes entities",
			input: "<p>gold &amp; silver</p>",
			want:  TextVector{"gold": 1, "silver": 1},
		},
	}

	e := NewTextExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := e.Extract(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTextExtractor_Deterministic(t *testing.T) {
	t.Parallel()

	e := NewTextExtractor()
	input := "Elegant evening gown in crimson silk with crystal beading"
	first := e.Extract(input)
	for i := 0; i < 10; i++ {
		if got := e.Extract(input); !reflect.DeepEqual(got, first) {
			t.Fatalf("iteration %d: Extract() = %v, want %v", i, got, first)
		}
	}
}

func TestTextExtractor_Options(t *testing.T) {
	t.Parallel()

	e := NewTextExtractor(WithStopwords([]string{"dress"}), WithoutHTMLStripping())
	got := e.Extract("the <b>dress</b>")

	// "the" is no longer a stopword; "b" is dropped as a short token
	want := TextVector{"the": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestTextVector_Terms(t *testing.T) {
	t.Parallel()

	v := TextVector{"silk": 1, "red": 3, "cotton": 3, "dress": 2}
	got := v.Terms()
	want := []string{"cotton", "red", "dress", "silk"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Terms() = %v, want %v", got, want)
	}
}

func TestStripHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text", in: "no markup", want: "no markup"},
		{name: "nested tags", in: "<div><p>one</p><p>two</p></div>", want: "one  two"},
		{name: "style body dropped", in: "<style>p{}</style>body", want: "body"},
		{name: "bare less-than", in: "5 < 6", want: "5 < 6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := StripHTML(tt.in); got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAttributes(t *testing.T) {
	t.Parallel()

	e := NewTextExtractor()
	a := e.Extract("Elegant silk evening gown with gold clasp")
	b := e.Extract("Vintage elegant gold evening clutch")

	attrs := Attributes(a)
	if got := attrs["material"]; !reflect.DeepEqual(got, []string{"gold", "silk"}) {
		t.Errorf("Attributes()[material] = %v, want [gold silk]", got)
	}
	if _, ok := attrs["size"]; ok {
		t.Error("Attributes() should omit groups without matches")
	}

	shared := SharedAttributes(a, b)
	want := map[string][]string{
		"material": {"gold"},
		"style":    {"elegant"},
		"occasion": {"evening"},
	}
	if !reflect.DeepEqual(shared, want) {
		t.Errorf("SharedAttributes() = %v, want %v", shared, want)
	}
}
