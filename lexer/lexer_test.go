package lexer

import "testing"

func TestLexBasic(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Token
	}{
		{
			name: "plain text",
			src:  "Hello World",
			want: []Token{{Kind: Text, Content: "Hello World", Line: 1, Column: 1}},
		},
		{
			name: "variable",
			src:  "Hello {{ name }}!",
			want: []Token{
				{Kind: Text, Content: "Hello ", Line: 1, Column: 1},
				{Kind: Variable, Content: "name", Line: 1, Column: 7},
				{Kind: Text, Content: "!", Line: 1, Column: 17},
			},
		},
		{
			name: "block",
			src:  "{% if x %}y{% endif %}",
			want: []Token{
				{Kind: Block, Content: "if x", Line: 1, Column: 1},
				{Kind: Text, Content: "y", Line: 1, Column: 11},
				{Kind: Block, Content: "endif", Line: 1, Column: 12},
			},
		},
		{
			name: "comment discarded",
			src:  "a{# nope #}b",
			want: []Token{
				{Kind: Text, Content: "a", Line: 1, Column: 1},
				{Kind: Text, Content: "b", Line: 1, Column: 12},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lex(tt.src, Options{})
			if err != nil {
				t.Fatalf("Lex() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Lex() = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLexUnterminated(t *testing.T) {
	_, err := Lex("hi {{ name", Options{})
	if err == nil {
		t.Fatal("expected unterminated delimiter error")
	}
	lexErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error = %T, want *Error", err)
	}
	if lexErr.Line != 1 || lexErr.Column != 4 {
		t.Errorf("error position = %d:%d, want 1:4", lexErr.Line, lexErr.Column)
	}
}

func TestLexSmartTrim(t *testing.T) {
	src := "a\n{% if x %}\nb\n{% endif %}\nc"
	tokens, err := Lex(src, Options{SmartTrim: true})
	if err != nil {
		t.Fatalf("Lex() error = %v", err)
	}
	var contents []string
	for _, tok := range tokens {
		contents = append(contents, tok.Content)
	}
	want := []string{"a\n", "if x", "b\n", "endif", "c"}
	if len(contents) != len(want) {
		t.Fatalf("contents = %v, want %v", contents, want)
	}
	for i := range want {
		if contents[i] != want[i] {
			t.Errorf("token %d content = %q, want %q", i, contents[i], want[i])
		}
	}
}
