package emmet

import "testing"

func TestPreprocess(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "input:email", want: "input[type=email]"},
		{in: "form>input:password+input:submit", want: "form>input[type=password]+input[type=submit]"},
		{in: "input:bogus", want: "input:bogus"},
		{in: "select:multiple", want: "select:multiple"},
		{in: "link:css", want: "link[rel=stylesheet href=style.css]"},
		{in: "script:src", want: "script[src=]"},
		{in: "btn", want: "button"},
		{in: "div>btn.primary", want: "div>button.primary"},
		{in: "div.card", want: "div.card"},
	}

	for _, tt := range tests {
		if got := Preprocess(tt.in); got != tt.want {
			t.Errorf("Preprocess(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
