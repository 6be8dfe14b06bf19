package model

import "testing"

func TestDefaultLabeler(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":              "",
		"name":          "Name",
		"firstName":     "First Name",
		"first_name":    "First Name",
		"billing-email": "Billing Email",
		"userID":        "User ID",
		"HTTPServer":    "HTTP Server",
		"address2":      "Address 2",
		"  spaced out ": "Spaced Out",
	}
	for input, want := range cases {
		if got := DefaultLabeler(input); got != want {
			t.Fatalf("DefaultLabeler(%q) = %q, want %q", input, got, want)
		}
	}
}
