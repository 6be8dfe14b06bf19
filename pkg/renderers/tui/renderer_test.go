package tui_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-autoform/pkg/render"
	"github.com/goliatone/go-autoform/pkg/renderers/tui"
	"github.com/goliatone/go-autoform/pkg/testsupport"
)

func TestRendererOutline(t *testing.T) {
	t.Parallel()

	form := testsupport.MustResolve(t, testsupport.RoleSchema(), map[string]any{
		"name": "Sam",
		"role": map[string]any{"kind": "admin", "level": 3},
		"members": []any{
			map[string]any{"email": "a@example.com"},
		},
	})
	renderer := tui.New(tui.WithPromptDriver(&scriptedDriver{}))
	if renderer.Name() != "tui" || renderer.ContentType() != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected identity %s %s", renderer.Name(), renderer.ContentType())
	}
	out, err := renderer.Render(context.Background(), form, render.RenderOptions{
		Title:      "Create account",
		Errors:     map[string][]string{"role.level": {"too high"}},
		FormErrors: []string{"Rejected"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := strings.Join([]string{
		"Create account",
		"! Rejected",
		"Full name * (text) = Sam",
		"Role * (union)",
		"  Kind * (select) = admin [admin|guest]",
		"  Level * (number) = 3",
		"    ! too high",
		"Members (array)",
		"  [0]",
		"    Email * (email) = a@example.com",
		"    Admin (checkbox) = false",
		"",
	}, "\n")
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("outline mismatch (-want +got):\n%s", diff)
	}
}

func TestRendererRequiresLiveContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	form := testsupport.MustResolve(t, testsupport.RoleSchema(), nil)
	if _, err := tui.New(tui.WithPromptDriver(&scriptedDriver{})).Render(ctx, form, render.RenderOptions{}); err == nil {
		t.Fatalf("expected cancelled context to fail")
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	values := map[string]any{
		"name":    "Sam",
		"role":    map[string]any{"kind": "admin", "level": 3.0},
		"members": []any{map[string]any{"email": "a@example.com"}},
	}
	cases := []struct {
		format      tui.OutputFormat
		want        string
		contentType string
	}{
		{
			format:      tui.OutputFormatFormURLEncoded,
			want:        "members.0.email=a%40example.com&name=Sam&role.kind=admin&role.level=3",
			contentType: "application/x-www-form-urlencoded",
		},
		{
			format:      tui.OutputFormatPrettyText,
			want:        "members.0.email = a@example.com\nname = Sam\nrole.kind = admin\nrole.level = 3\n",
			contentType: "text/plain",
		},
		{
			format:      tui.OutputFormatJSON,
			want:        "{\n  \"members\": [\n    {\n      \"email\": \"a@example.com\"\n    }\n  ],\n  \"name\": \"Sam\",\n  \"role\": {\n    \"kind\": \"admin\",\n    \"level\": 3\n  }\n}\n",
			contentType: "application/json",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(string(tc.format), func(t *testing.T) {
			t.Parallel()
			out, err := tui.Encode(values, tc.format)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if diff := cmp.Diff(tc.want, string(out)); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
			if got := tui.ContentType(tc.format); got != tc.contentType {
				t.Fatalf("content type = %q", got)
			}
		})
	}

	if _, err := tui.Encode(values, "xml"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}
