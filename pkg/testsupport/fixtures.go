// Package testsupport holds fixtures and golden file helpers shared by the
// package tests.
package testsupport

import (
	"testing"

	"github.com/goliatone/go-autoform/pkg/formstate"
	"github.com/goliatone/go-autoform/pkg/model"
	"github.com/goliatone/go-autoform/pkg/schema"
)

// RoleSchema is the account form used across renderer and orchestrator
// tests: a name, a role union keyed by "kind" and a list of members.
func RoleSchema() *schema.ObjectNode {
	return schema.Object(
		schema.Prop("name", schema.String().Min(2).Describe("Full name")),
		schema.Prop("role", schema.MustDiscriminatedUnion("kind",
			schema.Object(
				schema.Prop("kind", schema.Literal("admin")),
				schema.Prop("level", schema.Int().Min(1).Max(5)),
			),
			schema.Object(schema.Prop("kind", schema.Literal("guest"))),
		)),
		schema.Prop("members", schema.Optional(schema.Array(schema.Object(
			schema.Prop("email", schema.String().Format("email")),
			schema.Prop("admin", schema.Default(schema.Boolean(), false)),
		)))),
	)
}

// MustResolve resolves root against values with the default resolver.
func MustResolve(t *testing.T, root schema.Node, values map[string]any, opts ...model.ResolverOption) model.FormModel {
	t.Helper()
	form, err := model.NewResolver(opts...).Resolve(model.Input{
		Schema: root,
		State:  formstate.NewSnapshot(values),
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return form
}
