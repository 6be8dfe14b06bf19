package model

import (
	"github.com/goliatone/go-autoform/pkg/dependency"
	"github.com/goliatone/go-autoform/pkg/schema"
	"github.com/goliatone/go-autoform/pkg/uischema"
)

// formatInputTypes maps string formats onto HTML input types.
var formatInputTypes = map[string]string{
	"email":          "email",
	"uri":            "url",
	"url":            "url",
	"tel":            "tel",
	"phone":          "tel",
	"password":       "password",
	"time":           "time",
	"date":           "date",
	"date-time":      "datetime-local",
	"datetime":       "datetime-local",
	"datetime-local": "datetime-local",
	"color":          "color",
	"textarea":       "textarea",
}

// leaf derives input constraints, value and allowed options for a leaf
// node. A setsOptions override replaces the allowed values and turns any
// leaf into a select.
func (p *pass) leaf(cls schema.Classification, field Field, cfg uischema.FieldConfigItem, rules dependency.State) Field {
	if value, ok := cfg.Default(); ok {
		field.Default = value
	} else if cls.HasDefault {
		field.Default = cls.Default
	}
	if value, ok := p.state.Value(field.Path); ok && value != nil {
		field.Value = value
	} else {
		field.Value = field.Default
	}

	var constraints schema.Constraints
	if leaf, ok := cls.Node.(schema.LeafConstraints); ok {
		constraints = leaf.Constraints()
	}

	switch cls.Kind {
	case schema.KindString:
		field.Type = FieldTypeString
		field.Input.Type = "text"
		if inputType, ok := formatInputTypes[constraints.Format]; ok {
			field.Input.Type = inputType
		}
		field.Input.MinLength = constraints.MinLength
		field.Input.MaxLength = constraints.MaxLength
		field.Input.Pattern = constraints.Pattern
	case schema.KindNumber:
		field.Type = FieldTypeNumber
		field.Input.Type = "number"
		field.Input.Min = constraints.Min
		field.Input.Max = constraints.Max
		field.Input.Step = constraints.Step
		if field.Input.Step == nil && constraints.Integer {
			one := 1.0
			field.Input.Step = &one
		}
		field.Coerce = schema.CoerceNumber.String()
	case schema.KindBoolean:
		field.Type = FieldTypeBoolean
		field.Input.Type = "checkbox"
		field.Coerce = schema.CoerceBoolean.String()
	case schema.KindDate:
		field.Type = FieldTypeDate
		field.Input.Type = "date"
		if constraints.MinDate != nil {
			field.Input.MinDate = constraints.MinDate.Format(schema.DateLayout)
		}
		if constraints.MaxDate != nil {
			field.Input.MaxDate = constraints.MaxDate.Format(schema.DateLayout)
		}
	case schema.KindEnum:
		field.Type = FieldTypeEnum
		field.Input.Type = "select"
		if enum, ok := cls.Node.(schema.Enumerable); ok {
			field.Options = enum.Values()
			field.Coerce = enum.Coercion().String()
		}
	case schema.KindLiteral:
		field.Type = FieldTypeLiteral
		field.Input.Type = "hidden"
		if literal, ok := cls.Node.(*schema.LiteralNode); ok {
			field.Value = literal.Value()
		}
	}

	if rules.HasOptions {
		field.Options = append([]any{}, rules.Options...)
		if field.Type != FieldTypeBoolean && field.Type != FieldTypeLiteral {
			field.Input.Type = "select"
		}
	}
	field.Input.Required = field.Required
	return field
}
