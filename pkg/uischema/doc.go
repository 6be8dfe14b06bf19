// Package uischema loads per-form UI configuration from JSON or YAML files:
// field overrides keyed by field name or path, and dependency rules whose
// conditions are written as expressions.
//
//	forms:
//	  signup:
//	    fields:
//	      email: {label: "Work email", inputProps: {placeholder: "you@corp"}}
//	    dependencies:
//	      - {source: plan, target: seats, type: hides, when: "$source == 'free'"}
package uischema
