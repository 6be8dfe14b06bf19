// Package dependency resolves cross-field rules. A rule names a source
// field, a target field and an effect (hides, disables, requires,
// setsOptions); Resolve folds every rule targeting a field into a State
// using values read through an injected Lookup, and Sources reports which
// paths a caller must watch to keep that State current.
package dependency
