package model

import internalmodel "github.com/goliatone/go-autoform/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeString  = internalmodel.FieldTypeString
	FieldTypeNumber  = internalmodel.FieldTypeNumber
	FieldTypeBoolean = internalmodel.FieldTypeBoolean
	FieldTypeDate    = internalmodel.FieldTypeDate
	FieldTypeEnum    = internalmodel.FieldTypeEnum
	FieldTypeLiteral = internalmodel.FieldTypeLiteral
	FieldTypeObject  = internalmodel.FieldTypeObject
	FieldTypeArray   = internalmodel.FieldTypeArray
	FieldTypeUnion   = internalmodel.FieldTypeUnion
)

type Path = internalmodel.Path
type InputConstraints = internalmodel.InputConstraints
type Field = internalmodel.Field
type Item = internalmodel.Item
type Entry = internalmodel.Entry
type FormModel = internalmodel.FormModel
type State = internalmodel.State
type Input = internalmodel.Input

// ParsePath splits a dotted path such as "items.0.name".
func ParsePath(raw string) Path { return internalmodel.ParsePath(raw) }

// ErrRootNotObject is returned when the root schema is not an object.
var ErrRootNotObject = internalmodel.ErrRootNotObject
