package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-autoform/pkg/model"
	"github.com/goliatone/go-autoform/pkg/render"
	"github.com/goliatone/go-autoform/pkg/schema"
)

// Form is the reactive form a session fills. Every answer is written back
// through Input or Append and the form is resolved again before the next
// prompt, so dependency rules and union branches react to earlier answers.
type Form interface {
	Resolve() (model.FormModel, error)
	Input(path model.Path, raw any) error
	Append(path model.Path, value any) (model.Entry, error)
}

// Session asks for every visible, enabled leaf once, in render order.
type Session struct {
	cfg config
	// Errors shows server or validation messages before the matching prompt.
	Errors render.ErrorMapping
}

// NewSession constructs a session with the survey driver unless another
// driver is configured.
func NewSession(options ...Option) *Session {
	return &Session{cfg: newConfig(options)}
}

type stepKind int

const (
	stepLeaf stepKind = iota
	stepAppend
)

type step struct {
	kind  stepKind
	key   string
	field model.Field
}

// Run prompts until no unanswered step remains.
func (s *Session) Run(ctx context.Context, form Form) error {
	if form == nil {
		return errors.New("tui: form is required")
	}
	for _, message := range s.Errors.Form {
		_ = s.cfg.driver.Info(ctx, s.cfg.theme.ErrorPrefix+message)
	}

	done := make(map[string]struct{})
	for count := 0; ; count++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if count >= s.cfg.maxSteps {
			return ErrTooManySteps
		}
		resolved, err := form.Resolve()
		if err != nil {
			return err
		}
		next, ok := nextStep(resolved.Fields, done)
		if !ok {
			return nil
		}
		done[next.key] = struct{}{}
		s.cfg.logger.Debug().Str("step", next.key).Msg("prompt")

		switch next.kind {
		case stepAppend:
			err = s.promptAppend(ctx, form, next.field)
		default:
			err = s.promptLeaf(ctx, form, next.field)
		}
		if err != nil {
			return err
		}
	}
}

// nextStep walks the model in render order and returns the first step not
// taken yet. An array offers to add an entry after its existing items; the
// offer is keyed by the item count so accepting it makes a new offer.
func nextStep(fields []model.Field, done map[string]struct{}) (step, bool) {
	for _, field := range fields {
		switch field.Type {
		case model.FieldTypeObject, model.FieldTypeUnion:
			if found, ok := nextStep(field.Children, done); ok {
				return found, true
			}
		case model.FieldTypeArray:
			for _, item := range field.Items {
				if found, ok := nextStep(item.Fields, done); ok {
					return found, true
				}
			}
			if field.Disabled {
				continue
			}
			key := fmt.Sprintf("%s#append:%d", field.Name, len(field.Items))
			if _, seen := done[key]; !seen {
				return step{kind: stepAppend, key: key, field: field}, true
			}
		case model.FieldTypeLiteral:
			continue
		default:
			if field.Disabled {
				continue
			}
			if _, seen := done[field.Name]; !seen {
				return step{kind: stepLeaf, key: field.Name, field: field}, true
			}
		}
	}
	return step{}, false
}

func (s *Session) promptAppend(ctx context.Context, form Form, field model.Field) error {
	message := fmt.Sprintf("Add %s?", strings.ToLower(displayLabel(field)))
	if len(field.Items) > 0 {
		message = fmt.Sprintf("Add another %s entry?", strings.ToLower(displayLabel(field)))
	}
	add, err := s.cfg.driver.Confirm(ctx, ConfirmConfig{Message: message, Help: field.Description})
	if err != nil || !add {
		return err
	}
	_, err = form.Append(field.Path, map[string]any{})
	return err
}

func (s *Session) promptLeaf(ctx context.Context, form Form, field model.Field) error {
	for _, message := range s.Errors.Fields[field.Name] {
		_ = s.cfg.driver.Info(ctx, s.cfg.theme.ErrorPrefix+message)
	}

	switch {
	case field.Type == model.FieldTypeBoolean:
		answer, err := s.cfg.driver.Confirm(ctx, ConfirmConfig{
			Message: s.message(field),
			Default: field.Value == true,
			Help:    field.Description,
		})
		if err != nil {
			return err
		}
		return form.Input(field.Path, answer)
	case len(field.Options) > 0 || field.Input.Type == "select":
		return s.promptSelect(ctx, form, field)
	default:
		return s.promptText(ctx, form, field)
	}
}

const skipOption = "(skip)"

func (s *Session) promptSelect(ctx context.Context, form Form, field model.Field) error {
	options := make([]string, 0, len(field.Options)+1)
	offset := 0
	if !field.Required {
		options = append(options, skipOption)
		offset = 1
	}
	defaultIndex := 0
	for i, option := range field.Options {
		formatted := scalarString(option)
		if field.Value != nil && formatted == scalarString(field.Value) {
			defaultIndex = i + offset
		}
		options = append(options, formatted)
	}
	if len(options) == 0 {
		return nil
	}

	idx, err := s.cfg.driver.Select(ctx, SelectConfig{
		Message:      s.message(field),
		Options:      options,
		DefaultIndex: defaultIndex,
		Help:         field.Description,
	})
	if err != nil {
		return err
	}
	if idx < offset || idx >= len(options) {
		return nil
	}
	return form.Input(field.Path, field.Options[idx-offset])
}

func (s *Session) promptText(ctx context.Context, form Form, field model.Field) error {
	cfg := InputConfig{
		Message:   s.message(field),
		Default:   scalarString(field.Value),
		Help:      field.Description,
		Validator: validator(field),
	}
	for {
		var (
			answer string
			err    error
		)
		switch field.Input.Type {
		case "password":
			answer, err = s.cfg.driver.Password(ctx, cfg)
		case "textarea":
			answer, err = s.cfg.driver.TextArea(ctx, TextAreaConfig{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help})
		default:
			answer, err = s.cfg.driver.Input(ctx, cfg)
		}
		if err != nil {
			return err
		}
		if err := cfg.Validator(answer); err != nil {
			_ = s.cfg.driver.Info(ctx, fmt.Sprintf("%sInvalid %s: %v", s.cfg.theme.ErrorPrefix, field.Name, err))
			continue
		}
		if strings.TrimSpace(answer) == "" {
			return nil
		}
		if err := form.Input(field.Path, answer); err != nil {
			_ = s.cfg.driver.Info(ctx, fmt.Sprintf("%sInvalid %s: %v", s.cfg.theme.ErrorPrefix, field.Name, err))
			continue
		}
		return nil
	}
}

func (s *Session) message(field model.Field) string {
	label := s.cfg.theme.PromptPrefix + displayLabel(field)
	if field.Required {
		label += " *"
	}
	return label
}

// validator checks the descriptor's input constraints on raw text. An
// empty answer is accepted for optional fields.
func validator(field model.Field) func(string) error {
	return func(raw string) error {
		value := strings.TrimSpace(raw)
		if value == "" {
			if field.Required {
				return errors.New("a value is required")
			}
			return nil
		}
		input := field.Input
		switch field.Type {
		case model.FieldTypeNumber:
			number, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("%q is not a number", value)
			}
			if input.Min != nil && number < *input.Min {
				return fmt.Errorf("must be at least %s", scalarString(*input.Min))
			}
			if input.Max != nil && number > *input.Max {
				return fmt.Errorf("must be at most %s", scalarString(*input.Max))
			}
		case model.FieldTypeDate:
			if _, err := time.Parse(schema.DateLayout, value); err != nil {
				return fmt.Errorf("dates use the %s layout", schema.DateLayout)
			}
		case model.FieldTypeString:
			length := len([]rune(value))
			if input.MinLength != nil && length < *input.MinLength {
				return fmt.Errorf("must be at least %d characters", *input.MinLength)
			}
			if input.MaxLength != nil && length > *input.MaxLength {
				return fmt.Errorf("must be at most %d characters", *input.MaxLength)
			}
		}
		return nil
	}
}

func displayLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}
