package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-autoform/pkg/render"
	"github.com/goliatone/go-autoform/pkg/schema"
	"github.com/goliatone/go-autoform/pkg/validation"
)

// SubmitFunc receives the coerced, validated value tree.
type SubmitFunc func(ctx context.Context, values map[string]any) error

// SubmissionError reports a value tree the validator rejected.
type SubmissionError struct {
	Issues validation.Issues
}

func (e *SubmissionError) Error() string {
	return "orchestrator: submission rejected: " + e.Issues.Error()
}

func (e *SubmissionError) Unwrap() error {
	return e.Issues
}

// Payload coerces the current values with the schema (defaults applied,
// stale union branch keys dropped, effects run) and validates the result.
func (f *Form) Payload(ctx context.Context) (map[string]any, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	coerced, err := schema.Coerce(f.root, f.controller.Values())
	if err != nil {
		return nil, fmt.Errorf("orchestrator: coerce values: %w", err)
	}
	values, _ := coerced.(map[string]any)
	if values == nil {
		values = map[string]any{}
	}

	if err := f.validator.Validate(ctx, values); err != nil {
		var issues validation.Issues
		if errors.As(err, &issues) {
			f.logger.Debug().Int("issues", len(issues)).Msg("submission rejected")
			return nil, &SubmissionError{Issues: issues}
		}
		return nil, fmt.Errorf("orchestrator: validate: %w", err)
	}
	return values, nil
}

// Submit validates the form and calls submit with the payload. The callback
// is not invoked when validation fails.
func (f *Form) Submit(ctx context.Context, submit SubmitFunc) error {
	values, err := f.Payload(ctx)
	if err != nil {
		return err
	}
	if submit == nil {
		return nil
	}
	return submit(ctx, values)
}

// Errors maps a Submit failure onto descriptor names so it can be passed to
// a renderer through RenderOptions. Other errors become form messages.
func (f *Form) Errors(err error) (render.ErrorMapping, error) {
	if err == nil {
		return render.ErrorMapping{}, nil
	}
	var submission *SubmissionError
	if !errors.As(err, &submission) {
		return render.ErrorMapping{Form: []string{err.Error()}}, nil
	}
	form, resolveErr := f.Resolve()
	if resolveErr != nil {
		return render.ErrorMapping{}, resolveErr
	}
	return render.MapIssues(form, submission.Issues), nil
}
