package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-autoform/pkg/openapi"
	"github.com/goliatone/go-autoform/pkg/orchestrator"
	"github.com/goliatone/go-autoform/pkg/render"
	"github.com/goliatone/go-autoform/pkg/renderers/tui"
	"github.com/goliatone/go-autoform/pkg/schema"
	"github.com/goliatone/go-autoform/pkg/schemadoc"
	"github.com/goliatone/go-autoform/pkg/uischema"
)

const maxAttempts = 3

type options struct {
	schemaPath  string
	openapiPath string
	operation   string
	uiPath      string
	formID      string
	valuesPath  string
	renderer    string
	output      string
	format      string
	submit      bool
	debug       bool
}

func main() {
	var opts options
	flag.StringVar(&opts.schemaPath, "schema", "", "schema document (YAML or JSON)")
	flag.StringVar(&opts.openapiPath, "openapi", "", "OpenAPI document; the form is built from -operation's request body")
	flag.StringVar(&opts.operation, "operation", "", "operation ID (or method:path) used with -openapi")
	flag.StringVar(&opts.uiPath, "ui", "", "UI schema document with field config and dependency rules")
	flag.StringVar(&opts.formID, "form", "", "form id inside the UI schema (defaults to the only form)")
	flag.StringVar(&opts.valuesPath, "values", "", "initial values (YAML or JSON)")
	flag.StringVar(&opts.renderer, "renderer", "vanilla", "renderer: json, vanilla or tui")
	flag.StringVar(&opts.output, "output", "", "output file (stdout if empty)")
	flag.StringVar(&opts.format, "format", string(tui.OutputFormatJSON), "tui output format: json, form or pretty")
	flag.BoolVar(&opts.submit, "submit", false, "validate the values and print the payload")
	flag.BoolVar(&opts.debug, "debug", false, "log resolver decisions to stderr")
	flag.Parse()

	level := zerolog.InfoLevel
	if opts.debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		logger.Error().Err(err).Msg("autoform failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logger zerolog.Logger) error {
	root, err := loadSchema(ctx, opts)
	if err != nil {
		return err
	}

	formOptions := []orchestrator.Option{orchestrator.WithLogger(logger)}
	if opts.uiPath != "" {
		ui, err := loadUISchema(opts.uiPath, opts.formID)
		if err != nil {
			return err
		}
		formOptions = append(formOptions, orchestrator.WithUISchema(ui))
	}
	if opts.valuesPath != "" {
		values, err := loadValues(opts.valuesPath)
		if err != nil {
			return err
		}
		formOptions = append(formOptions, orchestrator.WithValues(values))
	}

	out := io.Writer(os.Stdout)
	if opts.output != "" {
		file, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer file.Close()
		out = file
	}

	if opts.renderer == "tui" {
		registry, err := render.NewRegistry(tui.New(tui.WithLogger(logger)))
		if err != nil {
			return err
		}
		formOptions = append(formOptions, orchestrator.WithRegistry(registry))
		form, err := orchestrator.New(root, formOptions...)
		if err != nil {
			return err
		}
		return runSession(ctx, form, opts, out)
	}

	form, err := orchestrator.New(root, formOptions...)
	if err != nil {
		return err
	}
	return renderForm(ctx, form, opts, out, logger)
}

func loadSchema(ctx context.Context, opts options) (schema.Node, error) {
	switch {
	case opts.schemaPath != "" && opts.openapiPath != "":
		return nil, errors.New("use either -schema or -openapi")
	case opts.schemaPath != "":
		return schemadoc.Load(os.DirFS(filepath.Dir(opts.schemaPath)), filepath.Base(opts.schemaPath))
	case opts.openapiPath != "":
		if opts.operation == "" {
			return nil, errors.New("-operation is required with -openapi")
		}
		doc, err := openapi.Load(ctx, openapi.SourceFromFile(opts.openapiPath))
		if err != nil {
			return nil, err
		}
		return doc.RequestSchema(opts.operation)
	default:
		return nil, errors.New("one of -schema or -openapi is required")
	}
}

func loadUISchema(path, id string) (uischema.Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return uischema.Form{}, fmt.Errorf("read ui schema: %w", err)
	}
	store, err := uischema.Parse(data, path)
	if err != nil {
		return uischema.Form{}, err
	}
	if id == "" {
		ids := store.IDs()
		if len(ids) != 1 {
			return uischema.Form{}, fmt.Errorf("-form is required, %s defines %s", path, strings.Join(ids, ", "))
		}
		id = ids[0]
	}
	form, ok := store.Form(id)
	if !ok {
		return uischema.Form{}, fmt.Errorf("form %q not found in %s", id, path)
	}
	return form, nil
}

func loadValues(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	values := map[string]any{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	return values, nil
}

func renderForm(ctx context.Context, form *orchestrator.Form, opts options, out io.Writer, logger zerolog.Logger) error {
	var renderOptions render.RenderOptions
	if opts.submit {
		payload, err := form.Payload(ctx)
		if err == nil {
			return writeJSON(out, payload)
		}
		mapping, mapErr := form.Errors(err)
		if mapErr != nil {
			return mapErr
		}
		logger.Warn().Err(err).Msg("submission rejected; rendering errors")
		renderOptions.Errors = mapping.Fields
		renderOptions.FormErrors = mapping.Form
	}

	output, err := form.Render(ctx, opts.renderer, renderOptions)
	if err != nil {
		return err
	}
	_, err = out.Write(output)
	return err
}

// runSession prompts for every field and, with -submit, retries with the
// rejected fields highlighted.
func runSession(ctx context.Context, form *orchestrator.Form, opts options, out io.Writer) error {
	renderer, err := form.Registry().Get("tui")
	if err != nil {
		return err
	}
	terminal, ok := renderer.(*tui.Renderer)
	if !ok {
		return fmt.Errorf("renderer %q cannot run sessions", renderer.Name())
	}

	var mapping render.ErrorMapping
	for attempt := 1; ; attempt++ {
		if err := terminal.Session(mapping).Run(ctx, form); err != nil {
			return err
		}
		if !opts.submit {
			encoded, err := tui.Encode(form.Values(), tui.OutputFormat(opts.format))
			if err != nil {
				return err
			}
			_, err = out.Write(encoded)
			return err
		}

		err := form.Submit(ctx, func(_ context.Context, values map[string]any) error {
			encoded, err := tui.Encode(values, tui.OutputFormat(opts.format))
			if err != nil {
				return err
			}
			_, err = out.Write(encoded)
			return err
		})
		var submission *orchestrator.SubmissionError
		if !errors.As(err, &submission) || attempt == maxAttempts {
			return err
		}
		if mapping, err = form.Errors(err); err != nil {
			return err
		}
	}
}

func writeJSON(out io.Writer, value any) error {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	_, err = out.Write(append(payload, '\n'))
	return err
}
