package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"sigs.k8s.io/yaml"

	uischema "github.com/goliatone/go-uischema"
	"github.com/goliatone/go-uischema/pkg/binding"
	"github.com/goliatone/go-uischema/pkg/codec"
	"github.com/goliatone/go-uischema/pkg/components"
	"github.com/goliatone/go-uischema/pkg/platform"
	"github.com/goliatone/go-uischema/pkg/report"
	"github.com/goliatone/go-uischema/pkg/schema"
	"github.com/goliatone/go-uischema/pkg/validation"
)

var errAborted = errors.New("uischema: prompt aborted")

// selectPlatform asks the user to pick a target platform. Replaced in tests.
var selectPlatform = func(options []string) (string, error) {
	var out string
	prompt := &survey.Select{
		Message: "Target platform:",
		Options: options,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", errAborted
		}
		return "", err
	}
	return out, nil
}

func decodeOptions(ctx *cli.Context) ([]codec.Option, error) {
	var options []codec.Option
	if ctx.Bool(uniqueIDsFlag) {
		options = append(options, codec.WithUniqueIDs())
	}
	if ctx.Bool(strictFlag) {
		strict, err := validation.NewStrictValidator()
		if err != nil {
			return nil, err
		}
		options = append(options, codec.WithStrict(strict))
	}
	return options, nil
}

// decodeFile reads a schema from path, choosing YAML or JSON by extension.
func decodeFile(path string, options ...codec.Option) codec.DeserializeResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return codec.DeserializeResult{Error: err.Error(), Position: -1}
	}
	if isYAML(path) {
		return codec.DeserializeYAML(string(data), options...)
	}
	return codec.Deserialize(string(data), options...)
}

func loadSchema(ctx *cli.Context) (schema.UISchema, error) {
	path := ctx.Args().First()
	if path == "" {
		return schema.UISchema{}, fmt.Errorf("a schema file is required")
	}
	options, err := decodeOptions(ctx)
	if err != nil {
		return schema.UISchema{}, err
	}
	result := decodeFile(path, options...)
	if !result.Success {
		return schema.UISchema{}, fmt.Errorf("%s: %s", path, result.Error)
	}
	return result.Schema, nil
}

func loadData(path string) (schema.DataContext, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	if isYAML(path) {
		if raw, err = yaml.YAMLToJSON(raw); err != nil {
			return nil, fmt.Errorf("parse data %s: %w", path, err)
		}
	}
	var data schema.DataContext
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse data %s: %w", path, err)
	}
	return data, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

type validationReport struct {
	path   string
	result codec.DeserializeResult
}

func validateAction(ctx *cli.Context) error {
	paths := ctx.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("at least one schema file is required")
	}
	options, err := decodeOptions(ctx)
	if err != nil {
		return err
	}

	var (
		mu      sync.Mutex
		reports []validationReport
	)

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, path := range paths {
		path := path
		g.Go(func() error {
			result := decodeFile(path, options...)
			mu.Lock()
			reports = append(reports, validationReport{path: path, result: result})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].path < reports[j].path
	})

	failed := 0
	out := ctx.App.Writer
	for _, report := range reports {
		if report.result.Success {
			fmt.Fprintf(out, "ok   %s\n", report.path)
			continue
		}
		failed++
		fmt.Fprintf(out, "FAIL %s: %s\n", report.path, report.result.Error)
		if report.result.Position >= 0 {
			fmt.Fprintf(out, "     at character %d\n", report.result.Position)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d schemas failed validation", failed, len(reports))
	}
	return nil
}

func formatAction(ctx *cli.Context) error {
	s, err := loadSchema(ctx)
	if err != nil {
		return err
	}
	text, err := codec.Serialize(s, codec.SerializeOptions{
		Pretty: !ctx.Bool(compactFlag),
		Indent: ctx.Int(indentFlag),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, text)
	return nil
}

func fieldsAction(ctx *cli.Context) error {
	s, err := loadSchema(ctx)
	if err != nil {
		return err
	}
	if ctx.Bool(uniqueFlag) {
		for _, path := range binding.UniquePaths(s) {
			fmt.Fprintln(ctx.App.Writer, path)
		}
		return nil
	}

	fields := binding.ExtractDataFields(s)
	switch ctx.String(formatFlag) {
	case "", "json":
		return writeJSON(ctx, fields)
	case "markdown", "md":
		var options []report.Option
		if dir := ctx.String(templatesFlag); dir != "" {
			options = append(options, report.WithFS(os.DirFS(dir)))
		}
		engine, err := report.New(options...)
		if err != nil {
			return err
		}
		title := ""
		if s.Meta != nil {
			title = s.Meta.Title
		}
		return engine.Fields(ctx.App.Writer, title, fields)
	default:
		return fmt.Errorf("not supported %s format", ctx.String(formatFlag))
	}
}

func resolveAction(ctx *cli.Context) error {
	logger := newLogger(ctx)

	s, err := loadSchema(ctx)
	if err != nil {
		return err
	}
	data, err := loadData(ctx.String(dataFlag))
	if err != nil {
		return err
	}

	var bindOptions []binding.TemplateOption
	switch ctx.String(sanitizeFlag) {
	case "", "none":
	case "strict":
		bindOptions = append(bindOptions, binding.WithSanitizer(binding.StrictHTML()))
	case "inline":
		bindOptions = append(bindOptions, binding.WithSanitizer(binding.InlineMarkup()))
	default:
		return fmt.Errorf("not supported %s sanitizer", ctx.String(sanitizeFlag))
	}

	adapter, err := newAdapter(ctx, logger)
	if err != nil {
		return err
	}
	options := []uischema.Option{
		uischema.WithAdapter(adapter),
		uischema.WithBindOptions(bindOptions...),
	}
	if ctx.Bool(pruneFlag) {
		options = append(options, uischema.WithConditionPruning())
	}

	out, err := uischema.NewPipeline(options...).ProcessSchema(s, data, ctx.String(platformFlag))
	if err != nil {
		return err
	}
	for _, name := range out.UnknownTypes {
		logger.Printf("component type %q is not in the catalogue", name)
	}
	for _, name := range out.Unsupported {
		logger.Printf("component type %q is not supported on %s", name, out.Platform)
	}
	return writeJSON(ctx, out.Rendered)
}

func adaptAction(ctx *cli.Context) error {
	logger := newLogger(ctx)

	s, err := loadSchema(ctx)
	if err != nil {
		return err
	}
	adapter, err := newAdapter(ctx, logger)
	if err != nil {
		return err
	}

	target := ctx.String(platformFlag)
	if target == "" && ctx.Bool(interactiveFlag) {
		if target, err = selectPlatform(adapter.Platforms()); err != nil {
			return err
		}
	}
	if target == "" {
		return fmt.Errorf("a target platform is required (one of %s)", strings.Join(adapter.Platforms(), ", "))
	}

	schema.Walk(s.Root, func(node schema.UIComponent, path string) bool {
		if !adapter.IsSupported(node.Type, target) {
			logger.Printf("%s: component type %q is not supported on %s", path, node.Type, target)
		}
		return true
	})
	return writeJSON(ctx, adapter.Adapt(s, target))
}

func newAdapter(ctx *cli.Context, logger platform.Logger) (*platform.Adapter, error) {
	options := []platform.Option{
		platform.WithLogger(logger),
		platform.WithRegistry(components.NewDefaultRegistry()),
	}
	if source := ctx.String(sourceFlag); source != "" {
		options = append(options, platform.WithSourcePlatform(source))
	}
	if dir := ctx.String(mappingsFlag); dir != "" {
		tables, err := platform.LoadFS(os.DirFS(dir))
		if err != nil {
			return nil, err
		}
		options = append(options, platform.WithTables(tables))
	}
	return platform.New(options...), nil
}

func writeJSON(ctx *cli.Context, value any) error {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.App.Writer, string(payload))
	return err
}
