package prompts

import (
	"fmt"

	"github.com/spf13/viper"
	lcprompts "github.com/tmc/langchaingo/prompts"
)

// Operation names, matching the top-level keys of the prompts YAML file.
const (
	OpSyllabusAnalyzer = "syllabus_analyzer"
	OpWorksheet        = "worksheet"
	OpGrading          = "grading"
	OpGradingVision    = "grading_vision"
)

// inputVariables is the closed set of named fields each operation's
// template expects. Render fails fast when any is absent.
var inputVariables = map[string][]string{
	OpSyllabusAnalyzer: {"syllabus_text", "grade", "subject"},
	OpWorksheet:        {"grade", "topic", "section_instructions"},
	OpGrading:          {"grade", "subject", "worksheet_title", "student_answers", "answer_key"},
	OpGradingVision:    {"grade", "subject", "worksheet_title", "num_images", "answer_key"},
}

// ModelParams are the per-operation generation settings.
type ModelParams struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Operation bundles one prompt template with its model parameters.
type Operation struct {
	Name     string
	Params   ModelParams
	vars     []string
	template lcprompts.PromptTemplate
}

// Render formats the operation's template with the given fields. Every
// field the template declares must be present; extra fields are rejected
// by name so typos surface immediately.
func (o *Operation) Render(fields map[string]any) (string, error) {
	for _, name := range o.vars {
		if _, ok := fields[name]; !ok {
			return "", fmt.Errorf("prompt %q: missing required field %q", o.Name, name)
		}
	}
	for name := range fields {
		if !contains(o.vars, name) {
			return "", fmt.Errorf("prompt %q: unknown field %q", o.Name, name)
		}
	}

	rendered, err := o.template.Format(fields)
	if err != nil {
		return "", fmt.Errorf("prompt %q: %w", o.Name, err)
	}
	return rendered, nil
}

// Store holds all prompt templates and model parameters, loaded once at
// process start and passed into every pipeline.
type Store struct {
	ops map[string]*Operation
}

// Load reads the prompts YAML file and validates that every operation is
// present with a non-empty template and model.
func Load(path string) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read prompts file %s: %w", path, err)
	}

	store := &Store{ops: make(map[string]*Operation)}
	for name, vars := range inputVariables {
		op, err := loadOperation(v, name, vars)
		if err != nil {
			return nil, err
		}
		store.ops[name] = op
	}
	return store, nil
}

// Operation returns the named operation. Unknown names are a programming
// error, caught at startup by Load's validation of the full set.
func (s *Store) Operation(name string) (*Operation, error) {
	op, ok := s.ops[name]
	if !ok {
		return nil, fmt.Errorf("unknown prompt operation %q", name)
	}
	return op, nil
}

func loadOperation(v *viper.Viper, name string, vars []string) (*Operation, error) {
	tmpl := v.GetString(name + ".system_prompt")
	if tmpl == "" {
		return nil, fmt.Errorf("prompt %q: system_prompt is missing", name)
	}

	params := ModelParams{
		Model:       v.GetString(name + ".model_params.model"),
		Temperature: v.GetFloat64(name + ".model_params.temperature"),
		MaxTokens:   v.GetInt(name + ".model_params.max_tokens"),
	}
	if params.Model == "" {
		return nil, fmt.Errorf("prompt %q: model_params.model is missing", name)
	}
	if params.MaxTokens <= 0 {
		return nil, fmt.Errorf("prompt %q: model_params.max_tokens must be positive", name)
	}

	pt := lcprompts.PromptTemplate{
		Template:       tmpl,
		InputVariables: vars,
		TemplateFormat: lcprompts.TemplateFormatGoTemplate,
	}

	return &Operation{
		Name:     name,
		Params:   params,
		vars:     vars,
		template: pt,
	}, nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
