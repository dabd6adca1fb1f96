package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-archcheck/pkg/depmodel"
	"github.com/dd0wney/cluso-archcheck/pkg/rules"
)

// validate is a singleton validator instance
var validate = validator.New()

// Config is the on-disk architecture description: the layer stack, the
// same-layer policy, the forbidden externals, and the observed modules and
// dependency edges. How the modules and edges were discovered is the
// caller's business; this package only checks the shape.
type Config struct {
	Layers                []string          `yaml:"layers" validate:"required,min=1,dive,required"`
	SameLayerDependencies *bool             `yaml:"same_layer_dependencies" validate:"required"`
	Forbidden             []ForbiddenConfig `yaml:"forbidden" validate:"omitempty,dive"`
	Modules               []ModuleConfig    `yaml:"modules" validate:"omitempty,dive"`
	Edges                 []EdgeConfig      `yaml:"edges" validate:"omitempty,dive"`
}

// ForbiddenConfig bars one layer from referencing one external library
type ForbiddenConfig struct {
	Layer    string `yaml:"layer" validate:"required"`
	External string `yaml:"external" validate:"required"`
}

// ModuleConfig declares one module, its layer, and its external references
type ModuleConfig struct {
	Name      string   `yaml:"name" validate:"required"`
	Layer     string   `yaml:"layer" validate:"required"`
	Externals []string `yaml:"externals"`
}

// EdgeConfig declares one observed dependency: from references to
type EdgeConfig struct {
	From string `yaml:"from" validate:"required"`
	To   string `yaml:"to" validate:"required"`
}

// Load reads and parses an architecture description from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes an architecture description from YAML (or JSON, which YAML
// subsumes) and validates its shape. Shape errors fail here; semantic errors
// (unknown layers, dangling edges) fail in Build.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, formatValidationError(err)
	}

	return &cfg, nil
}

// Build constructs the rule registry and dependency model from the parsed
// description. Errors carry the sentinel values from pkg/rules and
// pkg/depmodel so callers can distinguish malformed input categories.
func (c *Config) Build() (*rules.Registry, *depmodel.Model, error) {
	policy := rules.SameLayerForbid
	if c.SameLayerDependencies != nil && *c.SameLayerDependencies {
		policy = rules.SameLayerAllow
	}

	forbidden := make([]rules.ForbiddenExternal, 0, len(c.Forbidden))
	for _, f := range c.Forbidden {
		forbidden = append(forbidden, rules.ForbiddenExternal{Layer: f.Layer, External: f.External})
	}

	reg, err := rules.NewRegistry(c.Layers, policy, forbidden)
	if err != nil {
		return nil, nil, err
	}

	modules := make([]depmodel.Module, 0, len(c.Modules))
	for _, m := range c.Modules {
		modules = append(modules, depmodel.Module{ID: m.Name, Layer: m.Layer, Externals: m.Externals})
	}

	edges := make([]depmodel.Edge, 0, len(c.Edges))
	for _, e := range c.Edges {
		edges = append(edges, depmodel.Edge{From: e.From, To: e.To})
	}

	model, err := depmodel.NewModel(reg, modules, edges)
	if err != nil {
		return nil, nil, err
	}

	return reg, model, nil
}

// formatValidationError converts validator errors into user-friendly messages
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must have at least %s entries", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
