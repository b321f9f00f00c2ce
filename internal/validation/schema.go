// Package validation checks dataset, result and prompt files against the
// JSON Schemas embedded in this package.
package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

var (
	datasetSchema *jsonschema.Schema
	resultSchema  *jsonschema.Schema
	promptsSchema *jsonschema.Schema
)

func init() {
	datasetSchema = mustCompileSchema("dataset.schema.json")
	resultSchema = mustCompileSchema("result.schema.json")
	promptsSchema = mustCompileSchema("prompts.schema.json")
}

func mustCompileSchema(name string) *jsonschema.Schema {
	raw, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		panic(fmt.Sprintf("failed to read embedded %s: %v", name, err))
	}

	var schemaDoc any
	if err := json.Unmarshal(raw, &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// Kind names the document types this package knows how to validate.
type Kind string

const (
	KindDataset Kind = "dataset"
	KindResult  Kind = "result"
	KindPrompts Kind = "prompts"
)

// ValidateDatasetBytes validates raw dataset JSON.
func ValidateDatasetBytes(data []byte) []string {
	return validateJSONBytes(datasetSchema, data)
}

// ValidateResultBytes validates a raw experiment result JSON document,
// combined results included.
func ValidateResultBytes(data []byte) []string {
	return validateJSONBytes(resultSchema, data)
}

// ValidatePromptsBytes validates a YAML prompt file.
func ValidatePromptsBytes(data []byte) []string {
	return validateYAMLBytes(promptsSchema, data)
}

// ValidateFile detects the kind of document at path and validates it.
// YAML files are prompt files; JSON files holding "samples" are datasets and
// everything else JSON is treated as a result.
func ValidateFile(path string) (Kind, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", path, err)
	}

	kind := DetectKind(path, data)
	switch kind {
	case KindPrompts:
		return kind, ValidatePromptsBytes(data), nil
	case KindDataset:
		return kind, ValidateDatasetBytes(data), nil
	default:
		return kind, ValidateResultBytes(data), nil
	}
}

// DetectKind guesses the document kind from the file extension and the
// top-level keys.
func DetectKind(path string, data []byte) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return KindPrompts
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err == nil {
		if _, ok := probe["samples"]; ok {
			return KindDataset
		}
	}
	return KindResult
}

func validateJSONBytes(schema *jsonschema.Schema, data []byte) []string {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return []string{fmt.Sprintf("JSON parse error: %v", err)}
	}
	return validateAgainstSchema(schema, doc)
}

func validateYAMLBytes(schema *jsonschema.Schema, data []byte) []string {
	var yamlDoc any
	if err := yaml.Unmarshal(data, &yamlDoc); err != nil {
		return []string{fmt.Sprintf("YAML parse error: %v", err)}
	}
	return validateAgainstSchema(schema, convertToJSONCompatible(yamlDoc))
}

func validateAgainstSchema(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}

// convertToJSONCompatible normalizes YAML-decoded values for the validator:
// nested maps are copied and ints widened to float64.
func convertToJSONCompatible(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v2 := range val {
			result[k] = convertToJSONCompatible(v2)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v2 := range val {
			result[i] = convertToJSONCompatible(v2)
		}
		return result
	case int:
		return float64(val)
	default:
		return val
	}
}
