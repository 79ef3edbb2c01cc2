// cmd/tools/worker-generator/generate.go
package main

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"idea-workers/pkg/registry"
)

const parseFailedCode = "SUBMISSION_PARSE_FAILED"

var ErrFileExists = errors.New("file already exists")

type field struct {
	Name    string
	Type    string
	JSONTag string
	Comment string
}

type sentinel struct {
	Name string
	Code string
}

type workerData struct {
	Activity     registry.Activity
	Dir          string
	PackageName  string
	TimeoutExpr  string
	Errors       []sentinel
	ParseFailed  string
	InputFields  []field
	OutputFields []field
}

var templates = map[string]string{
	"config.go":       configTemplate,
	"models.go":       modelsTemplate,
	"handler.go":      handlerTemplate,
	"handler_test.go": testTemplate,
}

// Generate renders the worker package for a and returns its directory and
// the written file names in sorted order.
func Generate(a registry.Activity, outRoot string, force bool) (string, []string, error) {
	if a.TaskType == "" || a.Category == "" {
		return "", nil, fmt.Errorf("activity %s needs taskType and category", a.ID)
	}
	data := newWorkerData(a, outRoot)

	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)

	rendered := make(map[string][]byte, len(names))
	for _, name := range names {
		src, err := render(name, templates[name], data)
		if err != nil {
			return "", nil, err
		}
		rendered[name] = src
	}

	if err := os.MkdirAll(data.Dir, 0o755); err != nil {
		return "", nil, err
	}
	for _, name := range names {
		target := filepath.Join(data.Dir, name)
		if _, err := os.Stat(target); err == nil && !force {
			return "", nil, fmt.Errorf("%w: %s", ErrFileExists, target)
		}
		if err := os.WriteFile(target, rendered[name], 0o644); err != nil {
			return "", nil, err
		}
	}
	return data.Dir, names, nil
}

func newWorkerData(a registry.Activity, outRoot string) workerData {
	codes := a.ErrorCodes
	if !a.Declares(parseFailedCode) {
		codes = append([]string{parseFailedCode}, codes...)
	}
	errs := make([]sentinel, 0, len(codes))
	for _, c := range codes {
		errs = append(errs, sentinel{Name: "Err" + camelFromCode(c), Code: c})
	}

	return workerData{
		Activity:     a,
		Dir:          filepath.Join(outRoot, a.Category, a.TaskType),
		PackageName:  strings.NewReplacer("-", "", "_", "", ".", "").Replace(strings.ToLower(a.TaskType)),
		TimeoutExpr:  timeoutExpr(a.TimeoutDuration(10 * time.Second)),
		Errors:       errs,
		ParseFailed:  "Err" + camelFromCode(parseFailedCode),
		InputFields:  schemaFields(a.InputSchema),
		OutputFields: schemaFields(a.OutputSchema),
	}
}

func render(name, text string, data workerData) ([]byte, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", name, err)
	}
	return src, nil
}

// schemaFields turns the "properties" of a JSON schema into struct fields,
// sorted by JSON name.
func schemaFields(schema map[string]interface{}) []field {
	props, _ := schema["properties"].(map[string]interface{})
	required := map[string]bool{}
	if req, ok := schema["required"].([]interface{}); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	for k := range required {
		if _, ok := props[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	fields := make([]field, 0, len(keys))
	for _, k := range keys {
		details, _ := props[k].(map[string]interface{})
		tag := k
		if !required[k] {
			tag += ",omitempty"
		}
		f := field{
			Name:    exportedName(k),
			Type:    goType(details),
			JSONTag: fmt.Sprintf("`json:%q`", tag),
		}
		if desc, ok := details["description"].(string); ok && desc != "" {
			f.Comment = "// " + desc
		}
		fields = append(fields, f)
	}
	return fields
}

func goType(details map[string]interface{}) string {
	switch details["type"] {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		if items, ok := details["items"].(map[string]interface{}); ok {
			if elem := goType(items); elem != "interface{}" {
				return "[]" + elem
			}
		}
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

func exportedName(jsonName string) string {
	if jsonName == "" {
		return "Field"
	}
	parts := strings.FieldsFunc(jsonName, func(r rune) bool { return r == '_' || r == '-' || r == '.' })
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	name := b.String()
	if strings.HasSuffix(name, "Id") {
		name = strings.TrimSuffix(name, "Id") + "ID"
	}
	return name
}

func camelFromCode(code string) string {
	var b strings.Builder
	for _, p := range strings.Split(strings.ToLower(code), "_") {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return b.String()
}

func timeoutExpr(d time.Duration) string {
	if d%time.Second == 0 {
		return fmt.Sprintf("%d * time.Second", int64(d/time.Second))
	}
	return fmt.Sprintf("%d * time.Millisecond", d.Milliseconds())
}
