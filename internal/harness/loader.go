package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/verdict-sh/verdict/internal/docval"
)

// Suite is one parsed test-suite file: a description, optional seed data
// for the collection under test, and the test documents themselves.
//
// The suite wrapper is deliberately thin - tests are kept as raw documents
// so the interpreter's own shape validation owns the strictness, not the
// loader.
type Suite struct {
	// Description names the suite in reports.
	Description string

	// Data holds documents inserted into the collection before each test.
	Data []*docval.Document

	// Tests holds the test documents in file order.
	Tests []*docval.Document
}

// Recognized top-level suite keys. Anything else is a load error; a typo
// such as "test:" must not silently drop a whole section.
var suiteKeys = map[string]bool{
	"description": true,
	"data":        true,
	"tests":       true,
}

// LoadSuite reads and parses a suite YAML file.
//
// Parsing goes through yaml.Node rather than struct decoding so that test
// documents keep their field order, which argument binding depends on.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite file: %w", err)
	}
	suite, err := ParseSuite(data)
	if err != nil {
		return nil, fmt.Errorf("parse suite %s: %w", path, err)
	}
	return suite, nil
}

// ParseSuite parses suite YAML content.
func ParseSuite(data []byte) (*Suite, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	val, err := docval.FromYAMLNode(&root)
	if err != nil {
		return nil, err
	}
	doc, err := docval.AsDocument(val)
	if err != nil {
		return nil, fmt.Errorf("suite must be a mapping: %w", err)
	}

	for _, f := range doc.Fields() {
		if !suiteKeys[f.Key] {
			return nil, fmt.Errorf("unrecognized suite field %q", f.Key)
		}
	}

	suite := &Suite{}

	if raw, ok := doc.Lookup("description"); ok {
		desc, err := docval.AsString(raw)
		if err != nil {
			return nil, fmt.Errorf("description: %w", err)
		}
		suite.Description = desc
	}
	if suite.Description == "" {
		return nil, fmt.Errorf("description is required")
	}

	if raw, ok := doc.Lookup("data"); ok {
		docs, err := documentList(raw)
		if err != nil {
			return nil, fmt.Errorf("data: %w", err)
		}
		suite.Data = docs
	}

	raw, ok := doc.Lookup("tests")
	if !ok {
		return nil, fmt.Errorf("tests list is required")
	}
	tests, err := documentList(raw)
	if err != nil {
		return nil, fmt.Errorf("tests: %w", err)
	}
	if len(tests) == 0 {
		return nil, fmt.Errorf("tests list must be non-empty")
	}
	suite.Tests = tests

	return suite, nil
}

func documentList(v docval.Value) ([]*docval.Document, error) {
	arr, err := docval.AsArray(v)
	if err != nil {
		return nil, err
	}
	docs := make([]*docval.Document, len(arr))
	for i, elem := range arr {
		d, err := docval.AsDocument(elem)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		docs[i] = d
	}
	return docs, nil
}
