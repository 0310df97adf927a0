package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the training document at path and returns the fully resolved
// settings. It performs exactly one file read and never writes, creates
// directories, or touches the network.
//
// The document is decoded over a defaults-populated Settings, so a key
// absent from the file keeps its documented default while an explicit zero
// in the file wins. Unknown keys and wrong value types are rejected.
//
// Failure modes:
//   - *ParseError: unreadable file, malformed YAML, type mismatch.
//   - ValidationErrors: every invariant violation found, not just the first.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	// yaml.v3 quietly coerces any scalar into a string field, so an
	// unquoted 29500 would land in master_port without complaint. Walk the
	// raw node tree first and reject non-string scalars aimed at string
	// fields, keeping the type-mismatch contract symmetric across types.
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if len(root.Content) > 0 {
		if err := checkStringFields(root.Content[0], reflect.TypeOf(Settings{}), ""); err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
	}

	s := &Settings{}
	s.LoadDefaults()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		// An empty document is not malformed; defaults apply and
		// validation decides what is missing.
		if !errors.Is(err, io.EOF) {
			return nil, &ParseError{Path: path, Err: err}
		}
	}

	// yaml.Marshal writes a nil device_list as [] and re-loading that
	// yields a non-nil empty slice; normalize so round-trips stay stable.
	if len(s.Distributed.DeviceList) == 0 {
		s.Distributed.DeviceList = nil
	}

	if errs := Validate(s); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return s, nil
}

// Dump re-serializes a settings tree to YAML. Loading the output again
// yields an identical Settings, which lets a run archive its effective
// configuration next to its checkpoints. Dump itself writes nothing; the
// caller owns the bytes.
func Dump(s *Settings) ([]byte, error) {
	return yaml.Marshal(s)
}

// checkStringFields walks a mapping node alongside the settings schema and
// reports the first scalar whose YAML tag is not !!str (or !!null) but
// whose destination field is a string. Unknown keys are skipped here; the
// strict decode rejects them with its own error.
func checkStringFields(node *yaml.Node, t reflect.Type, prefix string) error {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		f, ok := fieldByYAMLTag(t, key.Value)
		if !ok {
			continue
		}
		path := key.Value
		if prefix != "" {
			path = prefix + "." + key.Value
		}
		switch f.Type.Kind() {
		case reflect.Struct:
			if err := checkStringFields(val, f.Type, path); err != nil {
				return err
			}
		case reflect.String:
			if val.Kind == yaml.ScalarNode && val.Tag != "!!str" && val.Tag != "!!null" {
				return fmt.Errorf("line %d: cannot unmarshal %s into string field %s", val.Line, val.Tag, path)
			}
		}
	}
	return nil
}

func fieldByYAMLTag(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if tag, _, _ := strings.Cut(f.Tag.Get("yaml"), ","); tag == name {
			return f, true
		}
	}
	return reflect.StructField{}, false
}
