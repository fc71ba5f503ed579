package eljobfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/exograd/go-eventline/elmodel"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"

	"gopkg.in/ghodss/yaml.v1"
)

// LoadFile reads a single job definition file and returns the specifications it contains. The file
// holds either one job specification object or an object with a "jobs" list, in JSON or YAML
// format as described in the package documentation.
//
// Specifications are validated as they are read; a schema violation is reported as an
// elmodel.InvalidObjectError.
func LoadFile(path string) ([]elmodel.JobSpec, error) {
	rawData, err := os.ReadFile(path) //nolint:gosec // G304: ok to read file into variable
	if err != nil {
		return nil, fmt.Errorf("unable to read file: %w", err)
	}
	specs, err := unmarshalJobsFile(rawData)
	if err != nil {
		return nil, fmt.Errorf("error parsing file: %w", err)
	}
	return specs, nil
}

// LoadFiles reads any number of job definition files and merges their specifications, preserving
// file order. It returns an error if any file cannot be read or parsed, or if the same job name
// appears more than once.
func LoadFiles(paths []string) ([]elmodel.JobSpec, error) {
	var specs []elmodel.JobSpec
	seen := make(map[string]bool)
	for _, path := range paths {
		fileSpecs, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w [%s]", err, path)
		}
		for _, spec := range fileSpecs {
			if seen[spec.Name] {
				return nil, fmt.Errorf("job %q is specified by multiple files", spec.Name)
			}
			seen[spec.Name] = true
			specs = append(specs, spec)
		}
	}
	return specs, nil
}

func unmarshalJobsFile(rawData []byte) ([]elmodel.JobSpec, error) {
	data := rawData
	if !detectJSON(rawData) {
		converted, err := yaml.YAMLToJSON(rawData)
		if err != nil {
			return nil, err
		}
		data = converted
	}

	// Scan the top-level object for a "jobs" property; if there is none, the whole object is a
	// single specification. Properties other than "jobs" are ignored, matching how the model
	// types treat unknown properties.
	r := jreader.NewReader(data)
	var specs []elmodel.JobSpec
	hasJobs := false
	for obj := r.Object(); obj.Next(); {
		if string(obj.Name()) != "jobs" {
			continue
		}
		hasJobs = true
		for arr := r.Array(); arr.Next(); {
			var spec elmodel.JobSpec
			spec.ReadFromJSONReader(&r)
			specs = append(specs, spec)
		}
	}
	if err := r.Error(); err != nil {
		var ioe elmodel.InvalidObjectError
		if errors.As(err, &ioe) {
			return nil, ioe
		}
		return nil, err
	}
	if !hasJobs {
		var spec elmodel.JobSpec
		if err := spec.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return []elmodel.JobSpec{spec}, nil
	}
	return specs, nil
}

func detectJSON(rawData []byte) bool {
	// A JSON job file must be an object, i.e. it must start with '{'
	return strings.HasPrefix(strings.TrimLeftFunc(string(rawData), unicode.IsSpace), "{")
}

func absFilePaths(paths []string) ([]string, error) {
	absPaths := make([]string, 0)
	for _, p := range paths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			// COVERAGE: there's no reliable cross-platform way to simulate an invalid path in unit tests
			return nil, fmt.Errorf("unable to determine absolute path for '%s'", p)
		}
		absPaths = append(absPaths, absPath)
	}
	return absPaths, nil
}
