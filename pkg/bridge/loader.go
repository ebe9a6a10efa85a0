package bridge

import (
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// LoadError reports a failure to read or parse a policy file.
type LoadError struct {
	FilePath string
	Message  string
	Cause    error
}

// Error returns the error message.
func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load %s: %s: %v", e.FilePath, e.Message, e.Cause)
	}
	return fmt.Sprintf("load %s: %s", e.FilePath, e.Message)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// maxPolicyFileSize bounds policy file reads. Legacy files are small; a
// larger file is a configuration mistake, not a policy.
const maxPolicyFileSize = 1 << 20

// LoadPolicyFile reads and parses a legacy policy file from disk. It
// validates file size and UTF-8 encoding before parsing.
func LoadPolicyFile(path string) (*PolicyFile, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{FilePath: path, Message: "file not found", Cause: err}
		}
		if os.IsPermission(err) {
			return nil, &LoadError{FilePath: path, Message: "permission denied", Cause: err}
		}
		return nil, &LoadError{FilePath: path, Message: "failed to access file", Cause: err}
	}

	if !fileInfo.Mode().IsRegular() {
		return nil, &LoadError{FilePath: path, Message: "not a regular file"}
	}
	if fileInfo.Size() > maxPolicyFileSize {
		return nil, &LoadError{
			FilePath: path,
			Message:  fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", fileInfo.Size(), maxPolicyFileSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{FilePath: path, Message: "failed to read file", Cause: err}
	}
	if !utf8.Valid(data) {
		return nil, &LoadError{FilePath: path, Message: "file contains invalid UTF-8 encoding"}
	}

	pf, err := ParsePolicy(data)
	if err != nil {
		return nil, &LoadError{FilePath: path, Message: "parse failed", Cause: err}
	}
	return pf, nil
}

// ParsePolicy parses a legacy policy document from YAML bytes and checks the
// structural requirements the format implies.
func ParsePolicy(data []byte) (*PolicyFile, error) {
	var pf PolicyFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("yaml parsing failed: %w", err)
	}

	if len(pf.Default.Principals) == 0 {
		return nil, fmt.Errorf("default grant must name at least one principal")
	}
	if pf.Default.MaxDuration == "" {
		return nil, fmt.Errorf("default grant must set max_duration")
	}

	for i := range pf.Policies {
		p := &pf.Policies[i]
		if p.Name == "" {
			return nil, fmt.Errorf("policy at index %d has no name", i)
		}
		if len(p.Principals) == 0 {
			return nil, fmt.Errorf("policy %q grants no principals", p.Name)
		}
		for _, window := range p.Match.Hours {
			if _, _, err := parseHourWindow(window); err != nil {
				return nil, fmt.Errorf("policy %q: %w", p.Name, err)
			}
		}
	}

	return &pf, nil
}
