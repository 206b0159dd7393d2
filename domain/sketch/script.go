package sketch

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v2"
)

// Script is a recorded drawing: canvas size plus the pointer events that
// produced it.
//
//	width: 280
//	height: 280
//	events:
//	  - {type: start}
//	  - {type: move, x: 10, y: 10}
//	  - {type: end}
type Script struct {
	Name   string  `yaml:"name"`
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Events []Event `yaml:"events"`
}

// ParseScript decodes a YAML script and checks its event types.
func ParseScript(r io.Reader) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	var s Script
	if err := yaml.UnmarshalStrict(data, &s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}

	for i, e := range s.Events {
		switch e.Type {
		case EventStart, EventMove, EventEnd, EventOut:
		default:
			return nil, fmt.Errorf("event %d: %w: %q", i, ErrUnknownEvent, e.Type)
		}
	}
	return &s, nil
}

// LoadScript reads a YAML script from disk. A missing name defaults to the
// file path.
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := ParseScript(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}
