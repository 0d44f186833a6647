package celestial

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/vector"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from a file extension; anything that is
// not .yaml/.yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// SystemDoc is the persisted form of a System.
type SystemDoc struct {
	Name        string    `json:"name" yaml:"name"`
	Time        float64   `json:"time" yaml:"time"`
	Timestep    float64   `json:"timestep" yaml:"timestep"`
	Bodies      []BodyDoc `json:"bodies" yaml:"bodies"`
	CentralStar *string   `json:"central_star" yaml:"central_star"`
}

// BodyDoc is the persisted form of a Body. Parents are stored by name.
type BodyDoc struct {
	Name          string    `json:"name" yaml:"name"`
	BodyType      string    `json:"body_type" yaml:"body_type"`
	Mass          float64   `json:"mass" yaml:"mass"`
	Radius        float64   `json:"radius" yaml:"radius"`
	Density       *float64  `json:"density,omitempty" yaml:"density,omitempty"`
	Position      []float64 `json:"position" yaml:"position,flow"`
	Velocity      []float64 `json:"velocity" yaml:"velocity,flow"`
	Color         []int     `json:"color" yaml:"color,flow"`
	FixedPosition bool      `json:"fixed_position" yaml:"fixed_position"`
	Parent        *string   `json:"parent" yaml:"parent"`
}

func ToDoc(s *System) SystemDoc {
	doc := SystemDoc{
		Name:     s.Name,
		Time:     s.Time,
		Timestep: s.Timestep,
		Bodies:   make([]BodyDoc, 0, len(s.Bodies)),
	}
	if c := s.Central(); c != nil {
		name := c.Name
		doc.CentralStar = &name
	}
	for _, b := range s.Bodies {
		density := b.Density
		pos, vel := b.Position.Array(), b.Velocity.Array()
		bd := BodyDoc{
			Name:          b.Name,
			BodyType:      string(b.Type),
			Mass:          b.Mass,
			Radius:        b.Radius,
			Density:       &density,
			Position:      pos[:],
			Velocity:      vel[:],
			Color:         b.Color.Components(),
			FixedPosition: b.FixedPosition,
		}
		if p := s.Parent(b); p != nil {
			name := p.Name
			bd.Parent = &name
		}
		doc.Bodies = append(doc.Bodies, bd)
	}
	return doc
}

// FromDoc rebuilds a System. Every body is validated and constructed before
// any parent link is resolved, so a parent may appear after its children.
// Links that do not resolve are dropped. On error no System is returned.
func FromDoc(doc SystemDoc) (*System, error) {
	if doc.Name == "" {
		return nil, &DecodeError{Field: "name", Reason: "must not be empty"}
	}
	if !finite(doc.Time) || doc.Time < 0 {
		return nil, &DecodeError{Field: "time", Reason: "must be a finite non-negative number"}
	}

	s := NewSystem(doc.Name)
	s.Time = doc.Time
	if doc.Timestep != 0 {
		if !finite(doc.Timestep) || doc.Timestep < 0 {
			return nil, &DecodeError{Field: "timestep", Reason: "must be a finite positive number"}
		}
		s.Timestep = doc.Timestep
	}

	for _, bd := range doc.Bodies {
		b, err := bodyFromDoc(bd)
		if err != nil {
			return nil, err
		}
		s.Bodies = append(s.Bodies, b)
	}

	for i, bd := range doc.Bodies {
		if bd.Parent == nil || *bd.Parent == "" {
			continue
		}
		if p := s.Body(*bd.Parent); p != nil {
			s.Bodies[i].SetParent(p)
		}
	}

	if doc.CentralStar != nil {
		s.SetCentral(*doc.CentralStar)
	}
	return s, nil
}

func bodyFromDoc(bd BodyDoc) (*Body, error) {
	fail := func(field, reason string) error {
		return &DecodeError{Body: bd.Name, Field: field, Reason: reason}
	}

	if bd.Name == "" {
		return nil, fail("name", "must not be empty")
	}
	if !finite(bd.Mass) || bd.Mass <= 0 {
		return nil, fail("mass", "must be a finite positive number")
	}
	if !finite(bd.Radius) || bd.Radius <= 0 {
		return nil, fail("radius", "must be a finite positive number")
	}
	pos, err := pair(bd.Position)
	if err != nil {
		return nil, fail("position", err.Error())
	}
	vel, err := pair(bd.Velocity)
	if err != nil {
		return nil, fail("velocity", err.Error())
	}

	b := NewBody(bd.Name, BodyType(bd.BodyType))
	b.Mass = bd.Mass
	b.Radius = bd.Radius
	if bd.Density != nil {
		if !finite(*bd.Density) {
			return nil, fail("density", "must be finite")
		}
		b.Density = *bd.Density
	}
	b.Place(pos, vel)
	if bd.Color != nil {
		c, err := ColorFromComponents(bd.Color)
		if err != nil {
			return nil, fail("color", err.Error())
		}
		b.Color = c
	}
	b.FixedPosition = bd.FixedPosition
	return b, nil
}

func pair(v []float64) (vector.Vector, error) {
	if len(v) != 2 {
		return vector.Zero, fmt.Errorf("expected 2 components, got %d", len(v))
	}
	if !finite(v[0]) || !finite(v[1]) {
		return vector.Zero, errors.New("components must be finite")
	}
	return vector.New(v[0], v[1]), nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func Encode(w io.Writer, s *System, format Format) error {
	doc := ToDoc(s)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Decode parses and rebuilds a System. Syntax errors and validation failures
// both wrap ErrMalformed.
func Decode(r io.Reader, format Format) (*System, error) {
	var doc SystemDoc
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return FromDoc(doc)
}

// LoadFile reads a system file, choosing the format by extension. A missing
// file yields ErrNotFound, unreadable content ErrMalformed.
func LoadFile(path string) (*System, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	s, err := Decode(bytes.NewReader(data), FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// SaveFile writes s to path, creating parent directories as needed.
func SaveFile(path string, s *System) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	var buf bytes.Buffer
	if err := Encode(&buf, s, FormatFromPath(path)); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
