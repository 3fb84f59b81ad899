// Package file reads seed comments from YAML or JSON files.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"comments-backend/domain/core/entities"
	"comments-backend/infrastructure/persistence/seed"

	"gopkg.in/yaml.v3"
)

// Document is the layout of a seed file
type Document struct {
	Comments []seed.Record `json:"comments" yaml:"comments"`
}

// Decoder reads a Document from a stream
type Decoder interface {
	Decode(reader io.Reader, target *Document) error
}

// YAMLDecoder decodes YAML seed files
type YAMLDecoder struct{}

func (YAMLDecoder) Decode(reader io.Reader, target *Document) error {
	return yaml.NewDecoder(reader).Decode(target)
}

// JSONDecoder decodes JSON seed files
type JSONDecoder struct{}

func (JSONDecoder) Decode(reader io.Reader, target *Document) error {
	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

// SeedSource loads seed comments from a file on disk. The format is chosen
// by extension: .json is JSON, anything else is YAML.
type SeedSource struct {
	path  string
	clock func() time.Time
}

// NewSeedSource creates a file seed source
func NewSeedSource(path string) *SeedSource {
	return &SeedSource{
		path:  path,
		clock: time.Now,
	}
}

// LoadSeed implements ports.SeedSource
func (s *SeedSource) LoadSeed(ctx context.Context) ([]*entities.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := ReadRecords(s.path)
	if err != nil {
		return nil, err
	}

	return seed.ToComments(records, s.clock())
}

// ReadRecords decodes the raw records of a seed file. An empty file holds no
// records.
func ReadRecords(path string) ([]seed.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	var doc Document
	if err := decoderFor(path).Decode(f, &doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []seed.Record{}, nil
		}
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return doc.Comments, nil
}

// Name implements ports.SeedSource
func (s *SeedSource) Name() string {
	return "file:" + filepath.Base(s.path)
}

func decoderFor(path string) Decoder {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSONDecoder{}
	}
	return YAMLDecoder{}
}
