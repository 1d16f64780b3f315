package parse

import (
	"github.com/DjordjeVuckovic/kernsecbench/internal/apperr"
	"github.com/DjordjeVuckovic/kernsecbench/internal/domain"
)

// Config holds the pattern tables. It is built once and treated as read-only.
type Config struct {
	Scalars []ScalarPattern
	Titles  []StreamTitle
	Blocks  map[string]BlockFormat
	Advance AdvancePolicy
}

func DefaultConfig() Config {
	return Config{
		Scalars: DefaultScalarPatterns(),
		Titles:  DefaultStreamTitles(),
		Blocks:  DefaultBlockFormats(),
		Advance: AdvanceFixed,
	}
}

type Parser struct {
	cfg        Config
	classifier *Classifier
	streams    *StreamParser
}

func New(cfg Config) *Parser {
	c := NewClassifier(cfg.Scalars)
	return &Parser{
		cfg:        cfg,
		classifier: c,
		streams:    NewStreamParser(c, cfg.Titles),
	}
}

func (p *Parser) Classifier() *Classifier { return p.classifier }

func (p *Parser) Streams() *StreamParser { return p.streams }

// ParseBlocks reads a block-style report of the given family.
func (p *Parser) ParseBlocks(family string, lines []string) ([]domain.MetricReading, error) {
	f, ok := p.cfg.Blocks[family]
	if !ok {
		return nil, apperr.NotFoundf("block format %q", family)
	}
	return f.Parse(lines, p.cfg.Advance), nil
}

// ParseLmbench returns the scalar summary lines and the range tables of an
// lmbench report.
func (p *Parser) ParseLmbench(lines []string) ([]domain.MetricReading, domain.Streams, error) {
	scalars, err := p.classifier.ParseScalars(lines)
	if err != nil {
		return nil, nil, err
	}
	streams, err := p.streams.Parse(lines)
	if err != nil {
		return nil, nil, err
	}
	return scalars, streams, nil
}
