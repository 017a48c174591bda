// Package parserpool provides a pool of gnparser instances for concurrent
// name normalization. This is a pure package - parsing is computation,
// not I/O.
package parserpool

import (
	"runtime"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
	"github.com/gnames/gnparser/ent/parsed"
)

// Pool provides gnparser instances for concurrent parsing.
type Pool interface {
	// Parse parses a scientific name string. It retrieves a parser from
	// the pool, parses the name, and returns the parser to the pool.
	// This method is safe for concurrent use.
	Parse(nameString string) parsed.Parsed

	// Canonical returns the simple canonical form of a name together with
	// its cardinality (1 for uninomials, 2 for binomials and so on).
	// Names that cannot be parsed return an empty string and 0.
	Canonical(nameString string) (string, int)

	// Close shuts down the parser pool and releases resources.
	// After calling Close, the pool should not be used.
	Close()
}

type poolImpl struct {
	ch       chan gnparser.GNparser
	poolSize int
}

// New creates a new parser pool with the specified number of parsers.
// If jobsNum is 0, it defaults to runtime.NumCPU().
// Names are parsed according to the given nomenclatural code. Zoological
// code is used when the code is unknown.
func New(jobsNum int, code nomcode.Code) Pool {
	poolSize := jobsNum
	if poolSize <= 0 {
		poolSize = runtime.NumCPU()
	}
	if code == nomcode.Unknown {
		code = nomcode.Zoological
	}

	cfg := gnparser.NewConfig(gnparser.OptCode(code))
	return &poolImpl{
		ch:       gnparser.NewPool(cfg, poolSize),
		poolSize: poolSize,
	}
}

// Parse parses a scientific name string.
func (p *poolImpl) Parse(nameString string) parsed.Parsed {
	// a closed pool has no parsers to wait for
	if p.ch == nil {
		return parsed.Parsed{Verbatim: nameString}
	}
	// blocks if all parsers are busy
	parser := <-p.ch
	res := parser.ParseName(nameString)
	p.ch <- parser
	return res
}

// Canonical returns the simple canonical form and cardinality of a name.
func (p *poolImpl) Canonical(nameString string) (string, int) {
	res := p.Parse(nameString)
	if !res.Parsed || res.Canonical == nil {
		return "", 0
	}
	return res.Canonical.Simple, res.Cardinality
}

// Close closes the channel and drains remaining parsers.
func (p *poolImpl) Close() {
	if p.ch == nil {
		return
	}
	close(p.ch)
	for range p.ch {
	}
	p.ch = nil
}
