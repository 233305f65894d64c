// Package config holds tunable parameters for the layout cache and the
// shaping pipeline built on top of it.
//
// The mechanism mirrors the typesetting-register idiom used elsewhere in
// this code base: a base array of parameter values, overridable in nested
// groups. Call Begingroup before temporarily overriding a parameter (e.g.
// for a single diagnostic run) and Endgroup to restore the enclosing
// values.
package config

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

// Key identifies a configuration parameter.
type Key int

const (
	// CacheMaxBytes is the byte budget enforced by the layout cache.
	CacheMaxBytes Key = iota
	// CacheEnabled switches the layout cache on or off; when off, the
	// engine facade shapes every run from scratch.
	CacheEnabled
	// DebugLevel holds a tracing level. It is stored only: nothing in this
	// module reads it, and it does not change the tracer's level.
	DebugLevel
	// DumpStatsEveryNHits, when non-zero, makes the cache log its hit
	// ratio every N accepted hits.
	DumpStatsEveryNHits

	numKeys
)

// group is a set of parameter overrides, linked to its enclosing group.
type group struct {
	parent *group
	values map[Key]interface{}
}

func (g *group) get(k Key) (interface{}, bool) {
	for gr := g; gr != nil; gr = gr.parent {
		if v, ok := gr.values[k]; ok {
			return v, true
		}
	}
	return nil, false
}

// Config holds the live parameter set plus a stack of override groups.
type Config struct {
	base    [numKeys]interface{}
	current *group
}

// DefaultConfig returns a Config initialized to sensible defaults: a 32MB
// cache budget, caching enabled, info-level tracing, and no periodic
// stats dump.
func DefaultConfig() *Config {
	c := &Config{}
	c.base[CacheMaxBytes] = int64(32 * 1024 * 1024)
	c.base[CacheEnabled] = true
	c.base[DebugLevel] = int(tracing.LevelInfo)
	c.base[DumpStatsEveryNHits] = 0
	return c
}

// Begingroup opens a new override group nested inside the current one.
// Parameters set with Push after this call are visible only until the
// matching Endgroup.
func (c *Config) Begingroup() {
	c.current = &group{parent: c.current, values: make(map[Key]interface{})}
}

// Endgroup closes the innermost override group, discarding any overrides
// made inside it.
func (c *Config) Endgroup() {
	if c.current == nil {
		T().Errorf("config: Endgroup without matching Begingroup")
		return
	}
	c.current = c.current.parent
}

// Push sets a parameter in the innermost open group, or in the base set if
// no group is open.
func (c *Config) Push(k Key, v interface{}) {
	if c.current != nil {
		c.current.values[k] = v
		return
	}
	c.base[k] = v
}

// Get retrieves the effective value of a parameter, searching from the
// innermost open group outward to the base set.
func (c *Config) Get(k Key) interface{} {
	if c.current != nil {
		if v, ok := c.current.get(k); ok {
			return v
		}
	}
	return c.base[k]
}

// N retrieves a parameter as an int64, the numeric accessor for
// CacheMaxBytes-like keys.
func (c *Config) N(k Key) int64 {
	v := c.Get(k)
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	}
	return 0
}

// B retrieves a parameter as a bool, the boolean accessor for
// CacheEnabled-like keys.
func (c *Config) B(k Key) bool {
	v := c.Get(k)
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}
