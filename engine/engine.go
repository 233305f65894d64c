/*
Package engine implements the process-wide facade spec §2 component F
names: Engine.GetValue and Engine.PurgeCaches. Per spec §9's design note,
the idiomatic-Go shape is an explicitly-constructed *Engine passed
through caller context; a package-level singleton is kept only as a
compatibility shim for callers that want one without threading an
instance through (see Default/SetDefault below).
*/
package engine

import (
	"sync"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tcache/cache"
	"github.com/npillmayer/tcache/core/config"
	"github.com/npillmayer/tcache/core/font/fonthost"
	"github.com/npillmayer/tcache/shaping"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

// Engine is the process-wide facade over the LayoutCache and Shaper
// (spec §2 component F). Its lifecycle is expected to span the host
// process (spec §5 "Process-wide state"), but nothing prevents a caller
// from constructing several, scoped instances (e.g. one per test).
type Engine struct {
	conf  *config.Config
	cache *cache.LayoutCache
	shpr  *shaping.Shaper
}

// New builds an Engine from conf. If conf is nil, config.DefaultConfig()
// is used. When conf's CacheEnabled is false, GetValue bypasses the
// cache entirely and shapes fresh on every call (spec §4.F).
func New(conf *config.Config) *Engine {
	if conf == nil {
		conf = config.DefaultConfig()
	}
	shpr := shaping.NewShaper(fonthost.GlobalHost())
	e := &Engine{
		conf:  conf,
		shpr:  shpr,
		cache: cache.NewLayoutCache(conf.N(config.CacheMaxBytes), shpr),
	}
	if n := conf.N(config.DumpStatsEveryNHits); n > 0 {
		e.cache.SetDumpEveryNHits(uint64(n))
	}
	return e
}

// GetValue implements spec §4.F: on a cache hit or successful shape,
// returns the RunValue; on a cache miss that could not be served (should
// not happen in this implementation, since Shaper always returns a
// value, but spec §7 requires the Engine to treat a nil result as
// surfaced-and-logged rather than panicking), logs and returns nil.
func (e *Engine) GetValue(paint shaping.Paint, context []uint16, start, count, contextCount int, dirFlags shaping.DirFlags) *shaping.RunValue {
	var value *shaping.RunValue
	if !e.conf.B(config.CacheEnabled) {
		value = e.shpr.ComputeValues(paint, context, start, count, contextCount, dirFlags)
	} else {
		value = e.cache.Get(paint, context, start, count, contextCount, dirFlags)
	}
	if value == nil {
		// spec §7: "surfaced to the caller; the Engine logs and returns
		// null." The cache is advisory, not authoritative.
		T().Errorf("engine: GetValue produced no RunValue for run [%d,%d) of %d", start, start+count, contextCount)
		return nil
	}
	return value
}

// PurgeCaches implements spec §4.F/§4.E's purge, forwarded through the
// LayoutCache to the Shaper's own Purge.
func (e *Engine) PurgeCaches() {
	e.cache.Purge()
}

// Stats exposes the LayoutCache's diagnostic snapshot for cmd/tcachestat.
func (e *Engine) Stats() cache.Stats {
	return e.cache.Stats()
}

// FaceCacheLen exposes the Shaper's face sub-cache population.
func (e *Engine) FaceCacheLen() int {
	return e.shpr.FaceCacheLen()
}

// --- Compatibility singleton ------------------------------------------------

var (
	defaultEngine     *Engine
	defaultEngineOnce sync.Once
	defaultEngineMu   sync.Mutex
)

// Default lazily initialises and returns the process-wide Engine
// singleton, for callers migrating from the reference implementation's
// global accessors (spec §9 design note; spec §5 "Process-wide state").
// Prefer constructing an *Engine with New and passing it explicitly in
// new code.
func Default() *Engine {
	defaultEngineOnce.Do(func() {
		defaultEngine = New(nil)
	})
	return defaultEngine
}

// SetDefault overrides the compatibility singleton, e.g. for tests that
// want a scoped byte budget without mutating config.DefaultConfig().
func SetDefault(e *Engine) {
	defaultEngineMu.Lock()
	defer defaultEngineMu.Unlock()
	defaultEngine = e
	defaultEngineOnce.Do(func() {}) // mark as initialised
}
