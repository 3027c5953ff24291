package bvrw

import (
	"sync"
	"time"

	"github.com/benbjohnson/immutable"
	log "github.com/sirupsen/logrus"
)

// Rewriter normalizes terms by applying the rule catalog until a fixpoint.
//
// Results are memoized in a cache shared by every invocation on the
// rewriter. Each invocation reads a snapshot of the cache and merges its own
// results back when it finishes, so a Rewriter is safe for concurrent use.
type Rewriter struct {
	nm      *Manager
	config  Config
	enabled [rule_end]bool

	mu    sync.Mutex
	cache *immutable.Map[*Term, *Term]
	stats *immutable.SortedMap[RuleID, int]
}

// NewRewriter returns a new instance of Rewriter. Panics if config is invalid.
func NewRewriter(nm *Manager, config Config) *Rewriter {
	err := config.Validate()
	assert(err == nil, "new rewriter: %v", err)

	rw := &Rewriter{
		nm:     nm,
		config: config,
		cache:  immutable.NewMap[*Term, *Term](&termHasher{}),
		stats:  immutable.NewSortedMap[RuleID, int](&ruleIDComparer{}),
	}
	for id := rule_begin + 1; id < rule_end; id++ {
		rw.enabled[id] = rules[id].Level <= config.Level
	}
	for _, name := range config.Disabled {
		id, _ := ParseRuleID(name)
		rw.enabled[id] = false
	}
	return rw
}

// Manager returns the term manager used to build rewritten terms.
func (rw *Rewriter) Manager() *Manager { return rw.nm }

// Config returns the configuration the rewriter was created with.
func (rw *Rewriter) Config() Config { return rw.config }

// Enabled returns true if the rule is applied by the rewriter.
func (rw *Rewriter) Enabled(id RuleID) bool {
	return id.IsValid() && rw.enabled[id]
}

// Rewrite returns the normal form of t. The result is logically equivalent
// to t and rewriting it again returns it unchanged.
func (rw *Rewriter) Rewrite(t *Term) *Term {
	rw.mu.Lock()
	cache := rw.cache
	rw.mu.Unlock()

	p := newPass(rw.nm, cache, rw.apply)
	u := p.run(t)

	rw.mu.Lock()
	for k, v := range p.done {
		rw.cache = rw.cache.Set(k, v)
	}
	for id, n := range p.counts {
		prev, _ := rw.stats.Get(id)
		rw.stats = rw.stats.Set(id, prev+n)
	}
	rw.mu.Unlock()

	if log.IsLevelEnabled(log.DebugLevel) {
		log.WithFields(log.Fields{
			"size":    Size(t),
			"result":  Size(u),
			"visited": len(p.done),
			"applied": p.applied,
			"elapsed": time.Since(p.start),
		}).Debug("rewrite")
	}
	return u
}

// Evaluate folds every subterm of t whose operands are all values. No other
// rule is applied and the shared cache is not used. Returns t unchanged if
// the eval rule is disabled.
func (rw *Rewriter) Evaluate(t *Term) *Term {
	if !rw.enabled[EVAL] {
		return t
	}
	p := newPass(rw.nm, immutable.NewMap[*Term, *Term](&termHasher{}), evalOnly)
	return p.run(t)
}

// apply tries the enabled rules of the kind of t in order and returns the
// result of the first one that matches.
func (rw *Rewriter) apply(nm *Manager, t *Term) (*Term, RuleID, bool) {
	for _, id := range dispatch[t.kind] {
		if !rw.enabled[id] {
			continue
		}
		if u, ok := rules[id].apply(nm, t); ok && u != t {
			return u, id, true
		}
	}
	return t, 0, false
}

// evalOnly applies constant folding only.
func evalOnly(nm *Manager, t *Term) (*Term, RuleID, bool) {
	if u, ok := ruleEval(nm, t); ok && u != t {
		return u, EVAL, true
	}
	return t, 0, false
}

// ClearCache discards all memoized results.
func (rw *Rewriter) ClearCache() {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	rw.cache = immutable.NewMap[*Term, *Term](&termHasher{})
}

// CacheLen returns the number of memoized results.
func (rw *Rewriter) CacheLen() int {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return rw.cache.Len()
}

// Stats returns the number of times each rule has been applied.
func (rw *Rewriter) Stats() *immutable.SortedMap[RuleID, int] {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return rw.stats
}

// applyFunc returns the rewritten term and the rule that produced it.
type applyFunc func(nm *Manager, t *Term) (*Term, RuleID, bool)

type visitState int

const (
	unvisited = visitState(iota)
	inProgress
	done
)

// frame is an entry on the driver stack.
type frame struct {
	t       *Term // original term
	rebuilt *Term // t with rewritten children
	next    *Term // rule result being rewritten
}

// pass holds the state of a single driver invocation.
type pass struct {
	nm       *Manager
	snapshot *immutable.Map[*Term, *Term]
	apply    applyFunc

	state   map[*Term]visitState
	done    map[*Term]*Term
	counts  map[RuleID]int
	applied int
	start   time.Time
}

func newPass(nm *Manager, snapshot *immutable.Map[*Term, *Term], apply applyFunc) *pass {
	return &pass{
		nm:       nm,
		snapshot: snapshot,
		apply:    apply,
		state:    make(map[*Term]visitState),
		done:     make(map[*Term]*Term),
		counts:   make(map[RuleID]int),
		start:    time.Now(),
	}
}

// lookup returns the fixpoint of t if it has already been computed.
func (p *pass) lookup(t *Term) (*Term, bool) {
	if u, ok := p.done[t]; ok {
		return u, true
	}
	return p.snapshot.Get(t)
}

// finish records u as the fixpoint of t.
func (p *pass) finish(t, u *Term) {
	p.state[t] = done
	p.done[t] = u
}

// run rewrites root with an explicit stack. Children are rewritten before
// their parent. When a rule fires, its result is rewritten from scratch and
// its fixpoint becomes the fixpoint of the original term.
func (p *pass) run(root *Term) *Term {
	if u, ok := p.lookup(root); ok {
		return u
	}

	stack := []*frame{{t: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]

		switch {
		case f.rebuilt == nil:
			// First visit: schedule children that are not yet rewritten.
			if _, ok := p.lookup(f.t); ok {
				stack = stack[:len(stack)-1]
				continue
			}
			p.state[f.t] = inProgress

			var pending bool
			for i := len(f.t.children) - 1; i >= 0; i-- {
				child := f.t.children[i]
				if _, ok := p.lookup(child); ok {
					continue
				}
				assert(p.state[child] != inProgress, "rewrite cycle: %s", child)
				stack = append(stack, &frame{t: child})
				pending = true
			}
			if pending {
				f.rebuilt = f.t // children scheduled
				continue
			}
			p.step(f)

		case f.next == nil:
			// Children are done.
			p.step(f)

		default:
			// The rule result is done.
			u, ok := p.lookup(f.next)
			assert(ok, "rewrite: missing result for %s", f.next)
			p.finish(f.t, u)
			p.finish(f.rebuilt, u)
		}

		if p.state[f.t] == done {
			stack = stack[:len(stack)-1]
		} else if f.next != nil {
			if _, ok := p.lookup(f.next); !ok {
				assert(p.state[f.next] != inProgress, "rewrite cycle: %s", f.next)
				stack = append(stack, &frame{t: f.next})
			}
		}
	}

	u, ok := p.lookup(root)
	assert(ok, "rewrite: missing result for %s", root)
	return u
}

// step rebuilds f.t from its rewritten children and applies the rules to it.
// If no rule applies then the rebuilt term is the fixpoint. Otherwise the
// rule result is stored in f.next to be rewritten.
func (p *pass) step(f *frame) {
	rebuilt := f.t
	if len(f.t.children) > 0 {
		children := make([]*Term, len(f.t.children))
		var changed bool
		for i, child := range f.t.children {
			u, ok := p.lookup(child)
			assert(ok, "rewrite: missing result for %s", child)
			children[i] = u
			changed = changed || u != child
		}
		if changed {
			rebuilt = p.nm.MakeTerm(f.t.kind, children, f.t.indices)
		}
	}
	f.rebuilt = rebuilt

	if rebuilt != f.t {
		if u, ok := p.lookup(rebuilt); ok {
			p.finish(f.t, u)
			return
		}
		assert(p.state[rebuilt] != inProgress, "rewrite cycle: %s", rebuilt)
		p.state[rebuilt] = inProgress
	}

	u, id, ok := p.apply(p.nm, rebuilt)
	if !ok {
		p.finish(f.t, rebuilt)
		p.finish(rebuilt, rebuilt)
		return
	}

	p.counts[id]++
	p.applied++
	if log.IsLevelEnabled(log.TraceLevel) {
		log.WithField("rule", id).Tracef("%s -> %s", rebuilt, u)
	}

	if v, ok := p.lookup(u); ok {
		p.finish(f.t, v)
		p.finish(rebuilt, v)
		return
	}
	assert(p.state[u] != inProgress, "rewrite cycle: %s -> %s", rebuilt, u)
	f.next = u
}

// termHasher hashes terms by identity. Implements immutable.Hasher.
type termHasher struct{}

// Hash returns the hash of the term's ID.
func (h *termHasher) Hash(t *Term) uint32 {
	return uint32(t.id ^ (t.id >> 32))
}

// Equal returns true if a and b are the same term.
func (h *termHasher) Equal(a, b *Term) bool { return a == b }

// ruleIDComparer orders rules by ID. Implements immutable.Comparer.
type ruleIDComparer struct{}

// Compare returns -1 if a is less than b, returns 1 if a is greater than b, and
// returns 0 if a is equal to b.
func (c *ruleIDComparer) Compare(a, b RuleID) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}
