// Package mock implements the engine's Mock Interceptor (spec.md §4.6): a
// pattern-keyed response registry the Request Executor consults before ever
// touching the network, plus a recording buffer the test-facing assertions
// (AssertSent, AssertNotSent, ...) and the Export/Import round-trip read
// from.
package mock

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/thavarshan/fetch-go/internal/core/domain"
	"github.com/thavarshan/fetch-go/internal/core/ports"
	"github.com/thavarshan/fetch-go/internal/util/pattern"
)

// outcome is one queued result a rule yields: exactly one of Resp, Err is
// meaningful.
type outcome struct {
	Resp domain.Response
	Err  error
}

// rule is one registered method+URL pattern and the response(s) it yields.
// An empty Method matches any verb. Outcomes is consumed in order; once
// exhausted, the final entry repeats unless Exhaustible is set, in which
// case further matches report no match and fall through to Registry.strict
// handling (spec.md §4.6's sequence/replay semantics).
type rule struct {
	Method      domain.Method
	Pattern     string
	Outcomes    []outcome
	Exhaustible bool
	cursor      int
}

// matchRank identifies how specifically r matches req, per spec.md §4.6's
// stated precedence: exact "METHOD URL" beats exact URL beats wildcard
// "METHOD URL" beats wildcard URL. A lower rank wins. ok is false when r
// does not match req at all.
func (r *rule) matchRank(req domain.Request) (rank int, ok bool) {
	if r.Method != "" && r.Method != req.Method {
		return 0, false
	}

	wildcard := strings.Contains(r.Pattern, "*")
	matches := pattern.MatchesGlob(req.URI, r.Pattern)
	if !matches {
		return 0, false
	}

	switch {
	case r.Method != "" && !wildcard:
		return 0, true
	case r.Method == "" && !wildcard:
		return 1, true
	case r.Method != "" && wildcard:
		return 2, true
	default:
		return 3, true
	}
}

func (r *rule) matches(req domain.Request) bool {
	_, ok := r.matchRank(req)
	return ok
}

func (r *rule) next() (domain.Response, error, bool) {
	if len(r.Outcomes) == 0 {
		return domain.Response{}, nil, false
	}
	if r.cursor >= len(r.Outcomes) {
		if r.Exhaustible {
			return domain.Response{}, nil, false
		}
		o := r.Outcomes[len(r.Outcomes)-1]
		return o.Resp, o.Err, true
	}
	o := r.Outcomes[r.cursor]
	r.cursor++
	return o.Resp, o.Err, true
}

// Recording is one served exchange, per spec.md §4.6's {request, response,
// timestamp} recording shape. Err is the string form of a RespondError
// outcome, empty when none occurred.
type Recording struct {
	Timestamp time.Time       `json:"timestamp"`
	Request   domain.Request  `json:"request"`
	Response  domain.Response `json:"response"`
	Err       string          `json:"error,omitempty"`
}

// Registry is the concrete ports.MockInterceptor plus the registration and
// assertion surface a test uses around it.
type Registry struct {
	rules    []*rule
	recorded []Recording
	strict   bool
	mu       sync.Mutex
}

// New returns an empty Registry. When strict is true, any request that
// matches no rule fails with a MockError instead of reaching the network —
// spec.md §4.6's "prevent stray requests" mode.
func New(strict bool) *Registry {
	return &Registry{strict: strict}
}

// When registers a rule for method (empty Method.String() for "") and
// pattern, returning the rule so the caller can chain Respond/RespondError.
func (reg *Registry) When(method domain.Method, urlPattern string) *rule {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	r := &rule{Method: method, Pattern: urlPattern}
	reg.rules = append(reg.rules, r)
	return r
}

// Respond appends a single static response to r's sequence.
func (r *rule) Respond(resp domain.Response) *rule {
	r.Outcomes = append(r.Outcomes, outcome{Resp: resp})
	return r
}

// RespondError appends an error outcome to r's sequence.
func (r *rule) RespondError(err error) *rule {
	r.Outcomes = append(r.Outcomes, outcome{Err: err})
	return r
}

// Once marks r as exhaustible: after its outcomes are consumed, further
// matching requests are treated as unmatched rather than replaying the last
// queued outcome.
func (r *rule) Once() *rule {
	r.Exhaustible = true
	return r
}

// Active reports whether any rules are registered or strict mode is on; the
// Request Executor only consults the interceptor when this is true.
func (reg *Registry) Active() bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.rules) > 0 || reg.strict
}

// candidates returns the rules matching req, ordered per spec.md §4.6's
// precedence (exact "METHOD URL", exact URL, wildcard "METHOD URL",
// wildcard URL), ties broken by registration order.
func (reg *Registry) candidates(req domain.Request) []*rule {
	type ranked struct {
		r    *rule
		rank int
		idx  int
	}
	var rs []ranked
	for i, r := range reg.rules {
		if rank, ok := r.matchRank(req); ok {
			rs = append(rs, ranked{r: r, rank: rank, idx: i})
		}
	}
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].rank < rs[j].rank })

	out := make([]*rule, len(rs))
	for i, x := range rs {
		out[i] = x.r
	}
	return out
}

// Match finds the highest-precedence matching rule with an outcome left to
// give, records the exchange, and returns the outcome. The second result is
// false when no rule gave an outcome: in strict mode the error is then a
// *domain.MockError, otherwise it is nil and the request falls through to
// the real network.
func (reg *Registry) Match(req domain.Request) (domain.Response, bool, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for _, r := range reg.candidates(req) {
		resp, err, ok := r.next()
		if !ok {
			continue
		}
		reg.record(req, resp, err)
		return resp, true, err
	}

	if reg.strict {
		err := &domain.MockError{Pattern: req.URI, Reason: "no matching mock registered"}
		reg.record(req, domain.Response{}, err)
		return domain.Response{}, false, err
	}
	reg.record(req, domain.Response{}, nil)
	return domain.Response{}, false, nil
}

func (reg *Registry) record(req domain.Request, resp domain.Response, err error) {
	rec := Recording{Timestamp: time.Now(), Request: req, Response: resp}
	if err != nil {
		rec.Err = err.Error()
	}
	reg.recorded = append(reg.recorded, rec)
}

// Reset clears every registered rule and every recorded request.
func (reg *Registry) Reset() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.rules = nil
	reg.recorded = nil
}

// Recorded returns a copy of every exchange observed by Match, in order.
func (reg *Registry) Recorded() []Recording {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	out := make([]Recording, len(reg.recorded))
	copy(out, reg.recorded)
	return out
}

// Export renders the recording buffer as a JSON document, per spec.md
// §4.6's "recording can be exported to a JSON document" requirement.
func (reg *Registry) Export() ([]byte, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return json.Marshal(reg.recorded)
}

// Import decodes a JSON document produced by Export (or hand-authored in
// the same shape) and registers one exhaustible rule per recording, method-
// and URI-exact-matched, replaying its original response or error. This
// reconstructs the matching fakes spec.md §4.6 describes: capture live
// traffic once, then replay it deterministically in later test runs.
func (reg *Registry) Import(data []byte) error {
	var recordings []Recording
	if err := json.Unmarshal(data, &recordings); err != nil {
		return err
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	for _, rec := range recordings {
		r := &rule{Method: rec.Request.Method, Pattern: rec.Request.URI, Exhaustible: true}
		if rec.Err != "" {
			r.Outcomes = append(r.Outcomes, outcome{Err: &domain.MockError{Pattern: rec.Request.URI, Reason: rec.Err}})
		} else {
			r.Outcomes = append(r.Outcomes, outcome{Resp: rec.Response})
		}
		reg.rules = append(reg.rules, r)
	}
	return nil
}

// AssertSent reports whether at least one recorded request matches pattern.
func (reg *Registry) AssertSent(method domain.Method, urlPattern string) bool {
	return reg.SentCount(method, urlPattern) > 0
}

// AssertNotSent reports whether no recorded request matches pattern.
func (reg *Registry) AssertNotSent(method domain.Method, urlPattern string) bool {
	return reg.SentCount(method, urlPattern) == 0
}

// SentCount counts recorded requests matching method+pattern.
func (reg *Registry) SentCount(method domain.Method, urlPattern string) int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	probe := rule{Method: method, Pattern: urlPattern}
	count := 0
	for _, rec := range reg.recorded {
		if probe.matches(rec.Request) {
			count++
		}
	}
	return count
}

// AssertNothingSent reports whether no requests were recorded at all.
func (reg *Registry) AssertNothingSent() bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.recorded) == 0
}

var _ ports.MockInterceptor = (*Registry)(nil)
