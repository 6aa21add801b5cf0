package aurelia

import (
	"sync"

	"github.com/aurelia-tools/aurelia-ls/compindex"
	"github.com/aurelia-tools/aurelia-ls/shadow"
)

// Registry owns the three process-wide registries spec §3/§5 describe: the
// view documents, the Component Index, and the view-model-members cache.
// Per §5's "single-threaded cooperative core", mutation is expected to
// happen from one logical thread at a time; the mutex here exists so
// concurrent reads (e.g. a feature handler serving a request while a scan
// is in flight) stay race-free, not to arbitrate real concurrent writers.
type Registry struct {
	mu    sync.Mutex
	views map[string]*ViewDocument

	Index   *compindex.Index
	Members *shadow.MemberCache

	queue *TaskQueue
}

// NewRegistry returns an empty Registry with its own task queue.
func NewRegistry() *Registry {
	return &Registry{
		views:   make(map[string]*ViewDocument),
		Index:   compindex.New(),
		Members: shadow.NewMemberCache(),
		queue:   NewTaskQueue(),
	}
}

// View returns the registered ViewDocument for uri, if any.
func (r *Registry) View(uri string) (*ViewDocument, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[uri]
	return v, ok
}

// Views returns a snapshot of every currently registered (non-Gone) view.
func (r *Registry) Views() []*ViewDocument {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*ViewDocument, 0, len(r.views))
	for _, v := range r.views {
		out = append(out, v)
	}
	return out
}

// Open registers uri on first observation (Unknown -> Registered), or
// records a text change on an already-registered view, marking it Stale if
// it was Fresh (spec §4.E).
func (r *Registry) Open(uri, htmlText, vmFsPath, vmClassName, vmContent string) *ViewDocument {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.views[uri]
	if !ok {
		v = &ViewDocument{URI: uri}
		r.views[uri] = v
	}

	changed := v.HTMLText != htmlText || v.ViewModelFsPath != vmFsPath ||
		v.ViewModelClassName != vmClassName || v.ViewModelContent != vmContent

	v.HTMLText = htmlText
	v.ViewModelFsPath = vmFsPath
	v.ViewModelClassName = vmClassName
	v.ViewModelContent = vmContent

	if v.State == Unknown {
		v.transition(Registered)
	} else if changed {
		v.markStale()
	}
	return v
}

// Close removes uri's ViewDocument: (* -> Gone), deleting its ViewMappings
// and shadow (spec §4.E, §3).
func (r *Registry) Close(uri string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.views[uri]; ok {
		v.transition(Gone)
		v.Mappings = nil
	}
	delete(r.views, uri)
}

// commitSynthesis atomically installs mappings as uri's current ViewMappings
// and advances its state to Fresh (Registered|Stale -> Fresh), per §4.C's
// "version discipline": the shadow text is never partially updated.
func (r *Registry) commitSynthesis(uri string, mappings *shadow.ViewMappings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[uri]
	if !ok {
		return
	}
	v.Mappings = mappings
	v.transition(Fresh)
}

// TaskQueue is the deferred-execution mechanism spec §4.E/§5/§9 calls for:
// expensive steps (project scans, per-view synthesis after a disk read,
// post-synthesise diagnostics) are deferred onto "the next task-queue turn"
// rather than run inline, so request handling never blocks on them. This is
// a plain FIFO of closures; Run executes everything currently queued,
// mirroring a single tick of a cooperative event loop.
type TaskQueue struct {
	mu    sync.Mutex
	tasks []func()
}

// NewTaskQueue returns an empty TaskQueue.
func NewTaskQueue() *TaskQueue {
	return &TaskQueue{}
}

// Defer enqueues fn to run on the next Run call.
func (q *TaskQueue) Defer(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, fn)
}

// Run drains and executes every task queued so far, in FIFO order. Tasks
// enqueued by a running task are left for the next Run call, so one turn
// always terminates.
func (q *TaskQueue) Run() {
	q.mu.Lock()
	pending := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

// Pending reports how many tasks are currently queued.
func (q *TaskQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
