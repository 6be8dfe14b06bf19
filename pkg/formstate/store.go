package formstate

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-autoform/pkg/model"
)

var (
	ErrEmptyPath        = errors.New("formstate: path is required")
	ErrNotArray         = errors.New("formstate: value is not an array")
	ErrIndexOutOfRange  = errors.New("formstate: array index out of range")
	errNilStoreListener = errors.New("formstate: listener is required")
)

// Listener receives the value at its registered path after a related write.
type Listener func(value any)

// ChangeFunc receives the path of a write that touched a subscribed path.
type ChangeFunc func(changed model.Path)

// Controller is the field-state surface forms and renderers talk to.
type Controller interface {
	// Register returns the current value at path and subscribes listener to
	// later changes. The returned func cancels the registration.
	Register(path model.Path, listener Listener) (any, func(), error)
	Value(path model.Path) (any, bool)
	SetValue(path model.Path, value any) error
	Entries(path model.Path) []model.Entry
	Append(path model.Path, value any) (model.Entry, error)
	Remove(path model.Path, index int) error
	Snapshot() *Snapshot
	Subscribe(paths []model.Path, fn ChangeFunc) func()
	Values() map[string]any
}

// Option configures a Store.
type Option func(*Store)

// WithValues seeds the store with a deep copy of values.
func WithValues(values map[string]any) Option {
	return func(s *Store) {
		s.values = cloneRoot(values)
	}
}

// WithKeyGenerator overrides how array entry keys are minted.
func WithKeyGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newKey = fn
		}
	}
}

type registration struct {
	path     model.Path
	listener Listener
}

type subscription struct {
	paths []model.Path
	fn    ChangeFunc
}

type notification struct {
	listener Listener
	value    any
	change   ChangeFunc
	path     model.Path
}

// Store is the default Controller. Writes are serialized; listeners run
// after the lock is released, in registration order.
type Store struct {
	mu     sync.Mutex
	values map[string]any
	// keys holds the entry keys of every array seen so far, by dotted path.
	keys          map[string][]string
	registrations map[int]registration
	subscriptions map[int]subscription
	nextID        int
	newKey        func() string
}

var _ Controller = (*Store)(nil)

// New constructs an empty store.
func New(opts ...Option) *Store {
	store := &Store{
		values:        make(map[string]any),
		keys:          make(map[string][]string),
		registrations: make(map[int]registration),
		subscriptions: make(map[int]subscription),
		newKey:        uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store
}

func (s *Store) Register(path model.Path, listener Listener) (any, func(), error) {
	if len(path) == 0 {
		return nil, nil, ErrEmptyPath
	}
	if listener == nil {
		return nil, nil, errNilStoreListener
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.registrations[id] = registration{path: path.Append(), listener: listener}

	value, _ := getIn(s.values, path)
	cancel := func() {
		s.mu.Lock()
		delete(s.registrations, id)
		s.mu.Unlock()
	}
	return cloneTree(value), cancel, nil
}

// Subscribe calls fn for every write related to one of paths: the written
// path equals, contains or is contained by a subscribed path.
func (s *Store) Subscribe(paths []model.Path, fn ChangeFunc) func() {
	if fn == nil {
		return func() {}
	}
	copied := make([]model.Path, len(paths))
	for i, path := range paths {
		copied[i] = path.Append()
	}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscriptions[id] = subscription{paths: copied, fn: fn}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscriptions, id)
		s.mu.Unlock()
	}
}

func (s *Store) Value(path model.Path) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := getIn(s.values, path)
	return cloneTree(value), ok
}

// Values returns a deep copy of the whole value tree.
func (s *Store) Values() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRoot(s.values)
}

func (s *Store) SetValue(path model.Path, value any) error {
	if len(path) == 0 {
		return ErrEmptyPath
	}
	s.mu.Lock()
	updated, err := setIn(s.values, path, cloneTree(value))
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.values = updated.(map[string]any)
	pending := s.collect(path)
	s.mu.Unlock()

	dispatch(pending)
	return nil
}

// Entries lists the array at path with one stable key per element.
func (s *Store) Entries(path model.Path) []model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entries(s.reconcile(path))
}

// Append adds value to the end of the array at path, creating the array when
// missing, and returns the new entry.
func (s *Store) Append(path model.Path, value any) (model.Entry, error) {
	if len(path) == 0 {
		return model.Entry{}, ErrEmptyPath
	}
	s.mu.Lock()
	current, ok := getIn(s.values, path)
	items, isArray := current.([]any)
	if ok && current != nil && !isArray {
		s.mu.Unlock()
		return model.Entry{}, fmt.Errorf("%w: %s", ErrNotArray, path)
	}
	keys := s.reconcile(path)

	items = append(items, cloneTree(value))
	updated, err := setIn(s.values, path, items)
	if err != nil {
		s.mu.Unlock()
		return model.Entry{}, err
	}
	s.values = updated.(map[string]any)

	key := s.newKey()
	s.keys[path.String()] = append(keys, key)
	pending := s.collect(path)
	s.mu.Unlock()

	dispatch(pending)
	return model.Entry{Key: key}, nil
}

// Remove deletes the element at index. The keys of later entries, and of
// arrays nested inside them, move down with their values.
func (s *Store) Remove(path model.Path, index int) error {
	if len(path) == 0 {
		return ErrEmptyPath
	}
	s.mu.Lock()
	current, _ := getIn(s.values, path)
	items, ok := current.([]any)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotArray, path)
	}
	if index < 0 || index >= len(items) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s[%d]", ErrIndexOutOfRange, path, index)
	}
	keys := s.reconcile(path)

	remaining := make([]any, 0, len(items)-1)
	remaining = append(remaining, items[:index]...)
	remaining = append(remaining, items[index+1:]...)
	updated, err := setIn(s.values, path, remaining)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.values = updated.(map[string]any)

	nextKeys := make([]string, 0, len(keys)-1)
	nextKeys = append(nextKeys, keys[:index]...)
	nextKeys = append(nextKeys, keys[index+1:]...)
	s.keys[path.String()] = nextKeys
	s.shiftNested(path, index)

	pending := s.collect(path)
	s.mu.Unlock()

	dispatch(pending)
	return nil
}

// Snapshot captures the values and every array's entry keys. The snapshot
// shares nothing with the store.
func (s *Store) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reconcileTree(nil, s.values)
	keys := make(map[string][]string, len(s.keys))
	for path, list := range s.keys {
		keys[path] = append([]string(nil), list...)
	}
	return &Snapshot{values: cloneRoot(s.values), keys: keys}
}

// reconcile aligns the keys of the array at path with its length: missing
// keys are minted, surplus keys dropped. Callers hold the lock.
func (s *Store) reconcile(path model.Path) []string {
	value, _ := getIn(s.values, path)
	items, _ := value.([]any)
	dotted := path.String()
	keys := s.keys[dotted]
	if len(keys) > len(items) {
		keys = keys[:len(items)]
	}
	for len(keys) < len(items) {
		keys = append(keys, s.newKey())
	}
	if len(items) == 0 && len(keys) == 0 {
		delete(s.keys, dotted)
		return nil
	}
	s.keys[dotted] = keys
	return append([]string(nil), keys...)
}

func (s *Store) reconcileTree(path model.Path, value any) {
	switch typed := value.(type) {
	case map[string]any:
		for key, child := range typed {
			s.reconcileTree(path.Append(key), child)
		}
	case []any:
		s.reconcile(path)
		for i, child := range typed {
			s.reconcileTree(path.Index(i), child)
		}
	}
}

// shiftNested rewrites nested key lists below path after the element at
// removed was deleted.
func (s *Store) shiftNested(path model.Path, removed int) {
	prefix := path.String() + "."
	moved := make(map[string][]string)
	for dotted, list := range s.keys {
		if !strings.HasPrefix(dotted, prefix) {
			continue
		}
		rest := strings.TrimPrefix(dotted, prefix)
		segment, tail, _ := strings.Cut(rest, ".")
		idx, err := strconv.Atoi(segment)
		if err != nil {
			continue
		}
		delete(s.keys, dotted)
		switch {
		case idx == removed:
		case idx > removed:
			next := prefix + strconv.Itoa(idx-1)
			if tail != "" {
				next += "." + tail
			}
			moved[next] = list
		default:
			moved[dotted] = list
		}
	}
	for dotted, list := range moved {
		s.keys[dotted] = list
	}
}

// collect gathers the callbacks a write at changed triggers. Callers hold
// the lock.
func (s *Store) collect(changed model.Path) []notification {
	var pending []notification

	ids := make([]int, 0, len(s.registrations)+len(s.subscriptions))
	for id := range s.registrations {
		ids = append(ids, id)
	}
	for id := range s.subscriptions {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		if reg, ok := s.registrations[id]; ok {
			if !related(reg.path, changed) {
				continue
			}
			value, _ := getIn(s.values, reg.path)
			pending = append(pending, notification{listener: reg.listener, value: cloneTree(value)})
			continue
		}
		sub := s.subscriptions[id]
		for _, path := range sub.paths {
			if related(path, changed) {
				pending = append(pending, notification{change: sub.fn, path: changed.Append()})
				break
			}
		}
	}
	return pending
}

func dispatch(pending []notification) {
	for _, n := range pending {
		if n.listener != nil {
			n.listener(n.value)
			continue
		}
		n.change(n.path)
	}
}

func entries(keys []string) []model.Entry {
	if len(keys) == 0 {
		return nil
	}
	out := make([]model.Entry, len(keys))
	for i, key := range keys {
		out[i] = model.Entry{Key: key}
	}
	return out
}

// Snapshot is an immutable view of a store at one instant. It implements
// model.State.
type Snapshot struct {
	values map[string]any
	keys   map[string][]string
}

var _ model.State = (*Snapshot)(nil)

// NewSnapshot builds a snapshot over a copy of values with keys minted by
// position. It serves one-shot resolutions that have no store.
func NewSnapshot(values map[string]any) *Snapshot {
	counter := 0
	store := New(WithValues(values), WithKeyGenerator(func() string {
		counter++
		return "entry-" + strconv.Itoa(counter)
	}))
	return store.Snapshot()
}

func (s *Snapshot) Value(path model.Path) (any, bool) {
	if s == nil {
		return nil, false
	}
	return getIn(s.values, path)
}

func (s *Snapshot) Entries(path model.Path) []model.Entry {
	if s == nil {
		return nil
	}
	return entries(s.keys[path.String()])
}

// Values returns a deep copy of the captured tree.
func (s *Snapshot) Values() map[string]any {
	if s == nil {
		return map[string]any{}
	}
	return cloneRoot(s.values)
}
