package formstate

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-autoform/pkg/model"
)

func sequentialKeys() Option {
	counter := 0
	return WithKeyGenerator(func() string {
		counter++
		return "k" + strconv.Itoa(counter)
	})
}

func keysOf(entries []model.Entry) []string {
	out := make([]string, len(entries))
	for i, entry := range entries {
		out[i] = entry.Key
	}
	return out
}

func TestStoreSetAndReadValues(t *testing.T) {
	t.Parallel()

	store := New(WithValues(map[string]any{"name": "Sam"}))
	if err := store.SetValue(model.ParsePath("role.kind"), "admin"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if err := store.SetValue(model.ParsePath("items.1.title"), "second"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}

	want := map[string]any{
		"name":  "Sam",
		"role":  map[string]any{"kind": "admin"},
		"items": []any{nil, map[string]any{"title": "second"}},
	}
	if diff := cmp.Diff(want, store.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if value, ok := store.Value(model.ParsePath("items[1].title")); !ok || value != "second" {
		t.Fatalf("Value = %v, %v", value, ok)
	}
	if err := store.SetValue(nil, 1); !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
}

func TestStoreAppendRemoveRoundTrip(t *testing.T) {
	t.Parallel()

	store := New(sequentialKeys(), WithValues(map[string]any{
		"members": []any{map[string]any{"email": "a"}, map[string]any{"email": "b"}},
	}))
	path := model.ParsePath("members")
	before := store.Snapshot()
	beforeKeys := keysOf(store.Entries(path))
	if diff := cmp.Diff([]string{"k1", "k2"}, beforeKeys); diff != "" {
		t.Fatalf("initial keys mismatch (-want +got):\n%s", diff)
	}

	entry, err := store.Append(path, map[string]any{"email": "c"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if entry.Key != "k3" {
		t.Fatalf("unexpected appended key %q", entry.Key)
	}
	if err := store.Remove(path, 2); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if diff := cmp.Diff(before.Values(), store.Values()); diff != "" {
		t.Fatalf("values after round trip mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(beforeKeys, keysOf(store.Entries(path))); diff != "" {
		t.Fatalf("keys after round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreRemoveKeepsKeysOfSurvivors(t *testing.T) {
	t.Parallel()

	store := New(sequentialKeys())
	path := model.ParsePath("teams")
	for _, name := range []string{"a", "b", "c"} {
		if _, err := store.Append(path, map[string]any{"name": name}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if _, err := store.Append(model.ParsePath("teams.2.members"), map[string]any{"email": "x"}); err != nil {
		t.Fatalf("Append nested: %v", err)
	}

	if err := store.Remove(path, 0); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if diff := cmp.Diff([]string{"k2", "k3"}, keysOf(store.Entries(path))); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"k4"}, keysOf(store.Entries(model.ParsePath("teams.1.members")))); diff != "" {
		t.Fatalf("nested keys must follow their element (-want +got):\n%s", diff)
	}

	if err := store.Remove(path, 5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := store.Remove(model.ParsePath("teams.0.name"), 0); !errors.Is(err, ErrNotArray) {
		t.Fatalf("expected ErrNotArray, got %v", err)
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	t.Parallel()

	store := New(sequentialKeys(), WithValues(map[string]any{
		"role":  map[string]any{"kind": "admin"},
		"items": []any{map[string]any{}},
	}))
	snapshot := store.Snapshot()

	if err := store.SetValue(model.ParsePath("role.kind"), "guest"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if _, err := store.Append(model.ParsePath("items"), nil); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if value, _ := snapshot.Value(model.ParsePath("role.kind")); value != "admin" {
		t.Fatalf("snapshot value changed to %v", value)
	}
	if diff := cmp.Diff([]string{"k1"}, keysOf(snapshot.Entries(model.ParsePath("items")))); diff != "" {
		t.Fatalf("snapshot entries mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreNotifiesRelatedListeners(t *testing.T) {
	t.Parallel()

	store := New(WithValues(map[string]any{"role": map[string]any{"kind": "admin"}}))

	var got []any
	current, cancel, err := store.Register(model.ParsePath("role.kind"), func(value any) {
		got = append(got, value)
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if current != "admin" {
		t.Fatalf("Register returned %v", current)
	}

	var changes []string
	unsubscribe := store.Subscribe([]model.Path{model.ParsePath("role")}, func(changed model.Path) {
		changes = append(changes, changed.String())
		// Reading back from a listener must not deadlock.
		if _, ok := store.Value(changed); !ok {
			t.Errorf("value at %s missing during notification", changed)
		}
	})

	_ = store.SetValue(model.ParsePath("role.kind"), "guest")
	_ = store.SetValue(model.ParsePath("name"), "Sam")
	_ = store.SetValue(model.ParsePath("role"), map[string]any{"kind": "admin", "level": 2})
	cancel()
	unsubscribe()
	_ = store.SetValue(model.ParsePath("role.kind"), "guest")

	if diff := cmp.Diff([]any{"guest", "admin"}, got); diff != "" {
		t.Fatalf("listener values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"role.kind", "role"}, changes); diff != "" {
		t.Fatalf("subscription changes mismatch (-want +got):\n%s", diff)
	}
}

func TestNewSnapshot(t *testing.T) {
	t.Parallel()

	snapshot := NewSnapshot(map[string]any{"rows": []any{1, 2}})
	if diff := cmp.Diff([]string{"entry-1", "entry-2"}, keysOf(snapshot.Entries(model.ParsePath("rows")))); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if _, ok := snapshot.Value(model.ParsePath("missing")); ok {
		t.Fatalf("missing path should not resolve")
	}
}
