package orchestrator

import (
	"sync"

	"github.com/goliatone/go-autoform/pkg/model"
)

// Watch re-resolves the form whenever a value it depends on changes and
// passes the new model to fn. Only the paths the latest pass reported are
// watched, so edits to unrelated fields do not trigger a pass. The returned
// func stops watching.
func (f *Form) Watch(fn func(model.FormModel)) (model.FormModel, func(), error) {
	w := &watcher{form: f, fn: fn}
	form, err := w.refresh()
	if err != nil {
		return model.FormModel{}, nil, err
	}
	return form, w.stop, nil
}

type watcher struct {
	form *Form
	fn   func(model.FormModel)

	mu      sync.Mutex
	paths   []model.Path
	cancel  func()
	stopped bool
}

func (w *watcher) refresh() (model.FormModel, error) {
	form, err := w.form.Resolve()
	if err != nil {
		return model.FormModel{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped || (w.cancel != nil && samePaths(w.paths, form.Subscriptions)) {
		return form, nil
	}
	if w.cancel != nil {
		w.cancel()
	}
	w.paths = form.Subscriptions
	w.cancel = w.form.controller.Subscribe(w.paths, w.changed)
	return form, nil
}

func (w *watcher) changed(path model.Path) {
	form, err := w.refresh()
	if err != nil {
		w.form.logger.Debug().Err(err).Str("path", path.String()).Msg("watch resolve failed")
		return
	}
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if !stopped && w.fn != nil {
		w.fn(form)
	}
}

func (w *watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

func samePaths(a, b []model.Path) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
