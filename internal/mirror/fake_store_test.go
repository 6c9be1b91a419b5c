package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/radieske/betting-companion/internal/remote"
)

type call struct {
	Op, Collection, ID string
}

// fakeStore guarda documentos em memória e falha as primeiras failN chamadas de escrita
type fakeStore struct {
	mu    sync.Mutex
	docs  map[string]json.RawMessage
	calls []call
	failN int
	err   error
	down  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: map[string]json.RawMessage{}}
}

var errRemoteDown = errors.New("remote unavailable")

func (f *fakeStore) Name() string { return "fake" }

func (f *fakeStore) key(c, id string) string { return c + "/" + id }

func (f *fakeStore) fail() error {
	if f.down {
		return errRemoteDown
	}
	if f.failN > 0 {
		f.failN--
		if f.err != nil {
			return f.err
		}
		return errRemoteDown
	}
	return nil
}

func (f *fakeStore) Get(_ context.Context, c, id string) (remote.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{"get", c, id})
	if f.down {
		return nil, errRemoteDown
	}
	d, ok := f.docs[f.key(c, id)]
	if !ok {
		return nil, remote.ErrNotFound
	}
	return d, nil
}

func (f *fakeStore) Create(_ context.Context, c, id string, doc remote.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{"create", c, id})
	if err := f.fail(); err != nil {
		return err
	}
	f.docs[f.key(c, id)] = doc
	return nil
}

func (f *fakeStore) Update(_ context.Context, c, id string, doc remote.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{"update", c, id})
	if err := f.fail(); err != nil {
		return err
	}
	if _, ok := f.docs[f.key(c, id)]; !ok {
		return remote.ErrNotFound
	}
	f.docs[f.key(c, id)] = doc
	return nil
}

func (f *fakeStore) Delete(_ context.Context, c, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{"delete", c, id})
	if err := f.fail(); err != nil {
		return err
	}
	if _, ok := f.docs[f.key(c, id)]; !ok {
		return remote.ErrNotFound
	}
	delete(f.docs, f.key(c, id))
	return nil
}

func (f *fakeStore) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return errRemoteDown
	}
	return nil
}

func (f *fakeStore) doc(c, id string) (json.RawMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[f.key(c, id)]
	return d, ok
}

func (f *fakeStore) ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Op)
	}
	return out
}
