package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryClient is an in-process document store.
//
// It is used by the "memory" driver and as the fake remote backend in tests.
// FailWith makes every subsequent operation return the given error.
type MemoryClient struct {
	mu    sync.Mutex
	seq   uint64
	cols  map[string]map[string]memDoc
	fail  error
	close bool
}

type memDoc struct {
	seq  uint64
	data map[string]any
}

type memoryCollection struct {
	c    *MemoryClient
	name string
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{cols: map[string]map[string]memDoc{}}
}

// FailWith injects err into every operation; nil clears it.
func (c *MemoryClient) FailWith(err error) {
	c.mu.Lock()
	c.fail = err
	c.mu.Unlock()
}

func (c *MemoryClient) Collection(name string) Collection {
	return &memoryCollection{c: c, name: name}
}

func (c *MemoryClient) Ping(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errLocked()
}

func (c *MemoryClient) Close() error {
	c.mu.Lock()
	c.close = true
	c.mu.Unlock()
	return nil
}

func (c *MemoryClient) errLocked() error {
	if c.close {
		return ErrClosed
	}
	return c.fail
}

func (m *memoryCollection) All(ctx context.Context) ([]Document, error) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if err := m.c.errLocked(); err != nil {
		return nil, err
	}
	return m.snapshotLocked(nil), nil
}

func (m *memoryCollection) Find(ctx context.Context, q Query) ([]Document, error) {
	if err := checkQuery(q); err != nil {
		return nil, err
	}
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if err := m.c.errLocked(); err != nil {
		return nil, err
	}
	var keep func(map[string]any) bool
	if q.Field != "" {
		keep = func(d map[string]any) bool {
			v, ok := d[q.Field]
			return ok && fmt.Sprint(v) == fmt.Sprint(q.Equals)
		}
	}
	docs := m.snapshotLocked(keep)
	if q.OrderBy != "" {
		if q.Desc {
			// Equal keys: newest write first, like the sqlite driver.
			for i, j := 0, len(docs)-1; i < j; i, j = i+1, j-1 {
				docs[i], docs[j] = docs[j], docs[i]
			}
		}
		sort.SliceStable(docs, func(i, j int) bool {
			a := fmt.Sprint(docs[i].Data[q.OrderBy])
			b := fmt.Sprint(docs[j].Data[q.OrderBy])
			if q.Desc {
				return a > b
			}
			return a < b
		})
	}
	return docs, nil
}

func (m *memoryCollection) Set(ctx context.Context, id string, data map[string]any) error {
	if id == "" {
		return fmt.Errorf("document id is required")
	}
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if err := m.c.errLocked(); err != nil {
		return err
	}
	col := m.c.cols[m.name]
	if col == nil {
		col = map[string]memDoc{}
		m.c.cols[m.name] = col
	}
	var seq uint64
	if prev, ok := col[id]; ok {
		seq = prev.seq
	} else {
		m.c.seq++
		seq = m.c.seq
	}
	col[id] = memDoc{seq: seq, data: cloneData(data)}
	return nil
}

func (m *memoryCollection) Add(ctx context.Context, data map[string]any) (string, error) {
	id := uuid.NewString()
	if err := m.Set(ctx, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (m *memoryCollection) Delete(ctx context.Context, id string) error {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if err := m.c.errLocked(); err != nil {
		return err
	}
	delete(m.c.cols[m.name], id)
	return nil
}

func (m *memoryCollection) snapshotLocked(keep func(map[string]any) bool) []Document {
	col := m.c.cols[m.name]
	type entry struct {
		id  string
		doc memDoc
	}
	entries := make([]entry, 0, len(col))
	for id, d := range col {
		if keep != nil && !keep(d.data) {
			continue
		}
		entries = append(entries, entry{id: id, doc: d})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].doc.seq < entries[j].doc.seq })
	out := make([]Document, 0, len(entries))
	for _, e := range entries {
		out = append(out, Document{ID: e.id, Data: cloneData(e.doc.data)})
	}
	return out
}

func cloneData(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// MemoryKV is an in-process KV.
type MemoryKV struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemoryKV() *MemoryKV { return &MemoryKV{m: map[string]string{}} }

func (k *MemoryKV) Get(key string) (string, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.m[key]
	return v, ok, nil
}

func (k *MemoryKV) Set(key, value string) error {
	k.mu.Lock()
	k.m[key] = value
	k.mu.Unlock()
	return nil
}
