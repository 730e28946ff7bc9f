package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// RecordKey names the record holding the document in a RecordStore.
const RecordKey = "gitstarplus_data"

// Backend persists the whole document. Read returns a nil document and a nil
// error when nothing has been written yet.
type Backend interface {
	Read(ctx context.Context) (*Document, error)
	Write(ctx context.Context, doc *Document) error
}

// RecordStore is a key-value store of opaque records.
type RecordStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// RecordBackend keeps the document JSON-encoded under a single record key.
type RecordBackend struct {
	records RecordStore
	key     string
}

func NewRecordBackend(records RecordStore) *RecordBackend {
	return &RecordBackend{records: records, key: RecordKey}
}

func (b *RecordBackend) Read(ctx context.Context) (*Document, error) {
	data, ok, err := b.records.Get(ctx, b.key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", b.key, err)
	}
	return &doc, nil
}

func (b *RecordBackend) Write(ctx context.Context, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", b.key, err)
	}
	return b.records.Put(ctx, b.key, data)
}

// MemoryBackend is an in-process Backend. It stores the encoded document so
// callers never share slices with it. ReadErr and WriteErr, when set, are
// returned by the next calls.
type MemoryBackend struct {
	mu       sync.Mutex
	data     []byte
	ReadErr  error
	WriteErr error
	Writes   int
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Read(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	if m.data == nil {
		return nil, nil
	}
	var doc Document
	if err := json.Unmarshal(m.data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (m *MemoryBackend) Write(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.data = data
	m.Writes++
	return nil
}
