// Package favorites keeps the list of bookmarked repositories.
//
// The whole list lives in one Document that is read, modified and written
// back on every mutation. Nothing is locked between processes sharing the same
// backend: concurrent writers resolve as last-writer-wins, and add never
// creates a duplicate id.
package favorites

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

type Store struct {
	backend Backend
	now     func() time.Time
	log     *slog.Logger
}

type Option func(*Store)

// WithClock overrides the time source used for addedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// load returns the persisted document, or the default one if none exists.
func (s *Store) load(ctx context.Context, op string) (*Document, error) {
	doc, err := s.backend.Read(ctx)
	if err != nil {
		s.log.Error("read favorites", "op", op, "error", err)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
	}
	if doc == nil {
		return DefaultDocument(), nil
	}
	if doc.Favorites == nil {
		doc.Favorites = []Favorite{}
	}
	for i := range doc.Favorites {
		if doc.Favorites[i].Tags == nil {
			doc.Favorites[i].Tags = []string{}
		}
	}
	return doc, nil
}

func (s *Store) save(ctx context.Context, op string, doc *Document) error {
	if err := s.backend.Write(ctx, doc); err != nil {
		s.log.Error("write favorites", "op", op, "error", err)
		return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
	}
	s.log.Debug("favorites written", "op", op, "count", len(doc.Favorites))
	return nil
}

// GetAll returns the favorites in insertion order.
func (s *Store) GetAll(ctx context.Context) ([]Favorite, error) {
	doc, err := s.load(ctx, "get all")
	if err != nil {
		return nil, err
	}
	return doc.Favorites, nil
}

func (s *Store) IsFavorite(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, ErrEmptyID
	}
	doc, err := s.load(ctx, "is favorite")
	if err != nil {
		return false, err
	}
	return indexOf(doc.Favorites, id) >= 0, nil
}

// Add appends repo unless a favorite with the same id already exists.
func (s *Store) Add(ctx context.Context, repo RepoSummary) error {
	if repo.ID == "" {
		return ErrEmptyID
	}
	doc, err := s.load(ctx, "add")
	if err != nil {
		return err
	}
	if indexOf(doc.Favorites, repo.ID) >= 0 {
		return nil
	}

	doc.Favorites = append(doc.Favorites, Favorite{
		ID:          repo.ID,
		Name:        repo.Name,
		Owner:       repo.Owner,
		URL:         repo.URL,
		Description: repo.Description,
		AddedAt:     s.now().UTC().Format(TimeLayout),
		Tags:        []string{},
	})
	s.log.Info("favorite added", "id", repo.ID)
	return s.save(ctx, "add", doc)
}

// Remove deletes the favorite with the given id. Removing an absent id still
// rewrites the document.
func (s *Store) Remove(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}
	doc, err := s.load(ctx, "remove")
	if err != nil {
		return err
	}

	kept := doc.Favorites[:0]
	for _, f := range doc.Favorites {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	if len(kept) != len(doc.Favorites) {
		s.log.Info("favorite removed", "id", id)
	}
	doc.Favorites = kept
	return s.save(ctx, "remove", doc)
}

// Toggle removes repo if present and adds it otherwise, returning whether it
// is a favorite afterwards. The membership check and the write are separate
// backend calls.
func (s *Store) Toggle(ctx context.Context, repo RepoSummary) (bool, error) {
	present, err := s.IsFavorite(ctx, repo.ID)
	if err != nil {
		return false, err
	}
	if present {
		return false, s.Remove(ctx, repo.ID)
	}
	return true, s.Add(ctx, repo)
}

// Export renders the whole document as indented JSON.
func (s *Store) Export(ctx context.Context) (string, error) {
	doc, err := s.load(ctx, "export")
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Import reads a document produced by Export. With merge, favorites whose id
// is unknown are appended and existing ones are left untouched; Count is then
// the size of the imported list, not the number of new entries. Without
// merge, the imported document replaces the stored one.
//
// Format problems are reported in the result. The returned error is only set
// when storage fails.
func (s *Store) Import(ctx context.Context, text string, merge bool) (ImportResult, error) {
	imported, err := parseDocument(text)
	if err != nil {
		s.log.Warn("import rejected", "error", err)
		return ImportResult{Success: false, Count: 0, Error: err.Error(), Err: err}, nil
	}

	if !merge {
		imported.Favorites = dedupe(imported.Favorites)
		if err := s.save(ctx, "import", imported); err != nil {
			return ImportResult{}, err
		}
		s.log.Info("favorites replaced", "count", len(imported.Favorites))
		return ImportResult{Success: true, Count: len(imported.Favorites)}, nil
	}

	doc, err := s.load(ctx, "import")
	if err != nil {
		return ImportResult{}, err
	}
	seen := make(map[string]bool, len(doc.Favorites))
	for _, f := range doc.Favorites {
		seen[f.ID] = true
	}
	added := 0
	for _, f := range imported.Favorites {
		if seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		doc.Favorites = append(doc.Favorites, f)
		added++
	}
	if err := s.save(ctx, "import", doc); err != nil {
		return ImportResult{}, err
	}
	s.log.Info("favorites merged", "imported", len(imported.Favorites), "added", added)
	return ImportResult{Success: true, Count: len(imported.Favorites)}, nil
}

// Clear resets the store to an empty document.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.save(ctx, "clear", DefaultDocument()); err != nil {
		return err
	}
	s.log.Info("favorites cleared")
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	favs, err := s.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(favs), nil
}

func parseDocument(text string) (*Document, error) {
	var raw struct {
		Favorites json.RawMessage `json:"favorites"`
		Version   *int            `json:"version"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrInvalidImportFormat, err)
	}

	list := bytes.TrimSpace(raw.Favorites)
	if len(list) == 0 || list[0] != '[' {
		return nil, fmt.Errorf("%w: favorites missing", ErrInvalidImportFormat)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(list, &items); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrInvalidImportFormat, err)
	}

	doc := &Document{Favorites: make([]Favorite, 0, len(items)), Version: CurrentVersion}
	if raw.Version != nil {
		doc.Version = *raw.Version
	}
	for i, item := range items {
		var f Favorite
		if err := json.Unmarshal(item, &f); err != nil {
			return nil, fmt.Errorf("%w: favorite %d: %v", ErrInvalidImportFormat, i, err)
		}
		if f.ID == "" || f.Name == "" || f.Owner == "" || f.URL == "" {
			return nil, fmt.Errorf("%w: favorite %d: required fields missing", ErrInvalidImportFormat, i)
		}
		if f.Tags == nil {
			f.Tags = []string{}
		}
		doc.Favorites = append(doc.Favorites, f)
	}
	return doc, nil
}

func indexOf(favs []Favorite, id string) int {
	for i, f := range favs {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// dedupe keeps the first favorite for each id.
func dedupe(favs []Favorite) []Favorite {
	seen := make(map[string]bool, len(favs))
	out := make([]Favorite, 0, len(favs))
	for _, f := range favs {
		if seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		out = append(out, f)
	}
	return out
}
