package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Backend is the durable tier of the store. Writes to it are asynchronous and
// retried; it is consulted synchronously only on a cache miss and at startup.
type Backend interface {
	Get(key string) (value []byte, ok bool, err error)
	Put(key string, value []byte) error
	Close() error
}

// Store is a write-through key/value store with two persistence tiers: a
// durable Backend written in the background, and a fast sidecar file per key
// written synchronously for crash recovery and cross-process change detection.
// A Set is visible to subsequent Gets in-process before either tier confirms.
type Store struct {
	backend Backend
	fastDir string

	mu      sync.Mutex
	cache   map[string][]byte
	pending map[string][]byte
	subs    map[string][]func()
	mtimes  map[string]time.Time

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

// Options configures Open.
type Options struct {
	// FastDir holds the sidecar files (<key>.json), one per namespaced key.
	FastDir string
	// PollInterval is how often sidecar files are checked for external
	// changes. Zero disables polling.
	PollInterval time.Duration
}

// Open loads the fast tier into the in-process cache, starts the background
// durable writer, and kicks off the startup reconciliation: any key where the
// durable value diverges from the fast tier is overwritten with the durable
// value in both tiers.
func Open(backend Backend, opts Options) (*Store, error) {
	if opts.FastDir == "" {
		return nil, fmt.Errorf("store: fast dir is required")
	}
	if err := os.MkdirAll(opts.FastDir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create fast dir: %w", err)
	}

	s := &Store{
		backend: backend,
		fastDir: opts.FastDir,
		cache:   make(map[string][]byte),
		pending: make(map[string][]byte),
		subs:    make(map[string][]func()),
		mtimes:  make(map[string]time.Time),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	entries, err := os.ReadDir(opts.FastDir)
	if err != nil {
		return nil, fmt.Errorf("store: read fast dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		key := e.Name()[:len(e.Name())-len(".json")]
		data, err := os.ReadFile(filepath.Join(opts.FastDir, e.Name()))
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("store: skipping unreadable fast file")
			continue
		}
		s.cache[key] = data
		if info, err := e.Info(); err == nil {
			s.mtimes[key] = info.ModTime()
		}
	}

	s.wg.Add(1)
	go s.writer()
	s.wg.Add(1)
	go s.reconcile()
	if opts.PollInterval > 0 {
		s.wg.Add(1)
		go s.poll(opts.PollInterval)
	}

	return s, nil
}

// Get decodes the value stored under key into v. It returns false when the key
// is absent from both the cache and the durable tier; callers fall back to a
// default value.
func (s *Store) Get(key string, v any) (bool, error) {
	s.mu.Lock()
	data, ok := s.cache[key]
	s.mu.Unlock()

	if !ok {
		durable, found, err := s.backend.Get(key)
		if err != nil {
			return false, fmt.Errorf("store: durable read %q: %w", key, err)
		}
		if !found {
			return false, nil
		}
		data = durable
		s.mu.Lock()
		s.cache[key] = durable
		s.mu.Unlock()
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("store: decode %q: %w", key, err)
	}
	return true, nil
}

// Set encodes v and writes it through: the in-process cache and the fast tier
// synchronously, the durable tier in the background. Durable failures are
// logged and retried when the writer next runs for this key; they are never
// returned to the caller.
func (s *Store) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %q: %w", key, err)
	}

	s.mu.Lock()
	s.cache[key] = data
	s.pending[key] = data
	s.mu.Unlock()

	if err := s.writeFast(key, data); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("store: fast tier write failed")
	}

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return nil
}

// OnExternalChange registers fn to run when the fast-tier file for key is
// modified by another process. The in-process cache for that key is refreshed
// before fn runs.
func (s *Store) OnExternalChange(key string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[key] = append(s.subs[key], fn)
}

// Close flushes pending durable writes and releases the backend.
func (s *Store) Close() error {
	close(s.done)
	s.wg.Wait()
	s.flush()
	return s.backend.Close()
}

func (s *Store) fastPath(key string) string {
	return filepath.Join(s.fastDir, key+".json")
}

func (s *Store) writeFast(key string, data []byte) error {
	path := s.fastPath(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return err
	}
	if info, err := os.Stat(path); err == nil {
		s.mu.Lock()
		s.mtimes[key] = info.ModTime()
		s.mu.Unlock()
	}
	return nil
}

// writer drains pending durable writes. A key that fails stays pending and is
// retried on the next wake-up for any key.
func (s *Store) writer() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
			s.flush()
		}
	}
}

func (s *Store) flush() {
	s.mu.Lock()
	batch := make(map[string][]byte, len(s.pending))
	for k, v := range s.pending {
		batch[k] = v
	}
	s.mu.Unlock()

	for key, data := range batch {
		if err := s.backend.Put(key, data); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("store: durable write failed, will retry")
			continue
		}
		s.mu.Lock()
		// Only clear if no newer value was queued meanwhile.
		if bytes.Equal(s.pending[key], data) {
			delete(s.pending, key)
		}
		s.mu.Unlock()
	}
}

// reconcile runs once at startup: the durable tier wins over whatever the fast
// tier seeded the cache with.
func (s *Store) reconcile() {
	defer s.wg.Done()

	s.mu.Lock()
	keys := make([]string, 0, len(s.cache))
	for k := range s.cache {
		keys = append(keys, k)
	}
	s.mu.Unlock()

	for _, key := range keys {
		select {
		case <-s.done:
			return
		default:
		}
		durable, ok, err := s.backend.Get(key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("store: startup reconcile read failed")
			continue
		}
		if !ok {
			continue
		}
		s.mu.Lock()
		// A Set issued since startup takes precedence over the durable value.
		if _, dirty := s.pending[key]; dirty || bytes.Equal(s.cache[key], durable) {
			s.mu.Unlock()
			continue
		}
		s.cache[key] = durable
		s.mu.Unlock()
		if err := s.writeFast(key, durable); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("store: fast tier rewrite failed")
		}
		s.notify(key)
	}
}

// poll detects fast-tier files touched by another process and refreshes the
// cache for those keys only.
func (s *Store) poll(interval time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.scan()
		}
	}
}

func (s *Store) scan() {
	s.mu.Lock()
	keys := make([]string, 0, len(s.mtimes))
	for k := range s.mtimes {
		keys = append(keys, k)
	}
	s.mu.Unlock()

	for _, key := range keys {
		info, err := os.Stat(s.fastPath(key))
		if err != nil {
			continue
		}
		s.mu.Lock()
		last := s.mtimes[key]
		s.mu.Unlock()
		if !info.ModTime().After(last) {
			continue
		}
		data, err := os.ReadFile(s.fastPath(key))
		if err != nil {
			continue
		}
		s.mu.Lock()
		s.mtimes[key] = info.ModTime()
		changed := !bytes.Equal(s.cache[key], data)
		if changed {
			s.cache[key] = data
		}
		s.mu.Unlock()
		if changed {
			s.notify(key)
		}
	}
}

func (s *Store) notify(key string) {
	s.mu.Lock()
	fns := append([]func(){}, s.subs[key]...)
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
