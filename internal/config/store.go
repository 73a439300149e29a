package config

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"hello-users-api/internal/logx"
)

// Watcher is notified after a config change has been committed.
type Watcher func(newCfg *Config, changed map[string]bool)

// Validator can veto a config change before it is committed.
type Validator func(newCfg *Config, changed map[string]bool) error

// Store holds the current config and fans out changes.
type Store struct {
	v          atomic.Value // *Config
	mu         sync.RWMutex
	watchers   map[int]Watcher
	validators map[int]Validator
	nextID     int
}

func NewStore(cfg *Config) *Store {
	s := &Store{watchers: map[int]Watcher{}, validators: map[int]Validator{}}
	s.v.Store(cfg)
	return s
}

func (s *Store) Get() *Config {
	return s.v.Load().(*Config)
}

// Update commits newCfg without validation and notifies watchers.
func (s *Store) Update(newCfg *Config, changed map[string]bool) {
	s.v.Store(newCfg)
	s.mu.RLock()
	ws := s.sortedWatchers()
	s.mu.RUnlock()
	for _, w := range ws {
		w(newCfg, changed)
	}
}

// Watch registers w and returns a func that unregisters it.
func (s *Store) Watch(w Watcher) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = w
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

// AddValidator registers a validator. If any validator returns error on update, the update will be discarded.
func (s *Store) AddValidator(v Validator) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.validators[id] = v
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.validators, id)
		s.mu.Unlock()
	}
}

// UpdateValidated runs validators before committing the config. If any validator fails, no change is applied.
func (s *Store) UpdateValidated(newCfg *Config, changed map[string]bool) error {
	s.mu.RLock()
	vals := make([]Validator, 0, len(s.validators))
	for _, v := range s.validators {
		vals = append(vals, v)
	}
	s.mu.RUnlock()
	for _, v := range vals {
		if err := v(newCfg, changed); err != nil {
			return err
		}
	}
	s.Update(newCfg, changed)
	return nil
}

// sortedWatchers returns watchers in registration order. Caller holds mu.
func (s *Store) sortedWatchers() []Watcher {
	out := make([]Watcher, 0, len(s.watchers))
	for id := 0; id < s.nextID; id++ {
		if w, ok := s.watchers[id]; ok {
			out = append(out, w)
		}
	}
	return out
}

// ValidateLog rejects unknown log levels and formats.
func ValidateLog(newCfg *Config, _ map[string]bool) error {
	if !logx.ValidLevel(newCfg.Log.Level) {
		return fmt.Errorf("invalid log level %q", newCfg.Log.Level)
	}
	switch strings.ToLower(newCfg.Log.Format) {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid log format %q", newCfg.Log.Format)
	}
}

func cloneConfig(in *Config) *Config {
	out := *in
	return &out
}
