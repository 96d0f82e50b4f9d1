package permission

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/pelletier/go-toml"
)

// ErrInvalidSubject is returned when an empty subject name is passed to a
// Store operation.
var ErrInvalidSubject = errors.New("invalid permission subject")

// Store is a permission system for hosts that do not ship one. Grants, denials
// and operators are persisted in a TOML file. Subjects are matched
// case-insensitively.
type Store struct {
	mu        sync.RWMutex
	subjects  map[string]*subject
	operators map[string]string
	filePath  string
}

type subject struct {
	name        string
	allow, deny nodeSet
}

type storeFile struct {
	Operators []string                `toml:"operators"`
	Subjects  map[string]subjectEntry `toml:"subjects"`
}

type subjectEntry struct {
	Allow []string `toml:"allow"`
	Deny  []string `toml:"deny"`
}

// NewStore returns an empty Store that is kept in memory only.
func NewStore() *Store {
	return &Store{subjects: make(map[string]*subject), operators: make(map[string]string)}
}

// LoadStore loads the Store persisted in the file at path. If the file does
// not exist yet, it is created empty.
func LoadStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("permission file path must not be empty")
	}
	s := NewStore()
	s.filePath = path

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reloadLocked(); err != nil {
		return nil, err
	}
	return s, nil
}

// Lookup returns the value subjectName holds for node.
func (s *Store) Lookup(subjectName, node string) Tristate {
	if s == nil {
		return Undefined
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subjects[normaliseSubject(subjectName)]
	if !ok {
		return Undefined
	}
	return match(sub.allow, sub.deny, node)
}

// Operator reports if subjectName is an operator.
func (s *Store) Operator(subjectName string) bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.operators[normaliseSubject(subjectName)]
	return ok
}

// Grant explicitly grants node to subjectName, removing any denial of it. The
// returned bool is false if the grant was already present.
func (s *Store) Grant(subjectName, node string) (bool, error) {
	return s.set(subjectName, node, True)
}

// Deny explicitly denies node to subjectName, removing any grant of it. The
// returned bool is false if the denial was already present.
func (s *Store) Deny(subjectName, node string) (bool, error) {
	return s.set(subjectName, node, False)
}

// Unset removes any grant or denial of node from subjectName, leaving the node
// undefined. The returned bool is false if the node was not set.
func (s *Store) Unset(subjectName, node string) (bool, error) {
	return s.set(subjectName, node, Undefined)
}

func (s *Store) set(subjectName, node string, v Tristate) (bool, error) {
	key := normaliseSubject(subjectName)
	if key == "" {
		return false, ErrInvalidSubject
	}
	node = normaliseNode(node)
	if !ValidNode(node) {
		return false, fmt.Errorf("%w: %q", ErrInvalidNode, node)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sub, existed := s.subjects[key]
	if !existed {
		sub = &subject{name: strings.TrimSpace(subjectName), allow: nodeSet{}, deny: nodeSet{}}
	}
	allowed, denied := sub.allow.has(node), sub.deny.has(node)
	if (v == True && allowed) || (v == False && denied) || (v == Undefined && !allowed && !denied) {
		return false, nil
	}
	delete(sub.allow, node)
	delete(sub.deny, node)
	switch v {
	case True:
		sub.allow[node] = struct{}{}
	case False:
		sub.deny[node] = struct{}{}
	}
	s.subjects[key] = sub

	if err := s.writeLocked(); err != nil {
		delete(sub.allow, node)
		delete(sub.deny, node)
		if allowed {
			sub.allow[node] = struct{}{}
		}
		if denied {
			sub.deny[node] = struct{}{}
		}
		if !existed {
			delete(s.subjects, key)
		}
		return false, err
	}
	return true, nil
}

// SetOperator adds or removes subjectName from the operator list. The returned
// bool is false if nothing changed.
func (s *Store) SetOperator(subjectName string, operator bool) (bool, error) {
	key := normaliseSubject(subjectName)
	if key == "" {
		return false, ErrInvalidSubject
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	original, exists := s.operators[key]
	if exists == operator {
		return false, nil
	}
	if operator {
		s.operators[key] = strings.TrimSpace(subjectName)
	} else {
		delete(s.operators, key)
	}
	if err := s.writeLocked(); err != nil {
		if operator {
			delete(s.operators, key)
		} else {
			s.operators[key] = original
		}
		return false, err
	}
	return true, nil
}

// Operators returns the names of all operators in case-insensitive order.
func (s *Store) Operators() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedNames(slices.Collect(maps.Values(s.operators)))
}

// Reload discards the in-memory state and reads the file again.
func (s *Store) Reload() error {
	if s.filePath == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked()
}

func (s *Store) reloadLocked() error {
	data := storeFile{}
	contents, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.subjects, s.operators = make(map[string]*subject), make(map[string]string)
			return s.writeLocked()
		}
		return fmt.Errorf("read permissions: %w", err)
	}
	if len(contents) != 0 {
		if err := toml.Unmarshal(contents, &data); err != nil {
			return fmt.Errorf("decode permissions: %w", err)
		}
	}
	s.subjects = make(map[string]*subject, len(data.Subjects))
	for name, entry := range data.Subjects {
		key := normaliseSubject(name)
		if key == "" {
			continue
		}
		sub := &subject{name: strings.TrimSpace(name), allow: nodeSet{}, deny: nodeSet{}}
		for _, node := range entry.Allow {
			if node = normaliseNode(node); ValidNode(node) {
				sub.allow[node] = struct{}{}
			}
		}
		for _, node := range entry.Deny {
			if node = normaliseNode(node); ValidNode(node) {
				sub.deny[node] = struct{}{}
			}
		}
		s.subjects[key] = sub
	}
	s.operators = make(map[string]string, len(data.Operators))
	for _, name := range data.Operators {
		if key := normaliseSubject(name); key != "" {
			s.operators[key] = strings.TrimSpace(name)
		}
	}
	return nil
}

func (s *Store) writeLocked() error {
	if s.filePath == "" {
		return nil
	}
	dir := filepath.Dir(s.filePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return fmt.Errorf("create permission directory: %w", err)
		}
	}
	data := storeFile{
		Operators: sortedNames(slices.Collect(maps.Values(s.operators))),
		Subjects:  make(map[string]subjectEntry, len(s.subjects)),
	}
	for _, sub := range s.subjects {
		if len(sub.allow) == 0 && len(sub.deny) == 0 {
			continue
		}
		data.Subjects[sub.name] = subjectEntry{
			Allow: slices.Sorted(maps.Keys(sub.allow)),
			Deny:  slices.Sorted(maps.Keys(sub.deny)),
		}
	}
	encoded, err := toml.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode permissions: %w", err)
	}
	if err := os.WriteFile(s.filePath, encoded, 0644); err != nil {
		return fmt.Errorf("write permissions: %w", err)
	}
	return nil
}

func sortedNames(names []string) []string {
	slices.SortFunc(names, func(a, b string) int {
		lowerA, lowerB := strings.ToLower(a), strings.ToLower(b)
		if lowerA == lowerB {
			return strings.Compare(a, b)
		}
		return strings.Compare(lowerA, lowerB)
	})
	return names
}

func normaliseSubject(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

var _ Checker = (*Store)(nil)
