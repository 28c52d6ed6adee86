package logger

import (
	"strings"
	"sync"

	"github.com/courierhub/labelqr/pkg/logger/types"
)

const defaultJournalSize = 200

// Journal keeps the most recent hook entries in a ring. Its Add method is a
// types.LogHook.
type Journal struct {
	mu      sync.Mutex
	entries []types.Log
	next    int
	full    bool
}

func NewJournal(size int) *Journal {
	if size <= 0 {
		size = defaultJournalSize
	}
	return &Journal{entries: make([]types.Log, size)}
}

func (j *Journal) Add(l types.Log) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries[j.next] = l
	j.next = (j.next + 1) % len(j.entries)
	if j.next == 0 {
		j.full = true
	}
}

// Entries returns the kept entries of the named logger, newest first. An
// empty name matches every logger; "render" matches "main.render".
func (j *Journal) Entries(name string) []types.Log {
	j.mu.Lock()
	defer j.mu.Unlock()
	n := j.next
	if j.full {
		n = len(j.entries)
	}
	out := make([]types.Log, 0, n)
	for i := 0; i < n; i++ {
		l := j.entries[(j.next-1-i+len(j.entries))%len(j.entries)]
		if name == "" || l.LoggerName == name || strings.HasSuffix(l.LoggerName, "."+name) {
			out = append(out, l)
		}
	}
	return out
}
