// Package history remembers which workspaces were switched to, so that
// "ws switch" without arguments returns to the most recent one and prompts
// list frequently used workspaces first.
package history

import (
	"errors"
	"os"
	"slices"
	"time"

	"github.com/dmzDAWG/workspaces/internal/storage"
)

// MaxEntries caps the number of remembered workspaces.
const MaxEntries = 100

// Entry records one workspace visit.
type Entry struct {
	Workspace   string    `json:"workspace"`
	Path        string    `json:"path"`
	LastAccess  time.Time `json:"last_access"`
	AccessCount int       `json:"access_count"`
}

// History is the list of visited workspaces, most recent first.
type History struct {
	Entries []Entry `json:"entries"`
}

// Load reads the history file. A missing or corrupted file yields an empty history.
func Load(file string) (*History, error) {
	var h History
	if err := storage.LoadJSON(file, &h); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &History{}, nil
		}
		var perr *os.PathError
		if errors.As(err, &perr) {
			return nil, err
		}
		// Corrupted, start fresh
		return &History{}, nil
	}
	return &h, nil
}

// Save writes the history file.
func (h *History) Save(file string) error {
	return storage.SaveJSON(file, h)
}

// Record marks workspace as visited now, moving it to the front.
func (h *History) Record(workspace, path string, now time.Time) {
	count := 0
	if i := h.index(workspace); i >= 0 {
		count = h.Entries[i].AccessCount
		h.Entries = slices.Delete(h.Entries, i, i+1)
	}
	h.Entries = slices.Insert(h.Entries, 0, Entry{
		Workspace:   workspace,
		Path:        path,
		LastAccess:  now,
		AccessCount: count + 1,
	})
	if len(h.Entries) > MaxEntries {
		h.Entries = h.Entries[:MaxEntries]
	}
}

// Forget drops workspace. Returns whether it was present.
func (h *History) Forget(workspace string) bool {
	i := h.index(workspace)
	if i < 0 {
		return false
	}
	h.Entries = slices.Delete(h.Entries, i, i+1)
	return true
}

// MostRecent returns the last visited workspace whose directory still exists.
func (h *History) MostRecent() (Entry, bool) {
	for _, e := range h.Entries {
		if _, err := os.Stat(e.Path); err == nil {
			return e, true
		}
	}
	return Entry{}, false
}

// Rank orders names by visit frequency, then recency; unvisited names keep
// their relative order at the end.
func (h *History) Rank(names []string) []string {
	ranked := slices.Clone(names)
	slices.SortStableFunc(ranked, func(a, b string) int {
		ia, ib := h.index(a), h.index(b)
		switch {
		case ia < 0 && ib < 0:
			return 0
		case ia < 0:
			return 1
		case ib < 0:
			return -1
		}
		ea, eb := h.Entries[ia], h.Entries[ib]
		if ea.AccessCount != eb.AccessCount {
			return eb.AccessCount - ea.AccessCount
		}
		return eb.LastAccess.Compare(ea.LastAccess)
	})
	return ranked
}

func (h *History) index(workspace string) int {
	return slices.IndexFunc(h.Entries, func(e Entry) bool { return e.Workspace == workspace })
}

// RecordAccess loads file, records workspace and saves it back.
func RecordAccess(file, workspace, path string) error {
	unlock, err := storage.Lock(file)
	if err != nil {
		return err
	}
	defer unlock()

	h, err := Load(file)
	if err != nil {
		return err
	}
	h.Record(workspace, path, time.Now())
	return h.Save(file)
}

// Remove loads file, forgets workspace and saves it back when it changed.
func Remove(file, workspace string) error {
	unlock, err := storage.Lock(file)
	if err != nil {
		return err
	}
	defer unlock()

	h, err := Load(file)
	if err != nil {
		return err
	}
	if !h.Forget(workspace) {
		return nil
	}
	return h.Save(file)
}
