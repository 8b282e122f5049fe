package users

import "sync"

// Repository persists the set of user IDs that have ever interacted
// with the bot. Implementations can be file-based, database, etc.
type Repository interface {
	LoadAll() ([]string, error)
	Add(userID string) error
}

// Tracker answers "is this the user's first-ever interaction", which
// drives the active_users counter on the overall stats document.
type Tracker struct {
	repo Repository

	mu   sync.Mutex
	seen map[string]bool
}

func NewTracker(repo Repository) (*Tracker, error) {
	t := &Tracker{repo: repo, seen: make(map[string]bool)}
	if repo != nil {
		ids, err := repo.LoadAll()
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			t.seen[id] = true
		}
	}
	return t, nil
}

// MarkSeen records the user and reports whether this was their first
// interaction.
func (t *Tracker) MarkSeen(userID string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.seen[userID] {
		return false, nil
	}
	t.seen[userID] = true
	if t.repo != nil {
		if err := t.repo.Add(userID); err != nil {
			return true, err
		}
	}
	return true, nil
}
