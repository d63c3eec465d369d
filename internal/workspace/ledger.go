package workspace

// Status is the per-repository result of a batch operation.
type Status string

const (
	StatusCreated  Status = "created"  // new worktree added
	StatusExisting Status = "existing" // worktree was already in place
	StatusSynced   Status = "synced"
	StatusRemoved  Status = "removed"
	StatusSkipped  Status = "skipped" // nothing to do for this repository
	StatusFailed   Status = "failed"
)

// State is the lifecycle state of a worktree instance.
type State string

const (
	StateAbsent  State = "absent"
	StateCreated State = "created"
	StateRemoved State = "removed"
)

// Instance is one repository's worktree within a workspace.
type Instance struct {
	Repo    string
	Path    string
	Branch  string
	Tracked bool // branch has an upstream on the remote
	State   State
}

// Outcome records what happened to one repository.
type Outcome struct {
	Instance
	Status   Status
	Err      error // *RepoError when Status is StatusFailed
	Warnings []Warning
	Notes    []string
}

// Failed reports whether the repository failed.
func (o Outcome) Failed() bool {
	return o.Status == StatusFailed
}

// Succeeded reports whether the repository ended in a good state.
func (o Outcome) Succeeded() bool {
	switch o.Status {
	case StatusCreated, StatusExisting, StatusSynced, StatusRemoved:
		return true
	}
	return false
}

func (o *Outcome) warn(op string, err error) {
	o.Warnings = append(o.Warnings, Warning{Op: op, Err: err})
}

func (o *Outcome) note(s string) {
	o.Notes = append(o.Notes, s)
}

func (o *Outcome) fail(op string, err error) Outcome {
	o.Status = StatusFailed
	o.Err = &RepoError{Repo: o.Repo, Op: op, Err: err}
	return *o
}

// Ledger is the per-repository record of a batch operation, in input order.
type Ledger []Outcome

// Failed returns the failed outcomes.
func (l Ledger) Failed() []Outcome {
	var failed []Outcome
	for _, o := range l {
		if o.Failed() {
			failed = append(failed, o)
		}
	}
	return failed
}

// FailedRepos returns the names of the failed repositories.
func (l Ledger) FailedRepos() []string {
	var names []string
	for _, o := range l.Failed() {
		names = append(names, o.Repo)
	}
	return names
}

// AnySucceeded reports whether at least one repository succeeded.
func (l Ledger) AnySucceeded() bool {
	for _, o := range l {
		if o.Succeeded() {
			return true
		}
	}
	return false
}

// AllSucceeded reports whether no repository failed.
func (l Ledger) AllSucceeded() bool {
	return len(l.Failed()) == 0
}

// Count returns the number of outcomes with status s.
func (l Ledger) Count(s Status) int {
	n := 0
	for _, o := range l {
		if o.Status == s {
			n++
		}
	}
	return n
}
