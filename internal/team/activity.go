package team

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"arthub-go/internal/arthub"
)

// ActivityJournal records what each user did in the space. Every user
// appends JSON lines to their own actions.jsonl, so writers never contend
// on a shared file; readers merge all journals on demand.
type ActivityJournal struct {
	root  string
	clock arthub.Clock
}

var _ arthub.ActivityLog = (*ActivityJournal)(nil)

func NewActivityJournal(root string, clock arthub.Clock) *ActivityJournal {
	return &ActivityJournal{root: root, clock: clock}
}

func (j *ActivityJournal) usersPath() string {
	return filepath.Join(j.root, metaDir, usersDir)
}

func (j *ActivityJournal) journalPath(user string) string {
	return filepath.Join(j.usersPath(), user, "actions.jsonl")
}

// Append writes one action to the user's journal, stamped with the current
// time.
func (j *ActivityJournal) Append(user, machine, action, targetPath, data string) error {
	path := j.journalPath(user)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating user directory: %w", err)
	}

	entry := arthub.ActionEntry{
		Timestamp:  j.clock.Now().Unix(),
		User:       user,
		Machine:    machine,
		Action:     action,
		TargetPath: targetPath,
		Data:       data,
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding action: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("appending action: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing journal: %w", err)
	}
	return nil
}

// Since merges every user's journal into one timeline of actions at or
// after the given unix time, oldest first. Lines that do not parse are
// skipped; entries with equal timestamps keep a stable order because user
// directories are visited in sorted name order.
func (j *ActivityJournal) Since(since int64) ([]*arthub.ActionEntry, error) {
	entries, err := os.ReadDir(j.usersPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading users directory: %w", err)
	}

	var merged []*arthub.ActionEntry
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		actions, err := j.readJournal(j.journalPath(entry.Name()), since)
		if err != nil {
			return nil, err
		}
		merged = append(merged, actions...)
	}

	sort.SliceStable(merged, func(a, b int) bool {
		return merged[a].Timestamp < merged[b].Timestamp
	})
	return merged, nil
}

func (j *ActivityJournal) readJournal(path string, since int64) ([]*arthub.ActionEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	var actions []*arthub.ActionEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var action arthub.ActionEntry
		if err := json.Unmarshal([]byte(line), &action); err != nil {
			continue
		}
		if action.Timestamp >= since {
			actions = append(actions, &action)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning journal: %w", err)
	}
	return actions, nil
}
