package db

import (
	"encoding/json"
	"fmt"
)

// ActiveKey is the settings key holding a task's local "active" flag
func ActiveKey(taskID int64) string {
	return fmt.Sprintf("buttonClicked-%d", taskID)
}

// IsTaskActive reports the stored flag for a task. Tasks never toggled are
// inactive.
func (db *DB) IsTaskActive(taskID int64) (bool, error) {
	raw, err := db.GetSetting(ActiveKey(taskID))
	if err != nil {
		return false, err
	}
	if raw == "" {
		return false, nil
	}

	var active bool
	if err := json.Unmarshal([]byte(raw), &active); err != nil {
		return false, fmt.Errorf("decode %s: %w", ActiveKey(taskID), err)
	}
	return active, nil
}

// SetTaskActive stores the flag as JSON ("true"/"false")
func (db *DB) SetTaskActive(taskID int64, active bool) error {
	raw, err := json.Marshal(active)
	if err != nil {
		return err
	}
	return db.SetSetting(ActiveKey(taskID), string(raw))
}

// ActiveTasks loads flags for the given tasks in one query. Tasks without a
// stored flag are left out of the map.
func (db *DB) ActiveTasks(taskIDs []int64) (map[int64]bool, error) {
	flags := make(map[int64]bool, len(taskIDs))
	if len(taskIDs) == 0 {
		return flags, nil
	}

	keys := make(map[string]int64, len(taskIDs))
	for _, id := range taskIDs {
		keys[ActiveKey(id)] = id
	}

	rows, err := db.Query("SELECT key, value FROM settings WHERE key LIKE 'buttonClicked-%'")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		id, ok := keys[key]
		if !ok {
			continue
		}
		var active bool
		if err := json.Unmarshal([]byte(value), &active); err != nil {
			continue
		}
		flags[id] = active
	}
	return flags, rows.Err()
}
