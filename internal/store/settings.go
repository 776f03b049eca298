package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// loginSequenceKey holds the 4-icon access gate sequence as a JSON
// array of icon names.
const loginSequenceKey = "login_sequence"

// defaultLoginSequence is the hardcoded fallback used until the
// household sets its own sequence.
var defaultLoginSequence = []string{"Home", "Heart", "Star", "Sun"}

type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("setting %q not found", key)
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *SettingsStore) GetAll() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("get all settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// LoginSequence returns the stored 4-icon gate sequence, falling back
// to the built-in default when unset or unreadable.
func (s *SettingsStore) LoginSequence() ([]string, error) {
	value, err := s.Get(loginSequenceKey)
	if err != nil {
		return append([]string(nil), defaultLoginSequence...), nil
	}

	var sequence []string
	if err := json.Unmarshal([]byte(value), &sequence); err != nil || len(sequence) != 4 {
		return append([]string(nil), defaultLoginSequence...), nil
	}
	return sequence, nil
}

func (s *SettingsStore) SetLoginSequence(sequence []string) error {
	if len(sequence) != 4 {
		return fmt.Errorf("login sequence must have 4 icons, got %d", len(sequence))
	}
	data, err := json.Marshal(sequence)
	if err != nil {
		return fmt.Errorf("marshal login sequence: %w", err)
	}
	return s.Set(loginSequenceKey, string(data))
}
