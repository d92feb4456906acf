package model

import "database/sql"

// GetSetting reads one persisted settings value. A missing key returns ""
// with no error; settings are all optional.
func GetSetting(db *sql.DB, key string) (string, error) {
	var value sql.NullString
	err := db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value.String, nil
}

// SetSetting writes one persisted settings value, replacing any previous one.
func SetSetting(db *sql.DB, key, value string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}
