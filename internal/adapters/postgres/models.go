package postgres

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type profileModel struct {
	ProfileID       uuid.UUID    `gorm:"column:profile_id;type:uuid;primaryKey"`
	FullName        string       `gorm:"column:fullname"`
	Email           string       `gorm:"column:email"`
	Mobile          string       `gorm:"column:mobile"`
	Address         string       `gorm:"column:address"`
	AcademicDetails jsonDocument `gorm:"column:academic_details;type:jsonb"`
	Experience      jsonDocument `gorm:"column:experience;type:jsonb"`
	Skills          jsonStrings  `gorm:"column:skills;type:jsonb"`
	Projects        jsonDocument `gorm:"column:projects;type:jsonb"`
	Social          jsonDocument `gorm:"column:social;type:jsonb"`
	Resume          string       `gorm:"column:resume"`
	CreatedAt       time.Time    `gorm:"column:created_at"`
	UpdatedAt       time.Time    `gorm:"column:updated_at"`
}

func (profileModel) TableName() string { return "profiles" }

type profileOutboxModel struct {
	OutboxID      uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType     string     `gorm:"column:event_type"`
	PartitionKey  string     `gorm:"column:partition_key"`
	Payload       string     `gorm:"column:payload"`
	SchemaVersion string     `gorm:"column:schema_version"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	FirstSeenAt   time.Time  `gorm:"column:first_seen_at"`
	PublishedAt   *time.Time `gorm:"column:published_at"`
	RetryCount    int        `gorm:"column:retry_count"`
	LastError     *string    `gorm:"column:last_error"`
	LastErrorAt   *time.Time `gorm:"column:last_error_at"`
}

func (profileOutboxModel) TableName() string { return "profile_outbox" }

// jsonDocument stores a free-form profile section in a JSONB column.
type jsonDocument map[string]any

func (d jsonDocument) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(map[string]any(d))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (d *jsonDocument) Scan(src any) error {
	raw, err := jsonBytes(src)
	if err != nil {
		return err
	}
	out := jsonDocument{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("scan jsonb document: %w", err)
		}
	}
	*d = out
	return nil
}

type jsonStrings []string

func (s jsonStrings) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (s *jsonStrings) Scan(src any) error {
	raw, err := jsonBytes(src)
	if err != nil {
		return err
	}
	out := jsonStrings{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("scan jsonb array: %w", err)
		}
	}
	*s = out
	return nil
}

func jsonBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported jsonb source %T", src)
	}
}
