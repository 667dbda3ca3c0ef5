package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SubmissionStatus string

const (
	SubmissionStatusSucceeded SubmissionStatus = "succeeded"
	SubmissionStatusFailed    SubmissionStatus = "failed"
)

// SubmissionLog records one create request sent to the clinic API.
type SubmissionLog struct {
	ID         int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	FormID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"form_id"`
	FormKind   FormKind         `gorm:"type:varchar(32);not null;index" json:"form_kind"`
	Endpoint   string           `gorm:"type:varchar(64);not null" json:"endpoint"`
	Status     SubmissionStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	// StatusCode is the failure status from the API; 0 on success or when it was unreachable.
	StatusCode int              `gorm:"not null;default:0" json:"status_code"`
	Message    string           `gorm:"type:text" json:"message,omitempty"`
	Payload    JSON             `gorm:"type:jsonb" json:"payload,omitempty"`
	CreatedAt  time.Time        `gorm:"autoCreateTime;index" json:"created_at"`
}

func (SubmissionLog) TableName() string {
	return "submission_logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// ToJSON converts any JSON-encodable value into a JSON map.
func ToJSON(v interface{}) (JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := JSON{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}
