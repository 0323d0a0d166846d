package model

import "time"

// Remote sheet actions.
const (
	ActionGetAllData     = "GET_ALL_DATA"
	ActionAddUser        = "ADD_USER"
	ActionUpdateUser     = "UPDATE_USER"
	ActionAddCustomer    = "ADD_CUSTOMER"
	ActionUpdateCustomer = "UPDATE_CUSTOMER"
	ActionAddOrder       = "ADD_ORDER"
)

// PendingSync is an outbox entry for a push that has not reached the sheet yet.
type PendingSync struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Action        string    `gorm:"type:varchar(32);not null" json:"action"`
	RecordID      string    `gorm:"type:varchar(64);index" json:"recordId"`
	Payload       []byte    `gorm:"type:bytea" json:"-"`
	Attempts      int       `json:"attempts"`
	LastError     string    `gorm:"type:text" json:"lastError,omitempty"`
	NextAttemptAt time.Time `gorm:"index" json:"nextAttemptAt"`
	CreatedAt     time.Time `json:"createdAt"`
}

// SyncState stores small key/value markers such as the last pull time.
type SyncState struct {
	Key       string    `gorm:"type:varchar(64);primaryKey" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SyncStateLastPull is the SyncState key holding the last successful pull time.
const SyncStateLastPull = "last_pull"
