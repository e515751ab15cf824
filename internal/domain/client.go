package domain

import "time"

// Client is a validated customer record ready to be written to storage.
type Client struct {
	FullName  string    `json:"fullName"`
	DNI       int64     `json:"dni"`
	Status    string    `json:"status"`
	EntryDate time.Time `json:"entryDate"`
	IsPEP     bool      `json:"isPep"`
	// nil when the source line left the flag blank
	IsObligatedSubject *bool `json:"isObligatedSubject"`
}
