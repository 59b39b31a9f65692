// Package models defines the domain types returned to API consumers.
package models

// ClientAggregate is the merged client + intake view for one file
// number. Keys are canonical snake_case field names; the derived
// "clientNames" entry holds the ordered display names.
type ClientAggregate map[string]any

// ProviderEntry is one counselor assignment scoped to a file number.
type ProviderEntry struct {
	Name           string `json:"name,omitempty"`
	TherapyType    string `json:"therapyType,omitempty"`
	IntakeDate     string `json:"intakeDate,omitempty"`
	EndDate        string `json:"endDate,omitempty"`
	Location       string `json:"location,omitempty"`
	Status         string `json:"status,omitempty"`
	LocationDetail string `json:"locationDetail,omitempty"`
}

// SessionEntry is one session-history row scoped to a file number.
type SessionEntry struct {
	Date             string `json:"date,omitempty"`
	SupervisionGroup string `json:"supervisionGroup,omitempty"`
	Status           string `json:"status,omitempty"`
	PaymentStatus    string `json:"paymentStatus,omitempty"`
	PaymentMethod    string `json:"paymentMethod,omitempty"`
	Fee              string `json:"fee,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

// FileAggregate is the unified per-file-number case view. It is built
// fresh per request and never persisted. Client is nil when neither a
// client nor an intake row exists; the aggregate is still returned so
// provider/session history surfaces on its own.
type FileAggregate struct {
	FileNumber string          `json:"fileNumber"`
	Name       string          `json:"name,omitempty"`
	Client     ClientAggregate `json:"client"`
	Providers  []ProviderEntry `json:"providers"`
	Sessions   []SessionEntry  `json:"sessions"`
}

// Empty reports whether no source held any record for the file number.
// Callers translate an empty aggregate into a not-found outcome.
func (a *FileAggregate) Empty() bool {
	return a.Client == nil && len(a.Providers) == 0 && len(a.Sessions) == 0
}
