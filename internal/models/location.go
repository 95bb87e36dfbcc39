package models

// LocationEntry is one department/municipality pair of Nicaragua's catalog.
type LocationEntry struct {
	ID           int64  `json:"id,omitempty"`
	Department   string `json:"department"`
	Municipality string `json:"municipality"`
}
