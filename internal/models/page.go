package models

// Page is one page of a paginated listing. Total is zero when the API
// does not declare it.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
