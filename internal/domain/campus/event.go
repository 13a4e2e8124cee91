package campus

// Package campus contains domain types for the campus novelty features.

import "time"

// Event is a normalized campus event drawn from one of the aggregated feeds.
type Event struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Start       time.Time `json:"start"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
}

// Article is a row from the student-paper archive dataset.
type Article struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Author string `json:"author"`
}

// ScavItem is a row from the scavenger-hunt item dataset.
type ScavItem struct {
	Number      string `json:"number"`
	Description string `json:"description"`
	Points      string `json:"points"`
}
