package model

import "time"

type RegistryStats struct {
	ActivePolls int           `json:"active_polls"`
	Uptime      time.Duration `json:"uptime"`
	Polls       []PollStats   `json:"polls,omitempty"`
}

type PollStats struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Items       int    `json:"items"`
	Identities  int    `json:"identities"`
	Connections int    `json:"connections"`
	Dirty       bool   `json:"dirty"`
}
