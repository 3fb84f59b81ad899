package queries

// GetSessionQuery asks who the session actor is and whether the thread is ready
type GetSessionQuery struct{}

// Validate validates the query
func (q GetSessionQuery) Validate() error {
	return nil
}

// SessionResult describes the current session
type SessionResult struct {
	ThreadID    string     `json:"threadId"`
	Actor       AuthorView `json:"actor"`
	Ready       bool       `json:"ready"`
	Total       int        `json:"total"`
	Version     int        `json:"version"`
	DefaultSort string     `json:"defaultSort"`
}
