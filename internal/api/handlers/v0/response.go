package v0

// Response is a generic wrapper for Huma responses
// Usage: Response[HealthBody] instead of HealthOutput
type Response[T any] struct {
	Body T
}

// Metadata contains pagination metadata
type Metadata struct {
	NextCursor string `json:"next_cursor,omitempty"`
	Count      int    `json:"count,omitempty"`
}

// newMetadata returns nil when there is no further page
func newMetadata(nextCursor string, count int) *Metadata {
	if nextCursor == "" {
		return nil
	}
	return &Metadata{NextCursor: nextCursor, Count: count}
}

// PageInput holds the pagination query parameters shared by list endpoints
type PageInput struct {
	Cursor string `query:"cursor" doc:"Pagination cursor (ID of the last item of the previous page)" format:"uuid" required:"false"`
	Limit  int    `query:"limit" doc:"Number of items per page" default:"30" minimum:"1" maximum:"100"`
}
