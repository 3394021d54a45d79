package entity

// Answer is the outcome of a generation call. Generation never fails the
// pipeline: an upstream failure is carried as a degraded answer value, not an
// error, so the caller can still return the retrieved sources.
type Answer struct {
	OK      bool
	Text    string // answer text when OK
	Message string // failure description when !OK
}

// GroundedAnswer returns a successful answer value.
func GroundedAnswer(text string) Answer {
	return Answer{OK: true, Text: text}
}

// DegradedAnswer returns a failed-generation answer value.
func DegradedAnswer(message string) Answer {
	return Answer{OK: false, Message: message}
}

// Render produces the caller-visible answer string.
func (a Answer) Render() string {
	if a.OK {
		return a.Text
	}
	return "Error: " + a.Message
}

// SourceInfo describes one retrieved chunk the answer was grounded in.
type SourceInfo struct {
	Text       string `json:"text"`
	FileName   string `json:"fileName"`
	UploadedAt string `json:"uploadedAt"`
	ChunkIndex int    `json:"chunkIndex"`
}

// QueryResult is the outcome of one process-and-query pipeline run. Sources
// are ordered by retrieval rank, most relevant first.
type QueryResult struct {
	Answer  string       `json:"answer"`
	Sources []SourceInfo `json:"sources"`
}
