package models

// ErrorResponse is the JSON body written for failed HTTP requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ConflictList is the response body of the pending conflicts endpoint.
type ConflictList struct {
	Conflicts []StoredConflict `json:"conflicts"`
	Length    int              `json:"length"`
}

// VersionResponse is the response body of the version endpoint.
type VersionResponse struct {
	Version string `json:"version"`
	Date    string `json:"date,omitempty"`
	Commit  string `json:"commit,omitempty"`
}
