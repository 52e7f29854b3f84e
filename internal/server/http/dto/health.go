package dto

// NoticeResponse is one user-facing message about the sync machinery.
type NoticeResponse struct {
	Text   string `json:"text"`
	Sticky bool   `json:"sticky"`
}

// HealthResponse reports connectivity and active notices.
type HealthResponse struct {
	Connection string           `json:"connection"`
	Orders     int              `json:"orders"`
	Notices    []NoticeResponse `json:"notices"`
}
