package cheesecakelabs

// activityFeed mirrors the blog's activity-stream JSON. Only the fields
// needed for URL discovery are decoded.
type activityFeed struct {
	Items []activityItem `json:"items"`
}

type activityItem struct {
	Published string          `json:"published"`
	Object    *activityObject `json:"object"`
}

type activityObject struct {
	ObjectType  string       `json:"objectType"`
	Content     string       `json:"content"`
	Attachments []attachment `json:"attachments"`
}

type attachment struct {
	ObjectType string `json:"objectType"`
	URL        string `json:"url"`
}
