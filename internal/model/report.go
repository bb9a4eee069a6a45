package model

// IssueKind names one SEO heuristic that can fire for a page.
type IssueKind string

// Issue kinds, in the order the rule engine evaluates them.
const (
	IssueMissingTitle       IssueKind = "missing_title"
	IssueTitleLength        IssueKind = "title_length"
	IssueMissingDescription IssueKind = "missing_description"
	IssueDescriptionLength  IssueKind = "description_length"
	IssueMissingH1          IssueKind = "missing_h1"
	IssueMultipleH1         IssueKind = "multiple_h1"
	IssueMissingRobots      IssueKind = "missing_robots"
	IssueDuplicateRobots    IssueKind = "duplicate_robots"
	IssueMissingCanonical   IssueKind = "missing_canonical"
	IssueMissingImgAlt      IssueKind = "missing_img_alt"
)

// IssueMap holds at most one message per issue kind for a single URL.
type IssueMap map[IssueKind]string

// URLResult is one entry of a report. Exactly one of IssueTypes and Error
// is set.
type URLResult struct {
	URL        string   `json:"url"`
	IssueTypes IssueMap `json:"issue_types,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Failed reports whether the URL could not be fetched or parsed.
func (r URLResult) Failed() bool {
	return r.Error != ""
}

// AnalysisReport is the response for a batch of URLs. URLs without issues
// do not appear in Issues.
type AnalysisReport struct {
	TotalURLs int         `json:"total_urls"`
	Issues    []URLResult `json:"issues"`
}

// AnalysisRequest is the body of POST /seo-check.
type AnalysisRequest struct {
	URLs []string `json:"urls"`
}

// WelcomeResponse is the body of GET /.
type WelcomeResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the JSON shape returned on failure.
type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}
