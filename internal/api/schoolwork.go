package api

import (
	"context"
	"fmt"
)

// Schoolwork types accepted by the analysis endpoint.
const (
	SchoolworkPastExam = "past_exam"
	SchoolworkProject  = "project"
	SchoolworkHomework = "homework"
)

// AnalyzeSchoolworkRequest describes a piece of schoolwork to analyze.
// Grade, Mistakes, Notes and Topic are optional and depend on Type.
type AnalyzeSchoolworkRequest struct {
	Type     string   `json:"type"`
	Subject  string   `json:"subject"`
	Grade    string   `json:"grade,omitempty"`
	Mistakes string   `json:"mistakes,omitempty"`
	Notes    string   `json:"notes,omitempty"`
	Topic    string   `json:"topic,omitempty"`
	Images   []string `json:"images,omitempty"`
}

// SchoolworkAnalysis is a stored analysis result.
type SchoolworkAnalysis struct {
	ID      int    `json:"id"`
	Type    string `json:"type"`
	Subject string `json:"subject"`
	Topic   string `json:"topic"`
	Date    string `json:"date"`
	Preview string `json:"preview,omitempty"`
	Content string `json:"content,omitempty"`
}

// AnalyzeSchoolwork submits schoolwork for analysis and returns the advice
// text plus the id under which it was stored.
func (c *Client) AnalyzeSchoolwork(ctx context.Context, req AnalyzeSchoolworkRequest) (analysis string, id int, err error) {
	var resp struct {
		Analysis string `json:"analysis"`
		ID       int    `json:"id"`
	}
	if err := c.post(ctx, "/chat/analyze-schoolwork", req, &resp); err != nil {
		return "", 0, err
	}
	return resp.Analysis, resp.ID, nil
}

// SchoolworkRecents lists the latest stored analyses with content previews.
func (c *Client) SchoolworkRecents(ctx context.Context) ([]SchoolworkAnalysis, error) {
	var recents []SchoolworkAnalysis
	if err := c.get(ctx, "/schoolwork/recents", &recents); err != nil {
		return nil, err
	}
	return recents, nil
}

// Schoolwork returns one stored analysis in full.
func (c *Client) Schoolwork(ctx context.Context, id int) (SchoolworkAnalysis, error) {
	var item SchoolworkAnalysis
	if err := c.get(ctx, fmt.Sprintf("/schoolwork/%d", id), &item); err != nil {
		return SchoolworkAnalysis{}, err
	}
	return item, nil
}
