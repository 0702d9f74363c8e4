package api

import "context"

// GenerateTestRequest describes the study material a quiz is built from.
type GenerateTestRequest struct {
	Subject        string   `json:"subject"`
	Context        string   `json:"context"`
	QuestionsCount int      `json:"questionsCount"`
	Images         []string `json:"images,omitempty"`
}

// Question is one multiple-choice question. Correct matches one of Options.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  string   `json:"correct"`
}

// Quiz is a generated multiple-choice test.
type Quiz struct {
	Questions []Question `json:"questions"`
}

// Grade counts how many answers match, position by position. Missing answers
// count as wrong.
func (q Quiz) Grade(answers []string) (correct, total int) {
	total = len(q.Questions)
	for i, question := range q.Questions {
		if i < len(answers) && answers[i] == question.Correct {
			correct++
		}
	}
	return correct, total
}

// ScoreStats summarizes past quiz results.
type ScoreStats struct {
	TotalTests    int     `json:"total_tests"`
	AvgPercentage float64 `json:"avg_percentage"`
}

// GenerateTest asks the backend to build a quiz from study material.
func (c *Client) GenerateTest(ctx context.Context, req GenerateTestRequest) (Quiz, error) {
	var quiz Quiz
	if err := c.post(ctx, "/chat/generate-test", req, &quiz); err != nil {
		return Quiz{}, err
	}
	return quiz, nil
}

// SaveScore records a finished quiz result.
func (c *Client) SaveScore(ctx context.Context, subject string, score, total int) error {
	body := struct {
		Subject string `json:"subject"`
		Score   int    `json:"score"`
		Total   int    `json:"total"`
	}{Subject: subject, Score: score, Total: total}
	return c.post(ctx, "/save-score", body, nil)
}

// RecentScores returns aggregate quiz statistics for the account.
func (c *Client) RecentScores(ctx context.Context) (ScoreStats, error) {
	var stats ScoreStats
	if err := c.get(ctx, "/recent-scores", &stats); err != nil {
		return ScoreStats{}, err
	}
	return stats, nil
}
