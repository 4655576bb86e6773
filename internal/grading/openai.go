package grading

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hirelens/assessment-service/internal/models"
)

// Client wraps an OpenAI-compatible API and implements Grader, Reporter and
// Generator against it.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient creates a client for the given endpoint. baseURL may be empty for
// the default OpenAI endpoint.
func NewClient(baseURL, apiKey, modelName string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}
}

func (c *Client) GradeAnswer(ctx context.Context, question *models.Question, answer string, maxScore float64) (*Outcome, error) {
	systemPrompt := fmt.Sprintf(`You are grading a candidate's answer in a hiring assessment.
Question type: %s
Skill tested: %s
Question:
%s

Score the answer from 0 to %.1f. Respond with a JSON object:
{"score": <number>, "feedback": "<one or two sentences>"}`,
		question.Type, question.Skill, question.Text, maxScore)

	raw, err := c.completeJSON(ctx, systemPrompt, answer, 0.1)
	if err != nil {
		return nil, err
	}

	var outcome Outcome
	if err := json.Unmarshal([]byte(raw), &outcome); err != nil {
		return nil, fmt.Errorf("parse grading response: %w (raw: %s)", err, raw)
	}

	if outcome.Score < 0 {
		outcome.Score = 0
	}
	if outcome.Score > maxScore {
		outcome.Score = maxScore
	}
	return &outcome, nil
}

func (c *Client) GenerateReport(ctx context.Context, input ReportInput) (*Report, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal report input: %w", err)
	}

	systemPrompt := `You are writing a hiring assessment evaluation from aggregated scores.
Given the candidate's totals and per-skill scores, respond with a JSON object:
{"strengths": [..], "weaknesses": [..], "skill_gaps": [..], "summary": "...", "recommendation": "..."}`

	raw, err := c.completeJSON(ctx, systemPrompt, string(payload), 0.3)
	if err != nil {
		return nil, err
	}

	var report Report
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, fmt.Errorf("parse report response: %w (raw: %s)", err, raw)
	}
	return &report, nil
}

func (c *Client) ParseJobDescription(ctx context.Context, description string) (*JobProfile, error) {
	systemPrompt := `Analyze the job description and extract, as a JSON object:
{"required_skills": [..], "experience_level": "Fresher|Junior|Mid-level|Senior|Expert", "role_type": "..."}`

	raw, err := c.completeJSON(ctx, systemPrompt, description, 0.1)
	if err != nil {
		return nil, err
	}

	var profile JobProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("parse job profile: %w (raw: %s)", err, raw)
	}
	if profile.ExperienceLevel == "" {
		profile.ExperienceLevel = string(models.ExperienceMid)
	}
	return &profile, nil
}

func (c *Client) GenerateQuestions(ctx context.Context, profile *JobProfile) ([]GeneratedQuestion, error) {
	systemPrompt := fmt.Sprintf(`Generate assessment questions for this role:
Skills: %s
Experience: %s
Role: %s

Produce 10 "mcq" questions (4 options each, with "correct_answer" being one of the options),
5 "subjective" questions, and 3 "coding" questions (with "starter_code").
Each question needs: question_type, question_text, difficulty (easy|medium|hard), skill_tested.
Respond with a JSON object: {"questions": [ ... ]}`,
		strings.Join(profile.RequiredSkills, ", "), profile.ExperienceLevel, profile.RoleType)

	raw, err := c.completeJSON(ctx, systemPrompt, "Generate the question set.", 0.7)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Questions []GeneratedQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapper); err != nil {
		return nil, fmt.Errorf("parse generated questions: %w (raw: %s)", err, raw)
	}
	return wrapper.Questions, nil
}

func (c *Client) completeJSON(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
