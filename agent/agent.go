// Package agent wraps a Gemini chat that comments on valuation reports.
package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

const systemPrompt = `You are a portfolio analyst. The user shares a
markdown valuation report of a personal equity portfolio valued in USD and
JPY. Comment on concentration, currency exposure and notable day, month and
year moves. Be concise and factual; never give buy or sell advice.`

// Analyst holds one chat session reviewing portfolio reports.
type Analyst struct {
	ModelName string
	chat      *genai.Chat
}

// NewAnalyst opens a chat session. The client carries the credentials
// (GEMINI_API_KEY by default).
func NewAnalyst(ctx context.Context, client *genai.Client, model string) (*Analyst, error) {
	if model == "" {
		model = defaultModel
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	}
	chat, err := client.Chats.Create(ctx, model, config, nil)
	if err != nil {
		return nil, err
	}
	return &Analyst{ModelName: model, chat: chat}, nil
}

// Review sends the report, with an optional follow-up question, and returns
// the analyst's commentary as markdown.
func (a *Analyst) Review(ctx context.Context, report, question string) (string, error) {
	parts := []*genai.Part{{Text: report}}
	if question != "" {
		parts = append(parts, &genai.Part{Text: question})
	}
	resp, err := a.chat.Send(ctx, parts...)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from the analyst")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
