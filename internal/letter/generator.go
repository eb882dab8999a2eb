// Package letter generates personalized cover letters from structured job
// and profile context via an LLM.
package letter

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jonathan/jobpilot/internal/types"
)

// DefaultModel is the Gemini model used for cover letter generation.
const DefaultModel = "gemini-2.5-flash"

// Generator produces cover letter text for a (job, profile) pair.
// A failure is always a returned error, never sentinel text in the data.
type Generator interface {
	Generate(ctx context.Context, job *types.JobPosting, profile *types.UserProfile) (string, error)
}

// GeminiGenerator implements Generator over Google Gemini.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a generator. The API key is required.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

// Close releases resources held by the underlying client.
func (g *GeminiGenerator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Generate produces a cover letter for the job tailored to the profile.
func (g *GeminiGenerator) Generate(ctx context.Context, job *types.JobPosting, profile *types.UserProfile) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.7)

	resp, err := model.GenerateContent(ctx, genai.Text(BuildPrompt(job, profile)))
	if err != nil {
		return "", fmt.Errorf("failed to generate cover letter: %w", err)
	}

	return extractTextFromResponse(resp)
}

// BuildPrompt assembles the generation prompt from job and profile context.
func BuildPrompt(job *types.JobPosting, profile *types.UserProfile) string {
	var sb strings.Builder
	sb.WriteString("You are an AI assistant specialized in writing compelling cover letters.\n")
	sb.WriteString("Generate a personalized cover letter for the following job application.\n\n")

	sb.WriteString("Job Details:\n")
	writeField(&sb, "Title", job.Title)
	writeField(&sb, "Company", job.CompanyName)
	writeField(&sb, "Location", job.Location)
	writeField(&sb, "Description", job.Description)
	writeField(&sb, "Skills", strings.Join(job.Skills, ", "))

	sb.WriteString("\nUser Profile:\n")
	writeField(&sb, "Name", profile.Name)
	writeField(&sb, "Email", profile.Email)
	writeField(&sb, "Phone", profile.Phone)
	writeField(&sb, "LinkedIn", profile.LinkedInLink)
	writeField(&sb, "Portfolio", profile.PortfolioLink)
	writeField(&sb, "GitHub", profile.GitHubLink)
	writeField(&sb, "Skills", strings.Join(profile.Skills, ", "))
	writeField(&sb, "Summary", profile.Summary)

	sb.WriteString("\nPlease write a professional and engaging cover letter, highlighting how the ")
	sb.WriteString("user's skills and experience match the job requirements. The cover letter ")
	sb.WriteString("should be concise, well-structured, and persuasive. Naturally integrate the ")
	sb.WriteString("user's professional links into the closing section.\n")
	return sb.String()
}

func writeField(sb *strings.Builder, label, value string) {
	if value == "" {
		value = "N/A"
	}
	fmt.Fprintf(sb, "%s: %s\n", label, value)
}

// extractTextFromResponse extracts text from a Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.TrimSpace(strings.Join(parts, "")), nil
}
