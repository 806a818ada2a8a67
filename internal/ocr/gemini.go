package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const DefaultModelName = "gemini-2.0-flash"

const extractionPrompt = "You are an OCR engine for Japanese payslip images and PDFs.\n\n" +
	"Task:\n" +
	"- Read ALL text in the attached document.\n" +
	"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
	"- Output a JSON array of objects, one per text fragment, in reading order.\n\n" +
	"Each object must have these fields:\n" +
	"- \"text\": string, the fragment exactly as printed (keep 円 markers and commas)\n" +
	"- \"x\": number, approximate left coordinate of the fragment\n" +
	"- \"y\": number, approximate top coordinate of the fragment\n\n" +
	"Rules:\n" +
	"- Keep labels and their amounts as separate fragments.\n" +
	"- Do not translate, summarize, or merge fragments.\n" +
	"Return ONLY valid raw JSON.\n" +
	"Do NOT wrap the response in code fences.\n" +
	"Output must begin with \"[\" and end with \"]\".\n"

// GeminiProvider extracts positioned text fragments from a payslip
// image/PDF via the Gemini vision API.
type GeminiProvider struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewGeminiProvider(ctx context.Context, logger *zap.Logger) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  DefaultModelName,
		logger: logger.Named("ocr.gemini"),
	}, nil
}

func (p *GeminiProvider) Extract(ctx context.Context, doc Document) (Result, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: extractionPrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: doc.MIMEType,
						Data:     doc.Content,
					},
				},
			},
		},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		p.logger.Warn("generate content failed",
			zap.String("filename", doc.Filename),
			zap.Error(err),
		)
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return Result{}, fmt.Errorf("%w: empty response from model", ErrUnavailable)
	}

	clean := cleanModelJSON(rawText)

	var fragments []Fragment
	if err := json.Unmarshal([]byte(clean), &fragments); err != nil {
		// The model ignored the JSON contract; fall back to treating the
		// whole response as a flat text blob.
		p.logger.Warn("model returned non-JSON output, using flat text",
			zap.String("filename", doc.Filename),
		)
		return Result{Text: rawText}, nil
	}

	var text strings.Builder
	for i := range fragments {
		fragments[i].HasPosition = true
		if text.Len() > 0 {
			text.WriteByte('\n')
		}
		text.WriteString(fragments[i].Text)
	}

	return Result{Fragments: fragments, Text: text.String()}, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk when the model
// ignores the raw-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
