package caption

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// DefaultModelName is the default Gemini model used for captioning.
// Can be overridden via GEMINI_MODEL or the --model flag.
const DefaultModelName = "gemini-2.5-flash-lite"

// captionPrompt asks for filename-sized output. The phrase is normalized
// further by the adapter and the filename builder, so formatting slips in the
// model output are tolerated.
const captionPrompt = "Describe the main subject of this photo in a short phrase of at most " +
	"six words. Respond with only the phrase - no punctuation, no quotes, no preamble."

// GetModelName returns the Gemini model to use, resolved from the
// GEMINI_MODEL environment variable with DefaultModelName as fallback.
func GetModelName() string {
	if env := os.Getenv("GEMINI_MODEL"); env != "" {
		return env
	}
	return DefaultModelName
}

// GeminiCaptioner captions images with the Gemini API. It satisfies
// Captioner; each call is stateless and leaves the source file untouched.
type GeminiCaptioner struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini API client for the given API key.
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client, nil
}

// NewGeminiCaptioner creates a captioner using the given client and model.
// An empty model selects GetModelName().
func NewGeminiCaptioner(client *genai.Client, model string) *GeminiCaptioner {
	if model == "" {
		model = GetModelName()
	}
	return &GeminiCaptioner{client: client, model: model}
}

// Caption sends the JPEG inline to Gemini and returns the model's text.
func (g *GeminiCaptioner) Caption(ctx context.Context, jpegPath string) (string, error) {
	data, err := os.ReadFile(jpegPath)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: data}},
			{Text: captionPrompt},
		},
	}}

	log.Debug().
		Str("model", g.model).
		Int("image_bytes", len(data)).
		Msg("Sending image to Gemini for captioning")

	callStart := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	duration := time.Since(callStart)
	if err != nil {
		log.Error().Err(err).Dur("duration", duration).Msg("Failed to generate caption from Gemini")
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("received empty response from Gemini API")
	}

	text := strings.TrimSpace(resp.Text())
	log.Debug().
		Int("response_length", len(text)).
		Dur("duration", duration).
		Msg("Gemini caption response received")

	return text, nil
}
