package commentary

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/vovakirdan/lumina/internal/catalog"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// APIKeyFromEnv returns GEMINI_API_KEY, or API_KEY if that is unset.
func APIKeyFromEnv() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("API_KEY")
}

// Gemini asks a Gemini model for commentary.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a client for the Gemini API. An empty apiKey returns
// ErrUnavailable.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrUnavailable
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("commentary: create genai client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

// Model returns the model name.
func (g *Gemini) Model() string {
	return g.model
}

// Comment implements Provider.
func (g *Gemini) Comment(ctx context.Context, req Request) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(Prompt(req)),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.9)),
		},
	)
	if err != nil {
		return "", fmt.Errorf("commentary: gemini generate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("commentary: empty gemini response")
	}
	return text, nil
}

// Prompt builds the model prompt in the requested language.
func Prompt(req Request) string {
	if req.Language == catalog.LangZH {
		return fmt.Sprintf("用户刚刚完成了一个名为“%s”的拼图游戏关卡，图片主题是“%s”。\n"+
			"请扮演一位高雅的艺术鉴赏家或禅宗大师。用中文提供一句深刻或诗意的评论，关于这幅画面、拼图的过程或完成时的心境。\n"+
			"保持在30个字以内。风格要优雅、深邃。", req.LevelName, req.ImageKeyword)
	}
	return fmt.Sprintf("The user has just completed a jigsaw puzzle level titled %q featuring an image of %q.\n"+
		"Act as a sophisticated art critic or a zen master. Provide a 1-sentence profound or poetic commentary "+
		"about the image, the act of putting pieces together, or the feeling of completion.\n"+
		"Keep it under 25 words. Be elegant.", req.LevelName, req.ImageKeyword)
}
