package scanning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini implements the Scanner interface using Google Gemini
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
	prompt string
}

// NewGemini creates a new Gemini Scanner. The model is constrained to
// structured JSON output matching ReceiptFields, with the category restricted
// to the given vocabulary.
func NewGemini(apiKey string, modelName string, categories []string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"merchant": {Type: genai.TypeString, Description: "The name of the store or merchant."},
			"date":     {Type: genai.TypeString, Description: "Date in YYYY-MM-DD format."},
			"amount":   {Type: genai.TypeNumber, Description: "The total amount paid."},
			"category": {
				Type:        genai.TypeString,
				Enum:        categories,
				Description: "The corporate accounting category of the expense.",
			},
			"taxId":   {Type: genai.TypeString, Description: "The tax identification number, if printed."},
			"address": {Type: genai.TypeString, Description: "The address of the merchant, if printed."},
			"note":    {Type: genai.TypeString, Description: "A short summary of the items bought."},
		},
		Required: []string{"merchant", "amount", "category", "note"},
	}

	return &Gemini{
		client: client,
		model:  model,
		prompt: scanPrompt(categories),
	}, nil
}

// ScanReceipt analyzes a receipt and extracts its fields
func (g *Gemini) ScanReceipt(imageData []byte, contentType string) (*ReceiptFields, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Everything is PNG after normalizeImage, and genai.ImageData wants the
	// bare format suffix rather than a full MIME type
	pngData, err := normalizeImage(imageData, contentType)
	if err != nil {
		return nil, err
	}

	parts := []genai.Part{
		genai.ImageData("png", pngData),
		genai.Text(g.prompt),
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	fields, err := parseReceiptJSON(responseText.String())
	if err != nil {
		return nil, fmt.Errorf("parsing receipt fields: %w", err)
	}

	return fields, nil
}

// Close closes the Gemini client
func (g *Gemini) Close() error {
	return g.client.Close()
}
