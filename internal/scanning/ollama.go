package scanning

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Ollama implements the Scanner interface against a local Ollama instance.
// Vision models that work reasonably well for receipts: llava (default),
// qwen2-vl:7b, bakllava, llava-phi3.
type Ollama struct {
	baseURL string
	model   string
	prompt  string
	client  *http.Client
}

// NewOllama creates a new Ollama Scanner instance
func NewOllama(baseURL string, modelName string, categories []string) (*Ollama, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if modelName == "" {
		modelName = "llava"
	}

	return &Ollama{
		baseURL: baseURL,
		model:   modelName,
		prompt:  scanPrompt(categories),
		client: &http.Client{
			// Local vision models can be slow
			Timeout: 120 * time.Second,
		},
	}, nil
}

// ollamaChatRequest represents the request body for Ollama's chat API
type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Images   []string        `json:"images,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ollamaChatResponse represents the response from Ollama's chat API
type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

// ScanReceipt analyzes a receipt and extracts its fields
func (o *Ollama) ScanReceipt(imageData []byte, contentType string) (*ReceiptFields, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	pngData, err := normalizeImage(imageData, contentType)
	if err != nil {
		return nil, err
	}

	reqBody := ollamaChatRequest{
		Model:  o.model,
		Stream: false,
		Messages: []ollamaMessage{
			{
				Role:    "system",
				Content: "You are an expert at reading and extracting information from receipts and invoices. You must carefully read all text in images and extract accurate information.",
			},
			{
				Role:    "user",
				Content: o.prompt,
			},
		},
		Images: []string{base64.StdEncoding.EncodeToString(pngData)},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/api/chat", o.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling ollama API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	fields, err := parseReceiptJSON(chatResp.Message.Content)
	if err != nil {
		return nil, fmt.Errorf("parsing receipt fields: %w", err)
	}

	return fields, nil
}

// Close closes the Ollama client (no-op for HTTP client)
func (o *Ollama) Close() error {
	return nil
}
