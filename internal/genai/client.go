// Package genai talks to the Gemini generateContent endpoint and implements
// the chat assistant: extract a category name/description from a free-form
// message and register it.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ferreadmin/internal/common"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	model          = "gemini-1.5-flash"
)

const extractionPrompt = `Extrae el nombre y la descripción de categoría en este mensaje: %q. ` +
	`Si el usuario no provee una descripción, genera una descripción corta basándote en el nombre. ` +
	`Asegúrate que el nombre y descripción contengan mayúsculas. ` +
	`Devuélvelo en JSON como {"nombre": "...", "descripcion": "..."}.`

// CategoryReply is the structured JSON the model is asked to produce.
type CategoryReply struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string `json:"response_mime_type"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ExtractCategory asks the model to pull a category name and description
// out of a natural-language message. HTTP 429 maps to ErrorRateLimited so
// the caller can show the "try later" message.
func (c *Client) ExtractCategory(ctx context.Context, message string) (*CategoryReply, error) {
	prompt := fmt.Sprintf(extractionPrompt, message)

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var reply CategoryReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return nil, fmt.Errorf("la IA no devolvió un JSON válido: %w", err)
	}
	return &reply, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{ResponseMimeType: "application/json"},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("no se pudo conectar con la IA: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", common.ErrorRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generateContent: unexpected status %d", resp.StatusCode)
	}

	var data generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("decode model response: %w", err)
	}

	if len(data.Candidates) == 0 || len(data.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no hubo respuesta de la IA")
	}
	return data.Candidates[0].Content.Parts[0].Text, nil
}
