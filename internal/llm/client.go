package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"doc2quiz-service/internal/models"
)

const defaultTimeout = 120 * time.Second

// Client talks to an OpenAI-compatible completions API with file
// attachment support (the DashScope compatibility endpoint in the default
// configuration). Documents are uploaded once per request and referenced
// through fileid:// system messages.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client and its 120 second timeout.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient builds an oracle client for the given endpoint. An empty
// apiKey sends unauthenticated requests, which local test endpoints
// accept.
func NewClient(baseURL, apiKey, model string, opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type fileUploadResponse struct {
	ID string `json:"id"`
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// UploadFile pushes one document to the oracle's file store and returns
// the file id to reference in chat messages.
func (c *Client) UploadFile(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open document: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("purpose", "file-extract"); err != nil {
		return "", fmt.Errorf("write purpose field: %w", err)
	}
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("copy document: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files", &body)
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read upload response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("file upload failed (status %d): %s", resp.StatusCode, respBody)
	}

	var uploaded fileUploadResponse
	if err := json.Unmarshal(respBody, &uploaded); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if uploaded.ID == "" {
		return "", fmt.Errorf("file upload returned no id")
	}
	return uploaded.ID, nil
}

func (c *Client) chat(ctx context.Context, request chatCompletionRequest) (string, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completion failed (status %d): %s", resp.StatusCode, respBody)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", models.ErrOracleEmpty
	}
	return parsed.Choices[0].Message.Content, nil
}

// ExtractOutline uploads the document and asks for its topic outline. An
// unparseable reply is not an error here: it decodes to an outline with
// no items and the caller decides what that means.
func (c *Client) ExtractOutline(ctx context.Context, filePath string) (Outline, error) {
	fileID, err := c.UploadFile(ctx, filePath)
	if err != nil {
		return Outline{}, fmt.Errorf("upload document: %w", err)
	}

	content, err := c.chat(ctx, chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "fileid://" + fileID},
			{Role: "user", Content: extractionPrompt},
		},
	})
	if err != nil {
		return Outline{}, fmt.Errorf("extraction request: %w", err)
	}

	outline := ParseOutline(content)
	if outline.Source == OutlineUnparseable {
		log.Printf("Extraction reply is not a parseable outline: %.200s", content)
	}
	return outline, nil
}

// GenerateQuestions uploads the documents and asks for authored questions
// covering the given points at the requested type and difficulty counts.
// Individual upload failures are skipped as long as at least one document
// goes through. A reply whose question count differs from the order is
// logged and returned as-is.
func (c *Client) GenerateQuestions(ctx context.Context, filePaths []string, points []models.KnowledgePoint, types []models.QuestionTypeCount) ([]models.GeneratedQuestion, error) {
	total, requirements := Requirements(types)
	if total == 0 {
		return nil, nil
	}

	fileIDs := make([]string, 0, len(filePaths))
	for _, path := range filePaths {
		fileID, err := c.UploadFile(ctx, path)
		if err != nil {
			log.Printf("Upload failed for %s: %v", filepath.Base(path), err)
			continue
		}
		fileIDs = append(fileIDs, fileID)
	}
	if len(fileIDs) == 0 {
		return nil, fmt.Errorf("no document could be uploaded to the oracle")
	}

	messages := make([]chatMessage, 0, len(fileIDs)+1)
	for _, fileID := range fileIDs {
		messages = append(messages, chatMessage{Role: "system", Content: "fileid://" + fileID})
	}
	messages = append(messages, chatMessage{
		Role:    "user",
		Content: buildGenerationPrompt(KnowledgeText(points), requirements, total),
	})

	content, err := c.chat(ctx, chatCompletionRequest{
		Model:          c.model,
		Messages:       messages,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("generation request: %w", err)
	}

	raw, ok := ExtractJSON(content)
	if !ok {
		return nil, fmt.Errorf("%w: generation reply is not JSON", models.ErrOracleEmpty)
	}
	var reply struct {
		Questions []models.GeneratedQuestion `json:"questions"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrOracleEmpty, err)
	}
	if len(reply.Questions) == 0 {
		return nil, fmt.Errorf("%w: empty question list", models.ErrOracleEmpty)
	}
	if len(reply.Questions) != total {
		log.Printf("Requested %d questions, oracle returned %d", total, len(reply.Questions))
	}
	return reply.Questions, nil
}
