package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"qforge/internal/codec"
	"qforge/internal/question"
)

const basePath = "/api/content-gen"

// RemoteError carries a non-success response from the content-generation
// backend. The body text becomes the user-facing message.
type RemoteError struct {
	Status int
	Text   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("generation api %d: %s", e.Status, e.Text)
}

// Client talks to the content-generation backend. Timeouts run to minutes
// since replication latency is dominated by model inference.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, &RemoteError{Status: resp.StatusCode, Text: strings.TrimSpace(string(raw))}
	}
	return raw, nil
}

// Replicate sends one source record and returns the generated variants.
// The response envelope is {"message": {"question1": record | [record]}}.
func (c *Client) Replicate(ctx context.Context, rec question.Record) ([]question.Record, error) {
	raw, err := c.post(ctx, basePath+"/replicate/", map[string]any{"data": []any{map[string]any(rec)}})
	if err != nil {
		return nil, err
	}
	v, err := codec.Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("decode replicate response: %w", err)
	}
	payload := question.Object(question.Object(v)["message"])["question1"]
	switch t := payload.(type) {
	case []any:
		out := make([]question.Record, 0, len(t))
		for _, item := range t {
			if rec := question.Object(item); rec != nil {
				out = append(out, rec)
			}
		}
		return out, nil
	case map[string]any:
		return []question.Record{question.Record(t)}, nil
	}
	return nil, fmt.Errorf("replicate response missing message.question1")
}

// Prompt fetches the raw prompt template for a generation process.
func (c *Client) Prompt(ctx context.Context, processName string) (string, error) {
	raw, err := c.post(ctx, basePath+"/prompt/", map[string]any{"process_name": processName})
	if err != nil {
		return "", err
	}
	var out struct {
		Prompt string `json:"prompt"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode prompt response: %w", err)
	}
	return out.Prompt, nil
}

// GenerateRequest drives the theoretical-MCQ generation workflow.
type GenerateRequest struct {
	Prompt           string `json:"prompt"`
	Difficulty       string `json:"difficulty"`
	QuestionType     string `json:"question_type"`
	Topic            string `json:"topic"`
	Subtopic         string `json:"subtopic"`
	NumberOfQuestion string `json:"number_of_question"`
}

// Generate requests a batch of theoretical questions. The backend wraps the
// question array as JSON text inside the message field; anything that does
// not parse to an array yields an empty batch rather than an error. Options
// are normalized to list-form on the way in.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) ([]question.Record, error) {
	raw, err := c.post(ctx, basePath+"/generate/", req)
	if err != nil {
		return nil, err
	}
	var out struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode generate response: %w", err)
	}

	v, err := codec.Parse(strings.TrimSpace(out.Message))
	if err != nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, nil
	}
	records := make([]question.Record, 0, len(items))
	for _, item := range items {
		rec := question.Object(item)
		if rec == nil {
			continue
		}
		question.CanonicalizeOptions(rec)
		records = append(records, rec)
	}
	return records, nil
}

// CurationContext is one syllabus context for the curation workflow.
type CurationContext struct {
	Context    string `json:"context"`
	Difficulty string `json:"difficulty"`
	Subtopic   string `json:"subtopic"`
}

// Curate submits contexts for curation and returns the decoded CSV bytes.
func (c *Client) Curate(ctx context.Context, contexts []CurationContext) ([]byte, error) {
	raw, err := c.post(ctx, basePath+"/curate/", map[string]any{"contexts": contexts})
	if err != nil {
		return nil, err
	}
	var out struct {
		CSVContent string `json:"csv_content"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode curate response: %w", err)
	}
	csv := codec.DecodeBase64(out.CSVContent)
	if csv == "" {
		return nil, fmt.Errorf("curate response carried no csv content")
	}
	return []byte(csv), nil
}
