package agents

import (
	"context"
	"errors"
	"sync"

	"google.golang.org/genai"
)

// fakeGen scripts GenerateContent per call via fn, or returns a fixed
// response/error pair when fn is nil. Safe for concurrent calls.
type fakeGen struct {
	fn   func(model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	resp *genai.GenerateContentResponse
	err  error

	mu          sync.Mutex
	calls       int
	lastModel   string
	lastConfig  *genai.GenerateContentConfig
	lastContent []*genai.Content
}

func (f *fakeGen) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	f.calls++
	f.lastModel = model
	f.lastContent = contents
	f.lastConfig = config
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(model, contents, config)
	}
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(text, genai.RoleModel),
		}},
	}
}

func groundedResponse(text string, sources ...Source) *genai.GenerateContentResponse {
	resp := textResponse(text)
	md := &genai.GroundingMetadata{}
	for _, s := range sources {
		md.GroundingChunks = append(md.GroundingChunks, &genai.GroundingChunk{
			Web: &genai.GroundingChunkWeb{Title: s.Title, URI: s.URI},
		})
	}
	resp.Candidates[0].GroundingMetadata = md
	return resp
}

func contentText(contents []*genai.Content) string {
	if len(contents) == 0 {
		return ""
	}
	var out string
	for _, part := range contents[0].Parts {
		if part != nil {
			out += part.Text
		}
	}
	return out
}

var errUpstream = errors.New("gateway unavailable")
