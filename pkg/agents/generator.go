package agents

import (
	"context"

	"google.golang.org/genai"
)

// Generator is the slice of the model gateway the agents use. *genai.Client
// satisfies it through GenAIGenerator; tests substitute fakes.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GenAIGenerator adapts a *genai.Client to the Generator interface.
type GenAIGenerator struct {
	Client *genai.Client
}

func (g GenAIGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return g.Client.Models.GenerateContent(ctx, model, contents, config)
}

// searchTools enables web-search grounding on a generate call.
func searchTools() []*genai.Tool {
	return []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
}

// GroundingSources collects {title, uri} citations from a grounded response.
// Responses without grounding metadata yield an empty slice.
func GroundingSources(resp *genai.GenerateContentResponse) []Source {
	out := []Source{}
	if resp == nil || len(resp.Candidates) == 0 {
		return out
	}
	md := resp.Candidates[0].GroundingMetadata
	if md == nil {
		return out
	}
	for _, chunk := range md.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		out = append(out, Source{Title: chunk.Web.Title, URI: chunk.Web.URI})
	}
	return out
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	return resp.Text()
}
