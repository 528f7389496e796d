package llm

import "context"

// Provider answers a fully built prompt.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VisionProvider describes an image given as raw bytes.
type VisionProvider interface {
	DescribeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
}
