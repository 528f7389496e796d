package multimodal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/domain/commonModels"
	"github.com/akolanti/ragassistant/internal/rag/llm"
	"github.com/akolanti/ragassistant/internal/rag/ragerr"
	"github.com/akolanti/ragassistant/pkg/logger_i"
)

var mimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

// Normalizer replaces image records with a text description so every
// document can be chunked and embedded as text.
type Normalizer struct {
	vision llm.VisionProvider
	logger *logger_i.Logger
}

func NewNormalizer(vision llm.VisionProvider) *Normalizer {
	return &Normalizer{
		vision: vision,
		logger: logger_i.NewLogger("multimodal"),
	}
}

// Normalize keeps text records as they are and describes every image. An
// image that cannot be described is dropped and reported.
func (n *Normalizer) Normalize(ctx context.Context, docs []commonModels.Document) ([]commonModels.Document, []error) {
	log := n.logger.With("traceId", config.TraceID(ctx))

	out := make([]commonModels.Document, 0, len(docs))
	var errs []error
	for _, doc := range docs {
		if doc.Type != commonModels.Image {
			out = append(out, doc)
			continue
		}

		described, err := n.describe(ctx, doc)
		if err != nil {
			log.Warn("Dropping image", "path", doc.Content, "error", err)
			errs = append(errs, ragerr.New(ragerr.KindDescribe, doc.Content, err))
			continue
		}
		out = append(out, described)
	}
	return out, errs
}

func (n *Normalizer) describe(ctx context.Context, doc commonModels.Document) (commonModels.Document, error) {
	if n.vision == nil {
		return doc, fmt.Errorf("no vision provider configured")
	}

	path := doc.Content
	mimeType, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return doc, fmt.Errorf("%w: %s", ragerr.ErrUnsupported, filepath.Ext(path))
	}

	image, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("failed to read image: %w", err)
	}

	description, err := n.vision.DescribeImage(ctx, config.ImageDescriptionPrompt, image, mimeType)
	if err != nil {
		return doc, err
	}
	if strings.TrimSpace(description) == "" {
		return doc, ragerr.ErrEmptyResponse
	}

	md := doc.Metadata.Clone()
	md[commonModels.MetaOriginalType] = string(commonModels.Image)
	return commonModels.Document{
		Content:  description,
		Type:     commonModels.ImageDescription,
		Metadata: md,
	}, nil
}
