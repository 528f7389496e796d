package commonModels

import "maps"

type DocType string

const (
	Text             DocType = "text"
	Image            DocType = "image"
	ImageDescription DocType = "image_description"
	TextChunk        DocType = "text_chunk"
)

// metadata keys
const (
	MetaSource       = "source"
	MetaFileName     = "file_name"
	MetaOriginalType = "original_type"
	MetaChunkID      = "chunk_id"
	MetaChunkIndex   = "chunk_index"
	MetaDocType      = "doc_type"
)

type Metadata map[string]string

func (m Metadata) Clone() Metadata {
	if m == nil {
		return Metadata{}
	}
	return maps.Clone(m)
}

// Document is the unit passed between the loader, the normalizer and the
// chunker. For images Content holds the file path until it is described.
type Document struct {
	Content  string   `json:"content"`
	Type     DocType  `json:"type"`
	Metadata Metadata `json:"metadata"`
}

func (d Document) Source() string {
	return d.Metadata[MetaSource]
}

func (d Document) FileName() string {
	return d.Metadata[MetaFileName]
}

// Chunk is a chunked document plus its embedding once one was obtained.
type Chunk struct {
	Document
	Embedding []float32 `json:"-"`
}

func (c Chunk) ID() string {
	return c.Metadata[MetaChunkID]
}

func (c Chunk) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

type RetrievalResult struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
	Distance float32  `json:"distance"`
}
