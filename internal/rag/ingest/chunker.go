package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/akolanti/ragassistant/internal/domain/commonModels"
)

// Separators ordered from "best" to "worst" for semantic meaning. The empty
// separator splits into single characters.
var separators = []string{"\n\n", "\n", " ", ""}

// ChunkDocuments chunks every text and image description document. Raw image
// records are left out since they only carry a path.
func ChunkDocuments(docs []commonModels.Document, chunkSize, chunkOverlap int) []commonModels.Chunk {
	var chunks []commonModels.Chunk
	for _, doc := range docs {
		if doc.Type != commonModels.Text && doc.Type != commonModels.ImageDescription {
			continue
		}
		chunks = append(chunks, ChunkDocument(doc, chunkSize, chunkOverlap)...)
	}
	return chunks
}

// ChunkDocument splits one document. Every chunk inherits the parent metadata
// and gets the id "{file_name}_chunk_{index}".
func ChunkDocument(doc commonModels.Document, chunkSize, chunkOverlap int) []commonModels.Chunk {
	pieces := splitTextIntoChunks(doc.Content, chunkSize, chunkOverlap)

	chunkType := commonModels.TextChunk
	if doc.Type == commonModels.ImageDescription {
		chunkType = commonModels.ImageDescription
	}

	chunks := make([]commonModels.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		md := doc.Metadata.Clone()
		md[commonModels.MetaChunkID] = fmt.Sprintf("%s_chunk_%d", doc.FileName(), i)
		md[commonModels.MetaChunkIndex] = strconv.Itoa(i)
		md[commonModels.MetaDocType] = string(chunkType)

		chunks = append(chunks, commonModels.Chunk{
			Document: commonModels.Document{
				Content:  piece,
				Type:     chunkType,
				Metadata: md,
			},
		})
	}
	return chunks
}

// splitTextIntoChunks is a recursive character splitter: it splits on the
// first separator present in the text, merges the pieces back into windows
// of at most limit characters with overlap characters carried over, and
// recurses with the next separator into pieces that are still too long.
func splitTextIntoChunks(text string, limit int, overlap int) []string {
	if limit <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= limit {
		overlap = 0
	}
	return splitRecursive(text, separators, limit, overlap)
}

func splitRecursive(text string, seps []string, limit, overlap int) []string {
	separator := seps[len(seps)-1]
	var next []string
	for i, s := range seps {
		if s == "" {
			separator = s
			break
		}
		if strings.Contains(text, s) {
			separator = s
			next = seps[i+1:]
			break
		}
	}

	var chunks, small []string
	for _, piece := range splitKeepSeparator(text, separator) {
		if runeLen(piece) < limit {
			small = append(small, piece)
			continue
		}

		if len(small) > 0 {
			chunks = append(chunks, mergeSplits(small, limit, overlap)...)
			small = nil
		}
		if len(next) == 0 {
			if trimmed := strings.TrimSpace(piece); trimmed != "" {
				chunks = append(chunks, trimmed)
			}
			continue
		}
		chunks = append(chunks, splitRecursive(piece, next, limit, overlap)...)
	}

	if len(small) > 0 {
		chunks = append(chunks, mergeSplits(small, limit, overlap)...)
	}
	return chunks
}

// splitKeepSeparator keeps the separator at the end of each piece so that
// joining the pieces restores the text.
func splitKeepSeparator(text, separator string) []string {
	var pieces []string
	if separator == "" {
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.Split(text, separator)
	for i, p := range parts {
		if i < len(parts)-1 {
			p += separator
		}
		if p != "" {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

func mergeSplits(pieces []string, limit, overlap int) []string {
	var docs []string
	var current []string
	var lengths []int
	total := 0

	for _, piece := range pieces {
		l := runeLen(piece)
		if total+l > limit && len(current) > 0 {
			if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
				docs = append(docs, doc)
			}
			// drop from the front until only the overlap is left and the
			// next piece fits
			for len(current) > 0 && (total > overlap || total+l > limit) {
				total -= lengths[0]
				current = current[1:]
				lengths = lengths[1:]
			}
		}
		current = append(current, piece)
		lengths = append(lengths, l)
		total += l
	}

	if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
