package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/domain/commonModels"
	"github.com/akolanti/ragassistant/internal/rag/ragerr"
	"github.com/akolanti/ragassistant/pkg/logger_i"
)

type fileKind int

const (
	kindUnsupported fileKind = iota
	kindPDF
	kindDOCX
	kindTXT
	kindImage
)

func getFileKind(path string) fileKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return kindPDF
	case ".docx":
		return kindDOCX
	case ".txt":
		return kindTXT
	case ".png", ".jpg", ".jpeg", ".gif":
		return kindImage
	default:
		return kindUnsupported
	}
}

// IsSupported reports whether the loader knows how to read the file.
func IsSupported(path string) bool {
	return getFileKind(path) != kindUnsupported
}

// LoadDocuments walks dir recursively and turns every supported file into a
// Document. A file that fails to load is logged, reported in the returned
// errors and skipped; the walk goes on.
func LoadDocuments(ctx context.Context, dir string) ([]commonModels.Document, []error) {
	log := logger_i.NewLogger("Document Loader").With("traceId", config.TraceID(ctx), "dir", dir)

	var docs []commonModels.Document
	var errs []error

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			log.Warn("Skipping unreadable path", "path", path, "error", err)
			errs = append(errs, ragerr.New(ragerr.KindLoad, path, err))
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}

		doc, loadErr := loadFile(path, log)
		if loadErr != nil {
			log.Warn("Skipping file", "path", path, "error", loadErr)
			errs = append(errs, ragerr.New(ragerr.KindLoad, path, loadErr))
			return nil
		}
		log.Debug("Loaded file", "path", path, "type", doc.Type)
		docs = append(docs, doc)
		return nil
	})

	if walkErr != nil {
		log.Error("Document walk stopped", "error", walkErr)
		errs = append(errs, ragerr.New(ragerr.KindLoad, dir, walkErr))
	}

	log.Info("Loaded documents", "documents", len(docs), "skipped", len(errs))
	return docs, errs
}

func loadFile(path string, log *logger_i.Logger) (commonModels.Document, error) {
	doc := commonModels.Document{
		Metadata: commonModels.Metadata{
			commonModels.MetaSource:   path,
			commonModels.MetaFileName: filepath.Base(path),
		},
	}

	var text string
	var err error
	switch getFileKind(path) {
	case kindPDF:
		text, err = extractPDF(path, log)
	case kindDOCX:
		text, err = extractDocx(path)
	case kindTXT:
		text, err = extractTxt(path)
	case kindImage:
		doc.Type = commonModels.Image
		doc.Content = path
		return doc, nil
	default:
		return doc, fmt.Errorf("%w: %s", ragerr.ErrUnsupported, filepath.Ext(path))
	}
	if err != nil {
		return doc, err
	}

	doc.Type = commonModels.Text
	doc.Content = text
	return doc, nil
}
