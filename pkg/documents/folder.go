package documents

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mercator-hq/vendorgate/pkg/validation"
)

// MasterDocType is the key under which the vendor master record is stored.
const MasterDocType = "oracle.vendor"

const masterFileName = "vendor_master.json"

// FolderConfig locates the per-vendor folders. Empty roots are skipped.
type FolderConfig struct {
	// StructuredRoot holds <root>/<vendor>/<doc_type>.json documents.
	StructuredRoot string

	// OCRRoot holds raw OCR output <root>/<vendor>/<stem>.json.
	OCRRoot string

	// MasterRoot holds <root>/<vendor>/vendor_master.json.
	MasterRoot string
}

// FolderSource reads documents from local folders. Structured documents
// take precedence over converted OCR output of the same doc_type.
type FolderSource struct {
	cfg FolderConfig
}

// NewFolderSource creates a folder source.
func NewFolderSource(cfg FolderConfig) *FolderSource {
	return &FolderSource{cfg: cfg}
}

// Name implements Source.
func (s *FolderSource) Name() string { return "folder" }

// Fetch implements Source.
func (s *FolderSource) Fetch(ctx context.Context, vendorID string, _ map[string]any) (validation.Documents, error) {
	if err := checkVendorID(vendorID); err != nil {
		return nil, err
	}

	docs := validation.Documents{}

	if s.cfg.StructuredRoot != "" {
		err := eachJSON(ctx, filepath.Join(s.cfg.StructuredRoot, vendorID), func(stem string, doc map[string]any) {
			docType := docTypeOf(doc, stem)
			if _, exists := docs[docType]; !exists {
				docs[docType] = doc
			}
		})
		if err != nil {
			return nil, err
		}
	}

	if s.cfg.OCRRoot != "" {
		err := eachJSON(ctx, filepath.Join(s.cfg.OCRRoot, vendorID), func(stem string, raw map[string]any) {
			docType := MapDocType(stem)
			if _, exists := docs[docType]; exists {
				return
			}
			if isOCROutput(raw) {
				docs[docType] = ConvertOCRDoc(raw, docType)
			} else {
				docs[docType] = raw
			}
		})
		if err != nil {
			return nil, err
		}
	}

	if s.cfg.MasterRoot != "" {
		master, err := readJSON(filepath.Join(s.cfg.MasterRoot, vendorID, masterFileName))
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			docs[MasterDocType] = master
		}
	}

	return docs, nil
}

// eachJSON calls fn for every *.json file in dir in name order. A missing
// directory yields nothing.
func eachJSON(ctx context.Context, dir string, fn func(stem string, doc map[string]any)) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("documents: read %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc, err := readJSON(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		fn(strings.TrimSuffix(name, filepath.Ext(name)), doc)
	}
	return nil
}

func readJSON(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := validation.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("documents: parse %s: %w", path, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("documents: %s is not a JSON object", path)
	}
	return doc, nil
}
