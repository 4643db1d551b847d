package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ArtifactInfo describes a generated export document.
type ArtifactInfo struct {
	Path  string
	Size  int64
	Pages int
	Text  string
}

// Verify checks that path points to a well-formed export artifact: a
// non-empty .pdf file that passes structural validation.
func Verify(path string) error {
	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("artifact does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access artifact: %w", err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("artifact is a directory: %s", path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return fmt.Errorf("artifact is not a PDF: %s", path)
	}
	if fileInfo.Size() == 0 {
		return fmt.Errorf("artifact is empty: %s", path)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, conf); err != nil {
		return fmt.Errorf("invalid PDF artifact: %w", err)
	}
	return nil
}

// Inspect verifies an export artifact and reads back its page count and
// plain-text content.
func Inspect(path string) (*ArtifactInfo, error) {
	if err := Verify(path); err != nil {
		return nil, err
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access artifact: %w", err)
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("count pages: %w", err)
	}

	text, err := extractText(path)
	if err != nil {
		return nil, fmt.Errorf("read back artifact text: %w", err)
	}

	return &ArtifactInfo{
		Path:  path,
		Size:  fileInfo.Size(),
		Pages: pages,
		Text:  text,
	}, nil
}

// extractText pulls the plain text of every readable page. Pages that fail
// to decode are skipped rather than failing the whole document.
func extractText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	var builder strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(content)
	}
	return builder.String(), nil
}
