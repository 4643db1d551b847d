// Package export renders a completed questionnaire into a paginated PDF
// document. Layout: a title on page one, then one label line and one answer
// line (or a fixed-height embedded image block) per question. A block that
// would cross the bottom margin starts a new page instead; blocks are never
// split across pages.
package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/formforge/formforge/internal/form"
)

// FileName is the fixed name of the generated document.
const FileName = "form_responses.pdf"

// Layout constants, in millimetres on an A4 page.
const (
	margin        = 20.0
	labelX        = 10.0
	answerX       = 14.0
	titleAdvance  = 12.0
	labelHeight   = 7.0
	answerHeight  = 10.0
	imageWidth    = 80.0
	imageHeight   = 80.0
	imagePadding  = 5.0
	questionGap   = 3.0
	titleFontSize = 16.0
	bodyFontSize  = 12.0
)

// noAnswerPlaceholder renders for absent answers.
const noAnswerPlaceholder = "No answer provided"

// ImageLoader resolves image-store ids to payloads. A missing id is
// signalled by ok=false.
type ImageLoader interface {
	Load(id string) (payload string, ok bool, err error)
}

// Exporter writes form response documents into a fixed output directory.
type Exporter struct {
	outputDir string
	images    ImageLoader
}

// New creates an exporter writing into outputDir and resolving image ids
// through images. A nil loader disables image embedding.
func New(outputDir string, images ImageLoader) *Exporter {
	return &Exporter{outputDir: outputDir, images: images}
}

// OutputPath returns the path the next export will be written to.
func (e *Exporter) OutputPath() string {
	return filepath.Join(e.outputDir, FileName)
}

// Export renders the question/answer pairs into a PDF and writes it under
// the fixed file name, replacing any previous export. Answers holds the
// cleaned answer map; imageMap supplies image-store ids for file answers.
func (e *Exporter) Export(questions form.QuestionList, answers map[int]form.Value, imageMap map[int]string) (string, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	_, pageHeight := doc.GetPageSize()
	bottom := pageHeight - margin
	y := margin

	doc.SetFont("Helvetica", "", titleFontSize)
	doc.Text(labelX, y, "Form Responses")
	y += titleAdvance

	doc.SetFont("Helvetica", "", bodyFontSize)

	for i, q := range questions {
		if y+labelHeight > bottom {
			doc.AddPage()
			y = margin
		}
		doc.Text(labelX, y, fmt.Sprintf("Q%d: %s", i+1, q.Question))
		y += labelHeight

		if payload, ok := e.resolveImage(q, imageMap[i]); ok {
			if y+imageHeight > bottom {
				doc.AddPage()
				y = margin
			}
			if err := drawImage(doc, payload, i, y); err != nil {
				return "", fmt.Errorf("embed image for question %d: %w", i, err)
			}
			y += imageHeight + imagePadding
		} else {
			text := noAnswerPlaceholder
			if v, present := answers[i]; present && v.Kind() != form.ValueAbsent {
				text = v.String()
			}
			if y+answerHeight > bottom {
				doc.AddPage()
				y = margin
			}
			doc.Text(answerX, y, "A: "+text)
			y += answerHeight
		}

		y += questionGap
	}

	path := e.OutputPath()
	if err := doc.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// resolveImage returns the stored payload for a file question's image id.
// Non-file questions, empty ids, lookup misses and store failures all fall
// back to the text answer path.
func (e *Exporter) resolveImage(q form.Question, imageID string) (string, bool) {
	if q.AnswerType != form.AnswerTypeFileUpload || imageID == "" || e.images == nil {
		return "", false
	}
	payload, ok, err := e.images.Load(imageID)
	if err != nil || !ok {
		return "", false
	}
	return payload, true
}

// drawImage registers a decoded data-URI payload and draws it as a fixed
// size block at the current cursor.
func drawImage(doc *fpdf.Fpdf, payload string, index int, y float64) error {
	data, format, err := decodeDataURI(payload)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("answer-%d", index)
	opts := fpdf.ImageOptions{ImageType: format}
	doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	doc.ImageOptions(name, labelX, y, imageWidth, imageHeight, false, opts, 0, "")
	if doc.Err() {
		return doc.Error()
	}
	return nil
}

// decodeDataURI splits a Base64 image data URI into raw bytes and the fpdf
// image type tag. PNG is recognized by its media type; everything else is
// treated as JPEG, matching how uploads are encoded.
func decodeDataURI(payload string) ([]byte, string, error) {
	encoded := payload
	if idx := strings.Index(payload, ","); idx >= 0 {
		encoded = payload[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("decode image payload: %w", err)
	}

	format := "JPEG"
	if strings.Contains(payload, "image/png") {
		format = "PNG"
	}
	return data, format, nil
}
