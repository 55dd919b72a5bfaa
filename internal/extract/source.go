package extract

import (
	"image"

	"github.com/gen2brain/go-fitz"
)

// PageSource gives page level access to a document.
type PageSource interface {
	NumPage() int
	Text(page int) (string, error)
	Render(page int, dpi float64) (image.Image, error)
	Close() error
}

type fitzSource struct {
	doc *fitz.Document
}

// OpenFitz opens a PDF (or any format MuPDF understands) with go-fitz.
func OpenFitz(path string) (PageSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &fitzSource{doc: doc}, nil
}

func (s *fitzSource) NumPage() int { return s.doc.NumPage() }

func (s *fitzSource) Text(page int) (string, error) { return s.doc.Text(page) }

func (s *fitzSource) Render(page int, dpi float64) (image.Image, error) {
	return s.doc.ImageDPI(page, dpi)
}

func (s *fitzSource) Close() error { return s.doc.Close() }
