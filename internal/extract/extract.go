package extract

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/career-checker/internal/logger"
)

// Method tells how the text of a page was obtained.
type Method string

const (
	MethodNative      Method = "native"
	MethodOptical     Method = "optical"
	MethodNativeEmpty Method = "native-empty"
)

const (
	DefaultMinTextChars = 30
	DefaultScale        = 2.0
	DefaultLanguage     = "kor+eng"

	baseDPI = 72.0
)

// ErrUnreadable is returned when no page of a document yields any text.
var ErrUnreadable = errors.New("document is unreadable")

// RawPage is the extraction result for a single page. Empty table cells stand
// for missing values.
type RawPage struct {
	Index   int        `json:"index"`
	Text    string     `json:"text"`
	Method  Method     `json:"method"`
	Table   [][]string `json:"table,omitempty"`
	Warning string     `json:"warning,omitempty"`
}

// Document groups the pages of one extracted file.
type Document struct {
	Path     string    `json:"path"`
	Hash     string    `json:"hash,omitempty"`
	Language string    `json:"language"`
	Pages    []RawPage `json:"pages"`
}

// Failed returns pages whose optical recognition gave nothing back.
func (d Document) Failed() []RawPage {
	var failed []RawPage
	for _, p := range d.Pages {
		if p.Method == MethodNativeEmpty {
			failed = append(failed, p)
		}
	}
	return failed
}

type Config struct {
	MinTextChars   int     `mapstructure:"min-text-chars"`
	Scale          float64 `mapstructure:"scale"`
	Language       string  `mapstructure:"language"`
	DetectLanguage bool    `mapstructure:"detect-language"`
	ForceOCR       bool    `mapstructure:"force-ocr"`
}

// PageCache stores recognized page text between runs.
type PageCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, text string) error
}

// Opener opens a document for page access.
type Opener func(path string) (PageSource, error)

type Extractor struct {
	cfg        Config
	open       Opener
	recognizer Recognizer
	cache      PageCache
	logger     *zap.Logger
}

type Option func(*Extractor)

// WithOpener replaces the go-fitz backed document opener.
func WithOpener(open Opener) Option {
	return func(e *Extractor) { e.open = open }
}

// WithCache enables the recognized page cache.
func WithCache(cache PageCache) Option {
	return func(e *Extractor) { e.cache = cache }
}

func New(cfg Config, recognizer Recognizer, log *zap.Logger, opts ...Option) *Extractor {
	if cfg.MinTextChars <= 0 {
		cfg.MinTextChars = DefaultMinTextChars
	}
	if cfg.Scale <= 0 {
		cfg.Scale = DefaultScale
	}
	if strings.TrimSpace(cfg.Language) == "" {
		cfg.Language = DefaultLanguage
	}

	e := &Extractor{
		cfg:        cfg,
		open:       OpenFitz,
		recognizer: recognizer,
		logger:     logger.WithFields(log),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract reads every page of the document at path. Pages with enough native
// text are kept as is, the rest go through optical recognition. Only a
// document without any readable page is an error.
func (e *Extractor) Extract(ctx context.Context, path string) (Document, error) {
	doc := Document{Path: path}

	src, err := e.open(path)
	if err != nil {
		return doc, fmt.Errorf("%w: open %s: %v", ErrUnreadable, path, err)
	}
	defer src.Close()

	total := src.NumPage()
	if total <= 0 {
		return doc, fmt.Errorf("%w: %s has no pages", ErrUnreadable, path)
	}

	if e.cache != nil {
		doc.Hash = fileHash(path)
	}

	natives := make([]string, total)
	anyNative := false
	for i := 0; i < total; i++ {
		text, err := src.Text(i)
		if err != nil {
			e.logger.Warn("native text extraction failed", append(logger.StageFields("extract", i+1), zap.Error(err))...)
		}
		natives[i] = strings.TrimSpace(text)
		if e.enoughText(natives[i]) {
			anyNative = true
		}
	}

	doc.Language = e.cfg.Language
	if e.cfg.DetectLanguage {
		doc.Language = LanguageHint(strings.Join(natives, "\n"), e.cfg.Language)
	}

	if !anyNative || e.cfg.ForceOCR {
		e.logger.Info("routing whole document through optical recognition",
			zap.String("path", path),
			zap.Int("pages", total),
			zap.Bool("forced", e.cfg.ForceOCR),
		)
	}

	readable := 0
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return doc, err
		}

		page := RawPage{Index: i}
		switch {
		case anyNative && !e.cfg.ForceOCR && e.enoughText(natives[i]):
			page.Text = natives[i]
			page.Method = MethodNative
		default:
			text, err := e.recognize(ctx, src, &doc, i)
			switch {
			case text != "":
				page.Text = text
				page.Method = MethodOptical
			case natives[i] != "":
				page.Text = natives[i]
				page.Method = MethodNative
			default:
				page.Method = MethodNativeEmpty
				page.Warning = "optical recognition returned no text"
				if err != nil {
					page.Warning = err.Error()
				}
				e.logger.Warn("page recognition failed", append(logger.StageFields("extract", i+1), zap.String("reason", page.Warning))...)
			}
		}

		if page.Text != "" {
			readable++
			page.Table = GridFromText(page.Text)
		}
		doc.Pages = append(doc.Pages, page)
	}

	if readable == 0 {
		return doc, fmt.Errorf("%w: %s", ErrUnreadable, path)
	}

	e.logger.Debug("document extracted",
		zap.String("path", path),
		zap.Int("pages", total),
		zap.Int("readable", readable),
		zap.String("language", doc.Language),
	)

	return doc, nil
}

func (e *Extractor) enoughText(s string) bool {
	return utf8.RuneCountInString(s) >= e.cfg.MinTextChars
}

func (e *Extractor) dpi() float64 {
	return baseDPI * e.cfg.Scale
}

func (e *Extractor) recognize(ctx context.Context, src PageSource, doc *Document, index int) (string, error) {
	if e.recognizer == nil {
		return "", errors.New("optical recognition is not configured")
	}

	key := ""
	if e.cache != nil && doc.Hash != "" {
		key = fmt.Sprintf("%s:%d:%g:%s", doc.Hash, index, e.dpi(), doc.Language)
		if text, ok, err := e.cache.Get(ctx, key); err != nil {
			e.logger.Warn("page cache lookup failed", zap.Error(err))
		} else if ok {
			return text, nil
		}
	}

	img, err := src.Render(index, e.dpi())
	if err != nil {
		return "", fmt.Errorf("render page %d: %w", index+1, err)
	}

	text, err := e.recognizer.Recognize(ctx, img, doc.Language)
	if err != nil {
		return "", fmt.Errorf("recognize page %d: %w", index+1, err)
	}
	text = strings.TrimSpace(text)

	if key != "" && text != "" {
		if err := e.cache.Put(ctx, key, text); err != nil {
			e.logger.Warn("page cache store failed", zap.Error(err))
		}
	}

	return text, nil
}

func fileHash(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum[:])
}
