package extract

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/career-checker/internal/logger"
)

// Recognizer turns a rendered page into plain text.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image, lang string) (string, error)
}

type TesseractConfig struct {
	Binary      string `mapstructure:"binary"`
	TessdataDir string `mapstructure:"tessdata-dir"`
	PSM         int    `mapstructure:"psm"`
	OEM         int    `mapstructure:"oem"`
}

// Tesseract recognizes page images with the tesseract command line tool.
type Tesseract struct {
	cfg    TesseractConfig
	runner Runner
}

func NewTesseract(cfg TesseractConfig, log *zap.Logger) *Tesseract {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = "tesseract"
	}
	return &Tesseract{cfg: cfg, runner: execRunner{logger: logger.WithFields(log)}}
}

// WithRunner replaces the command runner. Used in tests.
func (t *Tesseract) WithRunner(r Runner) *Tesseract {
	t.runner = r
	return t
}

func (t *Tesseract) Recognize(ctx context.Context, img image.Image, lang string) (string, error) {
	if img == nil {
		return "", fmt.Errorf("no image to recognize")
	}

	tmp, err := os.CreateTemp("", "career-page-*.png")
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encode page image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("write page image: %w", err)
	}

	out, errb, err := t.runner.Run(ctx, t.cfg.Binary, t.args(path, lang)...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(string(errb)))
	}

	return strings.TrimSpace(string(out)), nil
}

// tesseract <file> stdout -l <lang> [--psm N] [--oem N] [--tessdata-dir DIR]
func (t *Tesseract) args(path, lang string) []string {
	if strings.TrimSpace(lang) == "" {
		lang = DefaultLanguage
	}
	args := []string{path, "stdout", "-l", lang}
	if t.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(t.cfg.PSM))
	}
	if t.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(t.cfg.OEM))
	}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}
	return args
}
