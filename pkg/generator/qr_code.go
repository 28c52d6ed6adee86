package generator

import (
	"fmt"
	"os"
	"path/filepath"

	qr "github.com/courierhub/labelqr/pkg/qrcode"
	"github.com/google/uuid"
)

type Renderer interface {
	Render(payload []byte, opts qr.Options) (*qr.Result, error)
}

// QRCode renders payloads and stores the images under OutputDir with uuid
// file names.
type QRCode struct {
	renderer  Renderer
	OutputDir string
}

func NewQrCode(renderer Renderer, outputDir string) *QRCode {
	if !filepath.IsAbs(outputDir) {
		wd, _ := os.Getwd()
		outputDir = filepath.Join(wd, outputDir)
	}

	return &QRCode{
		renderer:  renderer,
		OutputDir: outputDir,
	}
}

// Generate renders payload and saves the image. When the render fell back to
// text, nothing is written and id and path are empty.
func (q *QRCode) Generate(payload string, opts qr.Options) (res *qr.Result, id, path string, err error) {
	res, err = q.renderer.Render([]byte(payload), opts)
	if err != nil {
		return nil, "", "", err
	}
	id, path, err = q.Save(res)
	if err != nil {
		return nil, "", "", err
	}
	return res, id, path, nil
}

func (q *QRCode) Save(res *qr.Result) (string, string, error) {
	if res.Image == nil {
		return "", "", nil
	}
	id := uuid.New().String()
	filePath := filepath.Join(q.OutputDir, id+res.Format.Extension())

	if err := q.ensureOutputDir(); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(filePath, res.Image, 0644); err != nil {
		return "", "", fmt.Errorf("failed to write QR code file: %w", err)
	}
	return id, filePath, nil
}

func (q *QRCode) ensureOutputDir() error {
	if _, err := os.Stat(q.OutputDir); os.IsNotExist(err) {
		err = os.MkdirAll(q.OutputDir, os.ModePerm)
		if err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return nil
}

func (q *QRCode) Delete(filePath string) error {
	if filePath == "" {
		return nil
	}
	err := os.Remove(filePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete QR code file: %w", err)
	}
	return nil
}
