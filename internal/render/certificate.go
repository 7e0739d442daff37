package render

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const (
	canvasWidth  = 1200
	canvasHeight = 800
)

// CertificateData is everything printed on a certificate.
type CertificateData struct {
	Code            string
	ParticipantName string
	EventName       string
	EventStart      time.Time
	EventEnd        time.Time
	IssueDate       time.Time
	OrganizerName   string
}

// Renderer draws certificates as PNG files.
type Renderer interface {
	// Render writes the image and returns the public URL and on-disk path.
	Render(data CertificateData) (url, path string, err error)
	// PathFor maps a URL returned by Render back to its file.
	PathFor(url string) string
}

// PNGRenderer renders into a directory served under urlPrefix.
type PNGRenderer struct {
	dir       string
	urlPrefix string
	faces     faces
}

type faces struct {
	title, heading, body, small font.Face
}

// NewPNGRenderer prepares fonts and creates dir if needed.
func NewPNGRenderer(dir, urlPrefix string) (*PNGRenderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create certificates dir: %w", err)
	}

	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}

	var f faces
	for _, spec := range []struct {
		dst  *font.Face
		font *opentype.Font
		size float64
	}{
		{&f.title, bold, 48},
		{&f.heading, bold, 32},
		{&f.body, regular, 24},
		{&f.small, regular, 18},
	} {
		face, err := opentype.NewFace(spec.font, &opentype.FaceOptions{Size: spec.size, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			return nil, fmt.Errorf("failed to create font face: %w", err)
		}
		*spec.dst = face
	}

	return &PNGRenderer{dir: dir, urlPrefix: urlPrefix, faces: f}, nil
}

// Render draws the certificate and saves it as certificado-<code>.png.
func (r *PNGRenderer) Render(data CertificateData) (string, string, error) {
	dc := gg.NewContext(canvasWidth, canvasHeight)

	dc.SetHexColor("#f8f9fa")
	dc.Clear()

	dc.SetHexColor("#007bff")
	dc.SetLineWidth(8)
	dc.DrawRectangle(20, 20, canvasWidth-40, canvasHeight-40)
	dc.Stroke()

	center := float64(canvasWidth) / 2
	line := func(face font.Face, hex, text string, y float64) {
		dc.SetFontFace(face)
		dc.SetHexColor(hex)
		dc.DrawStringAnchored(text, center, y, 0.5, 0.5)
	}

	line(r.faces.title, "#007bff", "CERTIFICADO DE PARTICIPAÇÃO", 120)
	line(r.faces.body, "#333333", "Certificamos que", 200)
	line(r.faces.heading, "#000000", data.ParticipantName, 260)
	line(r.faces.body, "#333333", "participou do evento", 320)
	line(r.faces.heading, "#000000", data.EventName, 380)
	line(r.faces.body, "#333333", fmt.Sprintf("Período: %s a %s", formatDate(data.EventStart), formatDate(data.EventEnd)), 420)
	line(r.faces.body, "#333333", "Emitido em: "+formatDate(data.IssueDate), 460)
	line(r.faces.body, "#333333", "Organizador:", 520)
	line(r.faces.heading, "#000000", data.OrganizerName, 560)
	line(r.faces.small, "#666666", "Código: "+data.Code, 720)

	filename := fmt.Sprintf("certificado-%s.png", data.Code)
	path := filepath.Join(r.dir, filename)
	if err := dc.SavePNG(path); err != nil {
		return "", "", fmt.Errorf("failed to save certificate image: %w", err)
	}

	return r.urlPrefix + "/" + filename, path, nil
}

// PathFor returns where the image for url is stored.
func (r *PNGRenderer) PathFor(url string) string {
	return filepath.Join(r.dir, filepath.Base(url))
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
