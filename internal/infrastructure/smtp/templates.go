package smtp

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"path"
	"strings"
	texttemplate "text/template"

	"github.com/go-auth-nosql/internal/domain"
)

//go:embed templates
var embedded embed.FS

// TemplateSource returns the raw text of one part ("subject" or "html") of a named template.
// Sources report a missing template with domain.ErrNotFound.
type TemplateSource interface {
	Read(ctx context.Context, name, part string) ([]byte, error)
}

type embeddedSource struct{}

func (embeddedSource) Read(_ context.Context, name, part string) ([]byte, error) {
	b, err := embedded.ReadFile(path.Join("templates", name, part+".tmpl"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("template %s/%s: %w", name, part, domain.ErrNotFound)
	}
	return b, err
}

// renderer resolves each part from the first source that has it.
type renderer struct {
	sources []TemplateSource
}

func newRenderer(override TemplateSource) *renderer {
	r := &renderer{}
	if override != nil {
		r.sources = append(r.sources, override)
	}
	r.sources = append(r.sources, embeddedSource{})
	return r
}

func (r *renderer) read(ctx context.Context, name, part string) ([]byte, error) {
	var lastErr error
	for _, src := range r.sources {
		b, err := src.Read(ctx, name, part)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (r *renderer) render(ctx context.Context, name string, locals map[string]any) (subject, body string, err error) {
	rawSubject, err := r.read(ctx, name, "subject")
	if err != nil {
		return "", "", err
	}
	rawBody, err := r.read(ctx, name, "html")
	if err != nil {
		return "", "", err
	}

	st, err := texttemplate.New(name + "/subject").Parse(string(rawSubject))
	if err != nil {
		return "", "", fmt.Errorf("parse subject of %s: %w", name, err)
	}
	var sb strings.Builder
	if err := st.Execute(&sb, locals); err != nil {
		return "", "", fmt.Errorf("render subject of %s: %w", name, err)
	}

	bt, err := htmltemplate.New(name + "/html").Parse(string(rawBody))
	if err != nil {
		return "", "", fmt.Errorf("parse body of %s: %w", name, err)
	}
	var bb bytes.Buffer
	if err := bt.Execute(&bb, locals); err != nil {
		return "", "", fmt.Errorf("render body of %s: %w", name, err)
	}
	return strings.TrimSpace(sb.String()), bb.String(), nil
}
