package mailer

import (
	"bytes"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"strings"
	"sync"
	"text/template"

	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

const layoutFile = "layout.html"

// Renderer loads templates from fsys and caches the parsed form.
type Renderer struct {
	fsys fs.FS
	md   goldmark.Markdown

	mu        sync.Mutex
	templates map[string]*parsed
	layout    *htmltemplate.Template
	noLayout  bool
}

type parsed struct {
	subject *template.Template
	body    *template.Template
}

type frontMatter struct {
	Subject string `yaml:"subject"`
}

func NewRenderer(fsys fs.FS) *Renderer {
	return &Renderer{
		fsys:      fsys,
		md:        goldmark.New(),
		templates: make(map[string]*parsed),
	}
}

// Render executes the named template with data.
func (r *Renderer) Render(name string, data any) (*Email, error) {
	tpl, layout, err := r.load(name)
	if err != nil {
		return nil, err
	}

	var subject, text, html bytes.Buffer
	if err := tpl.subject.Execute(&subject, data); err != nil {
		return nil, fmt.Errorf("%w: %s subject: %v", ErrRenderFailed, name, err)
	}
	if err := tpl.body.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("%w: %s body: %v", ErrRenderFailed, name, err)
	}
	if err := r.md.Convert(text.Bytes(), &html); err != nil {
		return nil, fmt.Errorf("%w: %s markdown: %v", ErrRenderFailed, name, err)
	}

	out := html.String()
	if layout != nil {
		var wrapped bytes.Buffer
		err := layout.Execute(&wrapped, map[string]any{
			"Subject": subject.String(),
			"Content": htmltemplate.HTML(out),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: layout: %v", ErrRenderFailed, err)
		}
		out = wrapped.String()
	}

	return &Email{
		Subject: strings.TrimSpace(subject.String()),
		HTML:    out,
		Text:    text.String(),
	}, nil
}

func (r *Renderer) load(name string) (*parsed, *htmltemplate.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.layout == nil && !r.noLayout {
		raw, err := fs.ReadFile(r.fsys, layoutFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			r.noLayout = true
		case err != nil:
			return nil, nil, fmt.Errorf("%w: layout: %v", ErrRenderFailed, err)
		default:
			layout, err := htmltemplate.New(layoutFile).Parse(string(raw))
			if err != nil {
				return nil, nil, fmt.Errorf("%w: layout: %v", ErrRenderFailed, err)
			}
			r.layout = layout
		}
	}

	if tpl, ok := r.templates[name]; ok {
		return tpl, r.layout, nil
	}

	raw, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	meta, body, err := splitFrontMatter(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}

	tpl := &parsed{}
	if tpl.subject, err = template.New(name + ":subject").Parse(meta.Subject); err != nil {
		return nil, nil, fmt.Errorf("%w: %s subject: %v", ErrRenderFailed, name, err)
	}
	if tpl.body, err = template.New(name).Parse(body); err != nil {
		return nil, nil, fmt.Errorf("%w: %s body: %v", ErrRenderFailed, name, err)
	}

	r.templates[name] = tpl
	return tpl, r.layout, nil
}

// splitFrontMatter separates a leading "---" delimited YAML block from the body.
func splitFrontMatter(raw []byte) (frontMatter, string, error) {
	var meta frontMatter

	content := strings.ReplaceAll(string(raw), "\r\n", "\n")
	if !strings.HasPrefix(content, "---\n") {
		return meta, content, nil
	}

	head, body, ok := strings.Cut("\n"+content[len("---\n"):], "\n---")
	if !ok {
		return meta, "", fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
	}
	if err := yaml.Unmarshal([]byte(head), &meta); err != nil {
		return meta, "", fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
	}

	return meta, strings.TrimPrefix(body, "\n"), nil
}
