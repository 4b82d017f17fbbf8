package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/valyala/fasttemplate"

	"github.com/taskie/treblo"
	"github.com/taskie/treblo/internal/snapshot"
)

// listOptions selects which entries the list command prints and how.
type listOptions struct {
	summarize bool
	depth     int // negative means unlimited
	showSelf  bool
	json      bool
	format    string
	blobOnly  bool
}

// printer writes the entries of one walk rooted at base.
type printer struct {
	w    io.Writer
	opts listOptions
	tmpl *fasttemplate.Template
	enc  *json.Encoder

	base     string
	relative bool
}

func newPrinter(w io.Writer, base string, relative bool, opts listOptions) (*printer, error) {
	p := &printer{
		w:        w,
		opts:     opts,
		base:     trimSeparators(base),
		relative: relative,
	}
	switch {
	case opts.json:
		p.enc = json.NewEncoder(w)
	case opts.format != "":
		tmpl, err := fasttemplate.NewTemplate(opts.format, "{", "}")
		if err != nil {
			return nil, fmt.Errorf("invalid format: %w", err)
		}
		p.tmpl = tmpl
	}
	return p, nil
}

// displayPath is the path as shown to the user: relative to the base when
// the base was implied, the base itself for the root.
func (p *printer) displayPath(path string) string {
	shown := path
	if p.relative {
		shown = relativeTo(p.base, path)
	}
	if shown == "" {
		return p.base
	}
	return shown
}

func (p *printer) print(path string, e treblo.TreeEntry, isTree bool) error {
	if p.opts.blobOnly && isTree {
		return nil
	}

	isBase := path == p.base
	if !p.opts.showSelf && !p.opts.summarize && isTree && isBase {
		return nil
	}

	shown := p.displayPath(path)
	depthOK := true
	switch {
	case p.opts.summarize:
		depthOK = false
	case p.opts.depth >= 0:
		depthOK = componentCount(shown) <= p.opts.depth
	}
	if !depthOK && !isBase {
		return nil
	}

	switch {
	case p.enc != nil:
		return p.enc.Encode(recordOf(shown, e))
	case p.tmpl != nil:
		_, err := io.WriteString(p.w, p.tmpl.ExecuteString(map[string]any{
			"mode":   e.Mode.String(),
			"type":   string(e.Mode.ObjectType()),
			"digest": e.Hex(),
			"path":   shown,
			"name":   e.Name,
		})+"\n")
		return err
	default:
		_, err := fmt.Fprintf(p.w, "%s %s %s\t%s\n", e.Mode, e.Mode.ObjectType(), e.Hex(), shown)
		return err
	}
}

func recordOf(path string, e treblo.TreeEntry) snapshot.Record {
	return snapshot.Record{
		FileMode:   e.Mode.Value(),
		ObjectType: string(e.Mode.ObjectType()),
		Digest:     e.Hex(),
		Path:       path,
	}
}

// relativeTo strips base from path; the base itself becomes "".
func relativeTo(base, path string) string {
	rel := strings.TrimPrefix(path, base)
	return strings.TrimPrefix(rel, string(os.PathSeparator))
}

// componentCount counts path components; a leading separator counts as one.
func componentCount(p string) int {
	n := 0
	if strings.HasPrefix(p, string(os.PathSeparator)) {
		n++
	}
	for _, c := range strings.Split(p, string(os.PathSeparator)) {
		if c != "" {
			n++
		}
	}
	return n
}

func trimSeparators(p string) string {
	for len(p) > 1 && p[len(p)-1] == os.PathSeparator {
		p = p[:len(p)-1]
	}
	return p
}
