package treblo

import (
	"log/slog"

	"github.com/taskie/treblo/internal/fswalk"
)

// Default ignore file names read by WalkPath in every directory. Later names
// take precedence over earlier ones.
var DefaultIgnoreFiles = []string{".gitignore", ".ignore", ".trebloignore"}

// Diagnostic describes an entry skipped by a lenient walk.
type Diagnostic struct {
	Path string
	Err  error
}

// Options configures a Walker.
type Options struct {
	Hasher      HasherFactory
	Lenient     bool
	BlobOnly    bool
	Logger      *slog.Logger
	Diagnostics func(Diagnostic)

	// Iterator settings used by WalkPath.
	SkipHidden  bool
	IgnoreFiles []string
	SkipDirs    []string
	Excludes    []string
}

// Option is a functional option for configuring New.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Hasher:      SHA1,
		Logger:      slog.New(slog.DiscardHandler),
		IgnoreFiles: DefaultIgnoreFiles,
		SkipDirs:    []string{".git"},
	}
}

// WithHasher sets the digest algorithm.
func WithHasher(f HasherFactory) Option {
	return func(o *Options) {
		if f != nil {
			o.Hasher = f
		}
	}
}

// WithLenient skips unreadable entries instead of failing the walk. Skipped
// entries are left out of their parent's tree and reported as diagnostics.
func WithLenient(lenient bool) Option {
	return func(o *Options) { o.Lenient = lenient }
}

// WithBlobOnly hashes files only; no directory is resolved.
func WithBlobOnly(blobOnly bool) Option {
	return func(o *Options) { o.BlobOnly = blobOnly }
}

// WithLogger sets the logger used for debug output and for diagnostics when no
// sink is configured.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithDiagnostics sets the sink receiving entries skipped in lenient mode.
func WithDiagnostics(fn func(Diagnostic)) Option {
	return func(o *Options) { o.Diagnostics = fn }
}

// WithHidden controls whether WalkPath includes dot files.
func WithHidden(hidden bool) Option {
	return func(o *Options) { o.SkipHidden = !hidden }
}

// WithIgnoreFiles sets the per-directory ignore file names; none disables them.
func WithIgnoreFiles(names ...string) Option {
	return func(o *Options) { o.IgnoreFiles = names }
}

// WithSkipDirs sets directory names WalkPath never enters.
func WithSkipDirs(names ...string) Option {
	return func(o *Options) { o.SkipDirs = names }
}

// WithExcludes sets doublestar globs of paths WalkPath leaves out.
func WithExcludes(patterns ...string) Option {
	return func(o *Options) { o.Excludes = patterns }
}

func (o *Options) iteratorOptions() fswalk.Options {
	return fswalk.Options{
		SkipHidden:  o.SkipHidden,
		IgnoreFiles: o.IgnoreFiles,
		SkipDirs:    o.SkipDirs,
		Excludes:    o.Excludes,
	}
}

func (o *Options) report(d Diagnostic) {
	if o.Diagnostics != nil {
		o.Diagnostics(d)
		return
	}
	o.Logger.Warn("skipping entry", slog.String("path", d.Path), slog.Any("error", d.Err))
}
