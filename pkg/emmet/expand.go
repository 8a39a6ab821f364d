package emmet

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	ierrors "github.com/Jboschlagos/Emmet-Cloude/internal/errors"
)

const (
	// DefaultIndent is the indent unit applied per nesting level.
	DefaultIndent = "  "

	// DefaultMaxInputLength bounds the abbreviation length in bytes.
	DefaultMaxInputLength = 64 << 10

	// DefaultMaxDepth bounds child and group nesting.
	DefaultMaxDepth = 256

	// DefaultMaxMultiplier bounds how many copies nested *N repetitions
	// may emit of a single node.
	DefaultMaxMultiplier = 1000

	// DefaultMaxLoremWords bounds the word count of one lorem marker.
	DefaultMaxLoremWords = 10000
)

// Options configures an Expander. Zero or negative limits disable the
// corresponding check.
type Options struct {
	// Indent is the string used for each indentation level.
	Indent string

	// MaxInputLength is the longest accepted abbreviation, in bytes.
	MaxInputLength int

	// MaxDepth is the deepest accepted nesting of '>' children and groups.
	MaxDepth int

	// MaxMultiplier is the largest accepted product of a node's multiplier
	// and the multipliers of every node and group enclosing it.
	MaxMultiplier int

	// MaxLoremWords is the largest word count a lorem marker may ask for.
	MaxLoremWords int

	// Logger receives debug records about rejected abbreviations.
	// If nil, records are discarded.
	Logger *slog.Logger
}

// Option configures an Expander.
type Option func(*Options)

// WithIndent sets the indent unit.
func WithIndent(indent string) Option {
	return func(o *Options) {
		o.Indent = indent
	}
}

// WithMaxInputLength sets the input length limit.
func WithMaxInputLength(n int) Option {
	return func(o *Options) {
		o.MaxInputLength = n
	}
}

// WithMaxDepth sets the nesting limit.
func WithMaxDepth(n int) Option {
	return func(o *Options) {
		o.MaxDepth = n
	}
}

// WithMaxMultiplier sets the repetition limit.
func WithMaxMultiplier(n int) Option {
	return func(o *Options) {
		o.MaxMultiplier = n
	}
}

// WithMaxLoremWords sets the placeholder text limit.
func WithMaxLoremWords(n int) Option {
	return func(o *Options) {
		o.MaxLoremWords = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// DefaultOptions returns the options used by New and Expand.
func DefaultOptions() Options {
	return Options{
		Indent:         DefaultIndent,
		MaxInputLength: DefaultMaxInputLength,
		MaxDepth:       DefaultMaxDepth,
		MaxMultiplier:  DefaultMaxMultiplier,
		MaxLoremWords:  DefaultMaxLoremWords,
	}
}

// Expander expands abbreviations into markup. An Expander holds no
// mutable state and is safe for concurrent use.
type Expander struct {
	opts   Options
	logger *slog.Logger
}

// New creates an Expander from DefaultOptions modified by opts.
func New(opts ...Option) *Expander {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return NewWithOptions(o)
}

// NewWithOptions creates an Expander from a complete Options value.
func NewWithOptions(o Options) *Expander {
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Expander{opts: o, logger: logger}
}

// Options returns the expander configuration.
func (e *Expander) Options() Options {
	return e.opts
}

// Expand turns an abbreviation into markup.
//
// Surrounding whitespace is ignored and shorthands are rewritten first.
// "!" yields an HTML document skeleton and a lone lorem marker yields
// placeholder text. Malformed delimiters and bad multipliers never fail;
// errors are only returned when a limit in Options is exceeded or the
// expansion faults, and are *errors.EmmetError values wrapping
// ErrInputTooLong, ErrTooDeep, ErrTooManyRepeats, ErrTooManyWords or
// ErrUnrecognized.
func (e *Expander) Expand(abbr string) (markup string, err error) {
	abbr = strings.TrimSpace(abbr)
	if limit := e.opts.MaxInputLength; limit > 0 && len(abbr) > limit {
		e.logger.Debug("abbreviation rejected", "reason", "length", "length", len(abbr), "limit", limit)
		return "", ierrors.New("E001").
			WithDetail(fmt.Sprintf("The abbreviation is %d bytes long, the limit is %d.", len(abbr), limit)).
			WithPosition(abbr, limit+1).
			WithSuggestion("Expand the abbreviation in smaller parts").
			Wrap(ErrInputTooLong)
	}

	abbr = Preprocess(abbr)

	if abbr == "!" {
		return boilerplate, nil
	}
	if n, ok := matchLorem(abbr); ok {
		if limit := e.opts.MaxLoremWords; limit > 0 && n > limit {
			e.logger.Debug("abbreviation rejected", "reason", "lorem", "words", n, "limit", limit)
			return "", ierrors.New("E005").
				WithDetail(fmt.Sprintf("%d words of placeholder text were asked for, the limit is %d.", n, limit)).
				Wrap(ErrTooManyWords)
		}
		return PlaceholderText(n), nil
	}

	p := &parser{
		indent:        e.opts.Indent,
		maxDepth:      e.opts.MaxDepth,
		maxMultiplier: e.opts.MaxMultiplier,
		maxLoremWords: e.opts.MaxLoremWords,
		copies:        1,
	}

	defer func() {
		if r := recover(); r != nil {
			markup = ""
			err = e.recovered(abbr, r)
		}
	}()

	return p.parseExpression(abbr, 0).markup, nil
}

// recovered converts a panic raised during parsing into a coded error.
func (e *Expander) recovered(abbr string, r any) error {
	if a, ok := r.(abort); ok {
		code := "E002"
		switch a.err {
		case ErrTooManyRepeats:
			code = "E004"
		case ErrTooManyWords:
			code = "E005"
		}
		e.logger.Debug("abbreviation rejected", "reason", a.detail, "abbreviation", abbr)
		return ierrors.New(code).WithDetail(a.detail).Wrap(a.err)
	}

	e.logger.Warn("expansion fault", "abbreviation", abbr, "panic", r)
	return ierrors.New("E003").
		WithDetail(fmt.Sprint(r)).
		WithExample("div.card*3>h2+p{lorem5}").
		Wrap(ErrUnrecognized)
}

var defaultExpander = New()

// Expand expands abbr with the default options. It returns an empty
// string when a default limit rejects the abbreviation; use an Expander to
// observe the error.
func Expand(abbr string) string {
	markup, err := defaultExpander.Expand(abbr)
	if err != nil {
		return ""
	}
	return markup
}
