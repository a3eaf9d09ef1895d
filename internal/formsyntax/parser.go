package formsyntax

import (
	"context"
	"log/slog"
	"strings"
)

// Parser converts form syntax into a string map.
//
// A Parser only holds configuration. Every call to Parse runs on its own
// state machine, so a Parser may be shared between goroutines.
type Parser struct {
	logger *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger traces every state transition at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// New creates a Parser with the given options.
func New(options ...Option) *Parser {
	p := &Parser{}
	for _, option := range options {
		option(p)
	}
	return p
}

var defaultParser = New()

// Parse parses input with a Parser that does no tracing.
func Parse(input string) (map[string]string, error) {
	return defaultParser.Parse(input)
}

// Parse consumes the whole input and returns the collected pairs. On error
// the returned map is nil and the error is a *ParseError.
func (p *Parser) Parse(input string) (map[string]string, error) {
	m := newMachine()
	tracing := p.logger != nil && p.logger.Enabled(context.Background(), slog.LevelDebug)

	offset := 0
	for _, ch := range input {
		collection, str := m.collection, m.str
		if err := m.step(ch); err != nil {
			return nil, &ParseError{
				Err:             err,
				Offset:          offset,
				Char:            ch,
				CollectionState: collection,
				StringState:     str,
			}
		}
		if tracing {
			p.logger.Debug("formsyntax step",
				slog.Int("offset", offset),
				slog.String("char", string(ch)),
				slog.String("collection", m.collection.String()),
				slog.String("string", m.str.String()),
			)
		}
		offset++
	}

	if !m.finish() {
		return nil, &ParseError{
			Err:             ErrInvalidValueFormat,
			Offset:          offset,
			CollectionState: m.collection,
			StringState:     m.str,
			EOF:             true,
		}
	}
	return m.result, nil
}

// machine is the per-parse state: both state enums, the key and value
// buffers and the pairs flushed so far.
type machine struct {
	collection CollectionState
	str        StringState
	key        strings.Builder
	value      strings.Builder
	result     map[string]string
}

func newMachine() *machine {
	return &machine{
		collection: PrepKey,
		str:        Default,
		result:     make(map[string]string),
	}
}

// flush moves a pending pair into the result. It only looks at the key
// buffer, so a pair is stored even if its value is empty.
func (m *machine) flush() {
	if m.key.Len() == 0 {
		return
	}
	m.result[m.key.String()] = m.value.String()
	m.key.Reset()
	m.value.Reset()
}

// finish applies the end-of-input rule: the trailing pair needs a non-empty
// key and a non-empty value.
func (m *machine) finish() bool {
	if m.key.Len() == 0 || m.value.Len() == 0 {
		return false
	}
	m.result[m.key.String()] = m.value.String()
	m.key.Reset()
	m.value.Reset()
	return true
}

func (m *machine) step(ch rune) error {
	switch m.str {
	case Default:
		return m.stepDefault(ch)
	case EndKey, OutStr:
		return m.stepAfterKey(ch)
	case SpecialChar:
		return m.stepEscaped(ch, Default)
	case InStr:
		return m.stepQuoted(ch)
	case InStrSpecial:
		return m.stepEscaped(ch, InStr)
	default:
		return ErrOutOfState
	}
}

func (m *machine) stepDefault(ch rune) error {
	switch m.collection {
	case PrepKey:
		m.flush()
		switch ch {
		case ' ':
		case ':':
			return ErrNoKey
		case '\\':
			m.collection, m.str = BuildKey, SpecialChar
		case '"':
			m.key.WriteRune(ch)
			m.collection, m.str = BuildKey, InStr
		default:
			m.key.WriteRune(ch)
			m.collection = BuildKey
		}

	case BuildKey:
		switch ch {
		case ' ':
			m.str = EndKey
		case ':':
			m.collection = PrepVal
		case '\\':
			m.str = SpecialChar
		case '"':
			return ErrInvalidKeyFormat
		default:
			m.key.WriteRune(ch)
		}

	case PrepVal:
		switch ch {
		case ' ':
		case ':':
			return ErrInvalidValueFormat
		case '\\':
			m.collection, m.str = BuildVal, SpecialChar
		case '"':
			m.value.WriteRune(ch)
			m.collection, m.str = BuildVal, InStr
		default:
			m.value.WriteRune(ch)
			m.collection = BuildVal
		}

	case BuildVal:
		switch ch {
		case ' ':
			m.collection = PrepKey
		case ':', '"':
			return ErrInvalidValueFormat
		case '\\':
			m.str = SpecialChar
		default:
			m.value.WriteRune(ch)
		}

	default:
		return ErrOutOfState
	}
	return nil
}

// stepAfterKey handles EndKey and OutStr: a key is complete and only spaces
// may appear before its colon.
func (m *machine) stepAfterKey(ch rune) error {
	if m.collection != BuildKey {
		return ErrOutOfState
	}
	switch ch {
	case ' ':
	case ':':
		m.collection, m.str = PrepVal, Default
	default:
		return ErrInvalidKeyFormat
	}
	return nil
}

// stepEscaped copies ch into the active buffer and moves to next.
func (m *machine) stepEscaped(ch rune, next StringState) error {
	switch m.collection {
	case BuildKey:
		m.key.WriteRune(ch)
	case BuildVal:
		m.value.WriteRune(ch)
	default:
		return ErrOutOfState
	}
	m.str = next
	return nil
}

// stepQuoted reads inside a quoted token. A closing quote on a key still
// needs a colon; on a value it completes the pair.
func (m *machine) stepQuoted(ch rune) error {
	switch m.collection {
	case BuildKey:
		switch ch {
		case '"':
			m.key.WriteRune(ch)
			m.str = OutStr
		case '\\':
			m.str = InStrSpecial
		default:
			m.key.WriteRune(ch)
		}

	case BuildVal:
		switch ch {
		case '"':
			m.value.WriteRune(ch)
			m.collection, m.str = PrepKey, Default
		case '\\':
			m.str = InStrSpecial
		default:
			m.value.WriteRune(ch)
		}

	default:
		return ErrOutOfState
	}
	return nil
}
