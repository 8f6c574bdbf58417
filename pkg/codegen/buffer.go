package codegen

import (
	"strings"
)

// buffer accumulates generated text. Indentation is written lazily at the
// start of each line so that blank lines carry no trailing spaces.
type buffer struct {
	out     []byte
	compact bool
	indent  int
	// absorb is set after a line comment has written its own newline; the
	// next requested newline is satisfied by it.
	absorb bool
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' || c == '\\' || c >= 0x80 ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func (b *buffer) last() byte {
	if len(b.out) == 0 {
		return 0
	}
	return b.out[len(b.out)-1]
}

func (b *buffer) hasContent() bool {
	return len(b.out) > 0
}

func (b *buffer) endsWith(s string) bool {
	return strings.HasSuffix(string(b.out), s)
}

func (b *buffer) append(s string) {
	if s == "" {
		return
	}
	if !b.compact && b.last() == '\n' && s[0] != '\n' {
		for i := 0; i < b.indent; i++ {
			b.out = append(b.out, ' ', ' ')
		}
	}
	b.out = append(b.out, s...)
	b.absorb = false
}

// word writes an identifier-like token, separated from a preceding word so
// the two cannot merge.
func (b *buffer) word(s string) {
	if isWordByte(b.last()) || (b.last() == '/' && len(s) > 0 && s[0] == '/') {
		b.out = append(b.out, ' ')
	}
	b.append(s)
}

// token writes punctuation. A "+" after "+" (or "-" after "-") is separated
// so the pair does not read as an update operator.
func (b *buffer) token(s string) {
	if len(s) > 0 {
		last := b.last()
		if (s[0] == '+' || s[0] == '-') && last == s[0] {
			b.out = append(b.out, ' ')
		} else if s[0] == '/' && last == '/' {
			b.out = append(b.out, ' ')
		}
	}
	b.append(s)
}

func (b *buffer) space() {
	if b.compact {
		return
	}
	switch b.last() {
	case 0, ' ', '\n':
		return
	}
	b.out = append(b.out, ' ')
}

func (b *buffer) trimTrailingSpaces() {
	for len(b.out) > 0 && b.out[len(b.out)-1] == ' ' {
		b.out = b.out[:len(b.out)-1]
	}
}

// newline writes up to n line breaks, never leaving more than one blank
// line and never opening a block with a blank line.
func (b *buffer) newline(n int) {
	if b.compact || !b.hasContent() {
		return
	}
	if n > 2 {
		n = 2
	}
	b.trimTrailingSpaces()
	if b.endsWith("{\n") || b.endsWith(":\n") {
		n--
	}
	for ; n > 0; n-- {
		if b.endsWith("\n\n") {
			return
		}
		if b.absorb {
			b.absorb = false
			continue
		}
		b.out = append(b.out, '\n')
	}
}

// lineBreak ends the current line unless it is already ended.
func (b *buffer) lineBreak() {
	if b.compact || !b.hasContent() {
		return
	}
	b.trimTrailingSpaces()
	if b.last() != '\n' {
		b.out = append(b.out, '\n')
	}
	b.absorb = false
}

func (b *buffer) removeTrailingNewline() {
	if b.last() == '\n' {
		b.out = b.out[:len(b.out)-1]
	}
}

func (b *buffer) String() string {
	return strings.TrimRight(string(b.out), " \n\t")
}
