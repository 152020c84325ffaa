// Package lexer loads source code from a reader and performs the
// assembler's first two steps: comment/string-aware tokenization and label
// accumulation. The opcode/argument split happens one step later (see
// Lex), once every line has its token list and the driver can track
// which labels belong to which line.
package lexer

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/dbcorti/palmasm/arg"
	"github.com/dbcorti/palmasm/asmctx"
)

// labelRE matches a bare label name (no trailing colon).
var labelRE = regexp.MustCompile(`^[_a-zA-Z]\w*$`)

// reStrApostrophe and reStrQuotemarks match '- and "-delimited strings,
// with backslash-escaping of the delimiter inside the string.
const (
	reStrApostrophe = `'(?:\\.|[^\\'])*?'`
	reStrQuotemarks = `"(?:\\.|[^\\"])*?"`
)

// reCode matches everything up to (but not including) a ';' comment
// character that isn't inside a string literal.
var reCode = regexp.MustCompile(`(?:[^'";]|` + reStrApostrophe + `|` + reStrQuotemarks + `)*`)

// reToken matches individual whitespace/comma-separated tokens, treating
// quoted strings (with their escaped delimiters) as a single token.
var reToken = regexp.MustCompile(`(?:[^'"\s,]|` + reStrApostrophe + `|` + reStrQuotemarks + `)+`)

// DuplicateLabelError reports that a label was defined more than once.
type DuplicateLabelError struct {
	LineNo   int
	Line     string
	Label    string
	FirstDef int
}

func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("the label %s was already used on line %d", e.Label, e.FirstDef)
}

// Read loads every line from source, strips comments, tokenizes, and
// accumulates labels, returning one asmctx.Op per line that still has code
// on it after comments are stripped. Every Op returned has LineNo, Line,
// Tokens, and Labels set, and Step set to asmctx.StepLex.
//
// The second return value holds every line of the input verbatim (newlines
// stripped), indexed by line number, for later use when emitting listings.
func Read(source io.Reader) ([]*asmctx.Op, []string, error) {
	var ops []*asmctx.Op
	var lines []string
	currentLabels := map[string]bool{}
	claimedLabels := map[string]int{}

	scanner := bufio.NewScanner(source)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineno := 0
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		lines = append(lines, line)

		code := reCode.FindString(line)
		tokens := reToken.FindAllString(code, -1)

		if len(tokens) > 0 && strings.HasSuffix(tokens[0], ":") {
			label := tokens[0][:len(tokens[0])-1]
			if labelRE.MatchString(label) {
				tokens = tokens[1:]
				if first, ok := claimedLabels[label]; ok {
					return nil, nil, &DuplicateLabelError{
						LineNo: lineno, Line: line, Label: label, FirstDef: first,
					}
				}
				currentLabels[label] = true
				claimedLabels[label] = lineno
			}
		}

		if len(tokens) > 0 {
			labels := make([]string, 0, len(currentLabels))
			for l := range currentLabels {
				labels = append(labels, l)
			}
			sortStrings(labels)

			ops = append(ops, &asmctx.Op{
				LineNo: lineno,
				Line:   line,
				Tokens: tokens,
				Labels: labels,
				Step:   asmctx.StepLex,
			})
			currentLabels = map[string]bool{}
		}

		lineno++
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading source: %w", err)
	}

	return ops, lines, nil
}

// sortStrings is a tiny insertion sort; label lists per line are never more
// than a handful of entries, so pulling in sort.Strings for this would be
// pure overhead in spirit, not in fact — kept simple to match the original's
// use of Python's sorted() on a small set.
func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// Lex splits a line's token list into an opcode and arguments, canonicalizing
// the opcode to lower case. It is the driver's StepLex handler. Argument
// parsing is deliberately deferred to code generation, so that labels have
// as many passes as possible to get bound before an argument gives up on
// resolving them.
func Lex(op *asmctx.Op) {
	op.Opcode = strings.ToLower(op.Tokens[0])
	op.Args = make([]arg.Arg, 0, len(op.Tokens)-1)
	for _, t := range op.Tokens[1:] {
		op.Args = append(op.Args, asmctx.NewUnresolvedArg(strings.TrimSpace(t)))
	}
	op.Step = asmctx.StepCodegen
}
