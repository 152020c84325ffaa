// Package arg classifies and parses the arguments that follow an opcode in
// a line of assembly: registers, numbers, addresses, and dereferences of
// either, with optional pre/post address (in|de)crementation. Argument
// parsing is deferred as late as possible so that labels bound by later
// lines of source are already available by the time an argument mentioning
// them is resolved.
package arg

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dbcorti/palmasm/numlit"
)

// labelRE matches a valid label name.
var labelRE = regexp.MustCompile(`^[_a-zA-Z]\w*$`)

// Kind is a bitflag describing what an argument turned out to be. A fully
// resolved Arg has exactly one of NUMBER/ADDRESS/REGISTER/DEREF_ADDRESS/
// DEREF_REGISTER set; Unresolved is set instead (possibly alongside a
// tentative base kind) whenever an argument names a label that has not yet
// been bound.
type Kind int

const (
	Number Kind = 1 << iota
	Address
	Register
	DerefAddress
	DerefRegister
	Unresolved
)

func (k Kind) Has(flag Kind) bool { return k&flag != 0 }

func (k Kind) String() string {
	var parts []string
	for _, p := range []struct {
		k Kind
		s string
	}{
		{Number, "NUMBER"}, {Address, "ADDRESS"}, {Register, "REGISTER"},
		{DerefAddress, "DEREF_ADDRESS"}, {DerefRegister, "DEREF_REGISTER"},
		{Unresolved, "UNRESOLVED"},
	} {
		if k.Has(p.k) {
			parts = append(parts, p.s)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

// Resolver is the subset of assembler state an Arg needs in order to
// resolve itself: the label table, and the current architecture's string
// encoder (needed when a single-character string literal is used as a
// numeric argument). asmctx.Context implements this interface.
type Resolver interface {
	Label(name string) (int, bool)
	EncodeStr(string) ([]byte, error)
}

// Options configures how arguments are parsed for a given architecture.
type Options struct {
	// RegisterPrefixes lists valid, lowercase register-name prefixes (e.g.
	// {"r"} for PALM). Prefix matching always prefers the longest match.
	RegisterPrefixes []string
	// FractionalCrements permits the half-(in|de)crement sigils ' and ~ in
	// dereference arguments.
	FractionalCrements bool
}

// Arg represents one argument in a line of source code.
type Arg struct {
	Stripped       string
	Kind           Kind
	Integer        int64
	RegisterPrefix string
	Precrement     float64
	Postcrement    float64
}

// unresolved returns an Arg that still needs another pass to resolve.
func unresolved(stripped string, tentative Kind) Arg {
	return Arg{Stripped: stripped, Kind: tentative | Unresolved}
}

// Resolve attempts to parse raw text into an Arg, trying it as a
// dereference, a register, a number, and an address, in that order. A
// label that is not yet bound yields an Arg marked Unresolved rather than
// an error.
func Resolve(raw string, opts Options, r Resolver) (Arg, error) {
	return resolveText(raw, opts, r)
}

// ResolveAgain re-attempts resolution of an Arg that may still be
// Unresolved (e.g. because it named a label that was unbound in an earlier
// pass). A fully resolved Arg is returned as-is.
func ResolveAgain(a Arg, opts Options, r Resolver) (Arg, error) {
	if !a.Kind.Has(Unresolved) {
		return a, nil
	}
	return resolveText(a.Stripped, opts, r)
}

func resolveText(raw string, opts Options, r Resolver) (Arg, error) {
	type attempt struct {
		desc string
		fn   func(opts Options, r Resolver, t string) (Arg, error)
	}
	attempts := []attempt{
		{"as a dereference", parseDeref},
		{"as a register", parseRegister},
		{"as a number", parseNumber},
		{"as an address", parseAddress},
	}
	var errs []string
	for _, a := range attempts {
		arg, err := a.fn(opts, r, raw)
		if err == nil {
			return arg, nil
		}
		errs = append(errs, fmt.Sprintf("  %s: %s", a.desc, err))
	}
	return Arg{}, fmt.Errorf("failed to parse %q:\n%s", raw, strings.Join(errs, "\n"))
}

func parseNumber(opts Options, r Resolver, t string) (Arg, error) {
	if t == "" {
		return Arg{}, fmt.Errorf("attempted to parse the empty string as a number")
	}
	original := t
	t = strings.TrimSpace(t)
	if t == "" || t[0] != '#' {
		return Arg{}, fmt.Errorf("malformed numerical value %q", original)
	}
	toNumber := t[1:]

	if v, err := numlit.ParseInteger(toNumber, r.EncodeStr); err == nil {
		return Arg{Stripped: toNumber, Kind: Number, Integer: v}, nil
	}
	if !labelRE.MatchString(toNumber) {
		return Arg{}, fmt.Errorf("malformed numerical value %q", original)
	}
	if v, ok := r.Label(toNumber); ok {
		return Arg{Stripped: t, Kind: Number, Integer: int64(v)}, nil
	}
	return unresolved(t, Number), nil
}

func parseAddress(opts Options, r Resolver, t string) (Arg, error) {
	if t == "" {
		return Arg{}, fmt.Errorf("attempted to parse the empty string as an address")
	}
	original := t
	t = strings.TrimSpace(t)

	if v, err := numlit.ParseInteger(t, r.EncodeStr); err == nil {
		return Arg{Stripped: t, Kind: Address, Integer: v}, nil
	}
	if !labelRE.MatchString(t) {
		return Arg{}, fmt.Errorf("malformed address %q", original)
	}
	if v, ok := r.Label(t); ok {
		return Arg{Stripped: t, Kind: Address, Integer: int64(v)}, nil
	}
	return unresolved(t, Address), nil
}

func parseRegister(opts Options, r Resolver, t string) (Arg, error) {
	if t == "" {
		return Arg{}, fmt.Errorf("attempted to parse the empty string as a register specification")
	}
	original := t
	t = strings.ToLower(strings.TrimSpace(t))

	prefixes := append([]string(nil), opts.RegisterPrefixes...)
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })

	var prefix, regnumText string
	found := false
	for _, p := range prefixes {
		if strings.HasPrefix(t, p) {
			prefix = p
			regnumText = t[len(p):]
			found = true
			break
		}
	}
	if !found {
		return Arg{}, fmt.Errorf("register specification %q has an unknown prefix", original)
	}

	regnum := int64(-1)
	if regnumText != "" {
		v, err := numlit.ParseInteger(regnumText, r.EncodeStr)
		if err != nil {
			return Arg{}, err
		}
		regnum = v
	}
	return Arg{Stripped: t, Kind: Register, Integer: regnum, RegisterPrefix: prefix}, nil
}

func parseDeref(opts Options, r Resolver, t string) (Arg, error) {
	if t == "" {
		return Arg{}, fmt.Errorf("attempted to parse the empty string as a dereference")
	}
	original := t
	stripped := strings.TrimSpace(t)
	t = stripped

	complain := func() (Arg, error) {
		return Arg{}, fmt.Errorf("malformed dereference %q", original)
	}

	crements := map[byte]float64{'-': -1, '+': 1}
	if opts.FractionalCrements {
		crements['~'] = -0.5
		crements['\''] = 0.5
	}

	var precrement float64
	for t != "" {
		c, ok := crements[t[0]]
		if !ok {
			break
		}
		precrement += c
		t = t[1:]
		if t == "" {
			return complain()
		}
	}

	if t == "" || t[0] != '(' {
		return complain()
	}
	t = t[1:]

	idx := strings.IndexByte(t, ')')
	if idx < 0 {
		return complain()
	}
	toDerefText, rest := t[:idx], t[idx+1:]
	t = rest

	toDeref, err := resolveDerefInner(opts, r, toDerefText)
	if err != nil {
		return complain()
	}

	var postcrement float64
	for t != "" && (t[0] == '+' || t[0] == '-') {
		postcrement += crements[t[0]]
		t = t[1:]
	}
	if t != "" {
		return complain()
	}

	kind := DerefAddress
	if toDeref.Kind.Has(Register) {
		kind = DerefRegister
	}
	kind |= toDeref.Kind & Unresolved

	return Arg{
		Kind:        kind,
		Stripped:    stripped,
		Integer:     toDeref.Integer,
		Precrement:  precrement,
		Postcrement: postcrement,
	}, nil
}

// resolveDerefInner parses whatever is found inside a dereference's
// parentheses: it may be a register or a memory address, never a deref,
// number, or label-free bare integer with '#'.
func resolveDerefInner(opts Options, r Resolver, t string) (Arg, error) {
	if a, err := parseRegister(opts, r, t); err == nil {
		return a, nil
	}
	return parseAddress(opts, r, t)
}

// AllResolved reports whether every Arg in args is fully resolved.
func AllResolved(args []Arg) bool {
	for _, a := range args {
		if a.Kind.Has(Unresolved) {
			return false
		}
	}
	return true
}
