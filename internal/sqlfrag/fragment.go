// Package sqlfrag composes parameterized SQL out of small fragments.
//
// A Fragment is a sequence of literal text and bound values. Fragments are
// combined with SQL, Join and And; values stay bound through every step and
// are only turned into dialect placeholders by Render. No function in this
// package writes a value into the SQL text.
package sqlfrag

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

type token struct {
	text  string
	value any
	bound bool
}

// Fragment is an immutable piece of parameterized SQL. The zero value is the
// empty fragment.
type Fragment struct {
	tokens []token
	err    error
}

// SQL builds a fragment from format, where every '?' consumes one argument.
// A Fragment argument is spliced in place; any other argument is bound.
// A mismatch between placeholders and arguments is reported by Render.
func SQL(format string, args ...any) Fragment {
	parts := strings.Split(format, "?")
	if len(parts)-1 != len(args) {
		return Fragment{err: fmt.Errorf("sqlfrag: %q has %d placeholders, got %d args",
			format, len(parts)-1, len(args))}
	}

	var f Fragment
	for i, part := range parts {
		f.tokens = appendText(f.tokens, part)
		if i == len(args) {
			break
		}
		switch a := args[i].(type) {
		case Fragment:
			f = f.splice(a)
		case *Fragment:
			f = f.splice(*a)
		default:
			f.tokens = append(f.tokens, token{value: a, bound: true})
		}
	}
	return f
}

// Raw returns literal SQL text. '?' has no special meaning in text.
func Raw(text string) Fragment {
	return Fragment{tokens: appendText(nil, text)}
}

// Param returns a fragment holding a single bound value.
func Param(v any) Fragment {
	return Fragment{tokens: []token{{value: v, bound: true}}}
}

// List binds every value and separates the placeholders with commas, for use
// inside IN (...). An empty list yields the empty fragment.
func List[T any](values []T) Fragment {
	return Join(", ", lo.Map(values, func(v T, _ int) Fragment {
		return Param(v)
	})...)
}

// Join concatenates the non-empty fragments with sep between them.
func Join(sep string, frags ...Fragment) Fragment {
	var out Fragment
	first := true
	for _, f := range frags {
		if f.skippable() {
			continue
		}
		if !first {
			out.tokens = appendText(out.tokens, sep)
		}
		out = out.splice(f)
		first = false
	}
	return out
}

// And folds the non-empty fragments left to right into "a AND b AND c".
// The result is empty when every input is empty.
func And(frags ...Fragment) Fragment {
	var acc Fragment
	for _, f := range frags {
		switch {
		case f.skippable():
			continue
		case acc.skippable():
			acc = f
		default:
			acc = SQL("? AND ?", acc, f)
		}
	}
	return acc
}

// Group wraps f in parentheses, or returns it unchanged when empty.
func Group(f Fragment) Fragment {
	if f.skippable() {
		return f
	}
	return SQL("(?)", f)
}

// Empty reports whether f holds no bound values and no non-blank text.
func (f Fragment) Empty() bool {
	for _, t := range f.tokens {
		if t.bound || strings.TrimSpace(t.text) != "" {
			return false
		}
	}
	return true
}

// Err returns the first composition error recorded in f.
func (f Fragment) Err() error {
	return f.err
}

// Args returns the bound values of f in placeholder order.
func (f Fragment) Args() []any {
	var args []any
	for _, t := range f.tokens {
		if t.bound {
			args = append(args, t.value)
		}
	}
	return args
}

// Render flattens f into SQL text for dialect d plus its arguments.
// Placeholders are numbered from 1, left to right.
func (f Fragment) Render(d Dialect) (string, []any, error) {
	if f.err != nil {
		return "", nil, f.err
	}

	var (
		sb   strings.Builder
		args []any
	)
	for _, t := range f.tokens {
		if !t.bound {
			sb.WriteString(t.text)
			continue
		}
		args = append(args, t.value)
		sb.WriteString(d.Placeholder(len(args)))
	}
	return sb.String(), args, nil
}

// String renders f with '?' placeholders. Composition errors are shown
// inline.
func (f Fragment) String() string {
	s, _, err := f.Render(Question)
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return s
}

func (f Fragment) skippable() bool {
	return f.err == nil && f.Empty()
}

// splice returns f followed by g. Neither input is modified.
func (f Fragment) splice(g Fragment) Fragment {
	out := Fragment{
		tokens: make([]token, 0, len(f.tokens)+len(g.tokens)),
		err:    f.err,
	}
	if out.err == nil {
		out.err = g.err
	}
	out.tokens = append(out.tokens, f.tokens...)
	for _, t := range g.tokens {
		if t.bound {
			out.tokens = append(out.tokens, t)
		} else {
			out.tokens = appendText(out.tokens, t.text)
		}
	}
	return out
}

// appendText adds text to tokens, merging it into a trailing text token.
func appendText(tokens []token, text string) []token {
	if text == "" {
		return tokens
	}
	if n := len(tokens); n > 0 && !tokens[n-1].bound {
		merged := tokens[n-1].text + text
		tokens = append(tokens[:n-1:n-1], token{text: merged})
		return tokens
	}
	return append(tokens, token{text: text})
}
