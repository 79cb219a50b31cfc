/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package registry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"dirpx.dev/unitx/apis"
)

// ErrParse is returned for malformed quantity or unit expressions.
var ErrParse = errors.New("unitx(registry): cannot parse expression")

// preprocess runs the configured preprocessors in order.
func (r *Registry) preprocess(s string) string {
	for _, p := range r.cfg.Preprocessors {
		s = p(s)
	}
	return s
}

// parseQuantity parses strings like "10 meter", "3.5 newton*meter" or plain
// "meter" (implicit magnitude one). Non-integer literals become exact
// decimals under NumericDecimal.
func (r *Registry) parseQuantity(s string) (*apis.Quantity, error) {
	s = strings.TrimSpace(r.preprocess(s))
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrParse)
	}

	head := s
	rest := ""
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		head, rest = s[:i], strings.TrimSpace(s[i+1:])
	}

	var raw any
	if _, err := strconv.ParseFloat(head, 64); err == nil {
		if r.cfg.Numeric == apis.NumericDecimal && !integerLiteral(head) {
			d, _, derr := apd.NewFromString(head)
			if derr != nil {
				return nil, fmt.Errorf("%w: %q", ErrParse, head)
			}
			raw = d
		} else {
			f, _ := strconv.ParseFloat(head, 64)
			raw = f
		}
	} else {
		// No leading number: the whole string is a unit expression.
		raw = float64(1)
		rest = s
	}

	m, err := r.comp.Coerce(r, raw)
	if err != nil {
		return nil, err
	}
	e := apis.Expression{}
	if rest != "" {
		if e, err = r.parseExpression(rest); err != nil {
			return nil, err
		}
	}
	return apis.NewQuantity(r, m, e), nil
}

func integerLiteral(s string) bool {
	return !strings.ContainsAny(s, ".eE")
}

// parseExpression parses a unit expression into canonical-name exponents.
// Grammar: term (("*" | "/" | whitespace) term)*, term: name ("**" | "^")
// integer. Parsed results are memoized when expression caching is enabled.
func (r *Registry) parseExpression(expr string) (apis.Expression, error) {
	s := strings.TrimSpace(r.preprocess(expr))
	if s == "" || s == "dimensionless" {
		return apis.Expression{}, nil
	}
	if r.exprs != nil {
		if hit, ok := r.exprs.Get(s); ok {
			return hit.(apis.Expression).Clone(), nil
		}
	}

	out := apis.Expression{}
	sign := 1
	i := 0
	n := len(s)
	for i < n {
		for i < n && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i >= n {
			break
		}

		start := i
		for i < n && isNameByte(s[i]) {
			i++
		}
		if start == i {
			return nil, fmt.Errorf("%w: %q", ErrParse, expr)
		}
		name := s[start:i]
		canonical, ok := r.canonical(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUndefinedUnit, name)
		}

		exp := 1
		if i+1 < n && s[i] == '*' && s[i+1] == '*' {
			i += 2
			exp, i, ok = parseInt(s, i)
		} else if i < n && s[i] == '^' {
			i++
			exp, i, ok = parseInt(s, i)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrParse, expr)
		}

		out[canonical] += sign * exp
		if out[canonical] == 0 {
			delete(out, canonical)
		}

		for i < n && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		sign = 1
		if i < n {
			switch s[i] {
			case '*':
				i++
			case '/':
				sign = -1
				i++
			}
			// Bare whitespace between terms means multiplication.
		}
	}

	if r.exprs != nil {
		r.exprs.SetDefault(s, out.Clone())
	}
	return out, nil
}

func isNameByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// parseInt reads an optionally signed integer at s[i:].
func parseInt(s string, i int) (int, int, bool) {
	neg := false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		neg = s[i] == '-'
		i++
	}
	start := i
	v := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		v = v*10 + int(s[i]-'0')
		i++
	}
	if i == start {
		return 0, i, false
	}
	if neg {
		v = -v
	}
	return v, i, true
}

// canonical resolves a name or alias to its canonical definition name.
func (r *Registry) canonical(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.index[r.key(name)]
	return c, ok
}
