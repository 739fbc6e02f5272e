package index

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/vitacart/prodex/internal/domain/search/filter"
	"github.com/vitacart/prodex/internal/domain/search/query"
)

// buildLexicalQuery translates free text into an FT query string.
//
// Tokens are split into a required head and an optional tail so that a
// query only matches documents containing at least ceil(msm*n) of its
// terms, while the remaining terms still lift the score when present.
// With fuzzy enabled each term also matches within edit distance 1.
func buildLexicalQuery(text string, filters filter.Filters, cfg Config) string {
	tokens := tokenize(text)

	var clauses []string
	if len(tokens) > 0 {
		required := requiredCount(len(tokens), cfg.MinShouldMatch)
		terms := make([]string, 0, len(tokens)+1)
		for i, tok := range tokens {
			term := termClause(tok, cfg.Fuzzy)
			if i >= required {
				term = "~" + term
			}
			terms = append(terms, term)
		}
		if cfg.PhraseBoost && len(tokens) > 1 {
			terms = append(terms, `~@name:"`+escapeQuery(text)+`"`)
		}
		clauses = append(clauses, "("+strings.Join(terms, " ")+")")
	} else {
		clauses = append(clauses, "*")
	}

	if f := buildFilterExpr(filters); f != "" {
		clauses = append(clauses, f)
	}

	return strings.Join(clauses, " ")
}

// buildFilterExpr translates structured filters into FT filter syntax.
// Category and brand match against the *_kw TAG aliases for exactness.
func buildFilterExpr(f filter.Filters) string {
	if f.IsEmpty() {
		return ""
	}

	var parts []string

	if f.Category() != "" {
		parts = append(parts, buildTagFilter("category_kw", f.Category()))
	}
	if f.Brand() != "" {
		parts = append(parts, buildTagFilter("brand_kw", f.Brand()))
	}
	if f.PriceMin() != nil || f.PriceMax() != nil {
		parts = append(parts, buildNumericFilter("price", f.PriceMin(), f.PriceMax()))
	}
	if f.RatingMin() != nil {
		parts = append(parts, buildNumericFilter("rating", f.RatingMin(), nil))
	}
	if f.InStock() != nil {
		parts = append(parts, fmt.Sprintf("@in_stock:{%t}", *f.InStock()))
	}

	return strings.Join(parts, " ")
}

// sortFieldFor maps a sort order to an FT SORTBY field. Relevance keeps
// the ranker's ordering and returns an empty field.
func sortFieldFor(s query.Sort) (field string, desc bool) {
	switch s {
	case query.SortPriceAsc:
		return "price", false
	case query.SortPriceDesc:
		return "price", true
	case query.SortRating:
		return "rating", true
	case query.SortName:
		return "name_kw", false
	default:
		return "", false
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func requiredCount(n int, msm float64) int {
	if n == 0 {
		return 0
	}
	required := int(math.Ceil(msm * float64(n)))
	if required < 1 {
		required = 1
	}
	if required > n {
		required = n
	}
	return required
}

func termClause(token string, fuzzy bool) string {
	escaped := escapeQuery(token)
	if fuzzy && len(token) > 2 {
		return "(" + escaped + "|%" + escaped + "%)"
	}
	return escaped
}

func buildTagFilter(key, value string) string {
	return fmt.Sprintf("@%s:{%s}", key, tagEscaper.Replace(value))
}

func buildNumericFilter(key string, min, max *float64) string {
	minBound := "-inf"
	maxBound := "+inf"
	if min != nil {
		minBound = fmt.Sprintf("%g", *min)
	}
	if max != nil {
		maxBound = fmt.Sprintf("%g", *max)
	}
	return fmt.Sprintf("@%s:[%s %s]", key, minBound, maxBound)
}

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	" ", "\\ ",
)

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
)
