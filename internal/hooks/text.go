package hooks

import (
	"fmt"
	"regexp"

	"github.com/dlclark/regexp2"
)

// Replace returns a hook replacing every match of pattern with replacement.
//
// Patterns use ECMAScript syntax and are not escaped: callers that want a
// literal match must escape metacharacters themselves. The replacement may
// reference groups as $1 or ${name}.
func Replace(pattern, replacement string) (HookFunc, error) {
	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	return func(text string) (string, error) {
		return re.Replace(text, replacement, -1, -1)
	}, nil
}

// StripField returns a hook removing every serialized `"field": "<value>"`
// member together with its separator. Output of an indented JSON encoder
// stays valid JSON.
func StripField(field string) HookFunc {
	member := `"` + regexp.QuoteMeta(field) + `": "(?:[^"\\]|\\.)*"`

	// ,\n  "field": "value"
	following := regexp.MustCompile(`,\n\s*` + member)
	// {\n  "field": "value",
	leading := regexp.MustCompile(`(\{)\n\s*` + member + `,?`)

	return func(text string) (string, error) {
		text = following.ReplaceAllString(text, "")
		return leading.ReplaceAllString(text, "$1"), nil
	}
}
