// Package languages maps user-facing language names to the identifiers the
// execution provider expects.
package languages

import "strings"

// versionIndexes holds the provider version selector for each canonical
// language id. Membership in this table is what makes a language runnable.
var versionIndexes = map[string]string{
	"java":    "4", // Java 17
	"cpp17":   "0", // C++ 17
	"c":       "0",
	"csharp":  "0",
	"python3": "0",
	"nodejs":  "0",
	"ruby":    "2",
	"swift":   "1",
	"go":      "0",
}

// aliases maps common language names to canonical provider ids.
var aliases = map[string]string{
	"javascript": "nodejs",
	"js":         "nodejs",
	"python":     "python3",
	"cplusplus":  "cpp17",
	"cpp":        "cpp17",
	"csharp":     "csharp",
	"java":       "java",
	"ruby":       "ruby",
	"swift":      "swift",
	"go":         "go",
	"c":          "c",
}

// Normalize resolves a language name to its canonical provider id. Matching
// is case-insensitive. Unknown names pass through lower-cased; Supported
// decides whether they are runnable.
func Normalize(language string) string {
	lower := strings.ToLower(language)
	if canonical, ok := aliases[lower]; ok {
		return canonical
	}
	return lower
}

// VersionIndex returns the provider version selector for a language,
// resolving aliases first. Languages absent from the table get "0".
func VersionIndex(language string) string {
	if index, ok := versionIndexes[Normalize(language)]; ok {
		return index
	}
	return "0"
}

// Supported reports whether a canonical language id can be executed.
func Supported(canonical string) bool {
	_, ok := versionIndexes[canonical]
	return ok
}
