package common

import "path/filepath"

type LanguageName string

const (
	Rust       LanguageName = "rust"
	Toml       LanguageName = "toml"
	Markdown   LanguageName = "markdown"
	Json       LanguageName = "json"
	Yaml       LanguageName = "yaml"
	Javascript LanguageName = "javascript"
	TypeScript LanguageName = "typescript"
	PlainText  LanguageName = "plaintext"
)

// InferLanguageFromPath derives the editing language from a file extension.
func InferLanguageFromPath(filePath string) LanguageName {
	switch filepath.Ext(filePath) {
	case ".rs":
		return Rust
	case ".toml":
		return Toml
	case ".md":
		return Markdown
	case ".json":
		return Json
	case ".yaml", ".yml":
		return Yaml
	case ".js":
		return Javascript
	case ".ts":
		return TypeScript
	default:
		return PlainText
	}
}
