package editor

// Language describes one language the code editor can edit. Lexer is the
// chroma lexer name used for syntax highlighting.
type Language struct {
	ID        string
	Name      string
	Extension string
	Lexer     string
}

// DefaultLanguage is the language new drafts start in.
const DefaultLanguage = "c"

var languages = []Language{
	{ID: "c", Name: "C", Extension: ".c", Lexer: "c"},
	{ID: "cpp", Name: "C++", Extension: ".cpp", Lexer: "cpp"},
	{ID: "python", Name: "Python", Extension: ".py", Lexer: "python"},
	{ID: "java", Name: "Java", Extension: ".java", Lexer: "java"},
	{ID: "javascript", Name: "JavaScript", Extension: ".js", Lexer: "javascript"},
	{ID: "go", Name: "Go", Extension: ".go", Lexer: "go"},
}

// Languages returns all editable languages in menu order.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// LanguageByID looks a language up by its id, e.g. "cpp".
func LanguageByID(id string) (Language, bool) {
	for _, l := range languages {
		if l.ID == id {
			return l, true
		}
	}
	return Language{}, false
}

// NextLanguage returns the language after id in menu order, wrapping
// around. Unknown ids map to the first language.
func NextLanguage(id string) Language {
	for i, l := range languages {
		if l.ID == id {
			return languages[(i+1)%len(languages)]
		}
	}
	return languages[0]
}
