package service

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

// LanguageDetector tags a text fragment with a language code. It is an
// external collaborator; the default implementation guesses from the
// Unicode script of the text and may return "unknown".
type LanguageDetector interface {
	DetectLanguage(text string) string
}

// languageRuleSet is the per-language capability set of the pattern
// matcher: numbering-prefix patterns, heading keywords and whether
// uppercase emphasis means anything for the script.
type languageRuleSet struct {
	numbering       []*regexp.Regexp
	keywords        []string
	uppercaseSignal bool
}

// PatternMatch is the boolean-weighted contribution of the matcher,
// consumed by the heading scorer.
type PatternMatch struct {
	Numbering bool
	Keyword   bool
	Uppercase bool
}

var numberingPrefixRe = regexp.MustCompile(`^(\d+(\.\d+)*)(\s+|\.|-)`)

// fallbackNumbering applies regardless of language: decimal outlines,
// single letters and roman numerals.
var fallbackNumbering = compilePatterns([]string{
	`^\d+(\.\d+)*[\.\-]?\s+`,
	`^[A-Z][\.\)]?\s+`,
	`^[IVX]+[\.\)]?\s+`,
})

var fallbackKeywords = []string{
	"introduction", "summary", "table of contents", "references",
	"acknowledgements", "abstract", "conclusion", "overview",
	"background", "methodology", "results", "discussion",
	"revision history", "appendix", "bibliography", "contents", "preface",
}

var languageRules = map[string]languageRuleSet{
	"en": {
		numbering: compilePatterns([]string{
			`^\d+(\.\d+)*[\.\-]?\s*`, `^(?i)Chapter\s+\d+`, `^(?i)Section\s+\d+`,
		}),
		keywords:        fallbackKeywords,
		uppercaseSignal: true,
	},
	"es": {
		numbering: compilePatterns([]string{
			`^(?i)Cap[íi]tulo\s+\d+`, `^(?i)Secci[óo]n\s+\d+`,
		}),
		keywords: []string{
			"introducción", "resumen", "índice", "referencias", "agradecimientos",
			"resumen ejecutivo", "conclusión", "metodología", "resultados",
		},
		uppercaseSignal: true,
	},
	"fr": {
		numbering: compilePatterns([]string{
			`^(?i)Chapitre\s+\d+`, `^(?i)Section\s+\d+`,
		}),
		keywords: []string{
			"introduction", "résumé", "sommaire", "références", "remerciements",
			"conclusion", "méthodologie", "résultats", "discussion",
		},
		uppercaseSignal: true,
	},
	"de": {
		numbering: compilePatterns([]string{
			`^(?i)Kapitel\s+\d+`, `^(?i)Abschnitt\s+\d+`,
		}),
		keywords: []string{
			"einführung", "zusammenfassung", "inhalt", "literaturverzeichnis",
			"dank", "fazit", "methodik", "ergebnisse", "diskussion",
		},
		uppercaseSignal: true,
	},
	"it": {
		numbering: compilePatterns([]string{
			`^(?i)Capitolo\s+\d+`, `^(?i)Sezione\s+\d+`,
		}),
		keywords: []string{
			"introduzione", "sommario", "indice", "riferimenti", "ringraziamenti",
			"conclusione", "metodologia", "risultati", "discussione",
		},
		uppercaseSignal: true,
	},
	"pt": {
		numbering: compilePatterns([]string{
			`^(?i)Cap[ií]tulo\s+\d+`, `^(?i)Se[çc][ãa]o\s+\d+`,
		}),
		keywords: []string{
			"introdução", "resumo", "índice", "referências", "agradecimentos",
			"conclusão", "metodologia", "resultados", "discussão",
		},
		uppercaseSignal: true,
	},
	"ru": {
		numbering: compilePatterns([]string{
			`^Глава\s+\d+`, `^Раздел\s+\d+`,
		}),
		keywords: []string{
			"введение", "резюме", "содержание", "литература", "благодарности",
			"заключение", "методология", "результаты",
		},
		uppercaseSignal: true,
	},
	"ar": {
		numbering: compilePatterns([]string{
			`^[\x{0621}-\x{064A}]+\s+\d+`, `^الفصل\s+\d+`,
		}),
		keywords: []string{
			"مقدمة", "ملخص", "الفهرس", "المراجع", "شكر", "خلاصة", "النتائج", "المناقشة",
		},
	},
	"zh": {
		numbering: compilePatterns([]string{
			`^第[一二三四五六七八九十\d]+章`, `^[一二三四五六七八九十\d]+\.`,
		}),
		keywords: []string{
			"目录", "摘要", "结论", "参考文献", "致谢", "引言", "概述", "背景", "方法", "结果",
		},
	},
	"ja": {
		numbering: compilePatterns([]string{
			`^第[一二三四五六七八九十\d]+章`, `^[一二三四五六七八九十\d]+\.`,
		}),
		keywords: []string{
			"目次", "概要", "結論", "参考文献", "謝辞", "はじめに", "緒言", "背景", "方法", "結果",
		},
	},
	"ko": {
		numbering: compilePatterns([]string{
			`^[가-힣]+\s+\d+장`, `^제\d+장`,
		}),
		keywords: []string{
			"목차", "요약", "결론", "참고문헌", "감사", "서론", "배경", "방법", "결과",
		},
	},
	"hi": {
		numbering: compilePatterns([]string{
			`^[\x{0900}-\x{097F}]+\s+\d+`, `^अध्याय\s+\d+`,
		}),
		keywords: []string{
			"परिचय", "सारांश", "अनुक्रमणिका", "निष्कर्ष", "संदर्भ", "पृष्ठभूमि", "विधि",
		},
	},
}

func compilePatterns(patterns []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(p))
	}
	return res
}

// LanguageService dispatches heading rules by language code with an
// explicit fallback for unknown languages.
type LanguageService struct{}

func NewLanguageService() *LanguageService {
	return &LanguageService{}
}

// NormalizeLanguage reduces a language tag like "en-US" to its base
// code, or "unknown" when the tag cannot be parsed.
func (s *LanguageService) NormalizeLanguage(code string) string {
	if code == "" {
		return "unknown"
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "unknown"
	}
	base, _ := tag.Base()
	return base.String()
}

// DetectLanguage guesses a language code from the script of the first
// letter. It covers the non-Latin scripts the rule table knows about;
// Latin text defaults to English rules.
func (s *LanguageService) DetectLanguage(text string) string {
	switch ScriptOf(text) {
	case "cjk":
		return "zh"
	case "hiragana", "katakana":
		return "ja"
	case "hangul":
		return "ko"
	case "arabic":
		return "ar"
	case "devanagari":
		return "hi"
	case "cyrillic":
		return "ru"
	case "latin":
		return "en"
	}
	return "unknown"
}

// ScriptOf classifies the script of the first letter rune of text.
func ScriptOf(text string) string {
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		switch {
		case unicode.Is(unicode.Han, r):
			return "cjk"
		case unicode.Is(unicode.Hiragana, r):
			return "hiragana"
		case unicode.Is(unicode.Katakana, r):
			return "katakana"
		case unicode.Is(unicode.Hangul, r):
			return "hangul"
		case unicode.Is(unicode.Arabic, r):
			return "arabic"
		case unicode.Is(unicode.Devanagari, r):
			return "devanagari"
		case unicode.Is(unicode.Cyrillic, r):
			return "cyrillic"
		case unicode.Is(unicode.Latin, r):
			return "latin"
		}
		return "unknown"
	}
	return "unknown"
}

// Match evaluates the rule set of lang against text. Regional tags like
// "es-ES" are reduced to their base code; codes with no rule set use
// the language-agnostic fallback: numbering plus the generic Latin
// keyword list, with uppercase treated as meaningful.
func (s *LanguageService) Match(lang, text string) PatternMatch {
	text = strings.TrimSpace(text)
	rules, ok := languageRules[lang]
	if !ok {
		rules, ok = languageRules[s.NormalizeLanguage(lang)]
	}
	if !ok {
		rules = languageRuleSet{
			keywords:        fallbackKeywords,
			uppercaseSignal: true,
		}
	}

	var m PatternMatch

	for _, re := range rules.numbering {
		if re.MatchString(text) {
			m.Numbering = true
			break
		}
	}
	if !m.Numbering {
		for _, re := range fallbackNumbering {
			if re.MatchString(text) {
				m.Numbering = true
				break
			}
		}
	}

	lower := strings.ToLower(text)
	for _, kw := range rules.keywords {
		if strings.Contains(lower, kw) {
			m.Keyword = true
			break
		}
	}

	if rules.uppercaseSignal {
		n := len([]rune(text))
		if n >= 5 && n <= 50 && text == strings.ToUpper(text) && hasLetter(text) {
			m.Uppercase = true
		}
	}

	return m
}

// NumberingDepth parses a decimal numbering prefix like "2.1.3" and
// returns its depth (3), or 0 when there is no such prefix.
func (s *LanguageService) NumberingDepth(text string) int {
	m := numberingPrefixRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0
	}
	return strings.Count(m[1], ".") + 1
}

func hasLetter(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
