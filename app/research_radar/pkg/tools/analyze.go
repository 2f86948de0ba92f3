package tools

import (
	"strings"
	"unicode"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/model"
)

// StepAnalyze 分析步骤名称
const StepAnalyze = "analyze"

// 关键词以 * 结尾表示前缀匹配，包含空格表示短语匹配，其余为整词匹配
var (
	positiveLexicon = []string{
		"good", "great", "success*", "progress*", "innovat*", "improv*",
		"efficien*", "benefit*", "opportunit*",
		"добре", "чудово", "успіх*", "позитив*", "прогрес*", "інновац*",
		"покращ*", "ефективн*",
	}
	negativeLexicon = []string{
		"bad", "problem*", "risk*", "challeng*", "threat*", "difficult*",
		"concern*", "fail*",
		"погано", "проблем*", "негатив*", "виклик*", "ризик*", "складн*",
		"загроз*",
	}

	keywordCategories = map[string][]string{
		"technology": {
			"ai", "artificial intelligence", "machine learning", "ml",
			"technolog*", "штучний інтелект", "технолог*",
		},
		"education": {
			"education*", "learning", "student*", "universit*", "teacher*",
			"school*", "освіт*", "навчан*", "студент*", "університет*", "викладач*",
		},
		"trends": {
			"trend*", "future", "2024", "2025", "innovat*", "майбутн*", "тренд*",
			"інновац*",
		},
	}
)

// Analyze 对搜索结果做确定性的关键词分析。纯函数，文本为空时返回 InputError
func Analyze(result *model.SearchResult) (*model.Analysis, error) {
	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return nil, &InputError{Tool: StepAnalyze, Reason: "search result has no text"}
	}
	return AnalyzeText(text), nil
}

// AnalyzeText 分析任意文本，调用方负责保证文本非空
func AnalyzeText(text string) *model.Analysis {
	tokens := tokenize(text)
	joined := " " + strings.Join(tokens, " ") + " "

	pos := countHits(tokens, joined, positiveLexicon)
	neg := countHits(tokens, joined, negativeLexicon)

	a := &model.Analysis{
		PositiveHits:  pos,
		NegativeHits:  neg,
		WordCount:     len(strings.Fields(text)),
		SentenceCount: strings.Count(text, ".") + strings.Count(text, "!") + strings.Count(text, "?"),
		KeywordCounts: make(map[string]int, len(keywordCategories)),
	}

	switch {
	case pos > neg:
		a.SentimentLabel = model.Positive
	case neg > pos:
		a.SentimentLabel = model.Negative
	default:
		a.SentimentLabel = model.Neutral
	}
	if pos+neg == 0 {
		a.SentimentScore = 0.5
	} else {
		a.SentimentScore = float64(pos) / float64(pos+neg)
	}

	for category, words := range keywordCategories {
		if n := countHits(tokens, joined, words); n > 0 {
			a.KeywordCounts[category] = n
		}
	}

	return a
}

// tokenize 小写化并按非字母数字切分
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func countHits(tokens []string, joined string, lexicon []string) int {
	total := 0
	for _, kw := range lexicon {
		switch {
		case strings.Contains(kw, " "):
			total += strings.Count(joined, " "+kw+" ")
		case strings.HasSuffix(kw, "*"):
			stem := strings.TrimSuffix(kw, "*")
			for _, tok := range tokens {
				if strings.HasPrefix(tok, stem) {
					total++
				}
			}
		default:
			for _, tok := range tokens {
				if tok == kw {
					total++
				}
			}
		}
	}
	return total
}
