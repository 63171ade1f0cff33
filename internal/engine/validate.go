package engine

import (
	"strings"
	"unicode/utf8"

	"github.com/niamhfoley-dev/assignment-4/config"
	"github.com/niamhfoley-dev/assignment-4/internal/database"
)

// validateComment applies the content rules shared by create and update.
// Lengths are counted in characters, not bytes.
func validateComment(rules config.Rules, content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", invalid("comment must not be empty")
	}
	if n := utf8.RuneCountInString(content); n > rules.MaxCommentLen {
		return "", invalid("comment must be between 1 and %d characters", rules.MaxCommentLen)
	}
	if word, ok := prohibitedWord(rules.ProhibitedWords, content); ok {
		return "", invalid("comment contains the prohibited word %q", word)
	}
	return content, nil
}

// prohibitedWord does a case-insensitive substring match after Unicode
// case folding.
func prohibitedWord(words []string, content string) (string, bool) {
	folded := database.FoldKey(content)
	for _, w := range words {
		if w == "" {
			continue
		}
		if strings.Contains(folded, database.FoldKey(w)) {
			return w, true
		}
	}
	return "", false
}

func validatePost(rules config.Rules, title, content string) (string, string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "", invalid("title must not be empty")
	}
	if utf8.RuneCountInString(title) > rules.MaxTitleLen {
		return "", "", invalid("title must be at most %d characters", rules.MaxTitleLen)
	}
	if strings.TrimSpace(content) == "" {
		return "", "", invalid("content must not be empty")
	}
	return title, content, nil
}

// withDefaults fills the unset length limits from config.DefaultRules. A
// zero Rules value gets the defaults wholesale; otherwise the cooldown and
// the word list are taken as given, so zero and empty stay meaningful.
func withDefaults(rules config.Rules) config.Rules {
	def := config.DefaultRules()
	if rules.CommentCooldown == 0 && rules.MaxCommentLen == 0 && rules.MaxTitleLen == 0 && rules.ProhibitedWords == nil {
		return def
	}
	if rules.MaxCommentLen <= 0 {
		rules.MaxCommentLen = def.MaxCommentLen
	}
	if rules.MaxTitleLen <= 0 {
		rules.MaxTitleLen = def.MaxTitleLen
	}
	return rules
}
