package comment

import "strings"

// Filter selects non-deleted comments. A zero Filter matches every comment
// that is not soft-deleted; UserID narrows to one author and Search narrows
// to comments whose hashtags or mentions contain the token.
type Filter struct {
	UserID string
	Search string
}

// ForUser builds the author-lookup filter.
func ForUser(userID string) Filter {
	return Filter{UserID: userID}
}

// ForSearch builds the search filter. An empty token matches everything.
func ForSearch(token string) Filter {
	return Filter{Search: token}
}

// Matches reports whether a comment satisfies the filter. This is the
// reference semantics; the Mongo repository compiles the same filter into a
// query document instead of calling it per-document.
func (f Filter) Matches(c *Comment) bool {
	if c.IsDeleted {
		return false
	}
	if f.UserID != "" && c.UserID != f.UserID {
		return false
	}
	if f.Search == "" {
		return true
	}
	token := strings.ToLower(f.Search)
	return containsToken(c.HashTags, token) || containsToken(c.Mentions, token)
}

// containsToken does a case-insensitive substring match against each value.
func containsToken(values []string, token string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), token) {
			return true
		}
	}
	return false
}
