// File: internal/services/chatbot/matcher.go
package chatbot

import (
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"
)

// BotName is the sender recorded on every generated reply.
const BotName = "ECHO AI"

// DefaultReply is returned when no rule matches.
const DefaultReply = "I’m not sure how to respond. Try something else!"

// Rule pairs a pattern with either one reply or a set of candidate replies.
// When Replies is non-empty one entry is chosen uniformly at random. A
// single Reply may reference $1, which is substituted with the pattern's
// first capture group.
type Rule struct {
	Pattern *regexp.Regexp
	Reply   string
	Replies []string
}

// Matcher turns message text into a scripted reply. Rules are evaluated in
// order and the first match wins. Rules are data: adding one never touches
// the matching algorithm.
type Matcher struct {
	rules        []Rule
	defaultReply string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMatcher builds a matcher over the given rules. The random source is
// injected so tests can fix the seed and assert deterministically.
func NewMatcher(rules []Rule, defaultReply string, rng *rand.Rand) *Matcher {
	return &Matcher{rules: rules, defaultReply: defaultReply, rng: rng}
}

// NewDefaultMatcher is the production matcher: the full reply table with a
// time-seeded random source.
func NewDefaultMatcher() *Matcher {
	return NewMatcher(Replies(), DefaultReply, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// Match returns the reply for the given text.
func (m *Matcher) Match(text string) string {
	for _, rule := range m.rules {
		groups := rule.Pattern.FindStringSubmatch(text)
		if groups == nil {
			continue
		}
		if len(rule.Replies) > 0 {
			m.mu.Lock()
			reply := rule.Replies[m.rng.Intn(len(rule.Replies))]
			m.mu.Unlock()
			return reply
		}
		reply := rule.Reply
		if strings.Contains(reply, "$1") {
			capture := ""
			if len(groups) > 1 {
				capture = groups[1]
			}
			reply = strings.ReplaceAll(reply, "$1", capture)
		}
		return reply
	}
	return m.defaultReply
}
