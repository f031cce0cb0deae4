// Package classify maps upstream post signals onto the stored type flags.
// The policy is versioned through the Classifier interface so the mapping is
// a configuration choice rather than a forked code path.
package classify

import (
	"regexp"
	"strings"

	"tweet_tracker/internal/domain"
)

// Classification holds the derived type flags for one post. A post is never
// both a retweet and a quote; retweet takes precedence.
type Classification struct {
	IsReply   bool
	IsRetweet bool
	IsQuote   bool
}

// Classifier derives type flags from a raw post.
type Classifier interface {
	Name() string
	Classify(p domain.RawPost) Classification
}

// Metadata trusts the upstream API flags. This is the authoritative policy.
type Metadata struct{}

func (Metadata) Name() string { return "metadata" }

func (Metadata) Classify(p domain.RawPost) Classification {
	isRetweet := p.IsRetweeted
	return Classification{
		IsReply:   p.ReplyToID != "",
		IsRetweet: isRetweet,
		IsQuote:   p.QuoteFlag && !isRetweet,
	}
}

var quoteLinkRe = regexp.MustCompile(`https://(?:twitter|x)\.com/\w+/status/\d+`)

// TextHeuristic sniffs the post text for classification markers. It exists
// as a fallback for feeds that do not carry reliable metadata and is less
// accurate than Metadata: a leading "RT @" marks a retweet, a leading "@"
// marks a reply, and an embedded status link marks a quote.
type TextHeuristic struct{}

func (TextHeuristic) Name() string { return "text" }

func (TextHeuristic) Classify(p domain.RawPost) Classification {
	text := strings.TrimSpace(p.Text)
	isRetweet := strings.HasPrefix(text, "RT @")
	return Classification{
		IsReply:   !isRetweet && strings.HasPrefix(text, "@"),
		IsRetweet: isRetweet,
		IsQuote:   !isRetweet && quoteLinkRe.MatchString(text),
	}
}

// ForName returns the classifier registered under name, defaulting to
// Metadata for unknown names.
func ForName(name string) Classifier {
	if name == "text" {
		return TextHeuristic{}
	}
	return Metadata{}
}
