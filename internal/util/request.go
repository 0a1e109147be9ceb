package util

import (
	"fmt"
	"math/rand"
)

// GenerateCorrelationID produces a short, visually distinguishable token used
// to tie together every event emitted by one logical call (including its
// retries). It deliberately isn't a UUID: the word pair makes it easy to
// eyeball-match two log lines without copy/pasting the whole token.
func GenerateCorrelationID() string {
	verbs := []string{
		"dialing", "resolving", "bridging", "routing", "handshaking",
		"streaming", "buffering", "relaying", "forwarding", "polling",
		"draining", "pooling", "retrying", "probing", "tunnelling",
	}
	nouns := []string{
		"socket", "origin", "endpoint", "datagram", "handshake",
		"keepalive", "upstream", "gateway", "payload", "frame",
		"circuit", "channel", "segment", "cursor", "session",
	}

	verb := verbs[rand.Intn(len(verbs))]
	noun := nouns[rand.Intn(len(nouns))]
	suffix := fmt.Sprintf("%04x", rand.Intn(65536))

	return fmt.Sprintf("%s-%s-%s", verb, noun, suffix)
}
