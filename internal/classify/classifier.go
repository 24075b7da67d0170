// Package classify cleans raw log lines and classifies them into chat,
// system, info, or noise, extracting speaker and channel where applicable.
//
// Classification is two-stage: an ordered list of drop rules suppresses
// known noise, then positive rules assign a category in priority order
// (System, Chat, Info). Both stages and the chat shape family are ordered,
// first-match-wins lists; see rules.go.
package classify

import "strings"

// Clean strips timestamp prefixes, log-level and thread tags, and color or
// style codes from a raw line. It is idempotent and never fails: if cleaning
// removes everything, the original trimmed line is returned instead.
//
// Every substitution strictly shortens the line, so the fixpoint loop
// terminates.
func Clean(raw string) string {
	trimmed := strings.TrimSpace(raw)
	cleaned := trimmed
	for {
		next := cleaned
		for _, step := range cleanSteps {
			next = step.re.ReplaceAllString(next, step.repl)
		}
		next = strings.TrimSpace(next)
		if next == cleaned {
			break
		}
		cleaned = next
	}
	if cleaned == "" {
		return trimmed
	}
	return cleaned
}

// Classifier classifies lines under an immutable Options snapshot.
type Classifier struct {
	opts Options
}

// New returns a Classifier using the given options snapshot.
func New(opts Options) *Classifier {
	return &Classifier{opts: opts}
}

// Options returns the snapshot this classifier was built with.
func (c *Classifier) Options() Options { return c.opts }

// WithOptions returns a new Classifier for a different snapshot. The
// receiver is unchanged; pattern tables are shared.
func (c *Classifier) WithOptions(opts Options) *Classifier {
	return &Classifier{opts: opts}
}

// Classify cleans and classifies a single raw line. It never fails: lines
// that defeat every pattern land in CategoryInfo (or CategoryNoise when
// dropped), and internal extraction problems degrade to the cleaned text.
func (c *Classifier) Classify(raw string) Message {
	line := strings.TrimSpace(raw)
	if line == "" {
		return Message{Raw: raw, Category: CategoryNoise}
	}

	cleaned := Clean(line)
	msg := Message{Raw: line, Text: cleaned, Body: cleaned}

	if c.opts.FilterEnabled && c.dropped(line, cleaned) {
		msg.Category = CategoryNoise
		return msg
	}

	if c.isSystem(cleaned) {
		msg.Category = CategorySystem
		msg.Channel = ChannelSystem
		msg.Keep = true
		msg.Translate = true
		return msg
	}

	if c.isChat(cleaned) {
		msg.Category = CategoryChat
		if speaker, body := Extract(cleaned); speaker != "" {
			msg.Speaker = speaker
			msg.Body = body
		}
		msg.Channel = detectChannel(line, cleaned)
		msg.Keep = true
		msg.Translate = true
		return msg
	}

	msg.Category = CategoryInfo
	// Show-all surfaces Info lines for display only; only disabling the
	// master filter makes everything translatable.
	msg.Keep = !c.opts.FilterEnabled || c.opts.ShowAll
	msg.Translate = !c.opts.FilterEnabled
	return msg
}

// ShouldKeep reports whether a raw line survives filtering under the current
// options. With the master filter disabled it is true for every non-empty
// line; otherwise System and Chat lines are kept, plus Info lines when
// show-all is set.
func (c *Classifier) ShouldKeep(raw string) bool {
	line := strings.TrimSpace(raw)
	if line == "" {
		return false
	}
	if !c.opts.FilterEnabled {
		return true
	}
	return c.Classify(line).Keep
}

// dropped evaluates the stage-A drop rules against the raw and cleaned
// forms. First match wins.
func (c *Classifier) dropped(line, cleaned string) bool {
	for _, r := range dropRules {
		if r.re.MatchString(line) || r.re.MatchString(cleaned) {
			return true
		}
	}
	if !c.opts.KeepRewards {
		for _, r := range rewardDropRules {
			if r.re.MatchString(line) || r.re.MatchString(cleaned) {
				return true
			}
		}
	}
	return false
}

// isSystem reports whether cleaned matches the system keep-list. Always
// false when the keep-system option is off.
func (c *Classifier) isSystem(cleaned string) bool {
	if !c.opts.KeepSystem {
		return false
	}
	for _, r := range systemKeepRules {
		if r.re.MatchString(cleaned) {
			return true
		}
	}
	return false
}

// isChat reports whether cleaned has one of the chat line shapes and
// carries translatable content.
func (c *Classifier) isChat(cleaned string) bool {
	if cleaned == "" {
		return false
	}
	// Memory-stat pseudo-speakers are not chat no matter the shape.
	if reservedAngleTag.MatchString(cleaned) {
		return false
	}
	for _, r := range chatShapes {
		if r.re.MatchString(cleaned) {
			if r.name == "colon-speaker" {
				break // needs the stricter reserved-token check below
			}
			return hasContent.MatchString(cleaned)
		}
	}
	if m := colonChat.FindStringSubmatch(cleaned); m != nil {
		speaker, body := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if reservedSpeaker.MatchString(speaker) {
			return false
		}
		return body != "" && hasContent.MatchString(body)
	}
	return false
}

// Extract pulls (speaker, message) out of a cleaned chat line. When no chat
// shape matches, or the captured speaker is a reserved token, it returns
// ("", cleaned) so callers can fall back to the whole line.
func Extract(cleaned string) (speaker, message string) {
	for _, re := range extractShapes {
		m := re.FindStringSubmatch(cleaned)
		if m == nil {
			continue
		}
		speaker = strings.TrimSpace(m[1])
		message = strings.TrimSpace(m[2])
		if reservedSpeaker.MatchString(speaker) {
			return "", cleaned
		}
		return speaker, message
	}
	return "", cleaned
}

// detectChannel scans the raw and cleaned text for channel keyword groups in
// priority order. Lines with no keyword hit are public.
func detectChannel(raw, cleaned string) Channel {
	txt := raw + " " + cleaned
	for _, cr := range channelRules {
		if cr.re.MatchString(txt) {
			return cr.channel
		}
	}
	return ChannelPublic
}
