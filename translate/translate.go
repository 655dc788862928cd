// Package translate turns region text into target-language text through a
// chat model.
//
// Dialogue on a page is translated in reading order and each request carries
// the earlier lines of the same page, so that pronouns and tone stay
// consistent. The prior dialogue is passed explicitly through [History]
// rather than kept in package state.
package translate

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tsawler/retypeset/model"
)

// ErrEmptyTranslation is returned when a model answers with no text.
var ErrEmptyTranslation = errors.New("translate: empty translation")

// Translator translates one piece of text given the dialogue before it.
type Translator interface {
	Translate(ctx context.Context, text string, history []string) (string, error)
}

// Func adapts a plain function to Translator.
type Func func(ctx context.Context, text string, history []string) (string, error)

// Translate calls f.
func (f Func) Translate(ctx context.Context, text string, history []string) (string, error) {
	return f(ctx, text, history)
}

// Identity returns text unchanged.
var Identity Translator = Func(func(_ context.Context, text string, _ []string) (string, error) {
	return text, nil
})

// Upper wraps t and upper-cases its output, matching the all-caps lettering
// used in comics.
func Upper(t Translator) Translator {
	return Func(func(ctx context.Context, text string, history []string) (string, error) {
		out, err := t.Translate(ctx, text, history)
		if err != nil {
			return "", err
		}
		return strings.ToUpper(out), nil
	})
}

var thinkPattern = regexp.MustCompile(`(?s)<think>.*?</think>`)

// StripThinking removes <think>...</think> spans emitted by reasoning models
// and trims the result.
func StripThinking(s string) string {
	return strings.TrimSpace(thinkPattern.ReplaceAllString(s, ""))
}

// Regions translates each region's text in order and stores the result in
// Translated. Each source/translation pair is added to hist before the next
// region is sent. Regions with empty text are skipped. A nil hist starts a
// fresh dialogue.
func Regions(ctx context.Context, t Translator, regions []model.RegionBox, hist *History) error {
	if hist == nil {
		hist = NewHistory(0)
	}
	for i := range regions {
		r := &regions[i]
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		out, err := t.Translate(ctx, r.Text, hist.Lines())
		if err != nil {
			return fmt.Errorf("region %d: %w", r.Cluster, err)
		}
		r.Translated = out
		hist.Add(r.Text, out)
	}
	return nil
}
