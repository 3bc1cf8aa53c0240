package convert

import (
	"context"
	"math"
	"strconv"
	"strings"

	"marketbot/internal/adapters"
	"marketbot/internal/domain"

	"github.com/sirupsen/logrus"
)

type OutcomeKind string

const (
	// OutcomeNone means the input did not belong to an active dialogue and
	// the caller should fall through to its other routing.
	OutcomeNone            OutcomeKind = "none"
	OutcomePromptFrom      OutcomeKind = "prompt_from"
	OutcomePromptTo        OutcomeKind = "prompt_to"
	OutcomePromptAmount    OutcomeKind = "prompt_amount"
	OutcomeReport          OutcomeKind = "report"
	OutcomeRateUnavailable OutcomeKind = "rate_unavailable"
	OutcomeCancelled       OutcomeKind = "cancelled"
)

// Outcome is what the dialogue asks the transport to say next. Retry marks a
// re-prompt after invalid input at the same stage.
type Outcome struct {
	Kind      OutcomeKind
	From      string
	To        string
	Amount    float64
	Rate      float64
	Converted float64
	Retry     bool
}

// Dialogue drives the fixed from -> to -> amount conversion sequence, one
// session per chat. The final rate is always a live upstream call, never the
// snapshot cache.
type Dialogue struct {
	sessions  adapters.SessionStore
	rates     adapters.RateClient
	validator *CurrencyValidator
}

// Start opens a fresh session. Restarting mid-dialogue discards the previous
// progress: the most recent start wins.
func (d *Dialogue) Start(chatID int64) Outcome {
	d.sessions.Put(chatID, domain.Session{Stage: domain.StageAwaitingFrom})
	return Outcome{Kind: OutcomePromptFrom}
}

// Select handles a currency pick for whichever code the session is waiting
// on. Picks outside an active dialogue produce OutcomeNone.
func (d *Dialogue) Select(chatID int64, code string) Outcome {
	code = strings.ToUpper(strings.TrimSpace(code))

	sess, ok := d.sessions.Get(chatID)
	if !ok {
		return Outcome{Kind: OutcomeNone}
	}

	switch sess.Stage {
	case domain.StageAwaitingFrom:
		if err := d.validator.ValidateCode(code); err != nil {
			return Outcome{Kind: OutcomePromptFrom, Retry: true}
		}
		sess.From = code
		sess.Stage = domain.StageAwaitingTo
		d.sessions.Put(chatID, sess)
		return Outcome{Kind: OutcomePromptTo, From: sess.From}

	case domain.StageAwaitingTo:
		if err := d.validator.ValidatePair(sess.From, code); err != nil {
			return Outcome{Kind: OutcomePromptTo, From: sess.From, Retry: true}
		}
		sess.To = code
		sess.Stage = domain.StageAwaitingAmount
		d.sessions.Put(chatID, sess)
		return Outcome{Kind: OutcomePromptAmount, From: sess.From, To: sess.To}

	default:
		return Outcome{Kind: OutcomeNone}
	}
}

// SubmitAmount handles free text while the session awaits an amount. Invalid
// input keeps the session alive and re-prompts; a rate failure at the final
// step ends the dialogue so the user is not stuck retrying a dead upstream.
func (d *Dialogue) SubmitAmount(ctx context.Context, chatID int64, text string) Outcome {
	sess, ok := d.sessions.Get(chatID)
	if !ok || sess.Stage != domain.StageAwaitingAmount {
		return Outcome{Kind: OutcomeNone}
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return Outcome{Kind: OutcomePromptAmount, From: sess.From, To: sess.To, Retry: true}
	}

	rate, err := d.rates.PairRate(ctx, sess.From, sess.To)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"from": sess.From, "to": sess.To}).
			Error("Conversion rate lookup failed")
		d.sessions.Delete(chatID)
		return Outcome{Kind: OutcomeRateUnavailable, From: sess.From, To: sess.To}
	}

	d.sessions.Delete(chatID)
	return Outcome{
		Kind:      OutcomeReport,
		From:      sess.From,
		To:        sess.To,
		Amount:    amount,
		Rate:      rate,
		Converted: math.Round(amount*rate*100) / 100,
	}
}

// Cancel aborts an in-progress dialogue at any stage.
func (d *Dialogue) Cancel(chatID int64) Outcome {
	if _, ok := d.sessions.Get(chatID); !ok {
		return Outcome{Kind: OutcomeNone}
	}
	d.sessions.Delete(chatID)
	return Outcome{Kind: OutcomeCancelled}
}

func NewDialogue(sessions adapters.SessionStore, rates adapters.RateClient, validator *CurrencyValidator) *Dialogue {
	return &Dialogue{sessions: sessions, rates: rates, validator: validator}
}
