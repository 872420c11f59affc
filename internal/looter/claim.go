package looter

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/txmazing/primelooter/internal/config"
	"github.com/txmazing/primelooter/internal/models"
)

// Claim-page selectors.
const (
	selClaimButton         = "button[data-a-target='buy-box_call-to-action']"
	selLinkAccountModal    = "div[data-a-target='LinkAccountModal']"
	selAlreadyLinkedButton = "button[data-a-target='AlreadyLinkedAccountButton']"
	selThankYouTitle       = "div[class^='thank-you-title']"
	selCopyCodeInput       = "div[data-a-target='copy-code-input'] input"
	selCodeInstructions    = "p[data-a-target='BodyText']"

	// Confirmation is whichever renders first: the thank-you banner, or for
	// code-granting offers the copy-code panel, which can appear without a
	// banner at all.
	selClaimConfirmation = selThankYouTitle + ", " + selCopyCodeInput
)

// Executor claims every scanned offer that passes the allow-list. One
// offer's failure never stops the batch.
type Executor struct {
	Page    Page
	Allow   config.AllowList
	Timeout time.Duration
	Codes   *CodeWriter
	DumpDir string // empty disables failure dumps
	Log     zerolog.Logger
}

// Run walks the offers in scan order and returns one result per offer.
func (e *Executor) Run(ctx context.Context, offers []models.Offer) []models.Result {
	results := make([]models.Result, 0, len(offers))

	for _, offer := range offers {
		result := models.Result{Offer: offer}

		switch {
		case offer.State == models.ClaimStateClaimed:
			result.Outcome = models.OutcomeAlreadyClaimed
		case offer.State == models.ClaimStateUnavailable:
			result.Outcome = models.OutcomeUnavailable
		case !e.Allow.Matches(offer.Publisher):
			result.Outcome = models.OutcomeNotMatched
		default:
			code, err := e.claim(ctx, offer)
			if err != nil {
				claimErr := &ClaimError{Title: offer.Title, Publisher: offer.Publisher, Err: err}
				e.Log.Error().
					Str("title", offer.Title).
					Str("publisher", offer.Publisher).
					Str("url", offer.URL).
					Err(err).
					Msg("claim failed")
				result.Outcome = models.OutcomeFailed
				result.Error = claimErr.Error()
				e.dumpFailure(ctx, offer)
				break
			}
			result.Outcome = models.OutcomeClaimed
			result.Code = code
			if code != "" {
				result.Offer.GrantsCode = true
			}
			e.Log.Info().
				Str("title", offer.Title).
				Str("publisher", offer.Publisher).
				Msg("claimed offer")
		}

		e.Log.Debug().
			Str("title", offer.Title).
			Str("publisher", offer.Publisher).
			Str("outcome", string(result.Outcome)).
			Msg("offer processed")
		results = append(results, result)
	}

	return results
}

// claim opens the offer page, clicks the claim affordance, and waits for the
// site to confirm. Returns the redemption code when the offer grants one.
func (e *Executor) claim(ctx context.Context, offer models.Offer) (string, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	claimCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := e.Page.Navigate(claimCtx, offer.URL); err != nil {
		return "", err
	}

	if err := e.Page.WaitVisible(claimCtx, selClaimButton); err != nil {
		return "", fmt.Errorf("claim button not found: %w", err)
	}
	if err := e.Page.Click(claimCtx, selClaimButton); err != nil {
		return "", fmt.Errorf("click claim button: %w", err)
	}

	// Some offers require a linked publisher account; the modal offers an
	// "already linked" path that completes the claim.
	if ok, _ := e.Page.Exists(claimCtx, selLinkAccountModal); ok {
		if err := e.Page.Click(claimCtx, selAlreadyLinkedButton); err != nil {
			return "", fmt.Errorf("dismiss link-account modal: %w", err)
		}
	}

	// One wait on the selector union, so a copy-code panel that appears
	// without the banner still confirms inside the timeout budget.
	if err := e.Page.WaitVisible(claimCtx, selClaimConfirmation); err != nil {
		return "", fmt.Errorf("no confirmation from site within %s: %w", timeout, err)
	}

	code := ""
	if ok, _ := e.Page.Exists(claimCtx, selCopyCodeInput); ok {
		var err error
		code, err = e.Page.Value(claimCtx, selCopyCodeInput)
		if err != nil {
			return "", fmt.Errorf("read claim code: %w", err)
		}
		instructions, _ := e.Page.Text(claimCtx, selCodeInstructions)
		if e.Codes != nil {
			if err := e.Codes.Append(offer.Title, code, instructions); err != nil {
				e.Log.Warn().Err(err).Str("title", offer.Title).Msg("could not write claim code to file")
			}
		}
	}

	return code, nil
}

func (e *Executor) dumpFailure(ctx context.Context, offer models.Offer) {
	if e.DumpDir == "" {
		return
	}
	markup, err := e.Page.HTML(ctx)
	if err != nil {
		e.Log.Warn().Err(err).Msg("could not capture page for dump")
		return
	}
	path, err := writeDump(e.DumpDir, offer.Title+".html", markup)
	if err != nil {
		e.Log.Warn().Err(err).Msg("could not write dump")
		return
	}
	e.Log.Info().Str("path", path).Msg("wrote failed-claim page dump")
}
