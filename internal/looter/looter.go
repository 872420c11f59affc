// Package looter implements the claim cycle: verify the session, open the
// storefront, scan the offer cards, and claim everything the allow-list
// permits.
package looter

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/txmazing/primelooter/internal/browser"
	"github.com/txmazing/primelooter/internal/config"
	"github.com/txmazing/primelooter/internal/cookies"
	"github.com/txmazing/primelooter/internal/models"
	"github.com/txmazing/primelooter/internal/network"
)

const storefrontHost = "gaming.amazon.com"

// Runner executes one full cycle per call. Input files are re-read on every
// cycle so a refreshed cookie export is picked up without a restart.
type Runner struct {
	cfg    models.RunConfig
	client *network.Client
	log    zerolog.Logger
}

func NewRunner(cfg models.RunConfig, client *network.Client, log zerolog.Logger) *Runner {
	return &Runner{cfg: cfg, client: client, log: log}
}

// RunCycle performs session-open → scan → claim → session-close and returns
// one result per scanned offer. Any error aborts only this cycle.
func (r *Runner) RunCycle(ctx context.Context) ([]models.Result, error) {
	allow, err := config.LoadPublishers(r.cfg.PublishersPath)
	if err != nil {
		return nil, err
	}
	if allow.MatchAll() {
		r.log.Info().Msg("allow-list contains the wildcard, claiming every publisher")
	} else {
		r.log.Info().Int("publishers", allow.Len()).Msg("loaded publisher allow-list")
	}

	jar, err := cookies.ParseFile(r.cfg.CookiesPath)
	if err != nil {
		return nil, err
	}
	for _, warning := range jar.Warnings {
		r.log.Warn().Str("detail", warning).Msg("cookie file")
	}

	if err := r.client.VerifySession(ctx, jar.HeaderFor(storefrontHost, time.Now())); err != nil {
		if errors.Is(err, network.ErrRequestFailed) {
			return nil, err
		}
		return nil, &AuthError{Err: err}
	}
	r.log.Debug().Msg("session verified, launching browser")

	session, err := browser.NewSession(ctx, browser.Options{
		Headless: r.cfg.Headless,
		Debug:    r.cfg.Debug,
		Logger:   r.log,
	})
	if err != nil {
		return nil, err
	}
	defer session.Close()

	if err := session.InjectCookies(jar); err != nil {
		return nil, err
	}
	if err := session.Navigate(ctx, HomeURL); err != nil {
		return nil, err
	}

	offers, markup, err := Scan(ctx, session)
	if r.cfg.DumpHTML && markup != "" {
		if path, dumpErr := writeDump(r.cfg.DumpDir, "home.html", markup); dumpErr != nil {
			r.log.Warn().Err(dumpErr).Msg("could not dump storefront page")
		} else {
			r.log.Info().Str("path", path).Msg("wrote storefront page dump")
		}
	}
	if err != nil {
		return nil, err
	}

	r.summarizeOffers(offers)

	dumpDir := ""
	if r.cfg.DumpHTML {
		dumpDir = r.cfg.DumpDir
	}
	executor := &Executor{
		Page:    session,
		Allow:   allow,
		Timeout: r.cfg.ClaimTimeout,
		Codes:   &CodeWriter{Path: r.cfg.CodesPath},
		DumpDir: dumpDir,
		Log:     r.log,
	}
	return executor.Run(ctx, offers), nil
}

// summarizeOffers logs the scan partitioned by claim state before any claim
// is attempted.
func (r *Runner) summarizeOffers(offers []models.Offer) {
	byState := map[models.ClaimState][]string{}
	for _, offer := range offers {
		byState[offer.State] = append(byState[offer.State], offer.Title)
	}

	r.log.Info().
		Int("total", len(offers)).
		Strs("claimable", byState[models.ClaimStateClaimable]).
		Strs("claimed", byState[models.ClaimStateClaimed]).
		Strs("unavailable", byState[models.ClaimStateUnavailable]).
		Msg("scanned storefront offers")
}
