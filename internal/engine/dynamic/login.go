package dynamic

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/auto-cv/jobscrape/internal/poll"
)

// login performs the platform's credential login: navigate to the login
// page, fill the form, submit, and wait (bounded) for the post-login marker.
// A missing marker is returned as an error, but callers treat it as a
// warning: extraction proceeds either way, since public postings often
// render without auth.
func (e *Extractor) login(browserCtx context.Context) error {
	l := e.profile.Login
	if l.URL == "" {
		return nil
	}

	log.Debug().
		Str("login_url", l.URL).
		Str("username", e.credentials.Username).
		Msg("Logging in")

	loginCtx, cancel := context.WithTimeout(browserCtx, 30*time.Second)
	defer cancel()

	err := chromedp.Run(loginCtx,
		chromedp.Navigate(l.URL),
		chromedp.WaitVisible(l.UsernameField, chromedp.ByQuery),
		chromedp.Clear(l.UsernameField, chromedp.ByQuery),
		chromedp.SendKeys(l.UsernameField, e.credentials.Username, chromedp.ByQuery),
		chromedp.Clear(l.PasswordField, chromedp.ByQuery),
		chromedp.SendKeys(l.PasswordField, e.credentials.Password, chromedp.ByQuery),
		chromedp.Submit(l.PasswordField, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("submit login form: %w", err)
	}

	// Login success is heuristic: a marker element that only exists once
	// authenticated. Challenges (captcha, 2FA) land here as a timeout.
	cfg := poll.DefaultConfig()
	cfg.Budget = e.settleBudget

	err = poll.Until(loginCtx, cfg, func(context.Context) (bool, error) {
		var present bool
		script := "document.querySelector(" + strconv.Quote(l.PostLoginMarker) + ") !== null"
		if err := chromedp.Run(loginCtx, chromedp.Evaluate(script, &present)); err != nil {
			return false, err
		}
		return present, nil
	})
	if err != nil {
		return fmt.Errorf("post-login marker %q not found: %w", l.PostLoginMarker, err)
	}

	log.Debug().Str("username", e.credentials.Username).Msg("Login confirmed")
	return nil
}
