package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
)

const graphqlURL = "https://gaming.amazon.com/graphql"

// Session problems detected by the pre-flight check. Each one means the exported
// cookies cannot claim loot, for a different reason.
var (
	ErrNotSignedIn = errors.New("not signed in (recreate the cookies.txt export)")
	ErrNoPrime     = errors.New("account has no Amazon Prime membership")
	ErrNoTwitch    = errors.New("account has no connected Twitch Prime account")
)

const currentUserQuery = `{"operationName":"currentUser","variables":{},"query":"query currentUser { currentUser { isSignedIn isAmazonPrime isTwitchPrime } }"}`

type currentUserResponse struct {
	Data struct {
		CurrentUser *struct {
			IsSignedIn    bool `json:"isSignedIn"`
			IsAmazonPrime bool `json:"isAmazonPrime"`
			IsTwitchPrime bool `json:"isTwitchPrime"`
		} `json:"currentUser"`
	} `json:"data"`
}

// VerifySession asks the storefront who the injected cookies belong to and
// whether that account can redeem loot.
func (c *Client) VerifySession(ctx context.Context, cookieHeader string) error {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodPost, graphqlURL, strings.NewReader(currentUserQuery))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if cookieHeader != "" {
		req.Header.Set("Cookie", cookieHeader)
	}

	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: auth check returned http %d", ErrRequestFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	return checkCurrentUser(body)
}

func checkCurrentUser(body []byte) error {
	var decoded currentUserResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fmt.Errorf("parse auth check response: %w", err)
	}

	user := decoded.Data.CurrentUser
	switch {
	case user == nil || !user.IsSignedIn:
		return ErrNotSignedIn
	case !user.IsAmazonPrime:
		return ErrNoPrime
	case !user.IsTwitchPrime:
		return ErrNoTwitch
	}
	return nil
}
