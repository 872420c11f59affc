package network

import (
	"errors"
	"testing"
)

func TestCheckCurrentUser(t *testing.T) {
	cases := []struct {
		name string
		body string
		want error
	}{
		{
			name: "valid session",
			body: `{"data":{"currentUser":{"isSignedIn":true,"isAmazonPrime":true,"isTwitchPrime":true}}}`,
			want: nil,
		},
		{
			name: "not signed in",
			body: `{"data":{"currentUser":{"isSignedIn":false}}}`,
			want: ErrNotSignedIn,
		},
		{
			name: "missing user",
			body: `{"data":{}}`,
			want: ErrNotSignedIn,
		},
		{
			name: "no prime membership",
			body: `{"data":{"currentUser":{"isSignedIn":true,"isAmazonPrime":false}}}`,
			want: ErrNoPrime,
		},
		{
			name: "no twitch link",
			body: `{"data":{"currentUser":{"isSignedIn":true,"isAmazonPrime":true,"isTwitchPrime":false}}}`,
			want: ErrNoTwitch,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkCurrentUser([]byte(tc.body))
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCheckCurrentUserMalformed(t *testing.T) {
	if err := checkCurrentUser([]byte("<html>not json</html>")); err == nil {
		t.Fatalf("expected error for malformed body")
	}
}
