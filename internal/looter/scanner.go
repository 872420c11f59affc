package looter

import (
	"context"
	"html"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/txmazing/primelooter/internal/models"
)

const (
	baseURL = "https://gaming.amazon.com"

	// HomeURL is the storefront page that lists the offer cards.
	HomeURL = baseURL + "/home"
)

// Storefront selectors for the home page. The claim-page selectors live in
// claim.go.
const (
	selOfferCard      = "div[data-a-target='offer-card']"
	selOfferTitle     = ".item-card-details__body__primary"
	selOfferPublisher = ".item-card-details__body__secondary"
	selOfferLink      = "a[data-a-target='learn-more-card']"
	selClaimedBadge   = "div[data-a-target='notification-success--text']"
	selSignInButton   = "button[data-a-target='sign-in-button']"
)

// Scan captures the rendered storefront page and extracts its offer cards.
// A fresh call re-queries the live page; nothing is cached between scans.
func Scan(ctx context.Context, page Page) ([]models.Offer, string, error) {
	markup, err := page.HTML(ctx)
	if err != nil {
		return nil, "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, markup, err
	}

	if hasLoginWall(doc) {
		return nil, markup, &AuthError{Err: ErrLoginWall}
	}

	return ParseOffers(doc), markup, nil
}

func hasLoginWall(doc *goquery.Document) bool {
	return doc.Find(selSignInButton).Length() > 0
}

// ParseOffers walks the offer cards in document order. Cards already claimed
// by the site are still returned, flagged so the executor skips them.
func ParseOffers(doc *goquery.Document) []models.Offer {
	var offers []models.Offer

	doc.Find(selOfferCard).Each(func(_ int, card *goquery.Selection) {
		offer := models.Offer{
			Title:     cleanText(card.Find(selOfferTitle).First().Text()),
			Publisher: cleanText(card.Find(selOfferPublisher).First().Text()),
		}
		if offer.Title == "" && offer.Publisher == "" {
			return
		}

		if href, ok := card.Find(selOfferLink).First().Attr("href"); ok {
			offer.URL = absoluteURL(baseURL, href)
		}

		switch {
		case card.Find(selClaimedBadge).Length() > 0:
			offer.State = models.ClaimStateClaimed
		case offer.URL == "":
			offer.State = models.ClaimStateUnavailable
		default:
			offer.State = models.ClaimStateClaimable
		}

		offers = append(offers, offer)
	})

	return offers
}

func cleanText(value string) string {
	value = html.UnescapeString(value)
	return strings.Join(strings.Fields(value), " ")
}

func absoluteURL(base string, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	baseParsed, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseParsed.ResolveReference(ref).String()
}
