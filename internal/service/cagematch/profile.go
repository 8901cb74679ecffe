package cagematch

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kapu/wrestler-profile-api/internal/domain"
	"github.com/kapu/wrestler-profile-api/internal/util"
)

const maxBioRunes = 500

// Selectors for the profile page markup.
const (
	selectorName      = "h1.TextHeader"
	selectorTidbits   = ".Borderless.Font9"
	selectorInfoRows  = ".InformationBoxTable .InformationBoxRow"
	selectorInfoTitle = ".InformationBoxTitle"
	selectorInfoValue = ".InformationBoxContents"
)

// FetchProfile downloads the candidate's profile page and extracts the
// profile. Missing fields fall back to their defaults; only the fetch itself
// can fail.
func (c *Client) FetchProfile(ctx context.Context, candidate domain.SearchCandidate) (*domain.WrestlerProfile, error) {
	doc, err := c.fetchDocument(ctx, candidate.ProfileURL, msgProfileFailed)
	if err != nil {
		return nil, err
	}
	return c.parseProfile(doc, candidate.DisplayName), nil
}

func (c *Client) parseProfile(doc *goquery.Document, fallbackName string) *domain.WrestlerProfile {
	profile := domain.NewWrestlerProfile(fallbackName)

	if header := doc.Find(selectorName).First(); header.Length() > 0 {
		profile.Name = strings.TrimSpace(header.Text())
	}

	if src, ok := doc.Find("img").First().Attr("src"); ok {
		profile.ImageURL = c.resolveAsset(src)
	}

	if bio := extractBio(doc); bio != "" {
		profile.Bio = bio
	}

	doc.Find(selectorInfoRows).Each(func(_ int, row *goquery.Selection) {
		title := row.Find(selectorInfoTitle).First()
		value := row.Find(selectorInfoValue).First()
		if title.Length() == 0 || value.Length() == 0 {
			return
		}

		label := strings.ToLower(strippedText(title))
		content := strippedText(value)

		switch {
		case strings.Contains(label, "height"):
			profile.Height = content
		case strings.Contains(label, "weight"):
			profile.Weight = content
		case strings.Contains(label, "birthplace"):
			profile.Hometown = content
		}
	})

	return profile
}

func extractBio(doc *goquery.Document) string {
	tidbits := doc.Find(selectorTidbits).First()
	if tidbits.Length() == 0 {
		return ""
	}

	// Text() concatenates adjacent nodes without separators, so collect the
	// text nodes to keep words from neighbouring elements apart.
	parts := make([]string, 0)
	collectText(tidbits, &parts)

	return util.TruncateString(util.CollapseWhitespace(strings.Join(parts, " ")), maxBioRunes)
}

// strippedText trims every text node under sel, drops the empty ones and
// joins the rest with no separator.
func strippedText(sel *goquery.Selection) string {
	parts := make([]string, 0)
	collectText(sel, &parts)
	return strings.Join(parts, "")
}

func collectText(sel *goquery.Selection, parts *[]string) {
	sel.Contents().Each(func(_ int, node *goquery.Selection) {
		if goquery.NodeName(node) != "#text" {
			collectText(node, parts)
			return
		}
		if text := strings.TrimSpace(node.Text()); text != "" {
			*parts = append(*parts, text)
		}
	})
}
