package cagematch

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/kapu/wrestler-profile-api/internal/domain"
	"github.com/kapu/wrestler-profile-api/internal/util"
)

var (
	profileIDPattern  = regexp.MustCompile(`nr=(\d+)`)
	leadingIntPattern = regexp.MustCompile(`^[+-]?\d+`)
)

// Column layout of a wrestlers results row: the profile link sits in the
// name column, followed by birthplace, rating and votes.
const (
	colName = iota + 1
	colBirthplace
	colRating
	colVotes
	minResultCells
)

// Search fetches the search-results page for name and returns every wrestler
// candidate link in document order. An empty slice is not an error here.
func (c *Client) Search(ctx context.Context, name string) ([]domain.SearchCandidate, error) {
	doc, err := c.fetchDocument(ctx, c.SearchURL(name), msgSearchFailed)
	if err != nil {
		return nil, err
	}

	candidates := c.parseCandidates(doc)

	c.logger.Debug("Search candidates parsed",
		zap.String("query", name),
		zap.Int("candidates", len(candidates)))

	return candidates, nil
}

func (c *Client) parseCandidates(doc *goquery.Document) []domain.SearchCandidate {
	candidates := make([]domain.SearchCandidate, 0)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.Contains(href, profileLinkMarker) {
			return
		}

		candidate := domain.SearchCandidate{
			DisplayName: strippedText(sel),
			ProfileURL:  c.resolveLink(href),
			Rating:      domain.DefaultRating,
		}
		if match := profileIDPattern.FindStringSubmatch(href); match != nil {
			candidate.ID = match[1]
		}
		fillFromResultRow(&candidate, sel)

		candidates = append(candidates, candidate)
	})

	return candidates
}

// fillFromResultRow copies birthplace, rating and votes from the table row
// around link. Links outside a full results row are left untouched.
func fillFromResultRow(candidate *domain.SearchCandidate, link *goquery.Selection) {
	cells := link.Closest("tr").ChildrenFiltered("td")
	if cells.Length() < minResultCells {
		return
	}
	if !link.Closest("td").IsSelection(cells.Eq(colName)) {
		return
	}

	candidate.Birthplace = strings.TrimSpace(cells.Eq(colBirthplace).Text())
	if rating := strings.TrimSpace(cells.Eq(colRating).Text()); rating != "" {
		candidate.Rating = rating
	}
	candidate.Votes = leadingInt(cells.Eq(colVotes).Text())
}

// leadingInt reads the integer prefix of s, so "1,204" is 1 and "n/a" is 0.
func leadingInt(s string) int {
	n, err := strconv.Atoi(leadingIntPattern.FindString(strings.TrimSpace(s)))
	if err != nil {
		return 0
	}
	return n
}

// SortByVotes orders candidates by vote count, highest first. Ties keep
// their document order.
func SortByVotes(candidates []domain.SearchCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Votes > candidates[j].Votes
	})
}

// FilterCandidates returns the candidates that pass every threshold set in
// filter. A rating that is not a number never passes a MinRating filter, and
// Birthplace matches as a case-insensitive substring.
func FilterCandidates(candidates []domain.SearchCandidate, filter domain.SearchFilter) []domain.SearchCandidate {
	birthplace := strings.ToLower(filter.Birthplace)
	result := make([]domain.SearchCandidate, 0, len(candidates))

	for _, candidate := range candidates {
		if filter.MinVotes != nil && candidate.Votes < *filter.MinVotes {
			continue
		}
		if filter.MinRating != nil {
			rating, err := strconv.ParseFloat(candidate.Rating, 64)
			if err != nil || rating < *filter.MinRating {
				continue
			}
		}
		if birthplace != "" && !strings.Contains(strings.ToLower(candidate.Birthplace), birthplace) {
			continue
		}
		result = append(result, candidate)
	}

	return result
}

// SelectCandidate returns the first candidate whose normalized display name
// equals the normalized query, or the first candidate when none does.
// candidates must not be empty.
func SelectCandidate(query string, candidates []domain.SearchCandidate) domain.SearchCandidate {
	normQuery := util.NormalizeName(query)
	for _, candidate := range candidates {
		if util.NormalizeName(candidate.DisplayName) == normQuery {
			return candidate
		}
	}
	return candidates[0]
}

// UniqueCandidates drops repeated links, keyed by profile id when one was
// parsed and by URL otherwise. Order is preserved.
func UniqueCandidates(candidates []domain.SearchCandidate) []domain.SearchCandidate {
	seen := make(map[string]struct{}, len(candidates))
	result := make([]domain.SearchCandidate, 0, len(candidates))

	for _, candidate := range candidates {
		key := "url:" + candidate.ProfileURL
		if candidate.ID != "" {
			key = "id:" + candidate.ID
		}
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, candidate)
	}

	return result
}
