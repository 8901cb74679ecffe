package cagematch

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kapu/wrestler-profile-api/internal/domain"
	"github.com/kapu/wrestler-profile-api/pkg/errors"
)

func newTestClient() *Client {
	return NewClient(ClientConfig{BaseURL: "https://www.cagematch.net", UserAgent: testUserAgent}, zap.NewNop())
}

func TestParseProfileExtractsAllFields(t *testing.T) {
	profile := newTestClient().parseProfile(parseHTML(t, profilePageJohnCena), "Fallback Name")

	assert.Equal(t, "John Cena", profile.Name)
	assert.Equal(t, "https://www.cagematch.net/site/main/img/logo.png", profile.ImageURL)
	assert.Equal(t, "Won the WWE Championship sixteen times. Rapper.", profile.Bio)
	assert.Equal(t, `185 cm (6'1")`, profile.Height)
	assert.Equal(t, "114 kg (251 lbs)", profile.Weight)
	assert.Equal(t, "West Newbury, Massachusetts, USA", profile.Hometown)
	assert.NotNil(t, profile.Timeline)
	assert.Empty(t, profile.Timeline)
}

func TestParseProfileMissingEverything(t *testing.T) {
	profile := newTestClient().parseProfile(parseHTML(t, profilePageBare), "John Cena")

	assert.Equal(t, "John Cena", profile.Name)
	assert.Empty(t, profile.ImageURL)
	assert.Equal(t, domain.FallbackBio, profile.Bio)
	assert.Empty(t, profile.Height)
	assert.Empty(t, profile.Weight)
	assert.Empty(t, profile.Hometown)
	assert.Equal(t, []domain.TimelineEntry{}, profile.Timeline)
}

func TestParseProfileAbsoluteImageKept(t *testing.T) {
	page := `<html><body><img src="https://cdn.example.test/a.jpg"><img src="/second.png"></body></html>`
	profile := newTestClient().parseProfile(parseHTML(t, page), "X")
	assert.Equal(t, "https://cdn.example.test/a.jpg", profile.ImageURL)
}

func TestParseProfileImageWithoutSrc(t *testing.T) {
	page := `<html><body><img alt="no source"><img src="/second.png"></body></html>`
	profile := newTestClient().parseProfile(parseHTML(t, page), "X")
	assert.Empty(t, profile.ImageURL)
}

func TestParseProfileEmptyTidbitsUsesFallback(t *testing.T) {
	page := `<html><body><div class="Borderless Font9">   <span> </span> </div></body></html>`
	profile := newTestClient().parseProfile(parseHTML(t, page), "X")
	assert.Equal(t, domain.FallbackBio, profile.Bio)
}

func TestParseProfileTruncatesLongBio(t *testing.T) {
	long := strings.Repeat("word ", 200)
	page := `<html><body><div class="Borderless Font9">` + long + `</div></body></html>`

	profile := newTestClient().parseProfile(parseHTML(t, page), "X")

	require.True(t, strings.HasSuffix(profile.Bio, "..."))
	assert.Equal(t, 503, utf8.RuneCountInString(profile.Bio))
	assert.True(t, strings.HasPrefix(profile.Bio, "word word"))
}

func TestParseProfileBioAtLimitNotTruncated(t *testing.T) {
	exact := strings.Repeat("a", 500)
	page := `<html><body><div class="Borderless Font9">` + exact + `</div></body></html>`

	profile := newTestClient().parseProfile(parseHTML(t, page), "X")
	assert.Equal(t, exact, profile.Bio)
}

func TestParseProfileInfoRowsLastMatchWins(t *testing.T) {
	page := `<html><body><div class="InformationBoxTable">
<div class="InformationBoxRow"><div class="InformationBoxTitle">Height:</div><div class="InformationBoxContents">180 cm</div></div>
<div class="InformationBoxRow"><div class="InformationBoxTitle">Billed height:</div><div class="InformationBoxContents">188 cm</div></div>
<div class="InformationBoxRow"><div class="InformationBoxTitle">Weight:</div></div>
<div class="InformationBoxRow"><div class="InformationBoxTitle">BIRTHPLACE:</div><div class="InformationBoxContents"> Tokyo, Japan </div></div>
</div></body></html>`

	profile := newTestClient().parseProfile(parseHTML(t, page), "X")

	assert.Equal(t, "188 cm", profile.Height)
	assert.Empty(t, profile.Weight)
	assert.Equal(t, "Tokyo, Japan", profile.Hometown)
}

func TestParseProfileInfoValuesJoinNestedText(t *testing.T) {
	page := `<html><body><div class="InformationBoxTable">
<div class="InformationBoxRow"><div class="InformationBoxTitle"> Birth<span>place</span>: </div><div class="InformationBoxContents"><a href="?id=8">Winnipeg</a>, <b>Manitoba</b> , Canada</div></div>
<div class="InformationBoxRow"><div class="InformationBoxTitle">Height:</div><div class="InformationBoxContents">183 cm <span>(6'0")</span></div></div>
</div></body></html>`

	profile := newTestClient().parseProfile(parseHTML(t, page), "X")

	assert.Equal(t, "Winnipeg,Manitoba, Canada", profile.Hometown)
	assert.Equal(t, `183 cm(6'0")`, profile.Height)
}

func TestParseProfileRowsOutsideTableIgnored(t *testing.T) {
	page := `<html><body>
<div class="InformationBoxRow"><div class="InformationBoxTitle">Height:</div><div class="InformationBoxContents">180 cm</div></div>
</body></html>`

	profile := newTestClient().parseProfile(parseHTML(t, page), "X")
	assert.Empty(t, profile.Height)
}

func TestFetchProfileNon200IsUpstreamError(t *testing.T) {
	site := newFakeSite(searchPageJohnCena, map[string]string{"691": profilePageJohnCena})
	site.profileStatus = http.StatusBadGateway
	client, _ := startFakeSite(t, site)

	_, err := client.FetchProfile(context.Background(), domain.SearchCandidate{
		DisplayName: "John Cena",
		ProfileURL:  client.BaseURL() + "/?id=2&nr=691",
	})

	var upstream *errors.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "Failed to fetch wrestler profile", upstream.Message)
	assert.Equal(t, http.StatusBadGateway, upstream.Status)
}
