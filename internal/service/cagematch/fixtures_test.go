package cagematch

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
)

const testUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

const searchPageJohnCena = `<html><body>
<div class="TableContents">
  <a href="?id=8&nr=1">WWE</a>
  <table>
    <tr><th>Name</th></tr>
    <tr><td><a href="?id=2&amp;nr=691">John Cena</a></td></tr>
  </table>
</div>
</body></html>`

// searchPageResultsTable mirrors the wrestlers table: rank, name,
// birthplace, rating, votes. Kenny Omega appears twice.
const searchPageResultsTable = `<html><body>
<table class="TBase">
  <tr class="THeaderRow"><th>#</th><th>Name</th><th>Birthplace</th><th>Rating</th><th>Votes</th></tr>
  <tr><td>1</td><td><a href="?id=2&amp;nr=11">Kenny King</a></td><td>Las Vegas, Nevada, USA</td><td>6.12</td><td>140</td></tr>
  <tr><td>2</td><td><a href="?id=2&amp;nr=12">Kenny Dykstra</a></td><td>Boston, Massachusetts, USA</td><td></td><td>n/a</td></tr>
  <tr><td>3</td><td><a href="?id=2&amp;nr=2250">Kenny Omega</a></td><td>Winnipeg, Manitoba, Canada</td><td>9.41</td><td>1204 </td></tr>
  <tr><td>4</td><td><a href="?id=2&amp;nr=2250&amp;page=2">Kenny Omega</a></td><td>Winnipeg, Manitoba, Canada</td><td>9.41</td><td>1204</td></tr>
</table>
</body></html>`

const profilePageJohnCena = `<html><head><title>John Cena</title></head><body>
<img src="/site/main/img/logo.png">
<h1 class="TextHeader">  John Cena  </h1>
<div class="InformationBoxTable">
  <div class="InformationBoxRow"><div class="InformationBoxTitle">Birthplace:</div><div class="InformationBoxContents">West Newbury, Massachusetts, USA</div></div>
  <div class="InformationBoxRow"><div class="InformationBoxTitle">Height:</div><div class="InformationBoxContents">185 cm (6'1")</div></div>
  <div class="InformationBoxRow"><div class="InformationBoxTitle">Weight:</div><div class="InformationBoxContents">114 kg (251 lbs)</div></div>
  <div class="InformationBoxRow"><div class="InformationBoxTitle">Gender:</div><div class="InformationBoxContents">male</div></div>
</div>
<table class="Borderless Font9">
  <tr><td>Won the <b>WWE Championship</b>
      sixteen times.</td></tr>
  <tr><td>Rapper.</td></tr>
</table>
</body></html>`

const profilePageBare = `<html><body><p>No structured data.</p></body></html>`

// fakeSite serves search and profile pages keyed by the "id" query parameter.
type fakeSite struct {
	mu            sync.Mutex
	searchStatus  int
	searchPage    string
	searchPages   map[string]string // query -> html, overrides searchPage
	profileStatus int
	profiles      map[string]string // nr -> html
	searchQueries []string
	profileHits   []string
	userAgents    []string
}

func newFakeSite(searchPage string, profiles map[string]string) *fakeSite {
	return &fakeSite{
		searchStatus:  http.StatusOK,
		searchPage:    searchPage,
		profileStatus: http.StatusOK,
		profiles:      profiles,
	}
}

func (f *fakeSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.userAgents = append(f.userAgents, r.UserAgent())
	query := r.URL.Query()

	switch query.Get("id") {
	case "666":
		search := query.Get("search")
		f.searchQueries = append(f.searchQueries, search)
		if f.searchStatus != http.StatusOK {
			w.WriteHeader(f.searchStatus)
			return
		}
		if page, ok := f.searchPages[search]; ok {
			fmt.Fprint(w, page)
			return
		}
		fmt.Fprint(w, f.searchPage)
	case "2":
		nr := query.Get("nr")
		f.profileHits = append(f.profileHits, nr)
		if f.profileStatus != http.StatusOK {
			w.WriteHeader(f.profileStatus)
			return
		}
		page, ok := f.profiles[nr]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, page)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeSite) profileRequests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.profileHits...)
}

func startFakeSite(t *testing.T, site *fakeSite) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(site)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:   server.URL + "/",
		UserAgent: testUserAgent,
	}, zap.NewNop())
	return client, server
}

func searchPageWithLinks(links ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><table>")
	for _, link := range links {
		b.WriteString("<tr><td>")
		b.WriteString(link)
		b.WriteString("</td></tr>")
	}
	b.WriteString("</table></body></html>")
	return b.String()
}
