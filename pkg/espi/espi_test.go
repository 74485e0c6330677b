package espi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/espiscope/pkg/domain"
)

const companyPage = `<html><body>
<table class="espi">
<thead><tr><th>Data</th><th>Godzina</th><th>Spółka</th><th>Tytuł</th></tr></thead>
<tbody>
<tr><td colspan="4">2024</td></tr>
<tr>
  <td> 2024-05-10 </td><td>17:45</td><td><a href="/firma/11bit">11 BIT STUDIOS SA</a></td>
  <td><a href="/wiadomosci/firmy/11-bit-raport-okresowy-q1">Raport okresowy   kwartalny QSr 1/2024</a></td>
</tr>
<tr>
  <td>2024-05-09</td><td>08:10</td><td><a href="/firma/11bit">11 BIT STUDIOS SA</a></td>
  <td><a href="https://other.example.com/abs">Zbycie akcji przez osobę zarządzającą</a></td>
</tr>
<tr><td>2024-05-08</td><td>08:00</td><td>11 BIT STUDIOS SA</td><td>   </td></tr>
</tbody></table>
<table><tbody><tr><td>a</td><td>b</td><td>c</td><td>ignored second table</td></tr></tbody></table>
</body></html>`

func TestFetcher_Fetch(t *testing.T) {
	var gotPath, gotQuery, gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery, gotUA = r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(companyPage))
	}))
	defer ts.Close()

	f := NewFetcher(FetcherConfig{Timeout: time.Second, UserAgent: "test-agent"})
	f.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	ref := SourceRef(ts.URL+"/espi/espi/{year}?company={id}&selectCompany={id}", "1")
	res, err := f.Fetch(context.Background(), ref)
	require.NoError(t, err)

	assert.Equal(t, "/espi/espi/2024", gotPath)
	assert.Equal(t, "company=1&selectCompany=1", gotQuery)
	assert.Equal(t, "test-agent", gotUA)

	require.Len(t, res, 2, "separator row and empty title row skipped")
	assert.Equal(t, domain.Announcement{
		Date: "2024-05-10", Time: "17:45", Company: "11 BIT STUDIOS SA",
		Title: "Raport okresowy kwartalny QSr 1/2024",
		URL:   ts.URL + "/wiadomosci/firmy/11-bit-raport-okresowy-q1",
	}, res[0])
	assert.Equal(t, "https://other.example.com/abs", res[1].URL)
}

func TestFetcher_FetchErrors(t *testing.T) {
	tbl := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name:    "bad status",
			handler: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) },
			check: func(t *testing.T, err error) {
				var he *HTTPError
				require.True(t, errors.As(err, &he))
				assert.Equal(t, http.StatusBadGateway, he.StatusCode)
				assert.Contains(t, err.Error(), "unexpected status code: 502")
			},
		},
		{
			name:    "no table",
			handler: func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("<html><body><p>maintenance</p></body></html>")) },
			check: func(t *testing.T, err error) {
				var pe *ParseError
				require.True(t, errors.As(err, &pe))
				assert.Equal(t, "announcements table not found", pe.Reason)
			},
		},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()
			f := NewFetcher(FetcherConfig{Timeout: time.Second})
			res, err := f.Fetch(context.Background(), ts.URL)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, domain.ErrFetchFailed)
			tt.check(t, err)
		})
	}
}

func TestFetcher_EmptyTable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<table><tbody></tbody></table>"))
	}))
	defer ts.Close()

	res, err := NewFetcher(FetcherConfig{}).Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.NotNil(t, res)
}

func TestFetcher_Latin2Page(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-2")
		_, _ = w.Write([]byte("<table><tr><td>2024-05-10</td><td>10:00</td><td>Sp\xf3\xb3ka SA</td><td>Zbycie akcji</td></tr></table>"))
	}))
	defer ts.Close()

	res, err := NewFetcher(FetcherConfig{}).Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Spółka SA", res[0].Company)
}

func TestFetcher_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()

	f := NewFetcher(FetcherConfig{Timeout: 50 * time.Millisecond})
	st := time.Now()
	_, err := f.Fetch(context.Background(), ts.URL)
	require.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.Less(t, time.Since(st), 900*time.Millisecond)
}

func TestFetcher_CircuitBreaker(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	f := NewFetcher(FetcherConfig{Timeout: time.Second, Breaker: BreakerConfig{MinRequests: 3, FailureThreshold: 0.5, Timeout: time.Minute}})
	for i := 0; i < 3; i++ {
		_, err := f.Fetch(context.Background(), ts.URL)
		require.ErrorIs(t, err, domain.ErrFetchFailed)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	// breaker is open, server is not called
	_, err := f.Fetch(context.Background(), ts.URL)
	require.ErrorIs(t, err, domain.ErrFetchFailed)
	var he *HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, 0, he.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetcher_ExcerptFailuresKeepPagesAvailable(t *testing.T) {
	var missing, broken int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			atomic.AddInt32(&missing, 1)
			w.WriteHeader(http.StatusNotFound)
		case "/broken":
			atomic.AddInt32(&broken, 1)
			w.WriteHeader(http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte(companyPage))
		}
	}))
	defer ts.Close()

	f := NewFetcher(FetcherConfig{Timeout: time.Second, Breaker: BreakerConfig{MinRequests: 3, FailureThreshold: 0.5, Timeout: time.Minute}})
	for i := 0; i < 5; i++ {
		_, err := f.Excerpt(context.Background(), ts.URL+"/missing", 100)
		require.ErrorIs(t, err, domain.ErrFetchFailed)
	}
	assert.Equal(t, int32(5), atomic.LoadInt32(&missing), "not found pages don't open the breaker")

	// 5 successes counted for 404s, the fifth 500 reaches the 0.5 failure ratio
	for i := 0; i < 6; i++ {
		_, err := f.Excerpt(context.Background(), ts.URL+"/broken", 100)
		require.ErrorIs(t, err, domain.ErrFetchFailed)
	}
	assert.Equal(t, int32(5), atomic.LoadInt32(&broken), "details breaker opened on server errors")

	res, err := f.Fetch(context.Background(), ts.URL+"/page")
	require.NoError(t, err, "company pages have their own breaker")
	assert.Len(t, res, 2)
}

const genericDetailPage = `<html><head><title>Raport bieżący</title></head><body>
<nav><ul><li><a href="/">Menu główne</a></li><li><a href="/o-nas">O nas</a></li></ul></nav>
<div class="content"><h1>Raport bieżący nr 12/2024</h1>
<p>Zarząd spółki informuje o zawarciu umowy dystrybucyjnej z partnerem handlowym na rynku europejskim.
Umowa została zawarta na czas nieokreślony i przewiduje wyłączność na terytorium wskazanych krajów.</p>
<p>Szacunkowa wartość umowy w okresie pierwszych trzech lat obowiązywania wynosi około dwunastu milionów złotych.
Pozostałe warunki umowy nie odbiegają od warunków powszechnie stosowanych w tego typu umowach.</p>
<p>Spółka uznała umowę za istotną ze względu na jej wpływ na przyszłe przychody ze sprzedaży.</p>
</div>
<footer>Wszelkie prawa zastrzeżone</footer>
</body></html>`

func TestFetcher_Excerpt(t *testing.T) {
	page := `<html><body><article>
<p class="field--name-field-lead">Zarząd <b>spółki</b> informuje &amp; ogłasza</p>
<p>Druga   część<script>alert(1)</script></p>
<p></p>
<p>Źródło</p><p>Kontakt</p><p>Zastrzeżenie</p>
</article></body></html>`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/none":
			_, _ = w.Write([]byte("<html><body></body></html>"))
			return
		case "/generic":
			_, _ = w.Write([]byte(genericDetailPage))
			return
		}
		_, _ = w.Write([]byte(page))
	}))
	defer ts.Close()
	f := NewFetcher(FetcherConfig{Timeout: time.Second})

	text, err := f.Excerpt(context.Background(), ts.URL+"/a", 0)
	require.NoError(t, err)
	assert.Equal(t, "Zarząd spółki informuje & ogłasza\n\nDruga część", text)

	text, err = f.Excerpt(context.Background(), ts.URL+"/a", 6)
	require.NoError(t, err)
	assert.Equal(t, "Zarząd…", text)

	text, err = f.Excerpt(context.Background(), ts.URL+"/generic", 0)
	require.NoError(t, err)
	assert.Contains(t, text, "Zarząd spółki informuje o zawarciu umowy dystrybucyjnej")
	assert.NotContains(t, text, "Menu główne")

	_, err = f.Excerpt(context.Background(), ts.URL+"/none", 0)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "article not found", pe.Reason)
}

func TestClassify(t *testing.T) {
	tbl := []struct {
		title string
		want  Category
	}{
		{"Raport okresowy roczny RR", CategoryResults},
		{"RAPORT OKRESOWY kwartalny", CategoryResults},
		{"Zawiadomienia w trybie art. 19 ust. 1 Rozporządzenia MAR - Jan Kowalski", CategoryShares},
		{"Zbycie akcji przez osobę zarządzającą", CategoryShares},
		{"Zwołanie walnego zgromadzenia", CategoryGeneral},
		{"", CategoryGeneral},
	}
	for _, tt := range tbl {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.title))
		})
	}
}

func TestSourceRef(t *testing.T) {
	ref := SourceRef("", "62")
	assert.Equal(t, "https://biznes.pap.pl/espi/espi/{year}?company=62&selectCompany=62", ref)
	assert.Equal(t, "https://biznes.pap.pl/espi/espi/2025?company=62&selectCompany=62",
		PageURL(ref, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "http://x/7", SourceRef("http://x/{id}", "7"))
}

func TestErrorsText(t *testing.T) {
	he := &HTTPError{URL: "http://x", Err: fmt.Errorf("dial failed")}
	assert.Equal(t, "fetch http://x: dial failed", he.Error())
	pe := &ParseError{URL: "http://x", Reason: "bad"}
	assert.Equal(t, "parse http://x: bad", pe.Error())
	assert.True(t, strings.HasPrefix((&ParseError{URL: "u", Reason: "r", Err: errors.New("e")}).Error(), "parse u: r: e"))
}
