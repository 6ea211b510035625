package riksdagen

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partikollen/partikollen/internal/core/domain"
	"github.com/partikollen/partikollen/internal/core/ports/driven"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(Config{
		BaseURL:           server.URL,
		RequestsPerSecond: 1000, // no throttling in tests
		HTTPClient:        server.Client(),
	})
	return client, server
}

func TestFetchPage_DocumentList(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dokumentlista/", r.URL.Path)
		w.Write([]byte(`{"dokumentlista":{"dokument":[
			{"dok_id":"HB021","titel":"Motion om tull","undertitel":"av Jane Doe (C)","datum":"2024-01-10"},
			{"dok_id":"HB022","titel":"Motion om skatt","datum":"2024-01-09"}
		]}}`))
	})
	defer server.Close()

	entries, err := client.FetchPage(context.Background(), driven.ListingQuery{
		Category: domain.CategoryMotion, Page: 1,
	})

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "HB021", entries[0].ID)
	assert.Equal(t, "av Jane Doe (C)", entries[0].Subtitle)
	assert.Equal(t, "2024-01-10", entries[0].Published)
}

func TestFetchPage_SingleEntryUnwrapped(t *testing.T) {
	// A one-entry page comes back as a bare object, not an array.
	client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"dokumentlista":{"dokument":{"dok_id":"HB099","titel":"Ensam motion"}}}`))
	})
	defer server.Close()

	entries, err := client.FetchPage(context.Background(), driven.ListingQuery{
		Category: domain.CategoryMotion, Page: 1,
	})

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "HB099", entries[0].ID)
}

func TestFetchPage_SpeechList(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/anforandelista/", r.URL.Path)
		w.Write([]byte(`{"anforandelista":{"anforande":[
			{"anforande_id":"a1","avsnittsrubrik":"Svar på interpellation","dok_titel":"Protokoll 2024/25:12",
			 "talare":"Anna Andersson","parti":"S","dok_datum":"2024-02-01",
			 "anforande_url_xml":"https://example.test/anforande/a1.xml"}
		]}}`))
	})
	defer server.Close()

	entries, err := client.FetchPage(context.Background(), driven.ListingQuery{
		Category: domain.CategoryDebate, Page: 1,
	})

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a1", entries[0].ID)
	assert.Equal(t, "Svar på interpellation", entries[0].Title)
	assert.Equal(t, "Anna Andersson", entries[0].Speaker)
	assert.Equal(t, "https://example.test/anforande/a1.html", entries[0].BodyURL)
}

func TestFetchPage_MissingWrapperMeansExhausted(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	})
	defer server.Close()

	entries, err := client.FetchPage(context.Background(), driven.ListingQuery{
		Category: domain.CategoryMotion, Page: 99,
	})

	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFetchPage_EmptyStringList(t *testing.T) {
	// The API serialises an empty list as an empty string.
	client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"dokumentlista":{"dokument":""}}`))
	})
	defer server.Close()

	entries, err := client.FetchPage(context.Background(), driven.ListingQuery{
		Category: domain.CategoryDecision, Page: 1,
	})

	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFetchPage_QueryParameters(t *testing.T) {
	var got url.Values
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte(`{}`))
	})
	defer server.Close()

	_, err := client.FetchPage(context.Background(), driven.ListingQuery{
		Category:    domain.CategoryProposition,
		Page:        3,
		PageSize:    50,
		Riksmote:    "2024/25",
		From:        "2024-01-01",
		To:          "2024-06-30",
		NewestFirst: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "prop", got.Get("doktyp"))
	assert.Equal(t, "json", got.Get("utformat"))
	assert.Equal(t, "3", got.Get("p"))
	assert.Equal(t, "50", got.Get("sz"))
	assert.Equal(t, "2024/25", got.Get("rm"))
	assert.Equal(t, "2024-01-01", got.Get("from"))
	assert.Equal(t, "2024-06-30", got.Get("tom"))
	assert.Equal(t, "datum", got.Get("sort"))
	assert.Equal(t, "desc", got.Get("sortorder"))
}

func TestFetchPage_Non200Status(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := client.FetchPage(context.Background(), driven.ListingQuery{
		Category: domain.CategoryMotion, Page: 1,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestFetchHTML_DerivedURL(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dokument/HB021.html", r.URL.Path)
		w.Write([]byte("<p>body</p>"))
	})
	defer server.Close()

	body, err := client.FetchHTML(context.Background(), domain.ListingEntry{ID: "HB021"})

	require.NoError(t, err)
	assert.Equal(t, "<p>body</p>", string(body))
}

func TestFetchPDF_DerivedURL(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dokument/HB021.pdf", r.URL.Path)
		w.Write([]byte("%PDF-1.7"))
	})
	defer server.Close()

	_, err := client.FetchPDF(context.Background(), domain.ListingEntry{ID: "HB021"})
	require.NoError(t, err)
}

func TestFetchPDF_ExplicitBodyURLSibling(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/anforande/a1.pdf", r.URL.Path)
		w.Write([]byte("%PDF-1.7"))
	})
	defer server.Close()

	_, err := client.FetchPDF(context.Background(), domain.ListingEntry{
		ID:      "a1",
		BodyURL: server.URL + "/anforande/a1.html",
	})
	require.NoError(t, err)
}

func TestClient_SetsUserAgent(t *testing.T) {
	var ua string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		w.Write([]byte(`{}`))
	})
	defer server.Close()

	_, err := client.FetchPage(context.Background(), driven.ListingQuery{
		Category: domain.CategoryMotion, Page: 1,
	})

	require.NoError(t, err)
	assert.Contains(t, ua, "partikollen")
}
