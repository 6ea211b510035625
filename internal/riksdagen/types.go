package riksdagen

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/partikollen/partikollen/internal/core/domain"
)

// oneOrMany decodes a JSON value that may be absent, null, an empty
// string, a single object or an array. The listing endpoints unwrap
// single-entry pages into a bare object, so every caller would
// otherwise need the same normalisation.
type oneOrMany[T any] []T

func (o *oneOrMany[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" || string(data) == `""` {
		*o = nil
		return nil
	}

	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*o = items
		return nil
	}

	var single T
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*o = oneOrMany[T]{single}
	return nil
}

// listingEnvelope is the outer wrapper of both listing endpoints.
// A response may carry either list, or neither when the query matched
// nothing at all.
type listingEnvelope struct {
	DocumentList *documentList `json:"dokumentlista"`
	SpeechList   *speechList   `json:"anforandelista"`
}

type documentList struct {
	Documents oneOrMany[wireDocument] `json:"dokument"`
}

type speechList struct {
	Speeches oneOrMany[wireSpeech] `json:"anforande"`
}

// wireDocument is one dokumentlista entry (motions, propositions,
// decisions, protocols).
type wireDocument struct {
	DokID      string `json:"dok_id"`
	Titel      string `json:"titel"`
	Undertitel string `json:"undertitel"`
	Datum      string `json:"datum"`
	Subtyp     string `json:"subtyp"`
	Parti      string `json:"parti"`
	Beslut     string `json:"beslut"`
}

func (d wireDocument) toEntry() domain.ListingEntry {
	return domain.ListingEntry{
		ID:        d.DokID,
		Title:     d.Titel,
		Subtitle:  d.Undertitel,
		Published: d.Datum,
		Party:     d.Parti,
		Decision:  d.Beslut,
	}
}

// wireSpeech is one anforandelista entry (debate turns).
type wireSpeech struct {
	AnforandeID    string `json:"anforande_id"`
	DokTitel       string `json:"dok_titel"`
	Avsnittsrubrik string `json:"avsnittsrubrik"`
	Talare         string `json:"talare"`
	Parti          string `json:"parti"`
	DokDatum       string `json:"dok_datum"`
	URLXML         string `json:"anforande_url_xml"`
}

func (s wireSpeech) toEntry() domain.ListingEntry {
	title := s.Avsnittsrubrik
	if title == "" {
		title = s.DokTitel
	}

	// The per-speech body is published at the XML URL's .html sibling.
	bodyURL := ""
	if s.URLXML != "" {
		bodyURL = strings.Replace(s.URLXML, ".xml", ".html", 1)
	}

	return domain.ListingEntry{
		ID:        s.AnforandeID,
		Title:     title,
		Subtitle:  s.DokTitel,
		Published: s.DokDatum,
		Party:     s.Parti,
		Speaker:   s.Talare,
		BodyURL:   bodyURL,
	}
}
