// internal/engine/provider/places.go
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	commonhttp "disposition-engine/internal/common/http"
	"disposition-engine/internal/models"
)

const (
	searchFieldMask = "places.id,places.displayName,places.formattedAddress," +
		"places.location,places.rating,places.userRatingCount," +
		"places.websiteUri,places.nationalPhoneNumber"
	detailsFieldMask = "id,editorialSummary,reviews"

	// Only the top slice of each result page is worth a details call.
	maxDetailsEnrichment = 12

	maxResultCount = 20
)

// PlacesProvider searches the Google Places (New) Text Search API and
// enriches the leading results with editorial summaries and review text.
type PlacesProvider struct {
	apiKey  string
	baseURL string
	client  *commonhttp.Client
}

// NewPlacesProvider builds a live client. timeout bounds each HTTP call.
func NewPlacesProvider(apiKey, baseURL string, timeout time.Duration) *PlacesProvider {
	return &PlacesProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  commonhttp.NewClient(timeout),
	}
}

func (p *PlacesProvider) Name() string {
	return "google_places"
}

type textSearchRequest struct {
	TextQuery      string        `json:"textQuery"`
	MaxResultCount int           `json:"maxResultCount"`
	LocationBias   *locationBias `json:"locationBias,omitempty"`
}

type locationBias struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type textSearchResponse struct {
	Places []placeResult `json:"places"`
}

type placeResult struct {
	ID              string         `json:"id"`
	DisplayName     *localizedText `json:"displayName"`
	FormattedAddr   string         `json:"formattedAddress"`
	Location        *latLng        `json:"location"`
	Rating          *float64       `json:"rating"`
	UserRatingCount *int           `json:"userRatingCount"`
	WebsiteURI      string         `json:"websiteUri"`
	NationalPhone   string         `json:"nationalPhoneNumber"`
}

type localizedText struct {
	Text string `json:"text"`
}

type placeDetails struct {
	ID               string         `json:"id"`
	EditorialSummary *localizedText `json:"editorialSummary"`
	Reviews          []placeReview  `json:"reviews"`
}

type placeReview struct {
	Text *localizedText `json:"text"`
}

// Search runs a text search and maps the results to candidates. Transient
// upstream failures are retried once before the error is surfaced.
func (p *PlacesProvider) Search(ctx context.Context, q Query) ([]models.Candidate, error) {
	body := textSearchRequest{
		TextQuery:      q.Text,
		MaxResultCount: maxResultCount,
	}
	if q.CenterLat != nil && q.CenterLng != nil {
		body.LocationBias = &locationBias{
			Circle: circle{
				Center: latLng{Latitude: *q.CenterLat, Longitude: *q.CenterLng},
				Radius: milesToMeters(q.RadiusMiles),
			},
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &Error{Kind: Permanent, Provider: p.Name(), Err: err}
	}

	var resp textSearchResponse
	err = p.doWithRetry(ctx, http.MethodPost, p.baseURL+"/places:searchText", payload, searchFieldMask, &resp)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.Candidate, 0, len(resp.Places))
	for _, place := range resp.Places {
		if place.ID == "" || place.DisplayName == nil {
			continue
		}
		candidates = append(candidates, p.toCandidate(place, q))
	}

	p.enrichDetails(ctx, candidates, resp.Places)
	return candidates, nil
}

func (p *PlacesProvider) toCandidate(place placeResult, q Query) models.Candidate {
	c := models.Candidate{
		PartnerID:   "gplaces:" + place.ID,
		Name:        place.DisplayName.Text,
		PartnerType: q.PartnerType,
		Contact: models.Contact{
			Website: place.WebsiteURI,
			Phone:   place.NationalPhone,
			Address: place.FormattedAddr,
		},
		Rating:           place.Rating,
		UserRatingsTotal: place.UserRatingCount,
	}

	// When geometry is missing on either side, assume the worst case within
	// the searched radius rather than dropping the candidate.
	c.DistanceMiles = float64(q.RadiusMiles)
	if place.Location != nil && q.CenterLat != nil && q.CenterLng != nil {
		c.DistanceMiles = HaversineMiles(
			*q.CenterLat, *q.CenterLng,
			place.Location.Latitude, place.Location.Longitude,
		)
	}

	if place.WebsiteURI != "" {
		c.Snippets.WebsiteSnippet = place.WebsiteURI
	}
	return c
}

// enrichDetails fetches editorial summaries and review excerpts for the
// leading candidates. Enrichment is best-effort: a failed details call
// leaves the candidate with its search-time snippets.
func (p *PlacesProvider) enrichDetails(ctx context.Context, candidates []models.Candidate, places []placeResult) {
	limit := len(candidates)
	if limit > maxDetailsEnrichment {
		limit = maxDetailsEnrichment
	}

	for i := 0; i < limit; i++ {
		placeID := places[i].ID
		var details placeDetails
		err := p.doWithRetry(ctx, http.MethodGet, p.baseURL+"/places/"+placeID, nil, detailsFieldMask, &details)
		if err != nil {
			continue
		}

		if details.EditorialSummary != nil {
			candidates[i].Snippets.PlaceDetails = details.EditorialSummary.Text
		}
		for _, review := range details.Reviews {
			if review.Text != nil && review.Text.Text != "" {
				candidates[i].Snippets.ReviewsSnippet = review.Text.Text
				break
			}
		}
	}
}

// doWithRetry executes one request, retrying exactly once when the failure
// is classified transient.
func (p *PlacesProvider) doWithRetry(ctx context.Context, method, url string, payload []byte, fieldMask string, out interface{}) error {
	err := p.do(ctx, method, url, payload, fieldMask, out)
	if err != nil && IsTransient(err) {
		err = p.do(ctx, method, url, payload, fieldMask, out)
	}
	return err
}

func (p *PlacesProvider) do(ctx context.Context, method, url string, payload []byte, fieldMask string, out interface{}) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return &Error{Kind: Permanent, Provider: p.Name(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", p.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := p.client.Do(req)
	if err != nil {
		// Network-level failures (timeouts, resets) are retryable.
		return &Error{Kind: Transient, Provider: p.Name(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: Transient, Provider: p.Name(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(raw), 200))
		return &Error{Kind: classifyStatus(resp.StatusCode), Provider: p.Name(), Err: err}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		// A 200 with an undecodable body reads like a truncated or garbled
		// response, so it gets the same single retry as a dropped connection.
		return &Error{Kind: Transient, Provider: p.Name(), Err: fmt.Errorf("malformed response: %w", err)}
	}
	return nil
}

// classifyStatus maps upstream HTTP statuses to retry classes. The Places
// backend intermittently answers 400 during quota turbulence, so it sits
// with 408/429 and the 5xx family in the retryable set.
func classifyStatus(status int) ErrorKind {
	switch {
	case status == http.StatusBadRequest,
		status == http.StatusRequestTimeout,
		status == http.StatusTooManyRequests,
		status >= 500:
		return Transient
	default:
		return Permanent
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
