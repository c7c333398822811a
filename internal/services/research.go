package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"thinkink-backend/internal/models"
)

const maxResearchResults = 20

// ResearchService searches the Semantic Scholar graph API and formats
// citations. The API throttles anonymous clients, so the request retries
// with backoff.
type ResearchService struct {
	client   *resty.Client
	recorder *Recorder
}

type scholarResponse struct {
	Data []struct {
		Title    string `json:"title"`
		Abstract string `json:"abstract"`
		Year     int    `json:"year"`
		URL      string `json:"url"`
		Authors  []struct {
			Name string `json:"name"`
		} `json:"authors"`
	} `json:"data"`
}

func NewResearchService(recorder *Recorder) *ResearchService {
	client := resty.New().
		SetBaseURL("https://api.semanticscholar.org/graph/v1").
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(2 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() == 429 || r.StatusCode() >= 500
		})

	return &ResearchService{client: client, recorder: recorder}
}

func (s *ResearchService) Search(ctx context.Context, userID uuid.UUID, req models.ResearchRequest) ([]models.ResearchPaper, error) {
	fields := map[string]string{}
	if strings.TrimSpace(req.Query) == "" {
		fields["query"] = "Query is required"
	}
	if req.Limit == 0 {
		req.Limit = 10
	}
	if req.Limit < 1 || req.Limit > maxResearchResults {
		fields["limit"] = fmt.Sprintf("Must be between 1 and %d", maxResearchResults)
	}
	if err := validationError(fields); err != nil {
		return nil, err
	}

	started := time.Now()

	var out scholarResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":  req.Query,
			"limit":  fmt.Sprintf("%d", req.Limit),
			"fields": "title,abstract,year,url,authors",
		}).
		SetResult(&out).
		Get("/paper/search")
	if err != nil {
		s.recorder.Record(ctx, userID, models.FeatureResearch, req, nil, started, err)
		return nil, fmt.Errorf("paper search failed: %w", err)
	}
	if resp.IsError() {
		err := fmt.Errorf("paper search returned status %d", resp.StatusCode())
		s.recorder.Record(ctx, userID, models.FeatureResearch, req, nil, started, err)
		return nil, err
	}

	papers := make([]models.ResearchPaper, 0, len(out.Data))
	for _, hit := range out.Data {
		if hit.Title == "" {
			continue
		}
		authors := make([]string, 0, len(hit.Authors))
		for _, a := range hit.Authors {
			if a.Name != "" {
				authors = append(authors, a.Name)
			}
		}
		papers = append(papers, models.ResearchPaper{
			Title:    hit.Title,
			Authors:  authors,
			Year:     hit.Year,
			Abstract: hit.Abstract,
			URL:      hit.URL,
			Citations: models.Citations{
				APA:  formatAPA(authors, hit.Year, hit.Title),
				IEEE: formatIEEE(authors, hit.Year, hit.Title),
			},
		})
	}

	s.recorder.Record(ctx, userID, models.FeatureResearch, req,
		map[string]interface{}{"result_count": len(papers), "query": req.Query}, started, nil)
	return papers, nil
}

func formatAPA(authors []string, year int, title string) string {
	author := "Unknown"
	switch {
	case len(authors) == 1:
		author = authors[0]
	case len(authors) == 2:
		author = authors[0] + " & " + authors[1]
	case len(authors) > 2:
		author = authors[0] + " et al."
	}
	if year == 0 {
		return fmt.Sprintf("%s (n.d.). %s.", author, title)
	}
	return fmt.Sprintf("%s (%d). %s.", author, year, title)
}

func formatIEEE(authors []string, year int, title string) string {
	author := "Unknown"
	if len(authors) > 0 {
		author = authors[0]
		if len(authors) > 1 {
			author += " et al."
		}
	}
	if year == 0 {
		return fmt.Sprintf("%s, \"%s.\"", author, title)
	}
	return fmt.Sprintf("%s, \"%s,\" %d.", author, title, year)
}
