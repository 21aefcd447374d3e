package ratings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"resty.dev/v3"

	"github.com/classpick/classpick/internal/source"
)

const sourceName = "ratings"

// teacherSearchQuery is the rating site's GraphQL query for searching
// teachers at one school.
const teacherSearchQuery = `query TeacherSearchQuery($query: TeacherSearchQuery!) {
  newSearch {
    teachers(query: $query) {
      edges {
        node {
          firstName
          lastName
          department
          avgRating
          avgDifficulty
          wouldTakeAgainPercent
          numRatings
        }
      }
    }
  }
}`

// Config holds the rating source endpoint and transport settings.
type Config struct {
	GraphQLURL    string
	SchoolID      string
	Authorization string
	UserAgent     string
	Timeout       time.Duration
}

// Client scrapes professor profiles and resolves instructor names against
// them. A professor with no confident match is a normal result, not an
// error.
type Client struct {
	httpClient *resty.Client
	policy     *source.RetryPolicy
	resolver   *Resolver
	graphqlURL string
	schoolID   string
	timeout    time.Duration
}

// NewClient creates a ratings client.
func NewClient(cfg Config, policy *source.RetryPolicy, resolver *Resolver) *Client {
	httpClient := resty.New()
	httpClient.SetHeader("Authorization", cfg.Authorization)
	httpClient.SetHeader("Content-Type", "application/json")
	httpClient.SetHeader("Accept", "application/json")
	httpClient.SetHeader("User-Agent", cfg.UserAgent)

	return &Client{
		httpClient: httpClient,
		policy:     policy,
		resolver:   resolver,
		graphqlURL: cfg.GraphQLURL,
		schoolID:   cfg.SchoolID,
		timeout:    cfg.Timeout,
	}
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.httpClient.Close()
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlResponse struct {
	Data struct {
		NewSearch struct {
			Teachers struct {
				Edges []struct {
					Node teacherNode `json:"node"`
				} `json:"edges"`
			} `json:"teachers"`
		} `json:"newSearch"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type teacherNode struct {
	FirstName             string   `json:"firstName"`
	LastName              string   `json:"lastName"`
	Department            string   `json:"department"`
	AvgRating             *float64 `json:"avgRating"`
	AvgDifficulty         *float64 `json:"avgDifficulty"`
	WouldTakeAgainPercent *float64 `json:"wouldTakeAgainPercent"`
	NumRatings            int      `json:"numRatings"`
}

// FetchRating searches the rating site for an instructor and resolves the
// best-matching profile. ok=false means no confident match, which callers
// must treat as an expected outcome.
func (c *Client) FetchRating(ctx context.Context, instructor string) (RatingRecord, bool, error) {
	var candidates []RatingRecord
	err := c.policy.Do(ctx, func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		fetched, err := c.searchOnce(attemptCtx, instructor)
		if err != nil {
			return err
		}
		candidates = fetched
		return nil
	})
	if err != nil {
		return RatingRecord{}, false, fmt.Errorf("fetch rating for %s: %w", instructor, err)
	}

	record, ok := c.resolver.Resolve(instructor, candidates)
	return record, ok, nil
}

func (c *Client) searchOnce(ctx context.Context, instructor string) ([]RatingRecord, error) {
	res, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(graphqlRequest{
			Query: teacherSearchQuery,
			Variables: map[string]any{
				"query": map[string]any{
					"text":     instructor,
					"schoolID": c.schoolID,
					"fallback": true,
				},
			},
		}).
		Post(c.graphqlURL)
	if err != nil {
		return nil, source.NewError(sourceName, source.KindTimeout, err)
	}

	switch {
	case res.StatusCode() == http.StatusTooManyRequests:
		return nil, source.NewError(sourceName, source.KindRateLimited, fmt.Errorf("status code %d", res.StatusCode()))
	case res.StatusCode() >= http.StatusInternalServerError:
		return nil, source.NewError(sourceName, source.KindTimeout, fmt.Errorf("status code %d", res.StatusCode()))
	case res.StatusCode() != http.StatusOK:
		return nil, source.NewError(sourceName, source.KindParseFailure, fmt.Errorf("status code %d", res.StatusCode()))
	}

	var decoded graphqlResponse
	if err := json.Unmarshal([]byte(res.String()), &decoded); err != nil {
		return nil, source.NewError(sourceName, source.KindParseFailure, fmt.Errorf("decode search response: %w", err))
	}
	if len(decoded.Errors) > 0 {
		return nil, source.NewError(sourceName, source.KindParseFailure,
			fmt.Errorf("graphql error: %s", decoded.Errors[0].Message))
	}

	edges := decoded.Data.NewSearch.Teachers.Edges
	candidates := make([]RatingRecord, 0, len(edges))
	for _, edge := range edges {
		candidates = append(candidates, recordFromNode(edge.Node))
	}
	return candidates, nil
}

func recordFromNode(node teacherNode) RatingRecord {
	record := RatingRecord{
		Instructor: NormalizeName(node.FirstName + " " + node.LastName),
		FirstName:  node.FirstName,
		LastName:   node.LastName,
		Department: node.Department,
		NumRatings: node.NumRatings,
	}
	if node.AvgRating != nil {
		record.AvgRating = *node.AvgRating
	}
	if node.AvgDifficulty != nil {
		record.AvgDifficulty = *node.AvgDifficulty
	}
	if node.WouldTakeAgainPercent != nil {
		record.WouldTakeAgain = *node.WouldTakeAgainPercent
	}
	return record
}
