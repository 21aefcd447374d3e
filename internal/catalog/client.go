package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"resty.dev/v3"

	"github.com/classpick/classpick/internal/source"
)

const sourceName = "catalog"

// Config holds the catalog source endpoints and transport settings.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client scrapes the Banner dynamic schedule. Banner requires a term
// selection POST before the subject search POST; both run inside one retry
// attempt so a retry replays the full flow.
type Client struct {
	httpClient *resty.Client
	policy     *source.RetryPolicy
	timeout    time.Duration
}

// NewClient creates a catalog client.
func NewClient(cfg Config, policy *source.RetryPolicy) *Client {
	httpClient := resty.New()
	httpClient.SetBaseURL(cfg.BaseURL)
	httpClient.SetHeader("User-Agent", cfg.UserAgent)
	httpClient.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	return &Client{
		httpClient: httpClient,
		policy:     policy,
		timeout:    cfg.Timeout,
	}
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.httpClient.Close()
}

// FetchCourses scrapes every section for one term and subject. Transient
// transport failures are retried with backoff; a page that cannot be parsed
// at all fails immediately with a parse-failure source error.
func (c *Client) FetchCourses(ctx context.Context, term, subject string) (FetchResult, error) {
	var result FetchResult
	err := c.policy.Do(ctx, func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		fetched, err := c.fetchOnce(attemptCtx, term, subject)
		if err != nil {
			return err
		}
		result = fetched
		return nil
	})
	if err != nil {
		return FetchResult{}, fmt.Errorf("fetch courses %s/%s: %w", term, subject, err)
	}
	return result, nil
}

func (c *Client) fetchOnce(ctx context.Context, term, subject string) (FetchResult, error) {
	if err := c.selectTerm(ctx, term); err != nil {
		return FetchResult{}, err
	}

	page, err := c.searchSubject(ctx, term, subject)
	if err != nil {
		return FetchResult{}, err
	}

	result, err := ParseSchedule(page, term)
	if err != nil {
		return FetchResult{}, source.NewError(sourceName, source.KindParseFailure, err)
	}
	if len(result.Courses) == 0 && result.Skipped > 0 {
		return FetchResult{}, source.NewError(sourceName, source.KindParseFailure,
			fmt.Errorf("all %d course tables malformed", result.Skipped))
	}
	return result, nil
}

func (c *Client) selectTerm(ctx context.Context, term string) error {
	res, err := c.httpClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"p_calling_proc": "bwckschd.p_disp_dyn_sched",
			"p_term":         term,
		}).
		Post("/bprod/bwckgens.p_proc_term_date")
	if err != nil {
		return classifyTransportError(err)
	}
	if res.StatusCode() != http.StatusOK {
		return classifyStatus(res.StatusCode())
	}
	return nil
}

func (c *Client) searchSubject(ctx context.Context, term, subject string) (string, error) {
	// Banner expects the full search form with "dummy" markers for every
	// multi-select field.
	form := url.Values{}
	form.Set("term_in", term)
	form.Add("sel_subj", "dummy")
	form.Add("sel_subj", subject)
	for _, field := range []string{"sel_day", "sel_schd", "sel_insm", "sel_levl", "sel_sess", "sel_attr"} {
		form.Set(field, "dummy")
	}
	form.Set("sel_camp", "%")
	form.Set("sel_ptrm", "%")
	form.Set("sel_instr", "%")
	form.Set("sel_crse", "")
	form.Set("sel_title", "")
	form.Set("sel_from_cred", "")
	form.Set("sel_to_cred", "")
	form.Set("begin_hh", "0")
	form.Set("begin_mi", "0")
	form.Set("begin_ap", "a")
	form.Set("end_hh", "0")
	form.Set("end_mi", "0")
	form.Set("end_ap", "a")

	res, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetBody(form.Encode()).
		Post("/bprod/bwckschd.p_get_crse_unsec")
	if err != nil {
		return "", classifyTransportError(err)
	}
	if res.StatusCode() != http.StatusOK {
		return "", classifyStatus(res.StatusCode())
	}
	return res.String(), nil
}

// RegistrationLink returns the self-service registration menu URL for a term.
func RegistrationLink(baseURL, term string) string {
	return fmt.Sprintf("%s/bprod/twbkwbis.P_GenMenu?name=bmenu.P_RegMnu&term=%s", baseURL, term)
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return source.NewError(sourceName, source.KindTimeout, err)
	}
	// Connection resets and refused connections are transient for retry
	// purposes, same as timeouts.
	return source.NewError(sourceName, source.KindTimeout, err)
}

func classifyStatus(status int) error {
	switch {
	case status == http.StatusTooManyRequests:
		return source.NewError(sourceName, source.KindRateLimited, fmt.Errorf("status code %d", status))
	case status == http.StatusNotFound:
		return source.NewError(sourceName, source.KindNotFound, fmt.Errorf("status code %d", status))
	case status >= http.StatusInternalServerError:
		return source.NewError(sourceName, source.KindTimeout, fmt.Errorf("status code %d", status))
	default:
		return source.NewError(sourceName, source.KindParseFailure, fmt.Errorf("unexpected status code %d", status))
	}
}
