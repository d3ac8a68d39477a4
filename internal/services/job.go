package services

import (
	"context"
	"fmt"
	"strings"

	"directory-bknd/internal/config"
	"directory-bknd/internal/models"

	"github.com/machinebox/graphql"
	"go.uber.org/zap"
)

const searchJobsByCompanyQuery = `
query SearchJobsByCompany($companyId: String!, $input: CommonPaginationDto) {
  jobs__searchByCompany(companyId: $companyId, input: $input) {
    nodes {
      _id
      title
      shortDescription
      longDescription
      isApproved
      isSkipVideoInterview
      publishStatus
      salaryRangeMin
      salaryRangeMax
      jobRoleType
      jobLocationType
      postedBy { _id name email }
      thumbnail { path provider }
      video { path provider }
      companyId
    }
    meta {
      totalCount
      hasNextPage
      hasPreviousPage
      totalPages
      currentPage
    }
  }
}`

const (
	defaultJobPage  = 1
	defaultJobLimit = 10
	maxJobLimit     = 50
)

// JobService reads a provider's postings from the job-board GraphQL API.
type JobService struct {
	client      *graphql.Client
	frontendURL string
	cdnURL      string
	logr        *zap.Logger
}

func NewJobService(cfg *config.Config, logr *zap.Logger) *JobService {
	endpoint := strings.TrimRight(cfg.JobBackendURL, "/") + "/graphql"
	client := graphql.NewClient(endpoint)
	client.Log = func(s string) { logr.Debug(s) }

	return &JobService{
		client:      client,
		frontendURL: strings.TrimRight(cfg.Links.JobFrontendURL, "/"),
		cdnURL:      strings.TrimRight(cfg.JobCDNURL, "/"),
		logr:        logr,
	}
}

type searchByCompanyResponse struct {
	Result models.JobSearchResult `json:"jobs__searchByCompany"`
}

// SearchByCompany lists the jobs posted for a location. Page and limit
// default to 1 and 10; limit is capped at 50.
func (s *JobService) SearchByCompany(ctx context.Context, companyID string, page, limit int) (*models.JobSearchResult, error) {
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return nil, ErrInvalidInput
	}
	if page < 1 {
		page = defaultJobPage
	}
	page = min(page, models.MaxPage)
	if limit < 1 {
		limit = defaultJobLimit
	}
	limit = min(limit, maxJobLimit)

	req := graphql.NewRequest(searchJobsByCompanyQuery)
	req.Var("companyId", companyID)
	req.Var("input", map[string]int{"page": page, "limit": limit})

	var resp searchByCompanyResponse
	if err := s.client.Run(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("search jobs for %s: %w", companyID, err)
	}

	result := resp.Result
	if result.Nodes == nil {
		result.Nodes = []models.Job{}
	}
	for i := range result.Nodes {
		s.decorate(&result.Nodes[i], companyID)
	}
	return &result, nil
}

// decorate fills in the absolute links the frontend renders.
func (s *JobService) decorate(j *models.Job, locationID string) {
	if s.frontendURL != "" {
		j.Link = fmt.Sprintf("%s/%s/jobs/%s", s.frontendURL, locationID, j.ID)
	}
	if j.Thumbnail != nil && j.Thumbnail.Path != "" {
		j.ThumbnailURL = s.cdnURL + "/" + strings.TrimLeft(j.Thumbnail.Path, "/")
	}
}
