package models

type JobRoleType string

const (
	JobRoleInternship     JobRoleType = "INTERNSHIP"
	JobRolePartTime       JobRoleType = "PART_TIME"
	JobRoleEntryLevel     JobRoleType = "ENTRY_LEVEL"
	JobRoleAssociate      JobRoleType = "ASSOCIATE"
	JobRoleMidSeniorLevel JobRoleType = "MID_SENIOR_LEVEL"
	JobRoleMidLevel       JobRoleType = "MID_LEVEL"
	JobRoleSeniorLevel    JobRoleType = "SENIOR_LEVEL"
	JobRoleDirector       JobRoleType = "DIRECTOR"
	JobRoleExecutive      JobRoleType = "EXECUTIVE"
)

var jobRoleLabels = map[JobRoleType]string{
	JobRoleInternship:     "Internship",
	JobRolePartTime:       "Part Time",
	JobRoleEntryLevel:     "Entry Level",
	JobRoleAssociate:      "Associate",
	JobRoleMidSeniorLevel: "Mid-Senior Level",
	JobRoleMidLevel:       "Mid Level",
	JobRoleSeniorLevel:    "Senior Level",
	JobRoleDirector:       "Director",
	JobRoleExecutive:      "Executive",
}

// Label returns the display label, or the raw value for unknown types.
func (t JobRoleType) Label() string {
	if l, ok := jobRoleLabels[t]; ok {
		return l
	}
	return string(t)
}

type JobLocationType string

const (
	JobLocationOnSite JobLocationType = "ON_SITE"
	JobLocationRemote JobLocationType = "REMOTE"
	JobLocationHybrid JobLocationType = "HYBRID"
)

var jobLocationLabels = map[JobLocationType]string{
	JobLocationOnSite: "On-site",
	JobLocationRemote: "Remote",
	JobLocationHybrid: "Hybrid",
}

func (t JobLocationType) Label() string {
	if l, ok := jobLocationLabels[t]; ok {
		return l
	}
	return string(t)
}

type JobPublishStatus string

const (
	JobPublished JobPublishStatus = "PUBLISHED"
	JobDrafted   JobPublishStatus = "DRAFTED"
)

type ServerFileReference struct {
	Path     string `json:"path"`
	Provider string `json:"provider"`
}

type JobPoster struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Job is a posting from the job-board service. CompanyID is the location id.
type Job struct {
	ID                   string               `json:"_id"`
	Title                string               `json:"title"`
	ShortDescription     *string              `json:"shortDescription"`
	LongDescription      *string              `json:"longDescription"`
	IsApproved           bool                 `json:"isApproved"`
	IsSkipVideoInterview bool                 `json:"isSkipVideoInterview"`
	PublishStatus        JobPublishStatus     `json:"publishStatus"`
	SalaryRangeMin       float64              `json:"salaryRangeMin"`
	SalaryRangeMax       float64              `json:"salaryRangeMax"`
	JobRoleType          *JobRoleType         `json:"jobRoleType"`
	JobLocationType      *JobLocationType     `json:"jobLocationType"`
	Thumbnail            *ServerFileReference `json:"thumbnail"`
	Video                *ServerFileReference `json:"video"`
	CompanyID            string               `json:"companyId"`
	PostedBy             *JobPoster           `json:"postedBy"`

	// filled in by the directory
	Link         string `json:"link,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// HasValidSalaryRange reports whether both bounds are set and ordered.
func (j Job) HasValidSalaryRange() bool {
	return j.SalaryRangeMin > 0 && j.SalaryRangeMax > 0 && j.SalaryRangeMin <= j.SalaryRangeMax
}

type PaginationMeta struct {
	TotalCount      int  `json:"totalCount"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	CurrentPage     int  `json:"currentPage"`
	TotalPages      int  `json:"totalPages"`
}

type JobSearchResult struct {
	Nodes []Job          `json:"nodes"`
	Meta  PaginationMeta `json:"meta"`
}
