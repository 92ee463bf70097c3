package domain

import (
	"math"
	"net/url"
	"strings"
	"time"
)

// Gender values accepted on a profile. Empty means "not specified".
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// ValidGender reports whether g is one of the accepted gender values or empty.
func ValidGender(g string) bool {
	switch g {
	case "", GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Profile is one worker listing.
type Profile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Gender      string    `json:"gender"`
	Work        []string  `json:"work"`
	Address     string    `json:"address"`
	Village     string    `json:"village"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	CompanyName string    `json:"companyName"`
	Experience  string    `json:"experience"`
	Description string    `json:"description"`
	Avatar      string    `json:"avatar"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProfileInput carries the fields of a create request. Legacy clients send
// skills and location; those are folded into Work and City at the boundary.
type ProfileInput struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Gender      string   `json:"gender"`
	Work        []string `json:"work"`
	Skills      []string `json:"skills,omitempty"`
	Address     string   `json:"address"`
	Village     string   `json:"village"`
	City        string   `json:"city"`
	Location    string   `json:"location,omitempty"`
	State       string   `json:"state"`
	CompanyName string   `json:"companyName"`
	Experience  string   `json:"experience"`
	Description string   `json:"description"`
	Avatar      string   `json:"avatar"`
}

// ProfileUpdate holds the fields to overwrite on an existing profile.
// A nil pointer leaves the stored value untouched.
type ProfileUpdate struct {
	Name        *string
	Email       *string
	Phone       *string
	Gender      *string
	Work        []string
	Address     *string
	Village     *string
	City        *string
	State       *string
	CompanyName *string
	Experience  *string
	Description *string
	Avatar      *string
}

// IsEmpty reports whether the update carries no field at all.
func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil && u.Gender == nil &&
		u.Work == nil && u.Address == nil && u.Village == nil && u.City == nil &&
		u.State == nil && u.CompanyName == nil && u.Experience == nil &&
		u.Description == nil && u.Avatar == nil
}

// Apply copies every set field of u onto p.
func (u ProfileUpdate) Apply(p *Profile) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Name, u.Name)
	set(&p.Email, u.Email)
	set(&p.Phone, u.Phone)
	set(&p.Gender, u.Gender)
	if u.Work != nil {
		p.Work = append([]string(nil), u.Work...)
	}
	set(&p.Address, u.Address)
	set(&p.Village, u.Village)
	set(&p.City, u.City)
	set(&p.State, u.State)
	set(&p.CompanyName, u.CompanyName)
	set(&p.Experience, u.Experience)
	set(&p.Description, u.Description)
	set(&p.Avatar, u.Avatar)
}

// ListQuery is a page request against the profile collection.
type ListQuery struct {
	Predicate Predicate
	Page      int
	Limit     int
}

// Skip returns the number of matching records before the requested page.
// It saturates at math.MaxInt instead of overflowing, so a page far past the
// end of the collection yields an empty page.
func (q ListQuery) Skip() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// ListResult is one page of profiles plus the size of the whole match set.
type ListResult struct {
	Profiles []Profile
	Total    int64
	Page     int
	Limit    int
}

// Pages returns the number of pages needed to show Total records.
func (r ListResult) Pages() int {
	if r.Limit <= 0 {
		return 0
	}
	return int((r.Total + int64(r.Limit) - 1) / int64(r.Limit))
}

// ImportReport summarizes a bulk ingestion run.
type ImportReport struct {
	Inserted int      `json:"inserted"`
	Rejected int      `json:"errors"`
	Errors   []string `json:"error_details"`
}

// Avatar colors used for generated avatars.
const avatarParams = "&background=667eea&color=fff&size=200"

// AvatarURL derives the generated avatar for name. Whitespace runs become "+",
// so the same name always yields the same URL.
func AvatarURL(baseURL, name string) string {
	return baseURL + "?name=" + url.QueryEscape(strings.Join(strings.Fields(name), " ")) + avatarParams
}
