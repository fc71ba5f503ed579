package elmodel

import (
	"time"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Account describes the user account associated with an API key.
type Account struct {
	ID           string
	OrgID        string
	CreationTime time.Time
	Disabled     bool
	EmailAddress string

	// Name is the display name of the account holder. It may be empty.
	Name string

	Role string

	// LastLoginTime is the time of the last login, or the zero time if the account never
	// logged in.
	LastLoginTime time.Time

	// LastProjectID is the identifier of the project the account last selected, if any.
	LastProjectID string

	Settings AccountSettings
}

// AccountSettings contains the settings associated with a user account.
type AccountSettings struct {
	DateFormat string
}

// ReadFromJSONReader reads the account from a JSON object, validating required fields.
func (a *Account) ReadFromJSONReader(r *jreader.Reader) {
	var hasID, hasOrgID, hasCreationTime, hasEmailAddress, hasRole, hasSettings bool
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "id":
			a.ID, hasID = r.String(), true
		case "org_id":
			a.OrgID, hasOrgID = r.String(), true
		case "creation_time":
			a.CreationTime, hasCreationTime = readTime(r, "account", "creation_time"), true
		case "disabled":
			a.Disabled = r.Bool()
		case "email_address":
			a.EmailAddress, hasEmailAddress = r.String(), true
		case "name":
			a.Name = r.String()
		case "role":
			a.Role, hasRole = r.String(), true
		case "last_login_time":
			a.LastLoginTime = readTime(r, "account", "last_login_time")
		case "last_project_id":
			a.LastProjectID = r.String()
		case "settings":
			a.Settings.ReadFromJSONReader(r)
			hasSettings = true
		}
	}
	checkRequiredFields(r, "account",
		fieldSeen{"id", hasID},
		fieldSeen{"org_id", hasOrgID},
		fieldSeen{"creation_time", hasCreationTime},
		fieldSeen{"email_address", hasEmailAddress},
		fieldSeen{"role", hasRole},
		fieldSeen{"settings", hasSettings},
	)
}

// WriteToJSONWriter writes the account in its standard JSON representation.
func (a Account) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Name("id").String(a.ID)
	obj.Name("org_id").String(a.OrgID)
	writeTime(&obj, "creation_time", a.CreationTime)
	obj.Maybe("disabled", a.Disabled).Bool(a.Disabled)
	obj.Name("email_address").String(a.EmailAddress)
	obj.Maybe("name", a.Name != "").String(a.Name)
	obj.Name("role").String(a.Role)
	maybeWriteTime(&obj, "last_login_time", a.LastLoginTime)
	obj.Maybe("last_project_id", a.LastProjectID != "").String(a.LastProjectID)
	a.Settings.WriteToJSONWriter(obj.Name("settings"))
	obj.End()
}

// UnmarshalJSON parses an account, returning an InvalidObjectError for schema violations.
func (a *Account) UnmarshalJSON(data []byte) error {
	return unmarshalObject("account", data, a)
}

// MarshalJSON produces the standard JSON representation of the account.
func (a Account) MarshalJSON() ([]byte, error) {
	return jwriter.MarshalJSONWithWriter(a)
}

// ReadFromJSONReader reads the settings from a JSON object.
func (s *AccountSettings) ReadFromJSONReader(r *jreader.Reader) {
	for obj := r.Object(); obj.Next(); {
		if string(obj.Name()) == "date_format" {
			s.DateFormat = r.String()
		}
	}
}

// WriteToJSONWriter writes the settings in their standard JSON representation.
func (s AccountSettings) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Maybe("date_format", s.DateFormat != "").String(s.DateFormat)
	obj.End()
}

// UnmarshalJSON parses account settings.
func (s *AccountSettings) UnmarshalJSON(data []byte) error {
	return unmarshalObject("account_settings", data, s)
}

// MarshalJSON produces the standard JSON representation of the settings.
func (s AccountSettings) MarshalJSON() ([]byte, error) {
	return jwriter.MarshalJSONWithWriter(s)
}
