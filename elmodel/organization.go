package elmodel

import (
	"time"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Organization describes the organization that owns the current account.
type Organization struct {
	ID                    string
	Name                  string
	Address               string
	PostalCode            string
	City                  string
	Country               string
	CreationTime          time.Time
	Disabled              bool
	ContactEmailAddress   string
	NonEssentialMailOptIn bool

	// VatIDNumber is the European VAT identification number of the organization, if any.
	VatIDNumber string
}

// ReadFromJSONReader reads the organization from a JSON object, validating required fields.
func (o *Organization) ReadFromJSONReader(r *jreader.Reader) {
	var hasID, hasName, hasAddress, hasPostalCode, hasCity, hasCountry bool
	var hasCreationTime, hasContactEmailAddress bool
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "id":
			o.ID, hasID = r.String(), true
		case "name":
			o.Name, hasName = r.String(), true
		case "address":
			o.Address, hasAddress = r.String(), true
		case "postal_code":
			o.PostalCode, hasPostalCode = r.String(), true
		case "city":
			o.City, hasCity = r.String(), true
		case "country":
			o.Country, hasCountry = r.String(), true
		case "creation_time":
			o.CreationTime, hasCreationTime = readTime(r, "organization", "creation_time"), true
		case "disabled":
			o.Disabled = r.Bool()
		case "contact_email_address":
			o.ContactEmailAddress, hasContactEmailAddress = r.String(), true
		case "non_essential_mail_opt_in":
			o.NonEssentialMailOptIn = r.Bool()
		case "vat_id_number":
			o.VatIDNumber = r.String()
		}
	}
	checkRequiredFields(r, "organization",
		fieldSeen{"id", hasID},
		fieldSeen{"name", hasName},
		fieldSeen{"address", hasAddress},
		fieldSeen{"postal_code", hasPostalCode},
		fieldSeen{"city", hasCity},
		fieldSeen{"country", hasCountry},
		fieldSeen{"creation_time", hasCreationTime},
		fieldSeen{"contact_email_address", hasContactEmailAddress},
	)
}

// WriteToJSONWriter writes the organization in its standard JSON representation.
func (o Organization) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Name("id").String(o.ID)
	obj.Name("name").String(o.Name)
	obj.Name("address").String(o.Address)
	obj.Name("postal_code").String(o.PostalCode)
	obj.Name("city").String(o.City)
	obj.Name("country").String(o.Country)
	writeTime(&obj, "creation_time", o.CreationTime)
	obj.Maybe("disabled", o.Disabled).Bool(o.Disabled)
	obj.Name("contact_email_address").String(o.ContactEmailAddress)
	obj.Maybe("non_essential_mail_opt_in", o.NonEssentialMailOptIn).Bool(o.NonEssentialMailOptIn)
	obj.Maybe("vat_id_number", o.VatIDNumber != "").String(o.VatIDNumber)
	obj.End()
}

// UnmarshalJSON parses an organization, returning an InvalidObjectError for schema violations.
func (o *Organization) UnmarshalJSON(data []byte) error {
	return unmarshalObject("organization", data, o)
}

// MarshalJSON produces the standard JSON representation of the organization.
func (o Organization) MarshalJSON() ([]byte, error) {
	return jwriter.MarshalJSONWithWriter(o)
}
