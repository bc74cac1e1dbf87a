package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Daskott/rolodex/server/form"
	"github.com/Daskott/rolodex/server/models"
	"github.com/Daskott/rolodex/server/ownership"
	"github.com/gorilla/mux"
)

const CONTACTS_APP = "/contacts"

var contactFields = []form.Field{
	{Name: "first_name", Label: "First name", Type: "text"},
	{Name: "last_name", Label: "Last name", Type: "text"},
}

type contactRow struct {
	Contact      models.Contact
	PhoneNumbers string
	EditURL      string
	PhonesURL    string
	DeleteURL    string
}

// validateContact only checks that the names were submitted, an empty name is still present
func validateContact(vars form.Vars) form.Errors {
	errs := form.Errors{}
	form.Required(vars, "first_name", "Enter your first name", errs)
	form.Required(vars, "last_name", "Enter your last name", errs)
	return errs
}

func viewContacts(rc *RequestContext, r *http.Request) Result {
	contacts, err := rc.Store.ContactsForUser(rc.UserEmail())
	if err != nil {
		return serverError(err)
	}

	rows := make([]contactRow, 0, len(contacts))
	for _, contact := range contacts {
		deleteURL, err := rc.SignedURL(CONTACTS_APP+"/delete_contact",
			url.Values{"contact_id": {fmt.Sprint(contact.ID)}})
		if err != nil {
			return serverError(err)
		}

		rows = append(rows, contactRow{
			Contact:      contact,
			PhoneNumbers: contact.PhoneSummary(),
			EditURL:      fmt.Sprintf("%v/edit_contact/%v", CONTACTS_APP, contact.ID),
			PhonesURL:    phonesURL(contact.ID),
			DeleteURL:    deleteURL,
		})
	}

	return Render{Template: "contacts/index.html", Data: map[string]interface{}{"rows": rows}}
}

func addContact(rc *RequestContext, r *http.Request) Result {
	f, err := form.New(CONTACTS_APP+"/add_contact", contactFields, nil, rc.Signer)
	if err != nil {
		return serverError(err)
	}

	if err := f.Process(r, validateContact, form.Struct(validate, bindContact)); err != nil {
		return Failure{Status: http.StatusBadRequest, Err: err}
	}

	if f.State() == form.ACCEPTED {
		contact := parseContact(f.Vars)
		if err := f.Persist(func() error { return rc.Store.AddContact(rc.User, contact) }); err != nil {
			return serverError(err)
		}

		return Redirect{URL: CONTACTS_APP + "/index"}
	}

	return Render{
		Template: "contacts/contact_form.html",
		Data:     map[string]interface{}{"form": f, "title": "Add contact"},
	}
}

func editContact(rc *RequestContext, r *http.Request) Result {
	contact, err := ownership.AuthorizeContact(rc.Store, mux.Vars(r)["contact_id"], rc.UserEmail())
	if err != nil {
		return deniedOrFailed(rc, "edit_contact", err)
	}

	record := form.Vars{
		"first_name": form.Value(contact.FirstName),
		"last_name":  form.Value(contact.LastName),
	}

	f, err := form.New(fmt.Sprintf("%v/edit_contact/%v", CONTACTS_APP, contact.ID), contactFields, record, rc.Signer)
	if err != nil {
		return serverError(err)
	}

	if err := f.Process(r, validateContact, form.Struct(validate, bindContact)); err != nil {
		return Failure{Status: http.StatusBadRequest, Err: err}
	}

	if f.State() == form.ACCEPTED {
		submitted := parseContact(f.Vars)
		contact.FirstName = submitted.FirstName
		contact.LastName = submitted.LastName

		if err := f.Persist(func() error { return rc.Store.UpdateContact(contact) }); err != nil {
			return serverError(err)
		}

		// We always want POST requests to be redirected as GETs.
		return Redirect{URL: CONTACTS_APP + "/index"}
	}

	return Render{
		Template: "contacts/contact_form.html",
		Data:     map[string]interface{}{"form": f, "title": "Edit contact"},
	}
}

// deleteContact expects a signed url. The contact's phones go with it.
func deleteContact(rc *RequestContext, r *http.Request) Result {
	contact, err := ownership.AuthorizeContact(rc.Store, r.URL.Query().Get("contact_id"), rc.UserEmail())
	if err != nil {
		return deniedOrFailed(rc, "delete_contact", err)
	}

	if err := rc.Store.DeleteContact(contact.ID); err != nil {
		return serverError(err)
	}
	logg.Infof("deleted contact id=%v for %v", contact.ID, rc.UserEmail())

	return Redirect{URL: CONTACTS_APP + "/index"}
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

// deniedOrFailed redirects to the contact list when the record is missing or
// belongs to someone else. Both look the same to the user, the log tells them apart.
func deniedOrFailed(rc *RequestContext, action string, err error) Result {
	if ownership.IsDenied(err) {
		logg.Infof("%v: denied for %q: %v", action, rc.UserEmail(), err)
		return Redirect{URL: CONTACTS_APP + "/index"}
	}

	return serverError(err)
}

func phonesURL(contactID uint) string {
	return fmt.Sprintf("%v/edit_phone/%v", CONTACTS_APP, contactID)
}

func parseContact(vars form.Vars) *models.Contact {
	return &models.Contact{
		FirstName: strings.TrimSpace(vars.Get("first_name")),
		LastName:  strings.TrimSpace(vars.Get("last_name")),
	}
}

func bindContact(vars form.Vars) (interface{}, form.Errors) {
	return parseContact(vars), nil
}
