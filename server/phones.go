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

var phoneFields = []form.Field{
	{Name: "phone_number", Label: "Phone number", Type: "tel"},
	{Name: "kind", Label: "Kind", Type: "text"},
}

type phoneRow struct {
	Phone     models.Phone
	EditURL   string
	DeleteURL string
}

func validatePhone(vars form.Vars) form.Errors {
	errs := form.Errors{}
	form.Required(vars, "phone_number", "Enter your phone number", errs)
	form.Required(vars, "kind", "Enter kind of phone", errs)
	return errs
}

// viewPhones lists the phones of one contact
func viewPhones(rc *RequestContext, r *http.Request) Result {
	contact, err := ownership.AuthorizeContact(rc.Store, mux.Vars(r)["contact_id"], rc.UserEmail())
	if err != nil {
		return deniedOrFailed(rc, "edit_phone", err)
	}

	phones, err := rc.Store.PhonesForContact(contact.ID)
	if err != nil {
		return serverError(err)
	}

	rows := make([]phoneRow, 0, len(phones))
	for _, phone := range phones {
		deleteURL, err := rc.SignedURL(CONTACTS_APP+"/delete_phone",
			url.Values{"phone_id": {fmt.Sprint(phone.ID)}})
		if err != nil {
			return serverError(err)
		}

		rows = append(rows, phoneRow{
			Phone:     phone,
			EditURL:   fmt.Sprintf("%v/edit_phone_number/%v", CONTACTS_APP, phone.ID),
			DeleteURL: deleteURL,
		})
	}

	return Render{
		Template: "contacts/phones.html",
		Data: map[string]interface{}{
			"contact_id":   contact.ID,
			"name":         contact.FullName(),
			"phoneNumbers": rows,
			"addURL":       fmt.Sprintf("%v/add_phone/%v", CONTACTS_APP, contact.ID),
		},
	}
}

func addPhone(rc *RequestContext, r *http.Request) Result {
	contact, err := ownership.AuthorizeContact(rc.Store, mux.Vars(r)["contact_id"], rc.UserEmail())
	if err != nil {
		return deniedOrFailed(rc, "add_phone", err)
	}

	f, err := form.New(fmt.Sprintf("%v/add_phone/%v", CONTACTS_APP, contact.ID), phoneFields, nil, rc.Signer)
	if err != nil {
		return serverError(err)
	}

	if err := f.Process(r, validatePhone, form.Struct(validate, bindPhone)); err != nil {
		return Failure{Status: http.StatusBadRequest, Err: err}
	}

	if f.State() == form.ACCEPTED {
		phone := parsePhone(f.Vars)
		if err := f.Persist(func() error { return rc.Store.AddPhone(contact, phone) }); err != nil {
			return serverError(err)
		}

		return Redirect{URL: phonesURL(contact.ID)}
	}

	return Render{
		Template: "contacts/phone_form.html",
		Data: map[string]interface{}{
			"form":    f,
			"title":   "Add phone",
			"name":    contact.FullName(),
			"backURL": phonesURL(contact.ID),
		},
	}
}

func editPhoneNumber(rc *RequestContext, r *http.Request) Result {
	phone, contact, err := ownership.AuthorizePhone(rc.Store, mux.Vars(r)["phone_id"], rc.UserEmail())
	if err != nil {
		return deniedOrFailed(rc, "edit_phone_number", err)
	}

	record := form.Vars{
		"phone_number": form.Value(phone.PhoneNumber),
		"kind":         form.Value(phone.Kind),
	}

	f, err := form.New(fmt.Sprintf("%v/edit_phone_number/%v", CONTACTS_APP, phone.ID), phoneFields, record, rc.Signer)
	if err != nil {
		return serverError(err)
	}

	if err := f.Process(r, validatePhone, form.Struct(validate, bindPhone)); err != nil {
		return Failure{Status: http.StatusBadRequest, Err: err}
	}

	if f.State() == form.ACCEPTED {
		submitted := parsePhone(f.Vars)
		phone.PhoneNumber = submitted.PhoneNumber
		phone.Kind = submitted.Kind

		if err := f.Persist(func() error { return rc.Store.UpdatePhone(phone) }); err != nil {
			return serverError(err)
		}

		return Redirect{URL: phonesURL(contact.ID)}
	}

	return Render{
		Template: "contacts/phone_form.html",
		Data: map[string]interface{}{
			"form":    f,
			"title":   "Edit phone",
			"name":    contact.FullName(),
			"backURL": phonesURL(contact.ID),
		},
	}
}

// deletePhone expects a signed url
func deletePhone(rc *RequestContext, r *http.Request) Result {
	phone, contact, err := ownership.AuthorizePhone(rc.Store, r.URL.Query().Get("phone_id"), rc.UserEmail())
	if err != nil {
		return deniedOrFailed(rc, "delete_phone", err)
	}

	if err := rc.Store.DeletePhone(phone.ID); err != nil {
		return serverError(err)
	}
	logg.Infof("deleted phone id=%v of contact id=%v", phone.ID, contact.ID)

	return Redirect{URL: phonesURL(contact.ID)}
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func parsePhone(vars form.Vars) *models.Phone {
	return &models.Phone{
		PhoneNumber: strings.TrimSpace(vars.Get("phone_number")),
		Kind:        strings.TrimSpace(vars.Get("kind")),
	}
}

func bindPhone(vars form.Vars) (interface{}, form.Errors) {
	return parsePhone(vars), nil
}
