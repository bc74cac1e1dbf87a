// Package ownership decides whether the current user may touch a contact
// or a phone. Phones are owned through their contact.
package ownership

import (
	"github.com/Daskott/rolodex/server/models"
	"github.com/Daskott/rolodex/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrForbidden = errors.New("record belongs to another user")
)

type Finder interface {
	FindContact(id uint) (*models.Contact, error)
	FindPhone(id uint) (*models.Phone, error)
}

// AuthorizeContact returns the contact with id contactID if userEmail owns it
func AuthorizeContact(finder Finder, contactID string, userEmail string) (*models.Contact, error) {
	id, ok := utils.ParseID(contactID)
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "contact %q", contactID)
	}

	return authorizeContact(finder, id, userEmail)
}

// AuthorizePhone returns the phone with id phoneID & its contact if userEmail owns the contact
func AuthorizePhone(finder Finder, phoneID string, userEmail string) (*models.Phone, *models.Contact, error) {
	id, ok := utils.ParseID(phoneID)
	if !ok {
		return nil, nil, errors.Wrapf(ErrNotFound, "phone %q", phoneID)
	}

	phone, err := finder.FindPhone(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, errors.Wrapf(ErrNotFound, "phone %v", id)
	}

	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	// a phone whose contact is gone is treated as missing
	contact, err := authorizeContact(finder, phone.ContactID, userEmail)
	if err != nil {
		return nil, nil, errors.WithMessagef(err, "phone %v", id)
	}

	return phone, contact, nil
}

func authorizeContact(finder Finder, id uint, userEmail string) (*models.Contact, error) {
	contact, err := finder.FindContact(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(ErrNotFound, "contact %v", id)
	}

	if err != nil {
		return nil, errors.WithStack(err)
	}

	if userEmail == "" || contact.UserEmail != userEmail {
		return nil, errors.Wrapf(ErrForbidden, "contact %v", id)
	}

	return contact, nil
}

// IsDenied reports whether err means "not found" or "forbidden", as opposed to a storage failure
func IsDenied(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden)
}
