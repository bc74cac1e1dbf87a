package models

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type Contact struct {
	BaseModel
	UserEmail string  `json:"user_email" gorm:"not null;index"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Phones    []Phone `json:"phones,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (contact *Contact) FullName() string {
	return contact.FirstName + " " + contact.LastName
}

// PhoneSummary renders loaded phones as "<number> (<kind>), ..."
func (contact *Contact) PhoneSummary() string {
	phoneList := make([]string, 0, len(contact.Phones))
	for _, phone := range contact.Phones {
		phoneList = append(phoneList, fmt.Sprintf("%v (%v)", phone.PhoneNumber, phone.Kind))
	}

	return strings.Join(phoneList, ", ")
}

// ContactsForUser returns the contacts owned by userEmail, with their phones
func (store *Store) ContactsForUser(userEmail string) ([]Contact, error) {
	contacts := []Contact{}

	err := store.db.
		Preload("Phones", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Where("user_email = ?", userEmail).
		Order("id asc").
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}

	return contacts, nil
}

// FindContact is unscoped, callers must check ownership
func (store *Store) FindContact(id uint) (*Contact, error) {
	contact := Contact{}

	err := store.db.First(&contact, id).Error
	if err != nil {
		return nil, err
	}

	return &contact, nil
}

// AddContact stamps the contact with its owner before saving it
func (store *Store) AddContact(user *User, contact *Contact) error {
	contact.UserEmail = user.Email
	return store.db.Create(contact).Error
}

func (store *Store) UpdateContact(contact *Contact) error {
	return store.db.Model(contact).
		Where("user_email = ?", contact.UserEmail).
		Select("first_name", "last_name").
		Updates(contact).Error
}

// DeleteContact removes the contact & all of its phones
func (store *Store) DeleteContact(id uint) error {
	return store.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("contact_id = ?", id).Delete(&Phone{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&Contact{}, id).Error
	})
}
