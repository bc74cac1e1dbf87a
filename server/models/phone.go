package models

type Phone struct {
	BaseModel
	ContactID   uint   `json:"contact_id" gorm:"not null;index"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Kind        string `json:"kind" validate:"required"`
}

// FindPhone is unscoped, callers must check ownership through the phone's contact
func (store *Store) FindPhone(id uint) (*Phone, error) {
	phone := Phone{}

	err := store.db.First(&phone, id).Error
	if err != nil {
		return nil, err
	}

	return &phone, nil
}

func (store *Store) PhonesForContact(contactID uint) ([]Phone, error) {
	phones := []Phone{}

	err := store.db.Where("contact_id = ?", contactID).Order("id asc").Find(&phones).Error
	if err != nil {
		return nil, err
	}

	return phones, nil
}

func (store *Store) AddPhone(contact *Contact, phone *Phone) error {
	phone.ContactID = contact.ID
	return store.db.Create(phone).Error
}

// UpdatePhone never moves a phone to another contact
func (store *Store) UpdatePhone(phone *Phone) error {
	return store.db.Model(phone).Select("phone_number", "kind").Updates(phone).Error
}

func (store *Store) DeletePhone(id uint) error {
	return store.db.Delete(&Phone{}, id).Error
}
