package models

import (
	"slices"
	"strings"
	"time"
)

// Contact is a person in the address book. Name is the identity; the
// repository keys contacts by ContactKey(Name).
type Contact struct {
	Name      string    `yaml:"name" json:"name"`
	Address   string    `yaml:"address,omitempty" json:"address,omitempty"`
	Phones    []string  `yaml:"phones,omitempty" json:"phones,omitempty"`
	Emails    []string  `yaml:"emails,omitempty" json:"emails,omitempty"`
	Birthday  *Date     `yaml:"birthday,omitempty" json:"birthday,omitempty"`
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at" json:"updated_at"`
}

// ContactKey returns the repository key for a contact name. Names that differ
// only in case or surrounding whitespace share a key.
func ContactKey(name string) string {
	return Fold(strings.TrimSpace(name))
}

// NewContact returns a contact with a validated name and fresh timestamps.
func NewContact(name string) (*Contact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("name cannot be empty")
	}
	ts := Now()
	return &Contact{Name: name, CreatedAt: ts, UpdatedAt: ts}, nil
}

// Key returns the repository key of c.
func (c *Contact) Key() string { return ContactKey(c.Name) }

func (c *Contact) touch() { c.UpdatedAt = Now() }

// SetName changes the display name. Callers must re-key the contact in its
// repository when the key changes.
func (c *Contact) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return validationf("name cannot be empty")
	}
	c.Name = name
	c.touch()
	return nil
}

// SetAddress replaces the address; an empty value clears it.
func (c *Contact) SetAddress(address string) {
	c.Address = strings.TrimSpace(address)
	c.touch()
}

// AddPhone validates phone and appends it unless already present.
func (c *Contact) AddPhone(phone string) error {
	p, err := NormalizePhone(phone)
	if err != nil {
		return err
	}
	if slices.Contains(c.Phones, p) {
		return validationf("phone %s already exists", p)
	}
	c.Phones = append(c.Phones, p)
	c.touch()
	return nil
}

// RemovePhone removes phone from the contact.
func (c *Contact) RemovePhone(phone string) error {
	p, err := NormalizePhone(phone)
	if err != nil {
		return err
	}
	phones, ok := removeValue(c.Phones, p)
	if !ok {
		return validationf("phone %s not found", p)
	}
	c.Phones = phones
	c.touch()
	return nil
}

// ReplacePhone swaps oldPhone for newPhone, keeping its position.
func (c *Contact) ReplacePhone(oldPhone, newPhone string) error {
	o, err := NormalizePhone(oldPhone)
	if err != nil {
		return err
	}
	n, err := NormalizePhone(newPhone)
	if err != nil {
		return err
	}
	return c.replace(c.Phones, o, n, "phone")
}

// AddEmail validates email and appends it unless already present.
func (c *Contact) AddEmail(email string) error {
	e, err := NormalizeEmail(email)
	if err != nil {
		return err
	}
	if slices.Contains(c.Emails, e) {
		return validationf("email %s already exists", e)
	}
	c.Emails = append(c.Emails, e)
	c.touch()
	return nil
}

// RemoveEmail removes email from the contact.
func (c *Contact) RemoveEmail(email string) error {
	e, err := NormalizeEmail(email)
	if err != nil {
		return err
	}
	emails, ok := removeValue(c.Emails, e)
	if !ok {
		return validationf("email %s not found", e)
	}
	c.Emails = emails
	c.touch()
	return nil
}

// ReplaceEmail swaps oldEmail for newEmail, keeping its position.
func (c *Contact) ReplaceEmail(oldEmail, newEmail string) error {
	o, err := NormalizeEmail(oldEmail)
	if err != nil {
		return err
	}
	n, err := NormalizeEmail(newEmail)
	if err != nil {
		return err
	}
	return c.replace(c.Emails, o, n, "email")
}

func (c *Contact) replace(set []string, o, n, what string) error {
	i := slices.Index(set, o)
	if i < 0 {
		return validationf("%s %s not found", what, o)
	}
	if o != n && slices.Contains(set, n) {
		return validationf("%s %s already exists", what, n)
	}
	set[i] = n
	c.touch()
	return nil
}

// SetBirthday sets or, with nil, clears the birthday.
func (c *Contact) SetBirthday(d *Date) error {
	if d != nil {
		if err := ValidateBirthday(*d, Today()); err != nil {
			return err
		}
		bd := *d
		d = &bd
	}
	c.Birthday = d
	c.touch()
	return nil
}

// DaysUntilBirthday returns the days until the next birthday and false when
// no birthday is set.
func (c *Contact) DaysUntilBirthday(today Date) (int, bool) {
	if c.Birthday == nil {
		return 0, false
	}
	return c.Birthday.DaysUntil(today), true
}

// Matches reports whether query occurs in any field of the contact.
// Text fields compare case-insensitively; phones and the birthday compare
// against the raw query.
func (c *Contact) Matches(query string) bool {
	if query == "" {
		return true
	}
	if containsFold(c.Name, query) || containsFold(c.Address, query) {
		return true
	}
	for _, p := range c.Phones {
		if strings.Contains(p, query) {
			return true
		}
	}
	for _, e := range c.Emails {
		if containsFold(e, query) {
			return true
		}
	}
	return c.Birthday != nil && strings.Contains(c.Birthday.String(), query)
}

// Validate checks every field of a contact loaded from storage.
func (c *Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return validationf("name cannot be empty")
	}
	for _, p := range c.Phones {
		if _, err := NormalizePhone(p); err != nil {
			return err
		}
	}
	for _, e := range c.Emails {
		if _, err := NormalizeEmail(e); err != nil {
			return err
		}
	}
	return nil
}
