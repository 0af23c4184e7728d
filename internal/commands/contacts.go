package commands

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-ports/kontacto/internal/models"
	"github.com/go-ports/kontacto/internal/render"
	"github.com/go-ports/kontacto/internal/repository"
)

// editFields are the field words accepted by edit-contact.
var editFields = []string{
	"name", "address", "birthday",
	"add-phone", "remove-phone", "replace-phone",
	"add-email", "remove-email", "replace-email",
}

func addContact(s *Session, args []string) error {
	fs := newFlagSet("add-contact")
	address := fs.String("address", "", "postal address")
	birthday := fs.String("birthday", "", "date of birth")
	phones := fs.StringArray("phone", nil, "phone number, repeatable")
	emails := fs.StringArray("email", nil, "email address, repeatable")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	c, err := models.NewContact(strings.Join(fs.Args(), " "))
	if err != nil {
		return err
	}
	if _, taken := s.Contacts.Get(c.Key()); taken {
		return fmt.Errorf("contact %q %w", c.Name, repository.ErrDuplicateKey)
	}

	if fs.Changed("address") {
		c.SetAddress(*address)
	}
	for _, p := range *phones {
		if err := c.AddPhone(p); err != nil {
			return err
		}
	}
	for _, e := range *emails {
		if err := c.AddEmail(e); err != nil {
			return err
		}
	}
	if fs.Changed("birthday") {
		d, err := models.ParseDate(*birthday)
		if err != nil {
			return err
		}
		if err := c.SetBirthday(&d); err != nil {
			return err
		}
	}

	if err := s.Contacts.Add(c); err != nil {
		return err
	}
	s.println(render.Success(fmt.Sprintf("Contact %q added.", c.Name)))
	return nil
}

func listContacts(s *Session, _ []string) error {
	all := s.Contacts.All()
	if len(all) == 0 {
		s.println(render.Info("No contacts found."))
		return nil
	}
	s.println(render.Info(fmt.Sprintf("Total contacts: %d", len(all))))
	s.print(render.Contacts(all))
	return nil
}

func searchContacts(s *Session, args []string) error {
	query := strings.Join(args, " ")
	found := slices.Collect(s.Contacts.Find(func(c *models.Contact) bool { return c.Matches(query) }))
	if len(found) == 0 {
		s.println(render.Info(fmt.Sprintf("No contacts found matching %q.", query)))
		return nil
	}
	s.println(render.Info(fmt.Sprintf("Found %d contact(s) matching %q:", len(found), query)))
	s.print(render.Contacts(found))
	return nil
}

// editContact applies one field change. The contact name may span several
// words when it is not quoted; it ends at the first field word.
func editContact(s *Session, args []string) error {
	at := slices.IndexFunc(args[1:], func(a string) bool {
		return slices.Contains(editFields, strings.ToLower(a))
	}) + 1
	if at == 0 {
		return invalidArgs("no field given; fields: %s", strings.Join(editFields, ", "))
	}
	c, err := s.findContact(strings.Join(args[:at], " "))
	if err != nil {
		return err
	}
	field := strings.ToLower(args[at])
	values := args[at+1:]
	value := strings.Join(values, " ")
	oldKey := c.Key()

	needValue := func() error {
		if strings.TrimSpace(value) == "" {
			return invalidArgs("%s needs a value", field)
		}
		return nil
	}
	pair := func() (string, string, error) {
		if len(values) != 2 {
			return "", "", invalidArgs("%s needs exactly two values: <old> <new>", field)
		}
		return values[0], values[1], nil
	}

	switch field {
	case "name":
		if err := needValue(); err != nil {
			return err
		}
		if _, taken := s.Contacts.Get(models.ContactKey(value)); taken && models.ContactKey(value) != oldKey {
			return fmt.Errorf("contact %q %w", strings.TrimSpace(value), repository.ErrDuplicateKey)
		}
		oldName := c.Name
		if err := c.SetName(value); err != nil {
			return err
		}
		if err := s.Contacts.Rekey(oldKey); err != nil {
			_ = c.SetName(oldName)
			return err
		}
		s.println(render.Success(fmt.Sprintf("Contact %q renamed to %q.", oldName, c.Name)))
		return nil
	case "address":
		c.SetAddress(value)
	case "birthday":
		if strings.TrimSpace(value) == "" {
			err = c.SetBirthday(nil)
			break
		}
		var d models.Date
		if d, err = models.ParseDate(value); err == nil {
			err = c.SetBirthday(&d)
		}
	case "add-phone":
		if err = needValue(); err == nil {
			err = c.AddPhone(value)
		}
	case "remove-phone":
		if err = needValue(); err == nil {
			err = c.RemovePhone(value)
		}
	case "replace-phone":
		var o, n string
		if o, n, err = pair(); err == nil {
			err = c.ReplacePhone(o, n)
		}
	case "add-email":
		if err = needValue(); err == nil {
			err = c.AddEmail(value)
		}
	case "remove-email":
		if err = needValue(); err == nil {
			err = c.RemoveEmail(value)
		}
	case "replace-email":
		var o, n string
		if o, n, err = pair(); err == nil {
			err = c.ReplaceEmail(o, n)
		}
	}
	if err != nil {
		return err
	}
	s.Contacts.Touch()
	s.println(render.Success(fmt.Sprintf("Contact %q updated.", c.Name)))
	return nil
}

func deleteContact(s *Session, args []string) error {
	name := strings.Join(args, " ")
	c, ok := s.Contacts.Get(models.ContactKey(name))
	if !ok {
		return fmt.Errorf("contact %q: %w", name, repository.ErrNotFound)
	}
	if _, err := s.Contacts.Remove(c.Key()); err != nil {
		return err
	}
	s.println(render.Success(fmt.Sprintf("Contact %q deleted.", c.Name)))
	return nil
}

func upcomingBirthdays(s *Session, args []string) error {
	days := s.BirthdayDays
	if days <= 0 {
		days = DefaultBirthdayDays
	}
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return invalidArgs("days must be a non-negative number, got %q", args[0])
		}
		days = n
	}

	today := models.Today()
	var upcoming []render.Birthday
	for _, c := range s.Contacts.All() {
		if left, ok := c.DaysUntilBirthday(today); ok && left <= days {
			upcoming = append(upcoming, render.Birthday{Contact: c, Days: left})
		}
	}
	if len(upcoming) == 0 {
		s.println(render.Info(fmt.Sprintf("No birthdays in the next %d day(s).", days)))
		return nil
	}
	slices.SortStableFunc(upcoming, func(a, b render.Birthday) int {
		return cmp.Or(cmp.Compare(a.Days, b.Days), cmp.Compare(models.Fold(a.Contact.Name), models.Fold(b.Contact.Name)))
	})
	s.println(render.Info(fmt.Sprintf("Birthdays in the next %d day(s):", days)))
	s.print(render.Birthdays(upcoming))
	return nil
}

func cleanContacts(s *Session, args []string) error {
	yes, err := parseYes("clean-contacts", args)
	if err != nil {
		return err
	}
	if s.Contacts.Len() == 0 {
		s.println(render.Info("No contacts to delete."))
		return nil
	}
	ok, err := s.confirm(yes, fmt.Sprintf("Delete ALL %d contacts? This cannot be undone.", s.Contacts.Len()))
	if err != nil {
		return err
	}
	if !ok {
		s.println(render.Info("Operation cancelled."))
		return nil
	}
	n := s.Contacts.Clear()
	s.println(render.Success(fmt.Sprintf("Deleted %d contacts.", n)))
	return nil
}
